package llm

import (
	"context"
	"strings"
)

const (
	fallbackPrefix   = "[Fallback summary] "
	fallbackMaxChars = 400
)

// Extractive is a local Generator that returns the first paragraph of the
// request source. It needs no network access and reports zero tokens.
type Extractive struct{}

// Model returns "extractive".
func (Extractive) Model() string {
	return "extractive"
}

// Generate summarizes req.Source, or req.Prompt when Source is empty.
func (Extractive) Generate(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	text := req.Source
	if text == "" {
		text = req.Prompt
	}
	return Response{Text: Summarize(text)}, nil
}

// Summarize drops header lines and returns the first paragraph, cut at 400
// characters.
func Summarize(content string) string {
	var kept []string
	for _, l := range strings.Split(content, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(l), "#") {
			kept = append(kept, l)
		}
	}
	text := strings.TrimSpace(strings.Join(kept, "\n"))
	if text == "" {
		return "Empty section - no content to summarize."
	}

	var first string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			first = p
			break
		}
	}
	if first == "" {
		return "Section contains only whitespace or formatting."
	}
	if r := []rune(first); len(r) > fallbackMaxChars {
		first = string(r[:fallbackMaxChars]) + "..."
	}
	return fallbackPrefix + first
}
