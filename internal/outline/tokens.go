package outline

import (
	"strings"
	"unicode"
)

// CountTokens provides a simple token count approximation.
// Most tokenizers produce ~1.3 tokens per word; punctuation adds a little.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}

	wordCount := len(strings.Fields(text))

	punctCount := 0
	for _, r := range text {
		if unicode.IsPunct(r) {
			punctCount++
		}
	}

	return int(float64(wordCount)*1.3) + punctCount/2
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// SplitByTokens splits text into chunks of approximately maxTokens each,
// breaking on paragraphs first and sentences when a paragraph is too large.
func SplitByTokens(text string, maxTokens int) []string {
	if maxTokens <= 0 || CountTokens(text) <= maxTokens {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
			currentTokens = 0
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		paraTokens := CountTokens(para)
		if currentTokens+paraTokens > maxTokens {
			flush()
		}

		if paraTokens > maxTokens {
			for _, sent := range splitIntoSentences(para) {
				sentTokens := CountTokens(sent)
				if currentTokens+sentTokens > maxTokens {
					flush()
				}
				if current.Len() > 0 {
					current.WriteString(" ")
				}
				current.WriteString(sent)
				currentTokens += sentTokens
			}
			continue
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}
	flush()
	return chunks
}

func splitIntoSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
