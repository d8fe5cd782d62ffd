package validate

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Checker is an additional check run after the built-in ones.
type Checker interface {
	Name() string
	Check(ctx context.Context, lines []string) ([]Issue, error)
}

// Options configures Document.
type Options struct {
	// Strict promotes every WARNING to ERROR.
	Strict bool
	// Source enables the completeness check when non-nil.
	Source []string
	// Extra checks run after the built-in ones.
	Extra []Checker
}

// Document runs every check over lines and returns the combined result.
func Document(ctx context.Context, path string, lines []string, opts Options) *Result {
	result := &Result{Path: path}

	record := func(issues []Issue) {
		if opts.Strict {
			issues = Promote(issues)
		}
		result.Record(issues)
	}

	record(SectionNumbering(lines))
	record(HeadingLevels(lines))
	record(BulletHierarchy(lines))
	record(CrossReferences(lines))
	if opts.Source != nil {
		record(Completeness(opts.Source, lines))
	}

	for _, c := range opts.Extra {
		issues, err := c.Check(ctx, lines)
		if err != nil {
			issues = append(issues, Issue{
				Check:    c.Name(),
				Severity: SeverityError,
				Message:  fmt.Sprintf("check failed: %v", err),
			})
		}
		record(issues)
	}
	return result
}

// File reads path and validates it. A read failure is reported as a
// file_read ERROR rather than returned.
func File(ctx context.Context, path, sourcePath string, opts Options) *Result {
	data, err := os.ReadFile(path)
	if err != nil {
		result := &Result{Path: path}
		result.Record([]Issue{{
			Check:    CheckFileRead,
			Severity: SeverityError,
			Message:  fmt.Sprintf("Failed to read file: %v", err),
		}})
		return result
	}

	if sourcePath != "" && opts.Source == nil {
		if src, err := os.ReadFile(sourcePath); err == nil {
			opts.Source = splitLines(string(src))
		}
	}
	return Document(ctx, path, splitLines(string(data)), opts)
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
