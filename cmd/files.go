package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/itsmostafa/chapterfix/internal/document"
	"github.com/itsmostafa/chapterfix/internal/pipeline"
	"github.com/spf13/cobra"
)

// emit writes content to path, or to the command output when path is empty.
func emit(cmd *cobra.Command, path, content string) error {
	if path == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// transformFunc edits doc in place and returns a one-line summary.
type transformFunc func(doc *document.Document) (string, error)

// transformFiles applies fn to every input file and saves each result to
// the output directory, or in place when it is empty. A file that cannot be
// read, transformed or written is reported and skipped; the batch then
// finishes with errFailed.
func transformFiles(cmd *cobra.Command, args []string, fn transformFunc) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	files := args
	if len(files) == 0 {
		files, err = document.Discover(cfg.InputDir, cfg.Pattern)
		if err != nil {
			return err
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("%w for %q in %s", pipeline.ErrNoFiles, cfg.Pattern, cfg.InputDir)
	}

	w := cmd.OutOrStdout()
	failed := 0
	for _, path := range files {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		summary, out, err := transformFile(path, cfg.OutputDir, fn)
		if err != nil {
			failed++
			fmt.Fprintf(w, "✗ %s: %v\n", filepath.Base(path), err)
			continue
		}
		if out == "" {
			fmt.Fprintf(w, "%s: %s (dry run)\n", filepath.Base(path), summary)
			continue
		}
		fmt.Fprintf(w, "%s: %s -> %s\n", filepath.Base(path), summary, out)
	}
	if failed > 0 {
		fmt.Fprintf(w, "%d of %d files failed\n", failed, len(files))
		return errFailed
	}
	return nil
}

// transformFile runs fn on one file and returns the summary and the path
// written, "" on a dry run.
func transformFile(path, outputDir string, fn transformFunc) (string, string, error) {
	doc, err := document.Load(path)
	if err != nil {
		return "", "", err
	}
	summary, err := fn(doc)
	if err != nil {
		return "", "", err
	}
	if dryRun {
		return summary, "", nil
	}
	out := path
	if outputDir != "" {
		out = filepath.Join(outputDir, filepath.Base(path))
	}
	if err := doc.Save(out); err != nil {
		return "", "", err
	}
	return summary, out, nil
}
