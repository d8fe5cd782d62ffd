package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/document"
	"github.com/itsmostafa/chapterfix/internal/render"
	"github.com/spf13/cobra"
)

var renderEngine string
var renderNoTOC bool
var renderPreview bool
var renderStyle string

var renderCmd = &cobra.Command{
	Use:   "render [files...]",
	Short: "Render chapters to PDF",
	Long: `Render each chapter to <output-dir>/<name>.pdf. Text is first made safe
for the renderer: unicode symbols are folded or replaced, and headings and
lists deeper than four levels are capped.

The pandoc engine shells out to pandoc with the configured PDF engine; the
native engine draws the PDF in process. --preview prints the chapter to the
terminal instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("engine") {
			cfg.Render.Engine = renderEngine
		}
		if renderNoTOC {
			cfg.Render.TOC = false
		}

		files := args
		if len(files) == 0 {
			files, err = document.Discover(cfg.InputDir, cfg.Pattern)
			if err != nil {
				return err
			}
		}
		w := cmd.OutOrStdout()

		if renderPreview {
			for _, path := range files {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				out, err := render.Terminal(render.Preprocess(string(data)), renderStyle, 100)
				if err != nil {
					return err
				}
				fmt.Fprint(w, out)
			}
			return nil
		}

		r, err := render.New(cfg, newLogger())
		if err != nil {
			return err
		}
		if !dryRun {
			if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}
		failed := 0
		for _, path := range files {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".pdf"
			out := filepath.Join(cfg.OutputDir, name)
			if dryRun {
				fmt.Fprintf(w, "%s -> %s (%s, dry run)\n", filepath.Base(path), out, r.Name())
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			if err := r.Render(cmd.Context(), string(data), out); err != nil {
				failed++
				fmt.Fprintf(w, "✗ %s: %v\n", filepath.Base(path), err)
				continue
			}
			fmt.Fprintf(w, "✓ %s -> %s\n", filepath.Base(path), out)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed to render", failed, len(files))
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderEngine, "engine", "pandoc", "Renderer to use (pandoc, native)")
	renderCmd.Flags().BoolVar(&renderNoTOC, "no-toc", false, "Omit the table of contents")
	renderCmd.Flags().BoolVar(&renderPreview, "preview", false, "Print the chapter to the terminal instead of writing a PDF")
	renderCmd.Flags().StringVar(&renderStyle, "style", "auto", "Terminal preview style (auto, dark, light, notty)")

	rootCmd.AddCommand(renderCmd)
}
