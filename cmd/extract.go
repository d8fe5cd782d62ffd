package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/document"
	"github.com/itsmostafa/chapterfix/internal/pdfx"
	"github.com/spf13/cobra"
)

// extractMetadataName is the JSON file written next to the chapters.
const extractMetadataName = "chapters.json"

var extractFirst int
var extractLast int
var extractFooters []string
var extractList bool

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Split a PDF into chapter Markdown files",
	Long: `Read the PDF page text, find "CHAPTER n" or "Section n" markers at the
top of pages, and write each chapter as cleaned Markdown to --output-dir
together with chapters.json describing pages and detected headings.

Text is read with the Go PDF reader, falling back to pdftotext.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		w := cmd.OutOrStdout()
		ex := pdfx.NewExtractor(newLogger())

		total, err := ex.PageCount(ctx, args[0])
		if err != nil {
			return err
		}
		pages, err := ex.ExtractPages(ctx, args[0], extractFirst, extractLast)
		if err != nil {
			return err
		}
		chapters := pdfx.FindChapters(pages)
		if len(chapters) == 0 {
			return errors.New("no chapter markers found")
		}
		names := pdfx.FileNames(chapters)
		fmt.Fprintf(w, "%s: %d pages, %d chapters\n", filepath.Base(args[0]), total, len(chapters))

		if extractList {
			for i, c := range chapters {
				end := "end"
				if c.EndPage >= 0 {
					end = fmt.Sprintf("%d", c.EndPage+1)
				}
				fmt.Fprintf(w, "  %-22s pages %d-%s  %s\n", names[i], c.StartPage+1, end, c.Marker)
			}
			return nil
		}

		metadata := make([]pdfx.ChapterData, 0, len(chapters))
		for i, c := range chapters {
			if err := ctx.Err(); err != nil {
				return err
			}
			data := pdfx.Extract(c, pages, extractFooters)
			lines, st := data.ToMarkdown(c, extractFooters)
			metadata = append(metadata, data)

			out := filepath.Join(cfg.OutputDir, names[i])
			fmt.Fprintf(w, "  %s: %d pages, %d headings, %d list items\n", names[i], data.PageCount, st.Headings, st.ListItems)
			if dryRun {
				continue
			}
			doc := document.New(out, "")
			doc.Lines = lines
			if err := doc.Save(out); err != nil {
				return err
			}
		}
		if dryRun {
			return nil
		}

		var b strings.Builder
		if err := pdfx.WriteJSON(&b, metadata); err != nil {
			return err
		}
		path := filepath.Join(cfg.OutputDir, extractMetadataName)
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(w, "Wrote %d chapters and %s to %s\n", len(chapters), extractMetadataName, cfg.OutputDir)
		return nil
	},
}

func init() {
	extractCmd.Flags().IntVar(&extractFirst, "first", 0, "First page to read (0-based)")
	extractCmd.Flags().IntVar(&extractLast, "last", -1, "Last page to read (0-based, -1 = final page)")
	extractCmd.Flags().StringSliceVar(&extractFooters, "footer", nil, "Substring marking running footer lines to drop")
	extractCmd.Flags().BoolVar(&extractList, "list", false, "Only list the chapters found")

	rootCmd.AddCommand(extractCmd)
}
