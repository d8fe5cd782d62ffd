package cmd

import (
	"fmt"

	"github.com/itsmostafa/chapterfix/internal/document"
	"github.com/itsmostafa/chapterfix/internal/outline"
	"github.com/spf13/cobra"
)

var tocMaxLevel int
var tocRemove bool

var tocCmd = &cobra.Command{
	Use:   "toc [files...]",
	Short: "Insert or refresh a table of contents",
	Long: `Build a nested table of contents from the numbered headings and place
it after the chapter title, replacing any existing one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return transformFiles(cmd, args, func(doc *document.Document) (string, error) {
			if tocRemove {
				lines, removed := outline.RemoveTOC(doc.Lines)
				doc.Lines = lines
				if !removed {
					return "no table of contents", nil
				}
				return "removed table of contents", nil
			}
			toc := outline.GenerateTOC(doc.Lines, tocMaxLevel)
			if toc == nil {
				return "no numbered headings", nil
			}
			doc.Lines = outline.InsertTOC(doc.Lines, toc)
			return fmt.Sprintf("table of contents with %d lines", len(toc)), nil
		})
	},
}

func init() {
	tocCmd.Flags().IntVar(&tocMaxLevel, "max-level", 3, "Deepest heading level listed")
	tocCmd.Flags().BoolVar(&tocRemove, "remove", false, "Remove an existing table of contents instead")

	rootCmd.AddCommand(tocCmd)
}
