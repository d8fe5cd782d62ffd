package cmd

import (
	"fmt"

	"github.com/itsmostafa/chapterfix/internal/document"
	"github.com/itsmostafa/chapterfix/internal/reformat"
	"github.com/spf13/cobra"
)

var reformatFooters []string

var reformatCmd = &cobra.Command{
	Use:   "reformat [files...]",
	Short: "Clean raw PDF-extracted chapter text into Markdown",
	Long: `Remove page markers and running footers, drop repeated chapter
headings, convert unicode bullets, turn numbered lines into headings and
normalize spacing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return transformFiles(cmd, args, func(doc *document.Document) (string, error) {
			lines, st := reformat.Chapter(doc.Lines, reformat.Options{
				Chapter:       doc.Chapter,
				FooterMarkers: reformatFooters,
			})
			doc.Lines = lines
			return fmt.Sprintf("%d headings, %d list items, %d page markers removed",
				st.Headings, st.ListItems, st.PageMarkersRemoved), nil
		})
	},
}

func init() {
	reformatCmd.Flags().StringSliceVar(&reformatFooters, "footer", nil, "Substring marking running footer lines to drop")

	rootCmd.AddCommand(reformatCmd)
}
