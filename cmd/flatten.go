package cmd

import (
	"fmt"

	"github.com/itsmostafa/chapterfix/internal/document"
	"github.com/itsmostafa/chapterfix/internal/numbering"
	"github.com/spf13/cobra"
)

var flattenMaxLevel int

var flattenCmd = &cobra.Command{
	Use:   "flatten [files...]",
	Short: "Cap heading depth",
	Long:  `Rewrite every header deeper than --max-level to that level.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return transformFiles(cmd, args, func(doc *document.Document) (string, error) {
			lines, n := numbering.FlattenHeadings(doc.Lines, flattenMaxLevel)
			doc.Lines = lines
			return fmt.Sprintf("flattened %d headers", n), nil
		})
	},
}

func init() {
	flattenCmd.Flags().IntVar(&flattenMaxLevel, "max-level", numbering.DefaultMaxHeadingLevel, "Deepest heading level kept")

	rootCmd.AddCommand(flattenCmd)
}
