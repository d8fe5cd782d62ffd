package cmd

import (
	"fmt"

	"github.com/itsmostafa/chapterfix/internal/document"
	"github.com/itsmostafa/chapterfix/internal/merge"
	"github.com/spf13/cobra"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe [files...]",
	Short: "Drop repeated sections that share a section number",
	Long: `Keep the first section for every section number and remove later
repeats along with their content. Blank line runs are collapsed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return transformFiles(cmd, args, func(doc *document.Document) (string, error) {
			lines, dups := merge.Dedupe(doc.Lines)
			doc.Lines = merge.CleanStructure(lines)
			if verbose {
				for _, d := range dups {
					fmt.Fprintf(cmd.OutOrStdout(), "  line %d: removed %s %s\n", d.Line, d.Number, d.Title)
				}
			}
			return fmt.Sprintf("removed %d duplicate sections", len(dups)), nil
		})
	},
}

func init() {
	rootCmd.AddCommand(dedupeCmd)
}
