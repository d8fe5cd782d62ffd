package cmd

import (
	"fmt"
	"time"

	"github.com/itsmostafa/chapterfix/internal/document"
	"github.com/itsmostafa/chapterfix/internal/merge"
	"github.com/spf13/cobra"
)

var mergeOutput string
var mergeReport string
var mergeTitle string

var mergeCmd = &cobra.Command{
	Use:   "merge <primary.md> <secondary.md>",
	Short: "Merge two extracted parts of a chapter section by section",
	Long: `Merge two parts of the same chapter. For each section number the
primary part wins unless its section is sparse (fewer than three content
lines) and the secondary's is not. Sections only the secondary has are
appended in numeric order, then repeated blank lines are collapsed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		primary, err := document.Load(args[0])
		if err != nil {
			return err
		}
		secondary, err := document.Load(args[1])
		if err != nil {
			return err
		}

		res := merge.MergeParts(primary.Lines, secondary.Lines)
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Merged %d + %d sections into %d (%d enriched, %d appended)\n",
			res.Primary, res.Secondary, len(res.Merged), len(res.Enriched), len(res.Appended))
		if dryRun {
			return nil
		}

		out := document.New(mergeOutput, "")
		out.Lines = res.Lines
		if err := out.Save(mergeOutput); err != nil {
			return err
		}
		if mergeReport != "" {
			title := mergeTitle
			if title == "" {
				title = "Merge Report: " + out.Name()
			}
			return emit(cmd, mergeReport, res.Report(title, time.Now().Format("2006-01-02")))
		}
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeOutput, "output", "merged.md", "Merged chapter path")
	mergeCmd.Flags().StringVar(&mergeReport, "report", "", "Write the merge report to this path")
	mergeCmd.Flags().StringVar(&mergeTitle, "title", "", "Merge report title")

	rootCmd.AddCommand(mergeCmd)
}
