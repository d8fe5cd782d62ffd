package cmd

import (
	"fmt"

	"github.com/itsmostafa/chapterfix/internal/content"
	"github.com/spf13/cobra"
)

var restoreTarget string
var restoreOutput string
var restoreReport string

var restoreCmd = &cobra.Command{
	Use:   "restore <part-files...> --target <merged.md>",
	Short: "Append source content missing from a merged chapter",
	Long: `Compare the parts with the target like compare, then append every
missing block under a "Restored Content" heading for manual placement.
The target is rewritten in place unless --output is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analysis, doc, err := analyzeParts(args, restoreTarget, "")
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if analysis.Complete() {
			fmt.Fprintf(w, "%s is complete, nothing to restore\n", doc.Name())
			return nil
		}

		doc.Lines = content.Restore(doc.Lines, analysis.Missing)
		out := restoreOutput
		if out == "" {
			out = doc.Path
		}
		if dryRun {
			fmt.Fprintf(w, "Would restore %d blocks to %s\n", len(analysis.Missing), out)
			return nil
		}
		if err := doc.Save(out); err != nil {
			return err
		}
		fmt.Fprintf(w, "Restored %d blocks to %s\n", len(analysis.Missing), out)
		if restoreReport != "" {
			return emit(cmd, restoreReport, analysis.Report())
		}
		return nil
	},
}

func init() {
	restoreCmd.Flags().StringVarP(&restoreTarget, "target", "t", "", "Merged chapter to restore into")
	restoreCmd.Flags().StringVar(&restoreOutput, "output", "", "Write the restored chapter here instead of in place")
	restoreCmd.Flags().StringVar(&restoreReport, "report", "", "Write the content analysis report to this path")
	_ = restoreCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(restoreCmd)
}
