package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/content"
	"github.com/itsmostafa/chapterfix/internal/document"
	"github.com/spf13/cobra"
)

var compareTarget string
var compareReport string
var compareTitle string

var compareCmd = &cobra.Command{
	Use:   "compare <part-files...> --target <merged.md>",
	Short: "Report source content missing from a merged chapter",
	Long: `Split each source part and the target into content blocks, merge the
parts first-seen-wins, and list every source block the target lacks.
The Markdown report goes to --report, or stdout when unset.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analysis, _, err := analyzeParts(args, compareTarget, compareTitle)
		if err != nil {
			return err
		}
		if err := emit(cmd, compareReport, analysis.Report()); err != nil {
			return err
		}
		if !analysis.Complete() {
			return fmt.Errorf("%d source blocks missing from %s", len(analysis.Missing), compareTarget)
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVarP(&compareTarget, "target", "t", "", "Merged chapter to check")
	compareCmd.Flags().StringVar(&compareReport, "report", "", "Write the report to this path")
	compareCmd.Flags().StringVar(&compareTitle, "title", "", "Report title")
	_ = compareCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(compareCmd)
}

// analyzeParts loads the parts and the target and compares them.
func analyzeParts(parts []string, target, title string) (*content.Analysis, *document.Document, error) {
	var loaded []content.Part
	for _, p := range parts {
		doc, err := document.Load(p)
		if err != nil {
			return nil, nil, err
		}
		loaded = append(loaded, content.Part{Name: partName(p), Lines: doc.Lines})
	}
	doc, err := document.Load(target)
	if err != nil {
		return nil, nil, err
	}
	if title == "" {
		title = "Content Analysis: " + doc.Name()
	}
	return content.Analyze(title, loaded, doc.Lines), doc, nil
}

func partName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
