package cmd

import (
	"github.com/itsmostafa/chapterfix/internal/pipeline"
	"github.com/spf13/cobra"
)

var numberChapters []int
var numberXref string

var numberCmd = &cobra.Command{
	Use:   "number [files...]",
	Short: "Renumber section headers and rewrite cross-references",
	Long: `Renumber every header hierarchically (1, 1.1, 1.1.1) starting at the
first header of each file, then rewrite references to the old numbers.

Files are taken from the arguments, or discovered in --input-dir with
--pattern. Without --output-dir files are rewritten in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("xref") {
			cfg.Xref.Mode = numberXref
		}
		pc, err := pipelineConfig(cmd, cfg, args, numberChapters)
		if err != nil {
			return err
		}
		return finish(pipeline.NumberFiles(cmd.Context(), pc))
	},
}

func init() {
	numberCmd.Flags().IntSliceVar(&numberChapters, "chapter", nil, "Only process these chapter numbers")
	numberCmd.Flags().StringVar(&numberXref, "xref", "compat", "Cross-reference rewrite mode (compat, strict)")

	rootCmd.AddCommand(numberCmd)
}
