package cmd

import (
	"path/filepath"

	"github.com/itsmostafa/chapterfix/internal/pipeline"
	"github.com/spf13/cobra"
)

var validateChapters []int
var validateSourceDir string
var validateReport string

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check section numbering, bullets and content completeness",
	Long: `Validate chapter files without modifying them. With --source-dir each
file is also compared with the file of the same name there to catch
dropped content.

Exits with status 1 when any document fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		pc, err := pipelineConfig(cmd, cfg, args, validateChapters)
		if err != nil {
			return err
		}
		pc.OutputDir = ""
		pc.SourceDir = validateSourceDir
		pc.ReportPath = validateReport
		if pc.ReportPath == "" && cmd.Flags().Changed("output-dir") {
			pc.ReportPath = filepath.Join(cfg.OutputDir, pipeline.ValidationReportName)
		}
		return finish(pipeline.ValidateFiles(cmd.Context(), pc))
	},
}

func init() {
	validateCmd.Flags().IntSliceVar(&validateChapters, "chapter", nil, "Only check these chapter numbers")
	validateCmd.Flags().StringVar(&validateSourceDir, "source-dir", "", "Directory of pre-repair files for the completeness check")
	validateCmd.Flags().StringVar(&validateReport, "report", "", "Write the Markdown validation report to this path")

	rootCmd.AddCommand(validateCmd)
}
