package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/itsmostafa/chapterfix/internal/pipeline"
	"github.com/itsmostafa/chapterfix/internal/render"
	"github.com/spf13/cobra"
)

var repairChapters []int
var repairMaxDepth int
var repairBaseIndent int
var repairPreview bool

var repairCmd = &cobra.Command{
	Use:   "repair [files...]",
	Short: "Run the full repair pipeline",
	Long: `Renumber sections, rewrite cross-references, repair bullet lists and
validate each result against its original. Repaired files, the
validation report and the repair report are written to --output-dir.

Exits with status 1 when any file or check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyBulletFlags(cmd, cfg, repairMaxDepth, repairBaseIndent)
		pc, err := pipelineConfig(cmd, cfg, args, repairChapters)
		if err != nil {
			return err
		}

		res, err := pipeline.RepairAll(cmd.Context(), pc)
		if err == nil && repairPreview && !pc.DryRun {
			if perr := previewReport(cmd, reportDir(pc)); perr != nil {
				return perr
			}
		}
		return finish(res, err)
	},
}

func init() {
	repairCmd.Flags().IntSliceVar(&repairChapters, "chapter", nil, "Only process these chapter numbers")
	repairCmd.Flags().IntVar(&repairMaxDepth, "max-depth", 4, "Deepest list level kept (0 = unlimited, capped at 6)")
	repairCmd.Flags().IntVar(&repairBaseIndent, "base-indent", 2, "Output spaces per list level")
	repairCmd.Flags().BoolVar(&repairPreview, "preview", false, "Render the repair report in the terminal when done")

	rootCmd.AddCommand(repairCmd)
}

func reportDir(pc pipeline.Config) string {
	if pc.OutputDir != "" {
		return pc.OutputDir
	}
	return pc.InputDir
}

// previewReport renders REPAIR_REPORT.md from dir with glamour.
func previewReport(cmd *cobra.Command, dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, pipeline.RepairReportName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}
	out, err := render.Terminal(string(data), "auto", 100)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
