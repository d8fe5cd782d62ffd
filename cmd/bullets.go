package cmd

import (
	"github.com/itsmostafa/chapterfix/internal/config"
	"github.com/itsmostafa/chapterfix/internal/pipeline"
	"github.com/spf13/cobra"
)

var bulletsChapters []int
var bulletsMaxDepth int
var bulletsBaseIndent int

var bulletsCmd = &cobra.Command{
	Use:   "bullets [files...]",
	Short: "Repair bullet list indentation, markers and depth",
	Long: `Detect every bullet list block, infer its indent unit, and rewrite it
with consistent indentation, rotating markers and a depth limit. Lines
outside list blocks are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyBulletFlags(cmd, cfg, bulletsMaxDepth, bulletsBaseIndent)
		pc, err := pipelineConfig(cmd, cfg, args, bulletsChapters)
		if err != nil {
			return err
		}
		return finish(pipeline.RepairBulletFiles(cmd.Context(), pc))
	},
}

func init() {
	bulletsCmd.Flags().IntSliceVar(&bulletsChapters, "chapter", nil, "Only process these chapter numbers")
	bulletsCmd.Flags().IntVar(&bulletsMaxDepth, "max-depth", 4, "Deepest list level kept (0 = unlimited, capped at 6)")
	bulletsCmd.Flags().IntVar(&bulletsBaseIndent, "base-indent", 2, "Output spaces per list level")

	rootCmd.AddCommand(bulletsCmd)
}

// applyBulletFlags copies --max-depth and --base-indent onto cfg when set.
// --base-indent is the output indent per level; the input unit is detected
// per list unless bullets.input_indent is configured.
func applyBulletFlags(cmd *cobra.Command, cfg *config.Config, maxDepth, baseIndent int) {
	if cmd.Flags().Changed("max-depth") {
		cfg.Bullets.MaxDepth = maxDepth
	}
	if cmd.Flags().Changed("base-indent") {
		cfg.Bullets.SpacesPerLevel = baseIndent
	}
}
