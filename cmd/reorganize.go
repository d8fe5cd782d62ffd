package cmd

import (
	"fmt"

	"github.com/itsmostafa/chapterfix/internal/llm"
	"github.com/itsmostafa/chapterfix/internal/reorganize"
	"github.com/spf13/cobra"
)

var reorgPlan string
var reorgSections string
var reorgOutput string
var reorgModel string
var reorgProvider string
var reorgWorkers int
var reorgRPM int

var reorganizeCmd = &cobra.Command{
	Use:   "reorganize <chapter.md> --plan <plan.md> --sections \"5.1:Intro,5.2:Principles\"",
	Short: "Rebuild a chapter section by section from an outline plan with an LLM",
	Long: `Generate every target section in parallel from the full original chapter
and the outline plan, then join them in order. Sections whose request
fails are reported as MISSING; the rest are still written.

The run log goes to <output>.log as well as the terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("provider") {
			cfg.LLM.Provider = reorgProvider
		}
		if flags.Changed("model") {
			cfg.LLM.Model = reorgModel
		}
		if flags.Changed("workers") {
			cfg.LLM.MaxWorkers = reorgWorkers
		}
		if flags.Changed("rpm") {
			cfg.LLM.RequestsPerMinute = reorgRPM
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		sections, err := reorganize.ParseSections(reorgSections)
		if err != nil {
			return err
		}
		gen, err := llm.New(cmd.Context(), cfg, cfg.LLM.Model)
		if err != nil {
			return err
		}

		logger, closeLog, err := reorganize.OpenLog(reorgOutput, cmd.OutOrStdout(), logLevel())
		if err != nil {
			return err
		}
		defer closeLog()

		res, err := reorganize.RunFiles(cmd.Context(), gen, reorganize.Files{
			Input:  args[0],
			Plan:   reorgPlan,
			Output: reorgOutput,
		}, reorganize.Job{
			Sections:          sections,
			Temperature:       cfg.LLM.Temperature,
			MaxOutputTokens:   cfg.LLM.MaxOutputTokens,
			Workers:           cfg.LLM.MaxWorkers,
			RequestsPerMinute: cfg.LLM.RequestsPerMinute,
			MaxRetries:        reorganize.DefaultMaxRetries,
			Logger:            logger,
		})
		if err != nil {
			return err
		}
		res.WriteSummary(cmd.OutOrStdout())
		if missing := res.Missing(); len(missing) > 0 {
			return fmt.Errorf("%d of %d sections missing", len(missing), len(sections))
		}
		return nil
	},
}

func init() {
	reorganizeCmd.Flags().StringVarP(&reorgPlan, "plan", "p", "", "Outline plan describing the new structure")
	reorganizeCmd.Flags().StringVarP(&reorgSections, "sections", "s", "", "Target sections as \"number:title\" pairs, comma separated")
	reorganizeCmd.Flags().StringVar(&reorgOutput, "output", "reorganized.md", "Output Markdown path")
	reorganizeCmd.Flags().StringVar(&reorgProvider, "provider", "gemini", "LLM provider (gemini, anthropic, openai, extractive)")
	reorganizeCmd.Flags().StringVar(&reorgModel, "model", "gemini-2.5-pro", "Model name")
	reorganizeCmd.Flags().IntVar(&reorgWorkers, "workers", reorganize.DefaultWorkers, "Sections generated in parallel")
	reorganizeCmd.Flags().IntVar(&reorgRPM, "rpm", 0, "Requests per minute limit (0 = unlimited)")
	_ = reorganizeCmd.MarkFlagRequired("plan")
	_ = reorganizeCmd.MarkFlagRequired("sections")

	rootCmd.AddCommand(reorganizeCmd)
}
