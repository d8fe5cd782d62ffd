package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/itsmostafa/chapterfix/internal/analysis"
	"github.com/itsmostafa/chapterfix/internal/document"
	"github.com/itsmostafa/chapterfix/internal/embed"
	"github.com/itsmostafa/chapterfix/internal/llm"
	"github.com/itsmostafa/chapterfix/internal/outline"
	"github.com/spf13/cobra"
)

var analyzeOutput string
var analyzeReport string
var analyzeEmbedder string
var analyzeMinK int
var analyzeMaxK int

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Describe, summarize or cluster the sections of a chapter",
}

var analyzeSectionsCmd = &cobra.Command{
	Use:   "sections <chapter.md>",
	Short: "Write the section outline with completeness and audience metadata as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := document.Load(args[0])
		if err != nil {
			return err
		}
		idx := outline.Describe(doc.Name(), outline.ExtractSections(doc.Lines))
		var b bytes.Buffer
		if err := idx.WriteYAML(&b); err != nil {
			return err
		}
		if err := emit(cmd, analyzeOutput, b.String()); err != nil {
			return err
		}
		if analyzeOutput != "" {
			counts := idx.CompletenessCounts()
			fmt.Fprintf(cmd.OutOrStdout(), "%d sections: %d complete, %d partial, %d orphaned\n",
				idx.TotalSections, counts[outline.Complete], counts[outline.Partial], counts[outline.Orphaned])
		}
		return nil
	},
}

var analyzeSummarizeCmd = &cobra.Command{
	Use:   "summarize <chapter.md>",
	Short: "Summarize every level 2 and 3 section with an LLM as YAML",
	Long: `Ask the summary model for a short summary of each major section. Sections
whose request fails get a local extractive summary instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		doc, err := document.Load(args[0])
		if err != nil {
			return err
		}
		gen := llm.NewSummarizer(cmd.Context(), cfg)
		sums, err := analysis.Summarize(cmd.Context(), gen, doc.Name(), outline.ExtractSections(doc.Lines), analysis.SummarizeOptions{
			RequestsPerMinute: cfg.LLM.RequestsPerMinute,
			Logger:            newLogger(),
		})
		if err != nil {
			return err
		}
		var b bytes.Buffer
		if err := sums.WriteYAML(&b); err != nil {
			return err
		}
		return emit(cmd, analyzeOutput, b.String())
	},
}

var analyzeCoherenceCmd = &cobra.Command{
	Use:   "coherence <chapter.md>",
	Short: "Cluster section embeddings and report topic coherence",
	Long: `Embed the body of every level 2 and 3 section, cluster them choosing the
cluster count by silhouette score, and report per-cluster coherence and
outliers. The JSON result goes to --output and the Markdown report to
--report (default: both next to the chapter).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("embedder") {
			cfg.Embed.Provider = analyzeEmbedder
		}
		doc, err := document.Load(args[0])
		if err != nil {
			return err
		}
		emb, err := embed.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		res, err := analysis.Run(cmd.Context(), emb, doc.Name(), doc.Lines, analysis.Options{
			MinK:   analyzeMinK,
			MaxK:   analyzeMaxK,
			Logger: newLogger(),
		})
		if err != nil {
			return err
		}

		stem := strings.TrimSuffix(doc.Path, filepath.Ext(doc.Path))
		jsonPath := analyzeOutput
		if jsonPath == "" {
			jsonPath = stem + "_clusters.json"
		}
		reportPath := analyzeReport
		if reportPath == "" {
			reportPath = stem + "_coherence_report.md"
		}

		var b bytes.Buffer
		if err := res.WriteJSON(&b); err != nil {
			return err
		}
		if err := emit(cmd, jsonPath, b.String()); err != nil {
			return err
		}
		if err := emit(cmd, reportPath, res.Report(time.Now())); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d sections in %d clusters, average coherence %.3f (%s)\n",
			res.TotalSections, res.NumClusters, res.AverageCoherence(), analysis.OverallStatus(res.AverageCoherence()))
		return nil
	},
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeOutput, "output", "", "Write the result here (default stdout)")

	analyzeCoherenceCmd.Flags().StringVar(&analyzeReport, "report", "", "Markdown coherence report path")
	analyzeCoherenceCmd.Flags().StringVar(&analyzeEmbedder, "embedder", "gemini", "Embedding provider (gemini, tfidf)")
	analyzeCoherenceCmd.Flags().IntVar(&analyzeMinK, "min-clusters", 2, "Fewest clusters tried")
	analyzeCoherenceCmd.Flags().IntVar(&analyzeMaxK, "max-clusters", 10, "Most clusters tried")

	analyzeCmd.AddCommand(analyzeSectionsCmd, analyzeSummarizeCmd, analyzeCoherenceCmd)
	rootCmd.AddCommand(analyzeCmd)
}
