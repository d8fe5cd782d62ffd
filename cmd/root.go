package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/itsmostafa/chapterfix/internal/bullets"
	"github.com/itsmostafa/chapterfix/internal/config"
	"github.com/itsmostafa/chapterfix/internal/pipeline"
	"github.com/itsmostafa/chapterfix/internal/rules"
	"github.com/itsmostafa/chapterfix/internal/version"
	"github.com/itsmostafa/chapterfix/internal/xref"
	"github.com/spf13/cobra"
)

// errFailed is returned when a batch finished but some file or check failed.
var errFailed = errors.New("one or more documents failed")

var configPath string
var verbose bool
var inputDir string
var outputDir string
var pattern string
var strict bool
var dryRun bool

var rootCmd = &cobra.Command{
	Use:   "chapterfix",
	Short: "Repair the structure of Markdown chapter documents",
	Long: `chapterfix repairs Markdown chapters converted from PDF: it renumbers
sections, rewrites cross-references, fixes bullet hierarchies, restores
dropped content and validates the result.

Supporting commands extract chapters from PDF, merge chapter parts,
render PDFs and run LLM-assisted reorganization and analysis.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("chapterfix %s\n", version.String()))

	defaultConfig := os.Getenv("CHAPTERFIX_CONFIG")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfig, "Config file (default chapterfix.yaml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print per-change detail and debug logs")
	rootCmd.PersistentFlags().StringVarP(&inputDir, "input-dir", "i", "", "Directory holding the chapter files")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for repaired files")
	rootCmd.PersistentFlags().StringVar(&pattern, "pattern", "", "Glob selecting chapter files (default chapter_*.md)")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Treat validation warnings as errors")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Compute changes without writing files")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Interrupted, exiting.")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the persistent flags the
// user set on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("input-dir") {
		cfg.InputDir = inputDir
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("pattern") {
		cfg.Pattern = pattern
	}
	if flags.Changed("strict") {
		cfg.Strict = strict
	}
	return cfg, nil
}

// newLogger writes text logs to stderr, at debug level with --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// logLevel is the level used by command-owned log files.
func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// pipelineConfig builds the batch configuration shared by the repair
// commands. Positional args replace directory discovery.
func pipelineConfig(cmd *cobra.Command, cfg *config.Config, args []string, chapters []int) (pipeline.Config, error) {
	if err := cfg.Validate(); err != nil {
		return pipeline.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	mode, _ := xref.ParseMode(cfg.Xref.Mode)

	loaded, err := rules.Load(cfg.Rules.Files, cfg.Rules.Timeout)
	if err != nil {
		return pipeline.Config{}, err
	}

	return pipeline.Config{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Pattern:   cfg.Pattern,
		Files:     args,
		Chapters:  chapters,
		DryRun:    dryRun,
		Verbose:   verbose,
		Strict:    cfg.Strict,
		Bullets: bullets.Options{
			SpacesPerLevel: cfg.Bullets.SpacesPerLevel,
			Markers:        cfg.Bullets.Markers,
			MaxDepth:       cfg.Bullets.MaxDepth,
			BaseIndent:     cfg.Bullets.InputIndent,
		},
		XrefMode: mode,
		Checkers: rules.Checkers(loaded),
		Output:   cmd.OutOrStdout(),
		Logger:   newLogger(),
	}, nil
}

// finish maps a batch outcome to the command's exit status.
func finish(res *pipeline.Run, err error) error {
	if err != nil {
		return err
	}
	if !res.OK() {
		return errFailed
	}
	return nil
}
