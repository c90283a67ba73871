package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/Zuo-Peng/ai-session-export/internal/config"
)

var version = "dev"

// logger is shared by all commands; diagnostics only, user-facing
// output goes to stderr directly.
var logger = zap.NewNop()

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "aise",
		Short:   "AI Session Exporter - archive Claude Code conversations as Markdown",
		Version: version,
		Long: `aise converts Claude Code JSONL transcripts into Markdown documents
organized by date under an archive root, with a global index.md.

Run with no arguments and a JSON payload on stdin to act as a
SessionEnd hook, or use the export command for a specific transcript.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err = newLogger(verbose, cfg.LogFile)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// hook mode when invoked bare with piped stdin
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return runHook(os.Stdin)
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug-level diagnostics")

	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(hookCmd())
	rootCmd.AddCommand(rebuildCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(verbose bool, logFile string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if logFile != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, logFile)
	}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
