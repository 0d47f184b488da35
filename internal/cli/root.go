// Package cli provides the semgraph command-line interface. It is a thin
// host around the parsing, graph and highlight packages: discovery, flags
// and output formatting live here, semantics do not.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pbitools/semgraph/internal/config"
	"github.com/pbitools/semgraph/internal/loader"
	"github.com/pbitools/semgraph/internal/registry"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "semgraph",
		Short: "Relationship grapher for Power BI semantic models",
		Long: `semgraph scans a repository for .SemanticModel folders, parses their
TMDL relationship definitions and builds a relationship graph per model:
tables classified as fact or dimension, and filter-propagation highlights
for any selected table.

It emits data only (tables, JSON); rendering is left to external viewers.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			// cmd.Flags() holds local plus inherited persistent flags once
			// parsing is done, so subcommand flags (e.g. serve --port) layer
			// into the config too.
			var err error
			cfg, err = config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./semgraph.yaml)")
	rootCmd.PersistentFlags().String("search-path", "", "Root directory to scan for .SemanticModel folders")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newGraphCommand())
	rootCmd.AddCommand(newHighlightCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// loadRegistry runs a discovery pass over the configured search path and
// fills a registry, logging parse warnings as it goes.
func loadRegistry(ctx context.Context) (*registry.Registry, error) {
	result, err := loader.Load(ctx, cfg.SearchPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to discover models: %w", err)
	}
	for _, w := range result.Warnings {
		logger.Warn("parse warning", "model", w.Model, "line", w.Line, "error", w.Err)
	}

	reg := registry.New()
	reg.ReplaceAll(result.Graphs)
	return reg, nil
}
