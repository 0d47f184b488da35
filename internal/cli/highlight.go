package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pbitools/semgraph/internal/registry"
	"github.com/pbitools/semgraph/pkg/highlight"
)

// newHighlightCommand creates the highlight command.
func newHighlightCommand() *cobra.Command {
	var (
		mode    string
		visible []string
	)

	cmd := &cobra.Command{
		Use:   "highlight <model> <table>",
		Short: "Compute the highlight set for a selected table",
		Long: `Compute which tables and relationships light up when a table is selected.

Modes:
  neighbors  tables directly joined to the selection (default)
  flow       tables transitively reached by filter propagation; filters flow
             from the one side to the many side, inactive relationships do
             not propagate`,
		Example: `  # Direct neighbors of the Product table
  semgraph highlight Sales Product

  # Transitive filter flow, restricted to a visible subset
  semgraph highlight Sales Product --mode flow --visible Product,Sales`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHighlight(cmd, args[0], args[1], mode, visible)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(highlight.DirectNeighbors), "Highlight mode (neighbors|flow)")
	cmd.Flags().StringSliceVar(&visible, "visible", nil, "Visible tables (default: all)")

	_ = cmd.RegisterFlagCompletionFunc("mode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(highlight.DirectNeighbors), string(highlight.FilterFlow)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runHighlight(cmd *cobra.Command, modelName, tableName, mode string, visible []string) error {
	reg, err := loadRegistry(cmd.Context())
	if err != nil {
		return err
	}
	g, err := getModel(reg, modelName)
	if err != nil {
		return err
	}

	// An unknown table is not fatal for the engine (it resets), but on the
	// CLI a typo deserves a direct answer instead of a silent reset.
	if !g.HasTable(tableName) {
		if suggestion, found := registry.Closest(tableName, g.TableNames()); found {
			return fmt.Errorf("table not found in %s: %s (did you mean %q?)", modelName, tableName, suggestion)
		}
		return fmt.Errorf("table not found in %s: %s", modelName, tableName)
	}

	result := highlight.Compute(g, highlight.Selection{
		Table:   tableName,
		Mode:    highlight.ParseMode(mode),
		Visible: visible,
	})

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
