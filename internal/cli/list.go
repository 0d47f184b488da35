package cli

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pbitools/semgraph/pkg/model"
)

// newListCommand creates the list command.
func newListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all discovered semantic models",
		Example: `  # List models under the current directory
  semgraph list

  # List models under a specific root, as JSON
  semgraph list --search-path ./reports --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func runList(cmd *cobra.Command, asJSON bool) error {
	reg, err := loadRegistry(cmd.Context())
	if err != nil {
		return err
	}

	type row struct {
		Name  string      `json:"name"`
		Empty bool        `json:"empty"`
		Stats model.Stats `json:"stats"`
	}
	rows := make([]row, 0, reg.Count())
	for _, name := range reg.Names() {
		g, _ := reg.Get(name)
		rows = append(rows, row{Name: name, Empty: g.IsEmpty(), Stats: g.Stats()})
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Model", "Tables", "Relationships", "Facts", "Dimensions"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Name, r.Stats.Tables, r.Stats.Relationships, r.Stats.Facts, r.Stats.Dimensions})
	}
	t.Render()
	return nil
}
