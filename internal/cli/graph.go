package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pbitools/semgraph/internal/registry"
	"github.com/pbitools/semgraph/pkg/model"
	"github.com/pbitools/semgraph/pkg/tmdl"
)

// newGraphCommand creates the graph command.
func newGraphCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "graph <model>",
		Short: "Print a model's relationship graph as JSON",
		Long: `Print the full relationship graph of one model: every table with its
fact/dimension role and every relationship with cardinality, cross-filter
behavior and active state. The output is plain data for external renderers.`,
		Example: `  # Dump the Sales model graph
  semgraph graph Sales

  # Pipe into jq for the fact tables only
  semgraph graph Sales | jq '.tables[] | select(.role == "fact")'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args[0])
		},
	}
}

func runGraph(cmd *cobra.Command, name string) error {
	reg, err := loadRegistry(cmd.Context())
	if err != nil {
		return err
	}
	g, err := getModel(reg, name)
	if err != nil {
		return err
	}

	payload := struct {
		Name          string               `json:"name"`
		Empty         bool                 `json:"empty"`
		Stats         model.Stats          `json:"stats"`
		Tables        []*model.Table       `json:"tables"`
		Relationships []*tmdl.Relationship `json:"relationships"`
	}{
		Name:          g.Name(),
		Empty:         g.IsEmpty(),
		Stats:         g.Stats(),
		Tables:        g.Tables(),
		Relationships: g.Relationships(),
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// getModel resolves a model name, attaching a did-you-mean hint on miss.
func getModel(reg *registry.Registry, name string) (*model.Graph, error) {
	g, ok := reg.Get(name)
	if ok {
		return g, nil
	}
	if suggestion, found := reg.Suggest(name); found {
		return nil, fmt.Errorf("model not found: %s (did you mean %q?)", name, suggestion)
	}
	return nil, fmt.Errorf("model not found: %s", name)
}
