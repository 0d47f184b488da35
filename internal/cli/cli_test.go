package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbitools/semgraph/pkg/highlight"
)

const salesModel = `relationship r-product
	fromColumn: Sales.ProductKey
	toColumn: Product.ProductKey

relationship r-customer
	fromColumn: Sales.CustomerKey
	toColumn: Customer.CustomerKey
`

// writeModel lays out <root>/<name>.SemanticModel/definition/relationships.tmdl.
func writeModel(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, name+".SemanticModel", "definition")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "relationships.tmdl"), []byte(content), 0o644))
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListJSON(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "Sales", salesModel)
	writeModel(t, root, "Empty", "")

	out, err := run(t, "list", "--json", "--search-path", root)
	require.NoError(t, err)

	var rows []struct {
		Name  string `json:"name"`
		Empty bool   `json:"empty"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Empty", rows[0].Name)
	assert.True(t, rows[0].Empty)
	assert.Equal(t, "Sales", rows[1].Name)
}

func TestListTable(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "Sales", salesModel)

	out, err := run(t, "list", "--search-path", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Sales")
	assert.Contains(t, out, "RELATIONSHIPS")
}

func TestGraphCommand(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "Sales", salesModel)

	out, err := run(t, "graph", "Sales", "--search-path", root)
	require.NoError(t, err)

	var payload struct {
		Name   string `json:"name"`
		Tables []struct {
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "Sales", payload.Name)
	require.Len(t, payload.Tables, 3)
	assert.Equal(t, "Customer", payload.Tables[0].Name)
	assert.Equal(t, "dimension", payload.Tables[0].Role)
}

func TestGraphCommand_UnknownModelSuggests(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "Sales", salesModel)

	_, err := run(t, "graph", "Sale", "--search-path", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "Sales"`)
}

func TestHighlightCommand(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "Sales", salesModel)

	out, err := run(t, "highlight", "Sales", "Product", "--mode", "flow", "--search-path", root)
	require.NoError(t, err)

	var result highlight.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"Product", "Sales"}, result.ActiveTables)
	assert.Equal(t, []string{"Customer"}, result.DimmedTables)
}

func TestHighlightCommand_UnknownTableSuggests(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "Sales", salesModel)

	_, err := run(t, "highlight", "Sales", "Prodct", "--search-path", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "Product"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "semgraph")
}
