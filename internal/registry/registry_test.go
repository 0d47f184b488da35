package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbitools/semgraph/pkg/model"
	"github.com/pbitools/semgraph/pkg/tmdl"
)

func graph(name string) *model.Graph {
	return model.Build(name, []*tmdl.Relationship{{
		ID: "r1", FromTable: "Sales", FromColumn: "Key", ToTable: "Product", ToColumn: "Key",
		FromCardinality: tmdl.CardinalityMany, ToCardinality: tmdl.CardinalityOne,
		CrossFiltering: tmdl.OneDirection, IsActive: true,
	}})
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Count())

	g := graph("Contoso Sales")
	r.Register(g)

	got, ok := r.Get("Contoso Sales")
	require.True(t, ok)
	assert.Same(t, g, got)

	_, ok = r.Get("Unknown")
	assert.False(t, ok)
}

func TestRegistry_RegisterReplacesByName(t *testing.T) {
	r := New()
	first := graph("Sales")
	second := graph("Sales")

	r.Register(first)
	r.Register(second)

	assert.Equal(t, 1, r.Count())
	got, _ := r.Get("Sales")
	assert.Same(t, second, got)
}

func TestRegistry_Names(t *testing.T) {
	r := New()
	r.Register(graph("Inventory"))
	r.Register(graph("Sales"))
	r.Register(graph("Finance"))

	assert.Equal(t, []string{"Finance", "Inventory", "Sales"}, r.Names())
}

func TestRegistry_ReplaceAll(t *testing.T) {
	r := New()
	r.Register(graph("Old"))

	r.ReplaceAll([]*model.Graph{graph("New A"), graph("New B")})

	assert.Equal(t, []string{"New A", "New B"}, r.Names())
	_, ok := r.Get("Old")
	assert.False(t, ok)
}

func TestRegistry_Suggest(t *testing.T) {
	r := New()
	r.Register(graph("Contoso Sales"))
	r.Register(graph("Inventory"))

	suggestion, ok := r.Suggest("Contoso Sale")
	require.True(t, ok)
	assert.Equal(t, "Contoso Sales", suggestion)

	_, ok = r.Suggest("CompletelyDifferent")
	assert.False(t, ok)
}

func TestClosest(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		candidates []string
		want       string
		wantFound  bool
	}{
		{"near miss", "Prodct", []string{"Product", "Customer"}, "Product", true},
		{"exact", "Product", []string{"Product"}, "Product", true},
		{"too far", "Zebra", []string{"Product", "Customer"}, "", false},
		{"no candidates", "Product", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Closest(tt.input, tt.candidates)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}
}
