// Package model builds per-model relationship graphs from parsed TMDL
// relationships and classifies each table as fact-like or dimension-like.
package model

import (
	"sort"

	"github.com/pbitools/semgraph/pkg/tmdl"
)

// Role is the heuristic classification of a table. It is derived purely from
// relationship topology (no row counts or usage metadata exist at this
// layer), so treat it as a display hint, not model metadata.
type Role string

const (
	RoleFact      Role = "fact"
	RoleDimension Role = "dimension"
)

// Table is a node in the graph, identified by name. Tables are defined
// implicitly by appearing on either end of a relationship; there is no
// separate table-declaration input.
type Table struct {
	Name string `json:"name"`
	Role Role   `json:"role"`

	// Outgoing counts relationships where the table is on the many side
	// (fromTable); Incoming counts the one side (toTable).
	Outgoing int `json:"outgoing"`
	Incoming int `json:"incoming"`
}

// Stats summarizes a graph for listings and status lines.
type Stats struct {
	Tables        int `json:"tables"`
	Relationships int `json:"relationships"`
	Facts         int `json:"facts"`
	Dimensions    int `json:"dimensions"`
}

// Graph owns the tables and relationships of one semantic model. It is built
// once and immutable afterwards; rebuilding means re-parsing and constructing
// a fresh Graph, never mutating in place. Immutability makes concurrent reads
// from multiple callers safe without locking.
type Graph struct {
	name   string
	tables map[string]*Table
	rels   []*tmdl.Relationship
	byID   map[string]*tmdl.Relationship
}

// Build assembles parsed relationships into a Graph. The table set is the
// union of all fromTable/toTable values seen. Parallel relationships between
// the same table pair are kept as distinct edges: distinct column pairs are
// operationally different joins. An empty relationship slice is legal and
// yields an empty graph (see IsEmpty).
func Build(name string, rels []*tmdl.Relationship) *Graph {
	g := &Graph{
		name:   name,
		tables: make(map[string]*Table),
		rels:   make([]*tmdl.Relationship, 0, len(rels)),
		byID:   make(map[string]*tmdl.Relationship, len(rels)),
	}

	for _, rel := range rels {
		if rel == nil {
			continue
		}
		g.rels = append(g.rels, rel)
		g.byID[rel.ID] = rel

		g.table(rel.FromTable).Outgoing++
		g.table(rel.ToTable).Incoming++
	}

	// Classify after all edges are counted so the result is independent of
	// relationship order. A table on the many side more often than the one
	// side is fact-like; ties stay dimension-like.
	for _, t := range g.tables {
		if t.Outgoing > t.Incoming {
			t.Role = RoleFact
		} else {
			t.Role = RoleDimension
		}
	}
	return g
}

func (g *Graph) table(name string) *Table {
	t, ok := g.tables[name]
	if !ok {
		t = &Table{Name: name, Role: RoleDimension}
		g.tables[name] = t
	}
	return t
}

// Name returns the model name the graph was built for.
func (g *Graph) Name() string { return g.name }

// Table returns the named table, if present.
func (g *Graph) Table(name string) (*Table, bool) {
	t, ok := g.tables[name]
	return t, ok
}

// HasTable reports whether the named table appears in the graph.
func (g *Graph) HasTable(name string) bool {
	_, ok := g.tables[name]
	return ok
}

// Tables returns all tables sorted by name for deterministic output.
func (g *Graph) Tables() []*Table {
	tables := make([]*Table, 0, len(g.tables))
	for _, t := range g.tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables
}

// TableNames returns all table names, sorted.
func (g *Graph) TableNames() []string {
	names := make([]string, 0, len(g.tables))
	for name := range g.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Relationships returns the relationships in declaration order.
func (g *Graph) Relationships() []*tmdl.Relationship {
	return g.rels
}

// Relationship returns the relationship with the given identifier.
func (g *Graph) Relationship(id string) (*tmdl.Relationship, bool) {
	rel, ok := g.byID[id]
	return rel, ok
}

// TableCount returns the number of tables in the graph.
func (g *Graph) TableCount() int { return len(g.tables) }

// RelationshipCount returns the number of relationships in the graph.
func (g *Graph) RelationshipCount() int { return len(g.rels) }

// IsEmpty reports whether the graph holds no relationships. An empty model
// (for example a single-table model) is a valid state that renders as
// "0 tables, 0 relationships", never an error.
func (g *Graph) IsEmpty() bool { return len(g.rels) == 0 }

// Stats computes summary counts for the graph.
func (g *Graph) Stats() Stats {
	s := Stats{Tables: len(g.tables), Relationships: len(g.rels)}
	for _, t := range g.tables {
		if t.Role == RoleFact {
			s.Facts++
		} else {
			s.Dimensions++
		}
	}
	return s
}
