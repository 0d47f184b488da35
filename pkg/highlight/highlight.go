// Package highlight computes, for a selected table in a model graph, the set
// of tables and relationships to emphasize. It is the filter-propagation
// engine: stateless, side-effect-free, and recomputed per call. The current
// selection and visibility belong to the caller (a UI or CLI), never to this
// package.
package highlight

import (
	"sort"

	"github.com/pbitools/semgraph/pkg/model"
	"github.com/pbitools/semgraph/pkg/tmdl"
)

// Mode selects how far a selection reaches.
type Mode string

const (
	// DirectNeighbors highlights the selected table and everything directly
	// joined to it by any relationship, in either direction, active or not.
	// No transitivity: it answers "what is immediately joined to this table".
	DirectNeighbors Mode = "neighbors"

	// FilterFlow highlights every table transitively reachable via active
	// filter propagation, following the semantic filter direction.
	FilterFlow Mode = "flow"
)

// ParseMode maps a user-supplied mode string to a Mode, defaulting to
// DirectNeighbors for unrecognized input.
func ParseMode(s string) Mode {
	if Mode(s) == FilterFlow {
		return FilterFlow
	}
	return DirectNeighbors
}

// Selection is one highlight request. A nil Visible slice means every table
// in the graph is visible; otherwise traversal neither expands into nor
// reports tables outside the visible set, even when topologically reachable.
type Selection struct {
	// Table is the selected table name. Empty means no selection. A name
	// that is not in the visible set (stale UI state during rapid
	// interaction) is treated the same as no selection, not as an error.
	Table   string
	Mode    Mode
	Visible []string
}

// Result is the ephemeral outcome of one highlight computation: the tables
// and relationship identifiers to draw emphasized, and the visible complement
// to dim. All slices are sorted.
type Result struct {
	ActiveTables        []string `json:"activeTables"`
	ActiveRelationships []string `json:"activeRelationships"`
	DimmedTables        []string `json:"dimmedTables"`
}

// Compute evaluates a selection against a graph. With no usable selection it
// resets: every visible table is active, every relationship between visible
// tables keeps its normal styling, and nothing is dimmed.
func Compute(g *model.Graph, sel Selection) Result {
	visible := visibleSet(g, sel.Visible)

	if sel.Table == "" || !visible[sel.Table] {
		return reset(g, visible)
	}

	var reached map[string]bool
	switch sel.Mode {
	case FilterFlow:
		reached = filterFlow(g, sel.Table, visible)
	default:
		reached = directNeighbors(g, sel.Table, visible)
	}

	var edges []string
	for _, rel := range g.Relationships() {
		if !reached[rel.FromTable] || !reached[rel.ToTable] {
			continue
		}
		switch sel.Mode {
		case FilterFlow:
			// Only edges that carry propagation: inactive relationships
			// never filter by default, so they stay unhighlighted even when
			// both their endpoints were reached through other paths.
			if rel.IsActive {
				edges = append(edges, rel.ID)
			}
		default:
			// Edges incident to the selection, whatever their state.
			if rel.FromTable == sel.Table || rel.ToTable == sel.Table {
				edges = append(edges, rel.ID)
			}
		}
	}

	return Result{
		ActiveTables:        sortedKeys(reached),
		ActiveRelationships: sortedUnique(edges),
		DimmedTables:        complement(visible, reached),
	}
}

// directNeighbors returns the selected table plus every visible table
// directly connected to it by any relationship, either direction.
func directNeighbors(g *model.Graph, selected string, visible map[string]bool) map[string]bool {
	reached := map[string]bool{selected: true}
	for _, rel := range g.Relationships() {
		other, ok := otherEnd(rel, selected)
		if ok && visible[other] {
			reached[other] = true
		}
	}
	return reached
}

// filterFlow runs a breadth-first reachability search from the selected
// table over active relationships. For a single-direction relationship the
// filter applied on the one side (toTable) propagates to the many side
// (fromTable), so traversal runs toTable → fromTable — the reverse of the
// declared direction. Bidirectional relationships propagate both ways. The
// visited set guards against cycles, which are legal in relationship graphs.
func filterFlow(g *model.Graph, selected string, visible map[string]bool) map[string]bool {
	reached := map[string]bool{selected: true}
	queue := []string{selected}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, rel := range g.Relationships() {
			if !rel.IsActive {
				continue
			}
			for _, next := range propagationTargets(rel, current) {
				if visible[next] && !reached[next] {
					reached[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return reached
}

// propagationTargets returns the tables a filter on from reaches across rel.
func propagationTargets(rel *tmdl.Relationship, from string) []string {
	var targets []string
	if rel.ToTable == from {
		targets = append(targets, rel.FromTable)
	}
	if rel.Bidirectional() && rel.FromTable == from {
		targets = append(targets, rel.ToTable)
	}
	return targets
}

func otherEnd(rel *tmdl.Relationship, table string) (string, bool) {
	switch table {
	case rel.FromTable:
		return rel.ToTable, true
	case rel.ToTable:
		return rel.FromTable, true
	}
	return "", false
}

// visibleSet intersects the caller-supplied visible names with the graph's
// tables. Names unknown to the graph are ignored rather than reported.
func visibleSet(g *model.Graph, names []string) map[string]bool {
	visible := make(map[string]bool)
	if names == nil {
		for _, name := range g.TableNames() {
			visible[name] = true
		}
		return visible
	}
	for _, name := range names {
		if g.HasTable(name) {
			visible[name] = true
		}
	}
	return visible
}

func reset(g *model.Graph, visible map[string]bool) Result {
	var edges []string
	for _, rel := range g.Relationships() {
		if visible[rel.FromTable] && visible[rel.ToTable] {
			edges = append(edges, rel.ID)
		}
	}
	return Result{
		ActiveTables:        sortedKeys(visible),
		ActiveRelationships: sortedUnique(edges),
		DimmedTables:        []string{},
	}
}

func complement(visible, reached map[string]bool) []string {
	dimmed := make([]string, 0)
	for name := range visible {
		if !reached[name] {
			dimmed = append(dimmed, name)
		}
	}
	sort.Strings(dimmed)
	return dimmed
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedUnique(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	sort.Strings(ids)
	out := ids[:0]
	var prev string
	for i, id := range ids {
		if i == 0 || id != prev {
			out = append(out, id)
		}
		prev = id
	}
	return out
}
