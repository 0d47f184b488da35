// Package registry holds one relationship graph per discovered semantic
// model, indexed by model name. Graphs are immutable after construction, so
// the registry only guards its own maps; concurrent readers never contend on
// graph state.
package registry

import (
	"sort"
	"sync"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/pbitools/semgraph/pkg/model"
)

// Registry maps model names to their graphs.
type Registry struct {
	mu     sync.RWMutex
	graphs map[string]*model.Graph
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{graphs: make(map[string]*model.Graph)}
}

// Register adds or replaces the graph for its model name. Rebuilding a model
// means registering a freshly built graph; graphs are never mutated in place.
func (r *Registry) Register(g *model.Graph) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs[g.Name()] = g
}

// ReplaceAll swaps the full contents of the registry, used when a watch
// cycle re-discovers the search root.
func (r *Registry) ReplaceAll(graphs []*model.Graph) {
	next := make(map[string]*model.Graph, len(graphs))
	for _, g := range graphs {
		next[g.Name()] = g
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs = next
}

// Get returns the graph for a model name.
func (r *Registry) Get(name string) (*model.Graph, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.graphs[name]
	return g, ok
}

// Names returns all registered model names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.graphs))
	for name := range r.graphs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered models.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.graphs)
}

// Suggest returns the registered model name closest to the given one by edit
// distance, for did-you-mean error messages. Returns false when nothing is
// close enough to be a plausible typo.
func (r *Registry) Suggest(name string) (string, bool) {
	return Closest(name, r.Names())
}

// Closest picks the candidate with the smallest Levenshtein distance to
// name, capped at a third of the name's length (minimum 2).
func Closest(name string, candidates []string) (string, bool) {
	maxDistance := len(name) / 3
	if maxDistance < 2 {
		maxDistance = 2
	}

	best, bestDistance := "", maxDistance+1
	for _, candidate := range candidates {
		d := levenshtein.DistanceForStrings([]rune(name), []rune(candidate), levenshtein.DefaultOptions)
		if d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best, best != ""
}
