package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pbitools/semgraph/pkg/highlight"
	"github.com/pbitools/semgraph/pkg/model"
	"github.com/pbitools/semgraph/pkg/tmdl"
)

// routes mounts the JSON API.
func (s *Server) routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/models", s.handleListModels)
		r.Get("/models/{name}", s.handleGetModel)
		r.Get("/models/{name}/highlight", s.handleHighlight)
	})
}

// modelSummary is one entry of the model listing.
type modelSummary struct {
	Name  string      `json:"name"`
	Empty bool        `json:"empty"`
	Stats model.Stats `json:"stats"`
}

// graphResponse is the full graph payload for one model.
type graphResponse struct {
	Name          string               `json:"name"`
	Empty         bool                 `json:"empty"`
	Stats         model.Stats          `json:"stats"`
	Tables        []*model.Table       `json:"tables"`
	Relationships []*tmdl.Relationship `json:"relationships"`
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	summaries := make([]modelSummary, 0, s.registry.Count())
	for _, name := range s.registry.Names() {
		g, ok := s.registry.Get(name)
		if !ok {
			continue
		}
		summaries = append(summaries, modelSummary{
			Name:  g.Name(),
			Empty: g.IsEmpty(),
			Stats: g.Stats(),
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, graphResponse{
		Name:          g.Name(),
		Empty:         g.IsEmpty(),
		Stats:         g.Stats(),
		Tables:        g.Tables(),
		Relationships: g.Relationships(),
	})
}

// handleHighlight computes a highlight for ?table=&mode=&visible=a,b,c.
// An absent table parameter, or one outside the visible set, resets the
// highlight rather than failing: the client may query with stale state.
func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}

	sel := highlight.Selection{
		Table: r.URL.Query().Get("table"),
		Mode:  highlight.ParseMode(r.URL.Query().Get("mode")),
	}
	if raw := r.URL.Query().Get("visible"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				sel.Visible = append(sel.Visible, name)
			}
		}
	}

	writeJSON(w, http.StatusOK, highlight.Compute(g, sel))
}

// lookup resolves the {name} URL parameter to a graph, writing a 404 with a
// did-you-mean hint when the model is unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*model.Graph, bool) {
	name := chi.URLParam(r, "name")
	g, ok := s.registry.Get(name)
	if !ok {
		body := map[string]string{"error": "unknown model: " + name}
		if suggestion, found := s.registry.Suggest(name); found {
			body["suggestion"] = suggestion
		}
		writeJSON(w, http.StatusNotFound, body)
		return nil, false
	}
	return g, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
