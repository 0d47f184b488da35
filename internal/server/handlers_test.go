package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbitools/semgraph/internal/registry"
	"github.com/pbitools/semgraph/internal/testutil"
	"github.com/pbitools/semgraph/pkg/highlight"
	"github.com/pbitools/semgraph/pkg/model"
	"github.com/pbitools/semgraph/pkg/tmdl"
)

func rel(id, fromTable, toTable string) *tmdl.Relationship {
	return &tmdl.Relationship{
		ID: id, FromTable: fromTable, FromColumn: "Key", ToTable: toTable, ToColumn: "Key",
		FromCardinality: tmdl.CardinalityMany, ToCardinality: tmdl.CardinalityOne,
		CrossFiltering: tmdl.OneDirection, IsActive: true,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	reg := registry.New()
	reg.Register(model.Build("Contoso Sales", []*tmdl.Relationship{
		rel("r-product", "Sales", "Product"),
		rel("r-customer", "Sales", "Customer"),
	}))
	reg.Register(model.Build("Lonely", nil))

	s := New(Config{Registry: reg, Logger: testutil.NewTestLogger(t)})

	mux := chi.NewMux()
	s.routes(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, wantStatus int, v any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, wantStatus, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHandleListModels(t *testing.T) {
	ts := newTestServer(t)

	var models []modelSummary
	getJSON(t, ts.URL+"/api/models", http.StatusOK, &models)

	require.Len(t, models, 2)
	assert.Equal(t, "Contoso Sales", models[0].Name)
	assert.Equal(t, model.Stats{Tables: 3, Relationships: 2, Facts: 1, Dimensions: 2}, models[0].Stats)
	assert.Equal(t, "Lonely", models[1].Name)
	assert.True(t, models[1].Empty)
}

func TestHandleGetModel(t *testing.T) {
	ts := newTestServer(t)

	var resp graphResponse
	getJSON(t, ts.URL+"/api/models/Contoso%20Sales", http.StatusOK, &resp)

	assert.Equal(t, "Contoso Sales", resp.Name)
	require.Len(t, resp.Tables, 3)
	assert.Equal(t, model.RoleDimension, resp.Tables[0].Role) // Customer
	require.Len(t, resp.Relationships, 2)
}

func TestHandleGetModel_NotFoundWithSuggestion(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	getJSON(t, ts.URL+"/api/models/Contoso%20Sale", http.StatusNotFound, &body)

	assert.Contains(t, body["error"], "unknown model")
	assert.Equal(t, "Contoso Sales", body["suggestion"])
}

func TestHandleHighlight(t *testing.T) {
	ts := newTestServer(t)

	var result highlight.Result
	getJSON(t, ts.URL+"/api/models/Contoso%20Sales/highlight?table=Product&mode=flow", http.StatusOK, &result)

	assert.Equal(t, []string{"Product", "Sales"}, result.ActiveTables)
	assert.Equal(t, []string{"r-product"}, result.ActiveRelationships)
	assert.Equal(t, []string{"Customer"}, result.DimmedTables)
}

func TestHandleHighlight_VisibleSubset(t *testing.T) {
	ts := newTestServer(t)

	var result highlight.Result
	getJSON(t, ts.URL+"/api/models/Contoso%20Sales/highlight?table=Sales&mode=neighbors&visible=Sales,Product", http.StatusOK, &result)

	assert.Equal(t, []string{"Product", "Sales"}, result.ActiveTables)
	assert.Empty(t, result.DimmedTables)
}

// No table parameter resets the highlight instead of erroring.
func TestHandleHighlight_NoSelection(t *testing.T) {
	ts := newTestServer(t)

	var result highlight.Result
	getJSON(t, ts.URL+"/api/models/Contoso%20Sales/highlight", http.StatusOK, &result)

	assert.Equal(t, []string{"Customer", "Product", "Sales"}, result.ActiveTables)
	assert.Empty(t, result.DimmedTables)
}
