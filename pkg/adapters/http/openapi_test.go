package http

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_CoversEveryRoute(t *testing.T) {
	doc, err := Document()
	require.NoError(t, err)

	srv, _ := panelServer(t, WithMetrics(prometheus.NewRegistry()))
	err = chi.Walk(srv.router(), func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		item := doc.Paths.Value(route)
		if assert.NotNil(t, item, "route %s is not documented", route) {
			assert.NotNil(t, item.GetOperation(method), "%s %s is not documented", method, route)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestGetOpenAPI(t *testing.T) {
	srv, _ := panelServer(t)
	w := do(t, srv.Routes(), http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.True(t, strings.HasPrefix(body["openapi"].(string), "3."))
	assert.Contains(t, body["paths"], "/actions/{name}")
}

func TestDocument_MatchesOpenAPIYAML(t *testing.T) {
	raw, err := os.ReadFile("openapi.yaml")
	require.NoError(t, err)
	source, err := openapi3.NewLoader().LoadFromData(raw)
	require.NoError(t, err)

	doc, err := Document()
	require.NoError(t, err)

	operations := func(d *openapi3.T) map[string]string {
		out := make(map[string]string)
		for route, item := range d.Paths.Map() {
			for method, op := range item.Operations() {
				out[method+" "+route] = op.OperationID
			}
		}
		return out
	}
	assert.Equal(t, operations(source), operations(doc), "api.gen.go is stale, run go generate")
	assert.ElementsMatch(t, mapKeys(source.Components.Schemas), mapKeys(doc.Components.Schemas))
}

func mapKeys(m openapi3.Schemas) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
