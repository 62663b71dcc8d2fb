package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/oodux"
	"github.com/aretw0/oodux/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Panel struct {
	Counter int    `json:"counter"`
	Label   string `json:"label"`
}

type Pet struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Pets struct {
	Pets  []Pet  `json:"pets"`
	Label string `json:"label"`
}

func panelServer(t *testing.T, opts ...Option) (*Server, *oodux.Store[Panel]) {
	t.Helper()
	store := oodux.Define[Panel]().Init()
	srv := NewServer(FromStore(store), opts...)
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) StateResponse {
	t.Helper()
	var resp StateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHealthAndInfo(t *testing.T) {
	srv, _ := panelServer(t)
	h := srv.Routes()

	w := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/info", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), strings.TrimSpace(oodux.Version))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestDispatchAndState(t *testing.T) {
	srv, store := panelServer(t)
	h := srv.Routes()

	w := do(t, h, http.MethodPost, "/actions/incrementCounter", `{"data": 2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeState(t, w)
	assert.EqualValues(t, 1, resp.Revision)
	assert.Equal(t, 2.0, resp.State["counter"])
	assert.Equal(t, 2, store.State().Counter)

	w = do(t, h, http.MethodPost, "/actions/clearCounter", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, store.State().Counter)

	w = do(t, h, http.MethodGet, "/state", "")
	resp = decodeState(t, w)
	assert.EqualValues(t, 2, resp.Revision)
	assert.Equal(t, map[string]any{"counter": 0.0, "label": ""}, resp.State)
}

func TestDispatch_Errors(t *testing.T) {
	srv, _ := panelServer(t)
	h := srv.Routes()

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/actions/noop", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/actions/setCounter", `{"data": "x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/actions/setCounter", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/dispatch", `{}`).Code)
}

func TestPostAction_BindsEscapedName(t *testing.T) {
	srv, store := panelServer(t)
	h := srv.Routes()

	w := do(t, h, http.MethodPost, "/actions/set%4Cabel", `{"data": "escaped"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "escaped", store.State().Label)
}

func TestServer_ImplementsGeneratedInterface(t *testing.T) {
	srv, _ := panelServer(t)
	var si ServerInterface = srv

	w := httptest.NewRecorder()
	si.PostAction(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"data": 4}`)), "setCounter")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 4, decodeState(t, w).State["counter"])

	w = httptest.NewRecorder()
	si.GetMetrics(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "metrics are off without WithMetrics")
}

func TestRoot_ConflictAndRawDispatch(t *testing.T) {
	panel, pets := oodux.Define[Panel](), oodux.Define[Pets]()
	root := oodux.Combine(panel, pets)
	srv := NewServer(FromRoot(root))
	defer srv.Close()
	h := srv.Routes()

	w := do(t, h, http.MethodPost, "/actions/setLabel", `{"data": "x"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "setLabel")

	w = do(t, h, http.MethodPost, "/dispatch", `{"type": "setLabel", "data": "only pets", "target": "pets"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "only pets", pets.State().Label)
	assert.Equal(t, "", panel.State().Label)

	w = do(t, h, http.MethodPost, "/actions/addToPets", `{"data": {"id": 1, "name": "Tom"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []Pet{{ID: 1, Name: "Tom"}}, pets.State().Pets)

	w = do(t, h, http.MethodGet, "/actions", "")
	assert.Contains(t, w.Body.String(), `"name":"addToPets"`)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := oodux.Define[Panel]().Init(oodux.WithMiddleware(middleware.Metrics(reg)))
	h := NewHandler(FromStore(store), WithMetrics(reg))

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/actions/setLabel", `{"data": "a"}`).Code)

	w := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `oodux_actions_total{outcome="handled",type="setLabel"} 1`)
}

func TestSubscribeEvents_Filtered(t *testing.T) {
	srv, store := panelServer(t)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events?watch=counter", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		for lines.Scan() {
			if line := lines.Text(); strings.HasPrefix(line, "data: ") {
				return strings.TrimPrefix(line, "data: ")
			}
		}
		return ""
	}
	require.Equal(t, "connected", next())

	require.NoError(t, store.Dispatch("setLabel", "ignored"))
	require.NoError(t, store.Dispatch("setCounter", 5))

	var ev ChangeEvent
	require.NoError(t, json.NewDecoder(bytes.NewBufferString(next())).Decode(&ev))
	assert.Equal(t, []string{"counter"}, ev.Changed)
	assert.EqualValues(t, 2, ev.Revision)
}
