package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/liftnav"
	"github.com/aretw0/liftnav/internal/logging"
	"github.com/aretw0/liftnav/pkg/domain"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *liftnav.Coordinator) {
	t.Helper()
	nav := liftnav.New(domain.Dashboard{})
	opts = append([]Option{WithLogger(logging.NewNop())}, opts...)
	h, err := NewHandler(nav, opts...)
	require.NoError(t, err)
	return h, nav
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestLoadSpec(t *testing.T) {
	doc, err := LoadSpec(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotNil(t, doc.Paths.Find("/present"))
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[map[string]string](t, w)
	assert.Equal(t, "liftnav-http", info["app"])
	assert.Equal(t, "1.0.0", info["api_version"])
	assert.NotEmpty(t, info["version"])

	w = do(t, h, http.MethodGet, "/openapi.yaml", "")
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestPresentAndRead(t *testing.T) {
	h, nav := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/present", `{"destination":{"kind":"lift_details","lift_id":"L1"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state := decode[StateResponse](t, w)
	assert.Equal(t, 1, state.CurrentIndex)
	assert.Len(t, state.Pages, 2)
	assert.Equal(t, domain.KindLiftDetails, state.CurrentPage.Kind)
	assert.Equal(t, domain.LiftDetails{LiftID: "L1"}, nav.CurrentPage())

	w = do(t, h, http.MethodGet, "/pages", "")
	pages := decode[[]domain.Wire](t, w)
	require.Len(t, pages, 2)
	assert.Equal(t, domain.KindDashboard, pages[0].Kind)

	w = do(t, h, http.MethodGet, "/current", "")
	current := decode[domain.Wire](t, w)
	require.NotNil(t, current.LiftID)
	assert.Equal(t, "L1", *current.LiftID)

	w = do(t, h, http.MethodGet, "/state", "")
	assert.Equal(t, state, decode[StateResponse](t, w))
}

func TestBackAndPopToRoot(t *testing.T) {
	h, nav := newTestHandler(t)
	nav.Present(domain.LiftDetails{LiftID: "L1"}, true)
	nav.Present(domain.Settings{}, true)

	w := do(t, h, http.MethodPost, "/back", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[HandledResponse](t, w)
	assert.True(t, resp.Handled)
	assert.Equal(t, 1, resp.State.CurrentIndex)
	assert.Len(t, resp.State.Pages, 3, "keep_stack defaults to true")

	w = do(t, h, http.MethodPost, "/pop-to-root", `{"keep_stack":false}`)
	resp = decode[HandledResponse](t, w)
	assert.True(t, resp.Handled)
	assert.Len(t, resp.State.Pages, 1)

	w = do(t, h, http.MethodPost, "/back", `{}`)
	resp = decode[HandledResponse](t, w)
	assert.False(t, resp.Handled)
}

func TestNavigateTo(t *testing.T) {
	h, nav := newTestHandler(t)
	nav.Present(domain.Settings{}, true)

	w := do(t, h, http.MethodPost, "/navigate", `{"destination":{"kind":"dashboard"}}`)
	resp := decode[FoundResponse](t, w)
	assert.True(t, resp.Found)
	assert.Equal(t, 0, resp.State.CurrentIndex)

	w = do(t, h, http.MethodPost, "/navigate", `{"destination":{"kind":"lift_details","lift_id":"L9"}}`)
	resp = decode[FoundResponse](t, w)
	assert.False(t, resp.Found)
	assert.Equal(t, 0, nav.CurrentPageIndex())
}

func TestUpdateIndex(t *testing.T) {
	h, nav := newTestHandler(t)
	nav.Present(domain.Settings{}, true)

	w := do(t, h, http.MethodPut, "/index", `{"index":0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, nav.CurrentPageIndex())

	w = do(t, h, http.MethodPut, "/index", `{"index":5}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "invalid index")
	assert.Equal(t, 0, nav.CurrentPageIndex())
}

func TestSetRoot(t *testing.T) {
	h, nav := newTestHandler(t)
	nav.Present(domain.Settings{}, true)

	w := do(t, h, http.MethodPost, "/root", `{"destination":{"kind":"edit_set","set_id":"S1"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []domain.Destination{domain.EditSet{SetID: domain.Some("S1")}}, nav.Pages())
}

func TestBadRequests(t *testing.T) {
	h, nav := newTestHandler(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"malformed json", http.MethodPost, "/present", `{"destination":`},
		{"unknown kind", http.MethodPost, "/present", `{"destination":{"kind":"moon"}}`},
		{"missing id", http.MethodPost, "/present", `{"destination":{"kind":"lift_details"}}`},
		{"missing destination", http.MethodPost, "/root", `{}`},
		{"index not a number", http.MethodPut, "/index", `{"index":"two"}`},
		{"keep_stack not a bool", http.MethodPost, "/back", `{"keep_stack":"yes"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assert.Equal(t, []domain.Destination{domain.Dashboard{}}, nav.Pages())
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t)
	w := do(t, h, http.MethodOptions, "/present", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsHandler(t *testing.T) {
	h, _ := newTestHandler(t, WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("liftnav_transitions_total 1\n"))
	})))
	w := do(t, h, http.MethodGet, "/metrics", "")
	assert.Contains(t, w.Body.String(), "liftnav_transitions_total")

	h, _ = newTestHandler(t)
	w = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// sseReader reads "data:" frames from an event stream.
type sseReader struct {
	t       *testing.T
	scanner *bufio.Scanner
}

func (r *sseReader) next() string {
	r.t.Helper()
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			return data
		}
	}
	r.t.Fatalf("stream ended: %v", r.scanner.Err())
	return ""
}

func subscribe(t *testing.T, srv *httptest.Server, query string) *sseReader {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events"+query, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := &sseReader{t: t, scanner: bufio.NewScanner(resp.Body)}
	require.Equal(t, "connected", r.next())
	return r
}

func TestSubscribeEvents(t *testing.T) {
	h, nav := newTestHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	stream := subscribe(t, srv, "")

	var first StateResponse
	require.NoError(t, json.Unmarshal([]byte(stream.next()), &first))
	assert.Len(t, first.Pages, 1)

	nav.Present(domain.Settings{}, true)

	var second StateResponse
	require.NoError(t, json.Unmarshal([]byte(stream.next()), &second))
	assert.Equal(t, 1, second.CurrentIndex)
	assert.Equal(t, domain.KindSettings, second.CurrentPage.Kind)
}

func TestSubscribeEvents_WatchCurrent(t *testing.T) {
	h, nav := newTestHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	stream := subscribe(t, srv, "?watch=current&format=diff")

	var initial domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(stream.next()), &initial))
	require.NotNil(t, initial.CurrentPage)
	assert.Equal(t, domain.KindDashboard, initial.CurrentPage.Kind)

	// Same page pushed again: the stack grows but the shown page does not change.
	nav.Present(domain.Dashboard{}, true)
	nav.Present(domain.Settings{}, true)

	var diff domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(stream.next()), &diff))
	require.NotNil(t, diff.CurrentPage)
	assert.Equal(t, domain.KindSettings, diff.CurrentPage.Kind)

	// The diff spans the skipped frame: applied to [Dashboard] it rebuilds the stack.
	require.NotNil(t, diff.CurrentIndex)
	assert.Equal(t, 2, *diff.CurrentIndex)
	assert.Zero(t, diff.Truncated)
	require.Len(t, diff.Appended, 2)
	assert.Equal(t, domain.KindDashboard, diff.Appended[0].Kind)
	assert.Equal(t, domain.KindSettings, diff.Appended[1].Kind)
}

// racingNavigator lets another writer slip in right after each command.
type racingNavigator struct {
	*liftnav.Coordinator
}

func (n racingNavigator) Apply(cmd domain.Command) (domain.Result, error) {
	res, err := n.Coordinator.Apply(cmd)
	n.Coordinator.Present(domain.Settings{}, true)
	return res, err
}

func TestMutationResponsesShowOwnState(t *testing.T) {
	nav := racingNavigator{liftnav.New(domain.Dashboard{})}
	h, err := NewHandler(nav, WithLogger(logging.NewNop()))
	require.NoError(t, err)

	w := do(t, h, http.MethodPost, "/present", `{"destination":{"kind":"lift_details","lift_id":"L1"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state := decode[StateResponse](t, w)
	assert.Equal(t, 1, state.CurrentIndex)
	assert.Equal(t, domain.KindLiftDetails, state.CurrentPage.Kind)
	assert.Len(t, state.Pages, 2)

	w = do(t, h, http.MethodPost, "/back", `{"keep_stack":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	back := decode[HandledResponse](t, w)
	assert.True(t, back.Handled)
	assert.Equal(t, domain.KindLiftDetails, back.State.CurrentPage.Kind)
	assert.Equal(t, 3, nav.State().Len(), "the racing writer did run")
}
