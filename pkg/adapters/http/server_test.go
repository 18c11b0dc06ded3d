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

	"github.com/aretw0/diagram"
	"github.com/aretw0/diagram/internal/logging"
	"github.com/aretw0/diagram/internal/testutils"
	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/model"
	"github.com/aretw0/diagram/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...diagram.Option) (*diagram.Engine, *httptest.Server) {
	t.Helper()
	eng, err := diagram.New(opts...)
	require.NoError(t, err)

	handler, err := NewHandler(eng, WithVersion("1.2.3"))
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return eng, srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestGetHealth(t *testing.T) {
	_, srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestGetInfo(t *testing.T) {
	_, srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/info", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "diagram-http", body["app"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, "0.1.0", body["api_version"])
}

func TestOpenAPIDocument(t *testing.T) {
	doc, err := LoadSpec(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/model/elements/{id}"))

	_, srv := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/yaml", resp.Header.Get("Content-Type"))
}

func TestModelLifecycle(t *testing.T) {
	eng, srv := newTestServer(t)
	ctx := context.Background()

	sample, err := json.Marshal(testutils.SampleModel())
	require.NoError(t, err)

	resp := do(t, http.MethodPut, srv.URL+"/model", string(sample))
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/model", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got domain.Element
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 5, model.Count(&got))
	assert.Equal(t, "first", model.FindElement(&got, "l1").Features["text"])

	resp = do(t, http.MethodPost, srv.URL+"/model/elements", `{"element":{"id":"n3","type":"node"},"parentId":"n1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/model/elements", `{"element":{"id":"n3","type":"node"}}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/model/elements/n3", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/model/elements/n3", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	root, err := eng.Model(ctx)
	require.NoError(t, err)
	assert.Nil(t, model.FindElement(root, "n3"))
	assert.Len(t, model.FindElement(root, "n1").Children, 1)
}

func TestPutModel_Patch(t *testing.T) {
	eng, srv := newTestServer(t, diagram.WithInitialModel(testutils.SampleModel()))

	rec := &testutils.RecordingDispatcher{}
	eng.RegisterRenderer(ports.HandlerFunc(rec.Dispatch))

	next := testutils.SampleModel()
	next.Children = next.Children[:2]
	body, err := json.Marshal(next)
	require.NoError(t, err)

	resp := do(t, http.MethodPut, srv.URL+"/model?patch=true", string(body))
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, []string{domain.KindUpdateModel}, rec.Kinds())
	update := rec.Last().(domain.UpdateModelAction)
	assert.Nil(t, update.NewRoot)
	assert.Len(t, update.Matches, 1)
}

func TestRequestValidation(t *testing.T) {
	_, srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"model without id", http.MethodPut, "/model", `{"type":"graph"}`, http.StatusBadRequest},
		{"non boolean patch flag", http.MethodPut, "/model?patch=maybe", `{"id":"R","type":"graph"}`, http.StatusBadRequest},
		{"duplicate ids", http.MethodPut, "/model", `{"id":"R","type":"graph","children":[{"id":"a","type":"node"},{"id":"a","type":"node"}]}`, http.StatusUnprocessableEntity},
		{"action without kind", http.MethodPost, "/actions", `{"bounds":[]}`, http.StatusBadRequest},
		{"unknown kind", http.MethodPost, "/actions", `{"kind":"explode"}`, http.StatusBadRequest},
		{"outbound kind", http.MethodPost, "/actions", `{"kind":"setModel","newRoot":{"id":"R","type":"graph"}}`, http.StatusUnprocessableEntity},
		{"insertion without element", http.MethodPost, "/model/elements", `{"parentId":"ROOT"}`, http.StatusBadRequest},
		{"unknown parent", http.MethodPost, "/model/elements", `{"element":{"id":"x","type":"node"},"parentId":"ghost"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, srv.URL+tt.path, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestPostAction_BoundsRoundTrip(t *testing.T) {
	ctx := context.Background()
	eng, srv := newTestServer(t, diagram.WithClientLayout(true), diagram.WithRequestIDs(func() string { return "tok-1" }))

	require.NoError(t, eng.SetModel(ctx, testutils.SampleModel()))
	token, pending, err := eng.PendingRequest(ctx)
	require.NoError(t, err)
	require.True(t, pending)
	require.Equal(t, "tok-1", token)

	body := `{"kind":"computedBounds","responseId":"tok-1","bounds":[{"elementId":"n2","newBounds":{"x":5,"y":6,"width":70,"height":30}}]}`
	resp := do(t, http.MethodPost, srv.URL+"/actions", body)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	_, pending, err = eng.PendingRequest(ctx)
	require.NoError(t, err)
	assert.False(t, pending)

	root, err := eng.Model(ctx)
	require.NoError(t, err)
	n2 := model.FindElement(root, "n2")
	assert.Equal(t, &domain.Point{X: 5, Y: 6}, n2.Position)
	assert.Equal(t, &domain.Dimension{Width: 70, Height: 30}, n2.Size)
}

func TestSubscribeEvents(t *testing.T) {
	eng, err := diagram.New()
	require.NoError(t, err)
	handler, err := NewHandler(eng)
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?kinds=setModel", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	next := func() string {
		select {
		case l := <-lines:
			return l
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event stream")
			return ""
		}
	}
	require.Equal(t, "event: ping", next())
	require.Equal(t, "data: connected", next())

	// updateModel is filtered out; setModel comes through.
	require.NoError(t, eng.UpdateModel(ctx, nil))
	require.NoError(t, eng.SetModel(ctx, testutils.SampleModel()))

	next() // blank separator
	assert.Equal(t, "event: setModel", next())
	data := next()
	require.True(t, strings.HasPrefix(data, "data: "))

	var envelope map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(data, "data: ")), &envelope))
	assert.Equal(t, "setModel", envelope["kind"])
}

func TestStreamManager_DropsForSlowClients(t *testing.T) {
	sm := NewStreamManager(logging.NewNop())
	ch, cancel := sm.Subscribe(nil)
	defer cancel()

	for range 20 {
		sm.Broadcast(Event{Kind: domain.KindUpdateModel, Data: []byte("{}")})
	}
	assert.Len(t, ch, cap(ch))
	assert.Equal(t, 1, sm.Len())

	cancel()
	assert.Equal(t, 0, sm.Len())
}
