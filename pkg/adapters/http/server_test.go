package http_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/canvass"
	server "github.com/aretw0/canvass/pkg/adapters/http"
	"github.com/aretw0/canvass/pkg/adapters/memory"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/dsl"
	"github.com/aretw0/canvass/pkg/observability"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	srv  *httptest.Server
	sink *memory.Sink
}

func newFixture(t *testing.T, opts ...server.Option) *fixture {
	t.Helper()
	cat := dsl.New("http", "1").
		Add("name").Ask("What's your name?").Required().
		Add("features").Ask("Which features, {name}?").MultiSelect("Search", "Export").
		Add("satisfaction").Ask("How satisfied are you?").Rating().Required().
		MustBuild()
	sink := memory.NewSink()

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	eng := canvass.New(
		canvass.WithCatalog(cat),
		canvass.WithSink(sink),
		canvass.WithLifecycleHooks(metrics.Hooks()),
	)
	opts = append([]server.Option{server.WithGatherer(reg)}, opts...)
	srv := httptest.NewServer(server.NewHandler(eng, session.NewManager(memory.NewStore()), opts...))
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, sink: sink}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent && !strings.HasPrefix(path, "/metrics") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp.StatusCode, decoded
}

func (f *fixture) create(t *testing.T, variant domain.Variant) string {
	t.Helper()
	status, body := f.do(t, http.MethodPost, "/sessions", map[string]any{"variant": variant})
	require.Equal(t, http.StatusCreated, status)
	state := body["state"].(map[string]any)
	return state["id"].(string)
}

func position(body map[string]any) int {
	return int(body["state"].(map[string]any)["position"].(float64))
}

func TestServer_Health(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = f.do(t, http.MethodGet, "/info", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "http", body["catalog"])
}

func TestServer_Catalog(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "http", body["name"])
	assert.Len(t, body["questions"], 3)
}

func TestServer_FullFlow(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, domain.VariantWizard)
	base := "/sessions/" + id

	status, body := f.do(t, http.MethodPost, base+"/answer", map[string]any{"value": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "name", body["question_id"])
	assert.NotNil(t, body["session"], "the unchanged session is returned for re-rendering")

	status, body = f.do(t, http.MethodPost, base+"/answer", map[string]any{"value": "Asha"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, position(body))
	assert.Contains(t, body["actions"].([]any)[0].(map[string]any)["payload"], "Which features, Asha?")

	status, _ = f.do(t, http.MethodPost, base+"/toggle", map[string]any{"option": "Export"})
	require.Equal(t, http.StatusOK, status)
	status, body = f.do(t, http.MethodPost, base+"/answer", map[string]any{"value": ""})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"Export"}, body["state"].(map[string]any)["answers"].(map[string]any)["features"])

	status, body = f.do(t, http.MethodPost, base+"/back", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, position(body))
	status, _ = f.do(t, http.MethodPost, base+"/answer", map[string]any{"value": ""})
	require.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, http.MethodPost, base+"/finalize", nil)
	assert.Equal(t, http.StatusConflict, status, "finalize before completion")

	status, body = f.do(t, http.MethodPost, base+"/answer", map[string]any{"value": "5"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["terminal"])
	assert.Equal(t, float64(100), body["percent"])

	status, _ = f.do(t, http.MethodPost, base+"/answer", map[string]any{"value": "again"})
	assert.Equal(t, http.StatusConflict, status)

	status, body = f.do(t, http.MethodPost, base+"/finalize", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["record_id"])

	records := f.sink.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Asha", records[0]["name"])
	assert.Equal(t, []string{"Export"}, records[0]["features"])
	assert.Equal(t, 5, records[0]["satisfaction"])

	status, _ = f.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, status, "submitted sessions are discarded")
}

func TestServer_ToggleOnTextQuestion(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, domain.VariantChat)

	status, body := f.do(t, http.MethodPost, "/sessions/"+id+"/toggle", map[string]any{"option": "Search"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, server.ErrNotMultiSelect.Error(), body["error"])
}

func TestServer_SubmissionFailure(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, domain.VariantForm)
	base := "/sessions/" + id
	for _, v := range []string{"Bo", "Search", "3"} {
		status, _ := f.do(t, http.MethodPost, base+"/answer", map[string]any{"value": v})
		require.Equal(t, http.StatusOK, status)
	}

	f.sink.FailNext(&ports.Rejection{Reason: "quota exceeded"})
	status, body := f.do(t, http.MethodPost, base+"/finalize", nil)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "quota exceeded", body["reason"])

	status, _ = f.do(t, http.MethodPost, base+"/finalize", nil)
	assert.Equal(t, http.StatusOK, status, "finalize can be retried")
	assert.Len(t, f.sink.Records(), 1)
}

func TestServer_BadRequests(t *testing.T) {
	f := newFixture(t)

	status, _ := f.do(t, http.MethodPost, "/sessions", map[string]any{"variant": "kiosk"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.do(t, http.MethodGet, "/sessions/ghost", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.do(t, http.MethodPost, "/sessions/ghost/answer", map[string]any{"value": "x"})
	assert.Equal(t, http.StatusNotFound, status)

	id := f.create(t, domain.VariantChat)
	status, _ = f.do(t, http.MethodPost, "/sessions/"+id+"/answer", map[string]any{"value": strings.Repeat("a", 5000)})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.do(t, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = f.do(t, http.MethodGet, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestServer_Metrics(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, domain.VariantChat)
	f.do(t, http.MethodPost, "/sessions/"+id+"/answer", map[string]any{"value": "Asha"})

	resp, err := http.Get(f.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `canvass_answers_total{question_id="name"} 1`)
}

func TestServer_Events(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, domain.VariantChat)

	resp, err := http.Get(f.srv.URL + "/sessions/" + id + "/events?watch=answers")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	waitFor := func(prefix string) string {
		timeout := time.After(2 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					t.Fatalf("stream closed before %q", prefix)
				}
				if strings.HasPrefix(line, prefix) {
					return line
				}
			case <-timeout:
				t.Fatalf("timed out waiting for %q", prefix)
			}
		}
	}

	waitFor("data: connected")
	status, _ := f.do(t, http.MethodPost, "/sessions/"+id+"/answer", map[string]any{"value": "Asha"})
	require.Equal(t, http.StatusOK, status)

	line := waitFor("data: {")
	var diff domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &diff))
	assert.Equal(t, id, diff.SessionID)
	assert.Equal(t, "Asha", diff.Answers["name"])
}
