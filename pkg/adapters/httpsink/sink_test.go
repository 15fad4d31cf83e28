package httpsink_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aretw0/canvass/pkg/adapters/httpsink"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collector is a minimal in-memory collector endpoint.
type collector struct {
	mu      sync.Mutex
	records map[string]domain.Record
}

func (c *collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var rec domain.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(httpsink.Response{Reason: "bad json"})
		return
	}
	c.mu.Lock()
	id := fmt.Sprintf("r%d", len(c.records)+1)
	c.records[id] = rec
	c.mu.Unlock()
	_ = json.NewEncoder(w).Encode(httpsink.Response{OK: true, ID: id})
}

func (c *collector) fetch(_ context.Context, id domain.RecordID) (domain.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[string(id)]
	if !ok {
		return nil, fmt.Errorf("no record %s", id)
	}
	return rec, nil
}

func TestHTTPSink_Contract(t *testing.T) {
	c := &collector{records: make(map[string]domain.Record)}
	srv := httptest.NewServer(c)
	defer srv.Close()

	ports.RunSinkContract(t, httpsink.New(srv.URL), c.fetch)
}

func TestHTTPSink_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason string
	}{
		{"Rejected", http.StatusOK, `{"ok": false, "reason": "duplicate email"}`, "duplicate email"},
		{"Rejected Without Reason", http.StatusOK, `{"ok": false}`, "rejected without a reason"},
		{"Server Error With Reason", http.StatusServiceUnavailable, `{"ok": false, "reason": "maintenance"}`, "maintenance"},
		{"Server Error", http.StatusInternalServerError, `oops`, ""},
		{"Garbage", http.StatusOK, `<html>`, ""},
		{"Missing ID", http.StatusOK, `{"ok": true}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := httpsink.New(srv.URL).Submit(context.Background(), domain.Record{"a": "b"})
			require.Error(t, err)

			var rej *ports.Rejection
			if tt.wantReason != "" {
				require.ErrorAs(t, err, &rej)
				assert.Equal(t, tt.wantReason, rej.Reason)
			} else {
				assert.False(t, errors.As(err, &rej), "transport failures are not rejections")
			}
		})
	}
}

func TestHTTPSink_Headers(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"ok": true, "id": "x"}`))
	}))
	defer srv.Close()

	id, err := httpsink.New(srv.URL, httpsink.WithHeader("X-Api-Key", "secret")).
		Submit(context.Background(), domain.Record{})
	require.NoError(t, err)
	assert.Equal(t, domain.RecordID("x"), id)
	assert.Equal(t, "secret", got.Get("X-Api-Key"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
}

func TestHTTPSink_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := httpsink.New(url).Submit(context.Background(), domain.Record{})
	assert.ErrorContains(t, err, "collector unreachable")
}
