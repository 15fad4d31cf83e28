// Package httpsink posts finished answer records to a remote collector.
//
// The collector receives the record as a JSON object and answers with
// {"ok": true, "id": "..."} or {"ok": false, "reason": "..."}.
package httpsink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
)

// maxResponse bounds how much of a collector response is read.
const maxResponse = 1 << 20

// Response is the collector's answer.
type Response struct {
	OK     bool   `json:"ok"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Sink implements ports.Sink over HTTP.
type Sink struct {
	url    string
	client *http.Client
	header http.Header
}

// Option configures a Sink.
type Option func(*Sink)

// WithClient sets the HTTP client. The default has a 10s timeout.
func WithClient(c *http.Client) Option {
	return func(s *Sink) {
		s.client = c
	}
}

// WithHeader adds a header to every request, e.g. an API key.
func WithHeader(key, value string) Option {
	return func(s *Sink) {
		s.header.Add(key, value)
	}
}

// New creates a sink posting to url.
func New(url string, opts ...Option) *Sink {
	s := &Sink{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		header: make(http.Header),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit posts the record. A collector that answers ok:false yields a
// *ports.Rejection; any non-2xx status is a failure.
func (s *Sink) Submit(ctx context.Context, record domain.Record) (domain.RecordID, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header = s.header.Clone()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("collector unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return "", fmt.Errorf("failed to read collector response: %w", err)
	}

	var out Response
	decodeErr := json.Unmarshal(data, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && out.Reason != "" {
			return "", &ports.Rejection{Reason: out.Reason}
		}
		return "", fmt.Errorf("collector returned %s", resp.Status)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("invalid collector response: %w", decodeErr)
	}
	if !out.OK {
		reason := out.Reason
		if reason == "" {
			reason = "rejected without a reason"
		}
		return "", &ports.Rejection{Reason: reason}
	}
	if out.ID == "" {
		return "", errors.New("collector accepted the record without an id")
	}
	return domain.RecordID(out.ID), nil
}
