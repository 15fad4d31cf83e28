package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/google/uuid"
)

// Sink implements ports.Sink by writing one JSON file per record.
// File names start with the submission time so a directory listing is chronological.
type Sink struct {
	BasePath string
	now      func() time.Time
}

// NewSink creates a sink rooted at basePath (default ".canvass/records").
func NewSink(basePath string) *Sink {
	if basePath == "" {
		basePath = filepath.Join(".canvass", "records")
	}
	return &Sink{BasePath: basePath, now: time.Now}
}

// Submit writes the record and returns the file's base name as its ID.
func (s *Sink) Submit(ctx context.Context, record domain.Record) (domain.RecordID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	id := fmt.Sprintf("%s-%s", s.now().UTC().Format("20060102T150405Z"), uuid.NewString()[:8])
	if err := writeAtomic(s.BasePath, id+".json", data); err != nil {
		return "", fmt.Errorf("failed to write record: %w", err)
	}
	return domain.RecordID(id), nil
}

// Get reads a record back.
func (s *Sink) Get(ctx context.Context, id domain.RecordID) (domain.Record, error) {
	data, err := os.ReadFile(filepath.Join(s.BasePath, filepath.Base(string(id))+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	var record domain.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return record, nil
}

// List returns the stored record IDs in chronological order.
func (s *Sink) List(ctx context.Context) ([]domain.RecordID, error) {
	names, err := listJSON(s.BasePath)
	if err != nil {
		return nil, err
	}
	ids := make([]domain.RecordID, len(names))
	for i, n := range names {
		ids[i] = domain.RecordID(n)
	}
	return ids, nil
}
