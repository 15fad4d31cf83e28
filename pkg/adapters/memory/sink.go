package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/google/uuid"
)

// Sink implements ports.Sink by keeping records in memory.
// FailNext lets tests and demos simulate an unreachable or rejecting sink.
type Sink struct {
	mu      sync.Mutex
	order   []domain.RecordID
	records map[domain.RecordID]domain.Record
	failing []error
}

// NewSink creates an empty in-memory sink.
func NewSink() *Sink {
	return &Sink{records: make(map[domain.RecordID]domain.Record)}
}

// FailNext queues errors returned by the following Submit calls, one per call.
func (s *Sink) FailNext(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = append(s.failing, errs...)
}

// Submit stores a copy of the record under a new ID.
func (s *Sink) Submit(ctx context.Context, record domain.Record) (domain.RecordID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.failing) > 0 {
		err := s.failing[0]
		s.failing = s.failing[1:]
		return "", err
	}

	id := domain.RecordID(uuid.NewString())
	copied := make(domain.Record, len(record))
	for k, v := range record {
		copied[k] = v
	}
	s.records[id] = copied
	s.order = append(s.order, id)
	return id, nil
}

// Get returns a stored record.
func (s *Sink) Get(ctx context.Context, id domain.RecordID) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("record %s not found", id)
	}
	return r, nil
}

// Records returns the stored records in submission order.
func (s *Sink) Records() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}
