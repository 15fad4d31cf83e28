package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// Sink implements ports.Sink by writing each record as JSON under
// <prefix>record:<id> and indexing it by submission time in <prefix>records:index.
type Sink struct {
	client *backend.Client
	prefix string
}

// NewSink creates a record sink from an existing client. Records never expire;
// WithTTL only applies to sessions.
func NewSink(client *backend.Client, opts ...Option) *Sink {
	s := apply(opts)
	return &Sink{
		client: client,
		prefix: s.prefix,
	}
}

func (s *Sink) key(id domain.RecordID) string {
	return s.prefix + "record:" + string(id)
}

func (s *Sink) indexKey() string {
	return s.prefix + "records:index"
}

// Submit stores the record and returns its generated ID.
func (s *Sink) Submit(ctx context.Context, record domain.Record) (domain.RecordID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	id := domain.RecordID(uuid.NewString())
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(id), data, 0)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(time.Now().Unix()),
		Member: string(id),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to write record to redis: %w", err)
	}
	return id, nil
}

// Get reads a stored record back.
func (s *Sink) Get(ctx context.Context, id domain.RecordID) (domain.Record, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("record %s not found", id)
		}
		return nil, fmt.Errorf("failed to get record from redis: %w", err)
	}
	var record domain.Record
	if err := json.Unmarshal(val, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return record, nil
}

// Count returns how many records were submitted.
func (s *Sink) Count(ctx context.Context) (int64, error) {
	return s.client.ZCard(ctx, s.indexKey()).Result()
}
