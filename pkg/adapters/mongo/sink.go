// Package mongo stores finished answer records in a MongoDB collection.
package mongo

import (
	"context"
	"fmt"

	"github.com/aretw0/canvass/pkg/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults used by Connect.
const (
	DefaultDatabase   = "canvass"
	DefaultCollection = "records"
)

// Inserter is the part of *mongo.Collection the sink needs.
type Inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// Sink implements ports.Sink by inserting one document per record.
type Sink struct {
	collection Inserter
}

// NewSink creates a sink over a collection.
func NewSink(collection Inserter) *Sink {
	return &Sink{collection: collection}
}

// Connect dials uri and returns a sink on database.collection plus a function
// that disconnects the client.
func Connect(ctx context.Context, uri, database, collection string) (*Sink, func(context.Context) error, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return NewSink(client.Database(database).Collection(collection)), client.Disconnect, nil
}

// Submit inserts the record and returns the hex ObjectID.
func (s *Sink) Submit(ctx context.Context, record domain.Record) (domain.RecordID, error) {
	doc := make(bson.M, len(record))
	for k, v := range record {
		doc[k] = v
	}

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert record: %w", err)
	}

	switch id := result.InsertedID.(type) {
	case primitive.ObjectID:
		return domain.RecordID(id.Hex()), nil
	default:
		return domain.RecordID(fmt.Sprint(id)), nil
	}
}
