// Package middleware decorates sinks and session stores with cross-cutting
// behavior: PII masking, encryption at rest, logging and metrics.
package middleware

import "github.com/aretw0/canvass/pkg/ports"

// SinkMiddleware wraps a Sink to add behavior.
type SinkMiddleware func(ports.Sink) ports.Sink

// StoreMiddleware wraps a SessionStore to add behavior.
type StoreMiddleware func(ports.SessionStore) ports.SessionStore

// WrapSink applies mws so that the first one is the outermost.
func WrapSink(sink ports.Sink, mws ...SinkMiddleware) ports.Sink {
	for i := len(mws) - 1; i >= 0; i-- {
		sink = mws[i](sink)
	}
	return sink
}

// WrapStore applies mws so that the first one is the outermost.
func WrapStore(store ports.SessionStore, mws ...StoreMiddleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
