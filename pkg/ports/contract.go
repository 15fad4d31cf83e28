package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, domain.VariantChat)
		state.Position = 2
		state.History = []int{0, 1}
		state.Answers["name"] = "Asha"
		state.Answers["satisfaction"] = 4
		state.Answers["features"] = []string{"Design", "Price"}
		state.Achievements = []string{"Started"}
		state.Initialized = true

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sessionID, loaded.ID)
		assert.Equal(t, domain.VariantChat, loaded.Variant)
		assert.Equal(t, 2, loaded.Position)
		assert.Equal(t, []int{0, 1}, loaded.History)
		assert.Equal(t, "Asha", loaded.Answers["name"])
		assert.Equal(t, []string{"Started"}, loaded.Achievements)
		assert.True(t, loaded.Initialized)
		// Serializing stores may widen numbers and lists; only presence is required.
		assert.NotNil(t, loaded.Answers["satisfaction"])
		assert.NotNil(t, loaded.Answers["features"])
	})

	t.Run("Load Returns A Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Answers["name"] = "changed"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "Asha", again.Answers["name"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, domain.VariantForm))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, domain.VariantWizard))
		_ = store.Save(ctx, id2, domain.NewState(id2, domain.VariantWizard))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunSinkContract verifies that a Sink accepts records and returns distinct IDs.
// fetch, when not nil, reads a stored record back by ID.
func RunSinkContract(t *testing.T, sink Sink, fetch func(ctx context.Context, id domain.RecordID) (domain.Record, error)) {
	ctx := context.Background()

	record := domain.Record{
		"first_name":          "Asha",
		"satisfaction":        4,
		"favorite_features":   []string{"Design"},
		domain.KeySource:      string(domain.VariantWizard),
		domain.KeySubmittedAt: "2024-05-17T12:00:00Z",
	}

	t.Run("Submit Returns ID", func(t *testing.T) {
		id, err := sink.Submit(ctx, record)
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		if fetch == nil {
			return
		}
		stored, err := fetch(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Asha", stored["first_name"])
		assert.Equal(t, string(domain.VariantWizard), stored[domain.KeySource])
		assert.Equal(t, "2024-05-17T12:00:00Z", stored[domain.KeySubmittedAt])
	})

	t.Run("IDs Are Distinct", func(t *testing.T) {
		a, err := sink.Submit(ctx, record)
		require.NoError(t, err)
		b, err := sink.Submit(ctx, record)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("Canceled Context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := sink.Submit(canceled, record)
		if err != nil {
			assert.True(t, errors.Is(err, context.Canceled), "a failing submit must report the cancellation, got %v", err)
		}
	})
}
