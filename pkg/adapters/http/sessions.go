package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/runner"
	"github.com/go-chi/chi/v5"
)

// ErrNotMultiSelect is returned when toggle targets a question without a set of options.
var ErrNotMultiSelect = errors.New("the current question is not multi-select")

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	Variant domain.Variant `json:"variant"`
}

// AnswerRequest is the body of POST /sessions/{id}/answer.
type AnswerRequest struct {
	Value string `json:"value"`
}

// ToggleRequest is the body of POST /sessions/{id}/toggle.
type ToggleRequest struct {
	Option string `json:"option"`
}

// ErrorResponse describes a failed request. Session is set when the session is
// still usable, so clients can re-render the same question.
type ErrorResponse struct {
	Error      string               `json:"error"`
	QuestionID string               `json:"question_id,omitempty"`
	Reason     string               `json:"reason,omitempty"`
	Session    *runner.RichResponse `json:"session,omitempty"`
}

// FinalizeResponse is the body of a successful finalize.
type FinalizeResponse struct {
	RecordID domain.RecordID `json:"record_id"`
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.fail(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if body.Variant == "" {
		body.Variant = domain.VariantChat
	}
	if !body.Variant.Valid() {
		s.fail(w, http.StatusBadRequest, fmt.Sprintf("unknown variant %q", body.Variant))
		return
	}

	ctx := r.Context()
	state := s.Engine.Start(ctx, body.Variant)
	if err := s.Sessions.Create(ctx, state); err != nil {
		s.Logger.Error("create session failed", "err", err)
		s.fail(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	s.Logger.Info("session created", "session_id", state.ID, "variant", state.Variant)
	s.writeJSON(w, http.StatusCreated, runner.NewRichResponse(ctx, s.Engine, nil, state))
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, nil, err)
		return
	}
	s.writeJSON(w, http.StatusOK, runner.NewRichResponse(r.Context(), s.Engine, nil, state))
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Discard(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleError(w, r, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Answer handles the POST /sessions/{id}/answer request.
func (s *Server) Answer(w http.ResponseWriter, r *http.Request) {
	var body AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	value, err := runner.SanitizeInput(body.Value)
	if err != nil {
		s.Logger.Warn("answer rejected", "err", err, "size", len(body.Value))
		s.fail(w, http.StatusBadRequest, fmt.Sprintf("invalid input: %v", err))
		return
	}

	s.mutate(w, r, func(ctx context.Context, state *domain.State) (*domain.State, error) {
		return s.Engine.SubmitAnswer(ctx, state, value)
	})
}

// Toggle handles the POST /sessions/{id}/toggle request.
func (s *Server) Toggle(w http.ResponseWriter, r *http.Request) {
	var body ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mutate(w, r, func(ctx context.Context, state *domain.State) (*domain.State, error) {
		q, ok := s.Engine.CurrentQuestion(state)
		if !ok {
			return nil, domain.ErrSessionComplete
		}
		// The engine treats this as a programming error; clients get a 409 instead.
		if q.Kind != domain.KindMultiSelect {
			return nil, ErrNotMultiSelect
		}
		return s.Engine.Toggle(ctx, state, body.Option)
	})
}

// Back handles the POST /sessions/{id}/back request.
func (s *Server) Back(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(ctx context.Context, state *domain.State) (*domain.State, error) {
		return s.Engine.GoBack(ctx, state), nil
	})
}

// Finalize handles the POST /sessions/{id}/finalize request.
// The record is submitted under the session lock, so concurrent finalize calls
// for one session never produce two records.
func (s *Server) Finalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	store := s.Sessions.Store()

	var (
		state    *domain.State
		recordID domain.RecordID
	)
	err := s.Sessions.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		state, err = store.Load(ctx, id)
		if err != nil {
			return err
		}
		recordID, err = s.Engine.Finalize(ctx, state)
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, id); err != nil {
			s.Logger.Warn("failed to discard submitted session", "session_id", id, "err", err)
		}
		return nil
	})
	if err != nil {
		s.handleError(w, r, state, err)
		return
	}

	s.Logger.Info("session finalized", "session_id", id, "record_id", recordID)
	s.writeJSON(w, http.StatusOK, FinalizeResponse{RecordID: recordID})
}

// mutate applies step under the session lock, persists the result, broadcasts
// the diff to event subscribers and writes the rendered session.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, step func(context.Context, *domain.State) (*domain.State, error)) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var previous *domain.State
	state, err := s.Sessions.Update(ctx, id, func(current *domain.State) (*domain.State, error) {
		previous = current
		return step(ctx, current)
	})
	if err != nil {
		s.handleError(w, r, state, err)
		return
	}

	resp := runner.NewRichResponse(ctx, s.Engine, previous, state)
	if resp.Diff != nil {
		if payload, err := json.Marshal(resp.Diff); err == nil {
			s.Streams.Broadcast(id, string(payload))
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleError maps engine and store errors onto status codes.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, state *domain.State, err error) {
	resp := ErrorResponse{Error: err.Error()}
	if state != nil {
		resp.Session = runner.NewRichResponse(r.Context(), s.Engine, nil, state)
	}

	var (
		verr   *domain.ValidationError
		subErr *domain.SubmissionError
		status int
	)
	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		resp.QuestionID = verr.QuestionID
		resp.Reason = verr.Reason
	case errors.As(err, &subErr):
		status = http.StatusBadGateway
		resp.Reason = subErr.Reason
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
		resp.Session = nil
	case errors.Is(err, domain.ErrSessionComplete),
		errors.Is(err, domain.ErrIncomplete),
		errors.Is(err, ErrNotMultiSelect):
		status = http.StatusConflict
	default:
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
		s.fail(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) fail(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}
