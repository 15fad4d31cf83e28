// Package mcp exposes canvass sessions as Model Context Protocol tools, so an
// agent can conduct the feedback conversation on behalf of a host.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/canvass"
	"github.com/aretw0/canvass/internal/logging"
	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/runner"
	"github.com/aretw0/canvass/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CatalogURI is the resource holding the question catalog.
const CatalogURI = "canvass://catalog"

// RenderResponse provides a unified structure across adapters.
type RenderResponse struct {
	State    *domain.State          `json:"state,omitempty" jsonschema_description:"The session after the call"`
	Actions  []domain.ActionRequest `json:"actions" jsonschema_description:"What to show the respondent next"`
	Terminal bool                   `json:"terminal" jsonschema_description:"True once every question was answered"`
	Percent  int                    `json:"percent" jsonschema_description:"Completion from 0 to 100"`
	Error    string                 `json:"error,omitempty" jsonschema_description:"Why the answer was rejected; the session did not move"`
}

// FinalizeResponse reports the stored record.
type FinalizeResponse struct {
	RecordID string `json:"record_id" jsonschema_description:"Identifier assigned by the sink"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	ports.Engine
	Catalog() *catalog.Catalog
}

// Server wraps the canvass Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger. It must not write to stdout when serving stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("canvass-mcp", canvass.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a feedback session and get the first question."),
		mcp.WithString("variant", mcp.Description("chat, wizard, form or assistant (default chat)")),
		mcp.WithOutputSchema[RenderResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Render the current question of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID from start_session")),
		mcp.WithOutputSchema[RenderResponse](),
	), mcp.NewStructuredToolHandler(s.handleGet))

	s.mcpServer.AddTool(mcp.NewTool("answer",
		mcp.WithDescription("Answer the current question. An empty value skips optional questions and confirms multi-select toggles."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("value", mcp.Required(), mcp.Description("The respondent's answer as typed")),
		mcp.WithOutputSchema[RenderResponse](),
	), mcp.NewStructuredToolHandler(s.handleAnswer))

	s.mcpServer.AddTool(mcp.NewTool("toggle",
		mcp.WithDescription("Flip one option of the current multi-select question without advancing."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("option", mcp.Required(), mcp.Description("Option label")),
		mcp.WithOutputSchema[RenderResponse](),
	), mcp.NewStructuredToolHandler(s.handleToggle))

	s.mcpServer.AddTool(mcp.NewTool("go_back",
		mcp.WithDescription("Return to the previous question. Stored answers are kept."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[RenderResponse](),
	), mcp.NewStructuredToolHandler(s.handleBack))

	s.mcpServer.AddTool(mcp.NewTool("finalize",
		mcp.WithDescription("Submit the answers of a completed session. Safe to retry after a failure."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[FinalizeResponse](),
	), mcp.NewStructuredToolHandler(s.handleFinalize))
}

func (s *Server) handleStart(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (RenderResponse, error) {
	variant := domain.VariantChat
	if v, _ := args["variant"].(string); v != "" {
		variant = domain.Variant(v)
	}
	if !variant.Valid() {
		return RenderResponse{}, fmt.Errorf("unknown variant %q", variant)
	}

	state := s.engine.Start(ctx, variant)
	if err := s.sessions.Create(ctx, state); err != nil {
		return RenderResponse{}, err
	}
	return s.render(ctx, state, ""), nil
}

func (s *Server) handleGet(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (RenderResponse, error) {
	id, _ := args["session_id"].(string)
	state, err := s.sessions.Load(ctx, id)
	if err != nil {
		return RenderResponse{}, err
	}
	return s.render(ctx, state, ""), nil
}

func (s *Server) handleAnswer(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (RenderResponse, error) {
	value, _ := args["value"].(string)
	clean, err := runner.SanitizeInput(value)
	if err != nil {
		s.logger.Warn("MCP answer: input rejected", "err", err, "size", len(value))
		return RenderResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	return s.mutate(ctx, args, func(state *domain.State) (*domain.State, error) {
		return s.engine.SubmitAnswer(ctx, state, clean)
	})
}

func (s *Server) handleToggle(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (RenderResponse, error) {
	option, _ := args["option"].(string)
	return s.mutate(ctx, args, func(state *domain.State) (*domain.State, error) {
		q, ok := s.engine.CurrentQuestion(state)
		if !ok {
			return nil, domain.ErrSessionComplete
		}
		if q.Kind != domain.KindMultiSelect {
			return nil, fmt.Errorf("question %s is not multi-select", q.ID)
		}
		return s.engine.Toggle(ctx, state, option)
	})
}

func (s *Server) handleBack(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (RenderResponse, error) {
	return s.mutate(ctx, args, func(state *domain.State) (*domain.State, error) {
		return s.engine.GoBack(ctx, state), nil
	})
}

func (s *Server) handleFinalize(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (FinalizeResponse, error) {
	id, _ := args["session_id"].(string)
	store := s.sessions.Store()

	var recordID domain.RecordID
	err := s.sessions.WithLock(ctx, id, func(ctx context.Context) error {
		state, err := store.Load(ctx, id)
		if err != nil {
			return err
		}
		recordID, err = s.engine.Finalize(ctx, state)
		if err != nil {
			return err
		}
		return store.Delete(ctx, id)
	})
	if err != nil {
		return FinalizeResponse{}, err
	}
	return FinalizeResponse{RecordID: string(recordID)}, nil
}

// mutate runs step under the session lock. Validation failures are reported in
// the response, with the unchanged session, instead of failing the tool call.
func (s *Server) mutate(ctx context.Context, args map[string]interface{}, step func(*domain.State) (*domain.State, error)) (RenderResponse, error) {
	id, _ := args["session_id"].(string)
	state, err := s.sessions.Update(ctx, id, step)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return s.render(ctx, state, verr.Reason), nil
	}
	if err != nil {
		return RenderResponse{}, err
	}
	return s.render(ctx, state, ""), nil
}

func (s *Server) render(ctx context.Context, state *domain.State, reason string) RenderResponse {
	rich := runner.NewRichResponse(ctx, s.engine, nil, state)
	return RenderResponse{
		State:    rich.State,
		Actions:  rich.Actions,
		Terminal: rich.Terminal,
		Percent:  rich.Percent,
		Error:    reason,
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Question Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.catalogJSON()
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}

func (s *Server) catalogJSON() (string, error) {
	cat := s.engine.Catalog()
	jsonBytes, err := json.Marshal(map[string]any{
		"name":      cat.Name(),
		"version":   cat.Version(),
		"questions": cat.Questions(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	return string(jsonBytes), nil
}
