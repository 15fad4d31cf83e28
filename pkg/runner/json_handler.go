package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/canvass/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Every Output call writes one line holding the action array; answers are read
// one per line, either as a JSON string or as raw text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder

	mu sync.Mutex
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) emit(actions []domain.ActionRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(actions)
}

func (h *JSONHandler) Output(ctx context.Context, actions []domain.ActionRequest) (bool, error) {
	if len(actions) == 0 {
		return false, nil
	}

	if err := h.emit(actions); err != nil {
		return false, err
	}

	needsInput := false
	for _, act := range actions {
		if act.Type == domain.ActionRequestInput {
			needsInput = true
		}
	}
	return needsInput, nil
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}
	return SanitizeInput(text)
}

// Signal forwards the event so embedding hosts can animate it.
// The typing signal carries no information in a pipe and is dropped.
func (h *JSONHandler) Signal(ctx context.Context, name string, args map[string]any) error {
	if name == SignalTyping {
		return nil
	}
	if name == SignalAchievement {
		return h.emit([]domain.ActionRequest{{Type: domain.ActionAchievement, Payload: args["label"]}})
	}
	return h.emit([]domain.ActionRequest{{Type: "SIGNAL", Payload: map[string]any{"name": name, "args": args}}})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.emit([]domain.ActionRequest{{Type: domain.ActionSystemMessage, Payload: msg}})
}
