package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
)

// TextHandler implements the human-facing terminal interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	// TypingDelay is a cosmetic pause shown after an accepted answer.
	TypingDelay time.Duration

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTypingDelay configures the "typing" pause.
func WithTypingDelay(d time.Duration) TextHandlerOption {
	return func(h *TextHandler) {
		h.TypingDelay = d
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// initPump starts the background reader once. Reading happens off the
// caller's goroutine so Input can honour context cancellation.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')

		// If we got text (even with EOF), send it
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}

		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, actions []domain.ActionRequest) (bool, error) {
	needsInput := false
	for _, act := range actions {
		switch act.Type {
		case domain.ActionSystemMessage:
			if msg, ok := act.Payload.(string); ok {
				fmt.Fprintf(h.Writer, "%s\n\n", msg)
			}
		case domain.ActionRenderContent:
			if msg, ok := act.Payload.(string); ok {
				fmt.Fprintln(h.Writer, strings.TrimSpace(h.render(msg)))
			}
		case domain.ActionRequestInput:
			needsInput = true
			if req, ok := act.Payload.(domain.InputRequest); ok {
				h.printHint(req)
			}
		case domain.ActionProgress:
			if p, ok := act.Payload.(domain.Progress); ok {
				fmt.Fprintln(h.Writer, ProgressBar(p.Percent, 20))
			}
		case domain.ActionAchievement:
			if label, ok := act.Payload.(string); ok {
				h.announce(label)
			}
		}
	}
	return needsInput, nil
}

func (h *TextHandler) render(msg string) string {
	if h.Renderer == nil {
		return msg
	}
	rendered, err := h.Renderer(msg)
	if err != nil {
		return msg
	}
	return rendered
}

func (h *TextHandler) printHint(req domain.InputRequest) {
	if req.Help != "" {
		fmt.Fprintf(h.Writer, "  %s\n", req.Help)
	}

	switch req.Kind {
	case domain.KindSingleSelect:
		fmt.Fprintf(h.Writer, "  Options: %s\n", strings.Join(req.Options, " / "))
	case domain.KindMultiSelect:
		selected := make(map[string]bool, len(req.Selected))
		for _, s := range req.Selected {
			selected[s] = true
		}
		for _, opt := range req.Options {
			mark := " "
			if selected[opt] {
				mark = "x"
			}
			fmt.Fprintf(h.Writer, "  [%s] %s\n", mark, opt)
		}
		fmt.Fprintln(h.Writer, "  (toggle <option> to change, Enter to confirm)")
	case domain.KindRating:
		fmt.Fprintln(h.Writer, "  (1-5)")
	case domain.KindDate:
		fmt.Fprintln(h.Writer, "  (date, e.g. 2024-05-31)")
	case domain.KindNumeric:
		fmt.Fprintln(h.Writer, "  (whole number)")
	}

	if !req.Required && req.Kind != domain.KindRating {
		fmt.Fprintln(h.Writer, "  (optional, press Enter to skip)")
	}
}

func (h *TextHandler) announce(label string) {
	fmt.Fprintf(h.Writer, "\n  * Achievement unlocked: %s *\n\n", label)
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	// Ensure the pump is running
	h.initPump()

	for {
		// Only show prompt if context is not yet done
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return strings.TrimSpace(clean), nil
		}
	}
}

// Signal renders cosmetic feedback. The typing pause only runs after the
// engine has already accepted the answer, so it never delays a state change.
func (h *TextHandler) Signal(ctx context.Context, name string, args map[string]any) error {
	switch name {
	case SignalTyping:
		if h.TypingDelay <= 0 {
			return nil
		}
		fmt.Fprint(h.Writer, "...")
		timer := time.NewTimer(h.TypingDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
		fmt.Fprint(h.Writer, "\r   \r")
	case SignalAchievement:
		if label, ok := args["label"].(string); ok {
			h.announce(label)
		}
	}
	return nil
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	fmt.Fprintf(h.Writer, "! %s\n", msg)
	return nil
}

// ProgressBar draws a fixed-width bar such as "[#####-----]  50%".
func ProgressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat("-", width-filled), percent)
}
