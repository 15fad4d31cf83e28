package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
)

func TestTextHandler_Output(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf)

	handler.Renderer = func(s string) (string, error) {
		return "Rendered: " + s, nil
	}

	actions := []domain.ActionRequest{
		{Type: domain.ActionSystemMessage, Payload: "Welcome!"},
		{Type: domain.ActionRenderContent, Payload: "Pick features"},
		{Type: domain.ActionRequestInput, Payload: domain.InputRequest{
			Kind:     domain.KindMultiSelect,
			Options:  []string{"Search", "Export"},
			Selected: []string{"Export"},
		}},
		{Type: domain.ActionProgress, Payload: domain.Progress{Position: 0, Total: 4, Percent: 25}},
	}

	needsInput, err := handler.Output(context.Background(), actions)
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if !needsInput {
		t.Error("Expected output to return true for needsInput")
	}

	output := outBuf.String()
	for _, expected := range []string{
		"Welcome!",
		"Rendered: Pick features",
		"[ ] Search",
		"[x] Export",
		"(optional, press Enter to skip)",
		"[#####---------------]  25%",
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("Expected output to contain '%s', got '%s'", expected, output)
		}
	}
}

func TestTextHandler_Input(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("  my answer \x07 \n"), outBuf)

	val, err := handler.Input(context.Background())
	if err != nil {
		t.Fatalf("Input failed: %v", err)
	}
	if val != "my answer" {
		t.Errorf("Expected 'my answer', got '%s'", val)
	}
	if prompt := outBuf.String(); prompt != "> " {
		t.Errorf("Expected prompt '> ', got '%s'", prompt)
	}
}

func TestTextHandler_InputRetriesOversized(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "5")
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("way too long\nok\n"), outBuf)

	val, err := handler.Input(context.Background())
	if err != nil {
		t.Fatalf("Input failed: %v", err)
	}
	if val != "ok" {
		t.Errorf("Expected 'ok', got '%s'", val)
	}
	if !strings.Contains(outBuf.String(), "Please try again") {
		t.Error("Expected a retry hint")
	}
}

func TestTextHandler_TypingDelayHonoursContext(t *testing.T) {
	handler := NewTextHandler(strings.NewReader(""), &bytes.Buffer{}, WithTypingDelay(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := handler.Signal(ctx, SignalTyping, nil); err != nil {
		t.Fatalf("Signal failed: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("typing delay ignored cancellation")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{0, "[----------]   0%"},
		{50, "[#####-----]  50%"},
		{100, "[##########] 100%"},
		{120, "[##########] 100%"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.percent, 10); got != tt.want {
			t.Errorf("ProgressBar(%d) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}
