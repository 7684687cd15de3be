package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	pkgerrors "github.com/traject-bio/trajsmooth/pkg/errors"
)

func TestErrFmtHandlerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	err := pkgerrors.NewValidationError("nPoints", "grid needs at least two points", 1)
	logger.Log(context.Background(), slog.LevelError, "prediction failed", ErrAttrKey, err)

	out := buf.String()
	if !strings.Contains(out, StacktraceAttrKey) {
		t.Errorf("expected %q attribute in output, got: %s", StacktraceAttrKey, out)
	}
	if !strings.Contains(out, "prediction failed") {
		t.Errorf("expected message in output, got: %s", out)
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		if got := ToLogLevel(tt.in); got != tt.want {
			t.Errorf("ToLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToLogLevelPanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on unknown level")
		}
	}()
	ToLogLevel("verbose")
}
