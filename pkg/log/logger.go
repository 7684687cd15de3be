// Package log configures structured logging for trajsmooth.
//
// The library itself only logs at debug level around the prediction entry
// points; applications embedding it call SetupLogger once to get JSON logs
// with stack traces expanded from cockroachdb/errors values.
package log

import (
	"fmt"
	"log/slog"
	"os"
)

// Attribute keys shared by the prediction entry points.
const (
	OperationKey = "operation"
	GenesKey     = "n_genes"
	LineagesKey  = "n_lineages"
	PointsKey    = "n_points"
	LayoutKey    = "layout"

	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// SetupLogger installs a JSON slog handler as the process default.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stderr, &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))
}

// ToLogLevel converts a level name to a slog.Level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}
