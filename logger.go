package packet

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with packet-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithLength adds a length field to the logger.
func (l *Logger) WithLength(length uint16) *Logger {
	return &Logger{
		Logger: l.Logger.With("length", length),
	}
}

// WithLayout adds the block size and alignment to the logger.
func (l *Logger) WithLayout(layout Layout) *Logger {
	return &Logger{
		Logger: l.Logger.With("size", layout.Size, "align", layout.Align),
	}
}

// LogAlloc logs a packet allocation.
func (l *Logger) LogAlloc(length uint16, layout Layout, err error) {
	if err != nil {
		l.Error("packet allocation failed",
			"length", length,
			"size", layout.Size,
			"error", err,
		)
	} else {
		l.Debug("packet allocated",
			"length", length,
			"size", layout.Size,
			"align", layout.Align,
		)
	}
}

// LogCapacityOverflow logs a source sequence that was too long for a packet.
func (l *Logger) LogCapacityOverflow(n int) {
	l.Warn("packet source exceeds maximum length",
		"elements", n,
		"max", MaxLength,
	)
}

// LogLeak logs a packet that was garbage collected without Close.
func (l *Logger) LogLeak(layout Layout) {
	l.Warn("packet leaked without close",
		"size", layout.Size,
		"align", layout.Align,
	)
}

// LogFree logs a packet release.
func (l *Logger) LogFree(layout Layout, err error) {
	if err != nil {
		l.Error("packet release failed",
			"size", layout.Size,
			"error", err,
		)
	} else {
		l.Debug("packet released",
			"size", layout.Size,
		)
	}
}
