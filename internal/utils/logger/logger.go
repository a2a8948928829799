package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/requestctx"
)

// Logger is the slog logger used at the HTTP edge.
type Logger struct {
	*slog.Logger
}

// Config is shared by the slog and zap loggers so both honour the same
// level and format settings.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output io.Writer
}

func (c *Config) output() io.Writer {
	if c == nil || c.Output == nil {
		return os.Stdout
	}
	return c.Output
}

func (c *Config) textFormat() bool {
	if c == nil {
		return false
	}
	switch strings.ToLower(c.Format) {
	case "text", "console":
		return true
	}
	return false
}

// New builds a Logger. A nil cfg logs JSON at info level to stdout.
func New(cfg *Config) *Logger {
	level := slog.LevelInfo
	if cfg != nil {
		level = parseLevel(cfg.Level)
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}

	var handler slog.Handler = slog.NewJSONHandler(cfg.output(), opts)
	if cfg.textFormat() {
		handler = slog.NewTextHandler(cfg.output(), opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// parseLevel maps a level name to slog. Unknown names mean info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// With returns a Logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

type contextKey struct{}

// ContextWithLogger stores l on ctx.
func ContextWithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// LoggerFromContext returns the logger stored by ContextWithLogger.
func LoggerFromContext(ctx context.Context) (*Logger, bool) {
	l, ok := ctx.Value(contextKey{}).(*Logger)
	return l, ok
}

// FromContext returns the logger on ctx, or a default one, tagged with the
// request ID carried by ctx.
func FromContext(ctx context.Context) *Logger {
	l, ok := LoggerFromContext(ctx)
	if !ok {
		l = New(nil)
	}
	if id := requestctx.RequestID(ctx); id != "" {
		return l.With("request_id", id)
	}
	return l
}
