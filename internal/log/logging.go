// Package log builds the erdgen process logger.
//
// Without a log file, records below error go to stdout and errors go to
// stderr, so a build system can surface failures from stderr alone.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Output formats accepted by NewHandler.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatAuto = "auto"
)

// LevelTrace is below debug and logs every resolution candidate.
const LevelTrace slog.Level = -8

var levels = map[string]slog.Level{
	"trace": LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a level name to its slog level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	if l, ok := levels[s]; ok {
		return l
	}
	return slog.LevelInfo
}

// fanout hands each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// below passes records under limit to h.
type below struct {
	h     slog.Handler
	limit slog.Level
}

func (b below) Enabled(ctx context.Context, level slog.Level) bool {
	return level < b.limit && b.h.Enabled(ctx, level)
}

func (b below) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= b.limit {
		return nil
	}
	return b.h.Handle(ctx, r)
}

func (b below) WithAttrs(attrs []slog.Attr) slog.Handler {
	return below{h: b.h.WithAttrs(attrs), limit: b.limit}
}

func (b below) WithGroup(name string) slog.Handler {
	return below{h: b.h.WithGroup(name), limit: b.limit}
}

// NewHandler builds a text or JSON handler. FormatAuto picks JSON when w is a
// file that is not a terminal, e.g. when running under a CI build.
func NewHandler(w io.Writer, format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatAuto {
		format = FormatText
		if f, ok := w.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
			format = FormatJSON
		}
	}
	if format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// SetupLogger builds the process logger. With a log file, the console gets
// everything on stderr and the file gets a text copy; the returned closers
// must be closed on exit.
func SetupLogger(logLevel, logFile, format string) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(logLevel)

	if logFile == "" {
		return slog.New(fanout{
			below{h: NewHandler(os.Stdout, format, level), limit: slog.LevelError},
			NewHandler(os.Stderr, format, slog.LevelError),
		}), nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(fanout{
		NewHandler(os.Stderr, format, level),
		NewHandler(f, FormatText, level),
	}), []io.Closer{f}, nil
}
