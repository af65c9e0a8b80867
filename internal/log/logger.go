package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation defaults.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// Options configures NewLogger.
type Options struct {
	// Writer receives human readable text output. Defaults to os.Stderr.
	Writer io.Writer

	// Verbose lowers the level from Info to Debug.
	Verbose bool

	// File, when set, additionally writes JSON records to a rotating log
	// file at this path.
	File string
}

// nopCloser is returned when no log file is open.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger creates the application logger. The returned closer flushes and
// closes the log file and must be called on exit.
func NewLogger(opts Options) (*slog.Logger, io.Closer, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	text := slog.NewTextHandler(w, handlerOpts)
	if opts.File == "" {
		return slog.New(NewSecureHandler(text)), nopCloser{}, nil
	}

	if info, err := os.Stat(opts.File); err == nil && info.IsDir() {
		return nil, nil, fmt.Errorf("log file %s is a directory", opts.File)
	}
	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
	}
	jsonHandler := slog.NewJSONHandler(rotator, handlerOpts)

	return slog.New(NewSecureHandler(fanout{text, jsonHandler})), rotator, nil
}

// fanout sends every record to all of its handlers.
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
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
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
