// Package logx binds pslog loggers to gallery instances.
package logx

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/pslog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithGallery annotates the logger with the gallery instance and its key.
func WithGallery(log pslog.Logger, instanceID string, key model.Key) pslog.Logger {
	if instanceID != "" {
		log = log.With("gallery", instanceID)
	}
	if !key.IsZero() {
		log = log.With("key", key.String())
	}
	return log
}

// Options maps a config level name onto structured pslog options.
func Options(level string) (pslog.Options, error) {
	opts := pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.InfoLevel,
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "", "info":
	case "warn", "warning":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	default:
		return opts, fmt.Errorf("unknown log level %q", level)
	}
	return opts, nil
}

// New builds a structured logger writing to w.
func New(w io.Writer, level string) (pslog.Logger, error) {
	opts, err := Options(level)
	if err != nil {
		return nil, err
	}
	return pslog.NewWithOptions(w, opts), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenFile builds a logger appending to path. The TUI draws on the terminal,
// so its logs never go to stderr. The returned closer closes the file.
func OpenFile(path, level string) (pslog.Logger, io.Closer, error) {
	if path == "" {
		log, err := New(io.Discard, level)
		return log, nopCloser{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log, err := New(f, level)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return log, f, nil
}
