// Package log configures the slog logger shared by the host tools.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Component identifies a subsystem for log filtering.
type Component string

// Host tool component identifiers.
const (
	ComponentCLI     Component = "cli"
	ComponentSerial  Component = "serial"
	ComponentMonitor Component = "monitor"
	ComponentPlan    Component = "plan"
)

// Format specifies the output format for logging.
type Format int

// Format options.
const (
	FormatText Format = iota // Text format (default)
	FormatJSON               // JSON format
)

// ParseFormat parses "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}

var (
	logger *slog.Logger
	level  = new(slog.LevelVar)
	mu     sync.RWMutex
)

func init() {
	level.Set(slog.LevelWarn)
	logger = New(os.Stderr, FormatText)
}

// New returns a logger writing to w in the given format at the shared level.
func New(w io.Writer, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetLevel sets the minimum level for all host logging.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// Level returns the current minimum level.
func Level() slog.Level {
	return level.Level()
}

// Setup replaces the default logger.
func Setup(w io.Writer, format Format) {
	SetLogger(New(w, format))
}

// SetLogger replaces the default logger with a custom logger.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// For returns the default logger tagged with component.
func For(c Component) *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.With("component", string(c))
}
