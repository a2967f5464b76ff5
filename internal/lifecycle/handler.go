// Package lifecycle provides wrapper functions for CLI command execution.
// It handles timing and completion reporting, eliminating boilerplate code
// across CLI commands.
//
// Each wrapper captures the start time, executes the provided function,
// calculates the duration and calls the handler.
package lifecycle

import (
	"context"
	"log/slog"
	"time"
)

// CompletionHandler receives the outcome of a wrapped command.
//
// The wrapper functions accept a nil handler and then only run the function.
type CompletionHandler interface {
	// OnCommandComplete is called when a command finishes execution.
	// Parameters:
	//   - name: the command name (e.g., "generate", "regenerate")
	//   - success: true if the command completed without error
	//   - duration: how long the command took to execute
	OnCommandComplete(name string, success bool, duration time.Duration)
}

// Run executes fn and reports its outcome to handler.
func Run(handler CompletionHandler, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if handler != nil {
		handler.OnCommandComplete(name, err == nil, time.Since(start))
	}
	return err
}

// RunWithContext is Run for functions that take a context.
func RunWithContext(ctx context.Context, handler CompletionHandler, name string, fn func(context.Context) error) error {
	return Run(handler, name, func() error { return fn(ctx) })
}

// LogHandler reports completions as slog records: Debug on success, Warn on failure.
type LogHandler struct {
	Logger *slog.Logger
}

// OnCommandComplete implements CompletionHandler.
func (h LogHandler) OnCommandComplete(name string, success bool, duration time.Duration) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelDebug
	if !success {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "command complete",
		"command", name,
		"success", success,
		"duration", duration.Round(time.Millisecond),
	)
}
