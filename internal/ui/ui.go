// Package ui provides terminal progress display for index runs.
package ui

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Stage represents an indexing stage.
type Stage int

const (
	// StageCollecting is the document scanning stage. Its total is unknown.
	StageCollecting Stage = iota
	// StageIndexing is the metadata extraction stage.
	StageIndexing
	// StageComplete indicates indexing is complete.
	StageComplete
)

// String returns the label shown in front of the stage's progress line.
func (s Stage) String() string {
	switch s {
	case StageCollecting:
		return "Collecting documents"
	case StageIndexing:
		return "Indexing documents"
	case StageComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// ProgressEvent represents a progress update. Total is 0 when unknown.
type ProgressEvent struct {
	Stage   Stage
	Current int
	Total   int
}

// StageTimings tracks duration for each indexing stage.
type StageTimings struct {
	Scan    time.Duration
	Extract time.Duration
	Write   time.Duration
}

// CompletionStats contains final indexing statistics.
type CompletionStats struct {
	Documents int
	Bytes     uint64
	Output    string
	Duration  time.Duration
	Stages    StageTimings
}

// Renderer defines the interface for progress display.
// Implementations must be safe for concurrent UpdateProgress calls.
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// UpdateProgress updates progress display.
	UpdateProgress(event ProgressEvent)

	// FinishStage freezes the stage's progress line with a done marker.
	FinishStage(stage Stage)

	// Complete marks rendering as complete with summary.
	Complete(stats CompletionStats)

	// Stop stops the renderer and cleans up.
	Stop() error
}

// Config configures the UI renderer.
type Config struct {
	Output     io.Writer
	ForcePlain bool
	NoColor    bool
	Quiet      bool
}

// ConfigOption is a function that modifies Config.
type ConfigOption func(*Config)

// WithForcePlain forces plain text output.
func WithForcePlain(force bool) ConfigOption {
	return func(c *Config) {
		c.ForcePlain = force
	}
}

// WithNoColor disables color output.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// WithQuiet hides all progress output.
func WithQuiet(quiet bool) ConfigOption {
	return func(c *Config) {
		c.Quiet = quiet
	}
}

// NewConfig creates a new Config with the given output and options.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{Output: output}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// NewRenderer creates an appropriate renderer based on config and environment.
// Quiet runs get a renderer that draws nothing. Otherwise it returns a TUI
// renderer for interactive terminals, and a plain text renderer for CI
// environments and pipes.
func NewRenderer(cfg Config) Renderer {
	if cfg.Quiet || cfg.Output == nil {
		return NewQuietRenderer()
	}

	if cfg.ForcePlain || !IsTTY(cfg.Output) || DetectCI() {
		return NewPlainRenderer(cfg)
	}

	tui, err := NewTUIRenderer(cfg)
	if err != nil {
		return NewPlainRenderer(cfg)
	}

	return tui
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}

	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}
