package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// PlainRenderer outputs plain text progress (for CI/pipes). It prints one
// line per finished stage instead of redrawing on every update.
type PlainRenderer struct {
	mu       sync.Mutex
	out      io.Writer
	tracker  *ProgressTracker
	finished map[Stage]bool
}

// NewPlainRenderer creates a plain text renderer.
func NewPlainRenderer(cfg Config) *PlainRenderer {
	return &PlainRenderer{
		out:      cfg.Output,
		tracker:  NewProgressTracker(),
		finished: make(map[Stage]bool),
	}
}

// Start implements Renderer.
func (r *PlainRenderer) Start(ctx context.Context) error {
	return nil
}

// UpdateProgress implements Renderer.
func (r *PlainRenderer) UpdateProgress(event ProgressEvent) {
	r.tracker.Update(event)
}

// FinishStage implements Renderer.
func (r *PlainRenderer) FinishStage(stage Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished[stage] {
		return
	}
	r.finished[stage] = true

	stats := r.tracker.Stats()
	if stats.Stage != stage {
		// Nothing was reported for this stage.
		stats = ProgressStats{Stage: stage, Progress: 1}
	}
	_, _ = fmt.Fprintln(r.out, stats.Line()+doneSuffix)
}

// Complete implements Renderer.
func (r *PlainRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintln(r.out, summaryLine(stats))
}

// Stop implements Renderer.
func (r *PlainRenderer) Stop() error {
	return nil
}

// QuietRenderer tracks progress without drawing anything.
type QuietRenderer struct {
	tracker *ProgressTracker
}

// NewQuietRenderer creates a renderer for quiet runs.
func NewQuietRenderer() *QuietRenderer {
	return &QuietRenderer{tracker: NewProgressTracker()}
}

// Start implements Renderer.
func (r *QuietRenderer) Start(ctx context.Context) error { return nil }

// UpdateProgress implements Renderer.
func (r *QuietRenderer) UpdateProgress(event ProgressEvent) { r.tracker.Update(event) }

// FinishStage implements Renderer.
func (r *QuietRenderer) FinishStage(Stage) {}

// Complete implements Renderer.
func (r *QuietRenderer) Complete(CompletionStats) {}

// Stop implements Renderer.
func (r *QuietRenderer) Stop() error { return nil }

// Stats returns the tracked progress.
func (r *QuietRenderer) Stats() ProgressStats { return r.tracker.Stats() }

var (
	_ Renderer = (*PlainRenderer)(nil)
	_ Renderer = (*QuietRenderer)(nil)
)
