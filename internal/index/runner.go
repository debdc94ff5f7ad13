// Package index builds, writes and reads the document index of a datashed.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/datashed/datashed/internal/datashed"
	dserrors "github.com/datashed/datashed/internal/errors"
	"github.com/datashed/datashed/internal/scanner"
	"github.com/datashed/datashed/internal/ui"
)

// RunnerConfig configures an indexing run.
type RunnerConfig struct {
	// Output is the artifact path. Empty means the datashed's default
	// index path.
	Output string

	// Workers bounds concurrent metadata extraction and IPC compression.
	// Zero means one per CPU.
	Workers int
}

// RunnerResult contains the outcome of an indexing operation.
type RunnerResult struct {
	// Documents is the number of rows written.
	Documents int

	// Bytes is the sum of all document sizes.
	Bytes uint64

	// SizeType is the width the size column was narrowed to.
	SizeType SizeType

	// Output is the path the index was written to.
	Output string

	// Format is the serialization used for Output.
	Format Format

	// Duration is the total indexing time.
	Duration time.Duration
}

// RunnerDependencies contains the injected dependencies for Runner.
type RunnerDependencies struct {
	// Renderer for progress display (required).
	Renderer ui.Renderer

	// Datashed is the resolved corpus (required).
	Datashed *datashed.Datashed

	// Allocator backs arrow buffers (default memory.DefaultAllocator).
	Allocator memory.Allocator
}

// Runner executes indexing operations with progress reporting.
type Runner struct {
	renderer ui.Renderer
	datashed *datashed.Datashed
	mem      memory.Allocator
}

// NewRunner creates a Runner with injected dependencies.
func NewRunner(deps RunnerDependencies) (*Runner, error) {
	if deps.Renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if deps.Datashed == nil {
		return nil, fmt.Errorf("datashed is required")
	}

	mem := deps.Allocator
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	return &Runner{
		renderer: deps.Renderer,
		datashed: deps.Datashed,
		mem:      mem,
	}, nil
}

// stageTiming tracks duration for each indexing stage.
type stageTiming struct {
	scan    time.Duration
	extract time.Duration
	write   time.Duration
}

// Run scans the document directory, extracts a row per document, and
// writes the table. Nothing is written unless every document succeeds.
func (r *Runner) Run(ctx context.Context, cfg RunnerConfig) (*RunnerResult, error) {
	startTime := time.Now()
	var timing stageTiming

	output := cfg.Output
	if output == "" {
		output = r.datashed.DefaultIndexPath()
	}

	lock, err := r.datashed.TryLock()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("index_unlock_failed", slog.String("error", err.Error()))
		}
	}()

	// Stage 1: Collect candidates
	scanStart := time.Now()
	candidates, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}
	timing.scan = time.Since(scanStart)

	// Stage 2: Extract metadata
	extractStart := time.Now()
	table, err := r.extract(ctx, candidates, cfg.Workers)
	if err != nil {
		return nil, err
	}
	timing.extract = time.Since(extractStart)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Write
	writeStart := time.Now()
	if err := Write(table, output, &WriteOptions{Workers: cfg.Workers, Allocator: r.mem}); err != nil {
		slog.Error("index_write_failed", dserrors.FormatForLog(err)...)
		return nil, err
	}
	timing.write = time.Since(writeStart)

	slog.Info("index_write_complete",
		slog.String("output", output),
		slog.String("format", FormatFromPath(output).String()),
		slog.String("size_type", table.SizeType.String()),
		slog.Int64("duration_ms", timing.write.Milliseconds()))

	duration := time.Since(startTime)
	result := &RunnerResult{
		Documents: table.Len(),
		Bytes:     table.TotalBytes(),
		SizeType:  table.SizeType,
		Output:    output,
		Format:    FormatFromPath(output),
		Duration:  duration,
	}

	r.renderer.Complete(ui.CompletionStats{
		Documents: result.Documents,
		Bytes:     result.Bytes,
		Output:    output,
		Duration:  duration,
		Stages: ui.StageTimings{
			Scan:    timing.scan,
			Extract: timing.extract,
			Write:   timing.write,
		},
	})

	slog.Info("index_complete",
		slog.Int("documents", result.Documents),
		slog.Uint64("bytes", result.Bytes),
		slog.Int64("duration_total_ms", duration.Milliseconds()),
		slog.Int64("duration_scan_ms", timing.scan.Milliseconds()),
		slog.Int64("duration_extract_ms", timing.extract.Milliseconds()),
		slog.Int64("duration_write_ms", timing.write.Milliseconds()),
		slog.String("path", r.datashed.Root()))

	return result, nil
}

// scan collects candidate paths, ticking progress once per entry visited.
func (r *Runner) scan(ctx context.Context) ([]string, error) {
	dataDir := r.datashed.DataDir()
	slog.Info("index_scan_started", slog.String("path", dataDir))

	var visited int64
	s := scanner.New(&scanner.Options{
		OnEntry: func() {
			n := atomic.AddInt64(&visited, 1)
			r.renderer.UpdateProgress(ui.ProgressEvent{
				Stage:   ui.StageCollecting,
				Current: int(n),
			})
		},
	})

	candidates, err := s.Collect(ctx, dataDir)
	if err != nil {
		slog.Info("index_scan_cancelled", slog.Int64("entries", atomic.LoadInt64(&visited)))
		return nil, err
	}
	r.renderer.FinishStage(ui.StageCollecting)

	slog.Info("index_scan_complete",
		slog.Int("candidates", len(candidates)),
		slog.Int64("entries", atomic.LoadInt64(&visited)))
	return candidates, nil
}

// extract builds the table from candidates, ticking progress once per
// finished candidate.
func (r *Runner) extract(ctx context.Context, candidates []string, workers int) (*Table, error) {
	total := len(candidates)
	r.renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageIndexing, Total: total})

	var done int64
	docs, err := Extract(ctx, candidates, r.datashed.DataDir(), ExtractOptions{
		Workers: workers,
		OnDone: func() {
			n := atomic.AddInt64(&done, 1)
			r.renderer.UpdateProgress(ui.ProgressEvent{
				Stage:   ui.StageIndexing,
				Current: int(n),
				Total:   total,
			})
		},
	})
	if err != nil {
		slog.Error("index_extract_failed", dserrors.FormatForLog(err)...)
		return nil, err
	}
	r.renderer.FinishStage(ui.StageIndexing)

	table := Assemble(docs)

	slog.Info("index_extract_complete",
		slog.Int("documents", table.Len()),
		slog.Int("workers", EffectiveWorkers(workers)),
		slog.String("size_type", table.SizeType.String()))
	return table, nil
}
