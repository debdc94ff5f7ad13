package index

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/datashed/datashed/internal/document"
)

// ExtractOptions configures metadata extraction.
type ExtractOptions struct {
	// Workers bounds concurrent extractions. Zero or less means one
	// worker per CPU.
	Workers int

	// OnDone is called once per finished candidate, successful or not.
	// It may be called from several goroutines at once.
	OnDone func()
}

// EffectiveWorkers resolves a worker count, mapping zero or less to the
// number of CPUs.
func EffectiveWorkers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// Extract builds one Document per candidate using a bounded worker pool.
// Documents are returned in candidate order whatever the worker count.
// Any failure fails the whole extraction; the first error is returned
// once all started workers have finished. Once ctx is done no further
// candidates are started and ctx's error is returned.
func Extract(ctx context.Context, candidates []string, baseDir string, opts ExtractOptions) ([]document.Document, error) {
	onDone := opts.OnDone
	if onDone == nil {
		onDone = func() {}
	}

	docs := make([]document.Document, len(candidates))

	var g errgroup.Group
	g.SetLimit(EffectiveWorkers(opts.Workers))

	for i, path := range candidates {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			defer onDone()

			doc, err := document.FromPath(path, baseDir)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
