package index

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/renameio/v2"

	"github.com/datashed/datashed/internal/errors"
)

// WriteOptions configures Write.
type WriteOptions struct {
	// Workers bounds the compression goroutines of the IPC encoder.
	// Zero or less means one per CPU.
	Workers int

	// Allocator backs the arrow buffers (default memory.DefaultAllocator).
	Allocator memory.Allocator
}

// Write serializes the table to dest in the format chosen by
// FormatFromPath. The artifact is written to a temporary file next to
// dest and renamed over it only once complete, so a failed write leaves
// any previous artifact untouched. A replaced artifact keeps its mode; a
// new one is created 0666 minus the umask.
func Write(t *Table, dest string, opts *WriteOptions) error {
	if opts == nil {
		opts = &WriteOptions{}
	}
	mem := opts.Allocator
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	pf, err := renameio.NewPendingFile(dest,
		renameio.WithTempDir(filepath.Dir(dest)),
		renameio.WithPermissions(0o666),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return errors.WriteFailed(dest, err)
	}
	defer func() { _ = pf.Cleanup() }()

	if err := encode(pf, t, FormatFromPath(dest), mem, EffectiveWorkers(opts.Workers)); err != nil {
		return errors.WriteFailed(dest, err)
	}

	if err := pf.CloseAtomicallyReplace(); err != nil {
		return errors.WriteFailed(dest, err)
	}
	return nil
}

func encode(w io.Writer, t *Table, format Format, mem memory.Allocator, workers int) error {
	rec := t.Record(mem)
	defer rec.Release()

	switch format {
	case FormatCSV, FormatTSV:
		cw := csv.NewWriter(w, rec.Schema(),
			csv.WithComma(format.delimiter()),
			csv.WithHeader(true),
		)
		// The header goes out with the first record, so an empty
		// record is still written.
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("encode %s: %w", format, err)
		}
		if err := cw.Flush(); err != nil {
			return fmt.Errorf("flush %s: %w", format, err)
		}
		return cw.Error()

	default:
		fw, err := ipc.NewFileWriter(w,
			ipc.WithSchema(rec.Schema()),
			ipc.WithAllocator(mem),
			ipc.WithZstd(),
			ipc.WithCompressConcurrency(workers),
		)
		if err != nil {
			return fmt.Errorf("create ipc writer: %w", err)
		}
		if rec.NumRows() > 0 {
			if err := fw.Write(rec); err != nil {
				_ = fw.Close()
				return fmt.Errorf("encode ipc: %w", err)
			}
		}
		if err := fw.Close(); err != nil {
			return fmt.Errorf("finish ipc: %w", err)
		}
		return nil
	}
}
