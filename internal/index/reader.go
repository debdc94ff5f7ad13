package index

import (
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/datashed/datashed/internal/errors"
)

// csvChunkRows is the number of rows decoded per CSV record batch.
const csvChunkRows = 4096

// Read loads an index artifact written by Write. The format is chosen by
// FormatFromPath. For text formats, which carry no type information, the
// size width is narrowed from the values read.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ReadFailed(path, err)
	}
	defer func() { _ = f.Close() }()

	mem := memory.DefaultAllocator
	format := FormatFromPath(path)

	var t *Table
	switch format {
	case FormatCSV, FormatTSV:
		t, err = decodeText(f, format, mem)
	default:
		t, err = decodeIPC(f, mem)
	}
	if err != nil {
		return nil, errors.ReadFailed(path, err)
	}
	return t, nil
}

func decodeIPC(f *os.File, mem memory.Allocator) (*Table, error) {
	r, err := ipc.NewFileReader(f, ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("open ipc: %w", err)
	}
	defer func() { _ = r.Close() }()

	schema := r.Schema()
	if schema.NumFields() != 2 {
		return nil, fmt.Errorf("index has %d columns, want 2", schema.NumFields())
	}
	sizeType, err := sizeTypeFromArrow(schema.Field(1).Type)
	if err != nil {
		return nil, err
	}

	t := &Table{SizeType: sizeType}
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", i, err)
		}
		if err := t.appendRecord(rec); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func decodeText(r io.Reader, format Format, mem memory.Allocator) (*Table, error) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: ColumnPath, Type: arrow.BinaryTypes.String},
		{Name: ColumnSize, Type: arrow.PrimitiveTypes.Uint64},
	}, nil)

	cr := csv.NewReader(r, schema,
		csv.WithComma(format.delimiter()),
		csv.WithHeader(true),
		csv.WithChunk(csvChunkRows),
		csv.WithAllocator(mem),
	)
	defer cr.Release()

	t := &Table{}
	for cr.Next() {
		if err := t.appendRecord(cr.Record()); err != nil {
			return nil, err
		}
	}
	if err := cr.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	var maxSize uint64
	for _, s := range t.Sizes {
		maxSize = max(maxSize, s)
	}
	t.SizeType = NarrowSizeType(maxSize)

	return t, nil
}
