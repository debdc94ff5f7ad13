package index

import (
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/datashed/datashed/internal/document"
)

// Column names of an index table.
const (
	ColumnPath = "path"
	ColumnSize = "size"
)

// SizeType is the unsigned integer width of the size column.
type SizeType int

const (
	SizeUint8 SizeType = iota
	SizeUint16
	SizeUint32
	SizeUint64
)

// String returns the type name.
func (s SizeType) String() string {
	switch s {
	case SizeUint8:
		return "uint8"
	case SizeUint16:
		return "uint16"
	case SizeUint32:
		return "uint32"
	default:
		return "uint64"
	}
}

// ArrowType returns the arrow data type for the width.
func (s SizeType) ArrowType() arrow.DataType {
	switch s {
	case SizeUint8:
		return arrow.PrimitiveTypes.Uint8
	case SizeUint16:
		return arrow.PrimitiveTypes.Uint16
	case SizeUint32:
		return arrow.PrimitiveTypes.Uint32
	default:
		return arrow.PrimitiveTypes.Uint64
	}
}

// sizeTypeFromArrow maps an arrow type back to a width.
func sizeTypeFromArrow(dt arrow.DataType) (SizeType, error) {
	switch dt.ID() {
	case arrow.UINT8:
		return SizeUint8, nil
	case arrow.UINT16:
		return SizeUint16, nil
	case arrow.UINT32:
		return SizeUint32, nil
	case arrow.UINT64:
		return SizeUint64, nil
	default:
		return 0, fmt.Errorf("size column has type %s, want an unsigned integer", dt)
	}
}

// NarrowSizeType returns the smallest width that holds maxSize.
func NarrowSizeType(maxSize uint64) SizeType {
	switch {
	case maxSize <= math.MaxUint8:
		return SizeUint8
	case maxSize <= math.MaxUint16:
		return SizeUint16
	case maxSize <= math.MaxUint32:
		return SizeUint32
	default:
		return SizeUint64
	}
}

// Table is the index: two parallel columns where row i of Paths and
// Sizes describe the same document.
type Table struct {
	Paths    []string
	Sizes    []uint64
	SizeType SizeType
}

// Assemble splits documents into columns, keeping their order, and
// narrows the size column to the smallest width that fits every value.
// No documents yields an empty table with the narrowest width.
func Assemble(docs []document.Document) *Table {
	t := &Table{
		Paths: make([]string, len(docs)),
		Sizes: make([]uint64, len(docs)),
	}

	var maxSize uint64
	for i, doc := range docs {
		t.Paths[i] = doc.Path
		t.Sizes[i] = doc.Size
		maxSize = max(maxSize, doc.Size)
	}
	t.SizeType = NarrowSizeType(maxSize)

	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Paths) }

// TotalBytes returns the sum of the size column.
func (t *Table) TotalBytes() uint64 {
	var total uint64
	for _, s := range t.Sizes {
		total += s
	}
	return total
}

// Schema returns the arrow schema of the table.
func (t *Table) Schema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: ColumnPath, Type: arrow.BinaryTypes.String},
		{Name: ColumnSize, Type: t.SizeType.ArrowType()},
	}, nil)
}

// Record converts the table into a single arrow record. The caller must
// release it.
func (t *Table) Record(mem memory.Allocator) arrow.Record {
	b := array.NewRecordBuilder(mem, t.Schema())
	defer b.Release()

	b.Field(0).(*array.StringBuilder).AppendValues(t.Paths, nil)

	switch sb := b.Field(1).(type) {
	case *array.Uint8Builder:
		sb.Reserve(len(t.Sizes))
		for _, s := range t.Sizes {
			sb.UnsafeAppend(uint8(s))
		}
	case *array.Uint16Builder:
		sb.Reserve(len(t.Sizes))
		for _, s := range t.Sizes {
			sb.UnsafeAppend(uint16(s))
		}
	case *array.Uint32Builder:
		sb.Reserve(len(t.Sizes))
		for _, s := range t.Sizes {
			sb.UnsafeAppend(uint32(s))
		}
	case *array.Uint64Builder:
		sb.AppendValues(t.Sizes, nil)
	}

	return b.NewRecord()
}

// appendRecord appends the rows of rec to the table. rec must carry the
// path column first and an unsigned size column second.
func (t *Table) appendRecord(rec arrow.Record) error {
	if rec.NumCols() != 2 {
		return fmt.Errorf("index has %d columns, want 2", rec.NumCols())
	}

	paths, ok := rec.Column(0).(*array.String)
	if !ok {
		return fmt.Errorf("path column has type %s, want utf8", rec.Column(0).DataType())
	}

	n := paths.Len()
	for i := 0; i < n; i++ {
		t.Paths = append(t.Paths, paths.Value(i))
	}

	switch sizes := rec.Column(1).(type) {
	case *array.Uint8:
		for i := 0; i < n; i++ {
			t.Sizes = append(t.Sizes, uint64(sizes.Value(i)))
		}
	case *array.Uint16:
		for i := 0; i < n; i++ {
			t.Sizes = append(t.Sizes, uint64(sizes.Value(i)))
		}
	case *array.Uint32:
		for i := 0; i < n; i++ {
			t.Sizes = append(t.Sizes, uint64(sizes.Value(i)))
		}
	case *array.Uint64:
		t.Sizes = append(t.Sizes, sizes.Uint64Values()[:n]...)
	default:
		return fmt.Errorf("size column has type %s, want an unsigned integer", rec.Column(1).DataType())
	}

	return nil
}
