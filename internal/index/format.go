package index

import "strings"

// Format is the serialization of an index artifact.
type Format int

const (
	// FormatIPC is the zstd-compressed arrow IPC file format, used for
	// every destination that is not .csv or .tsv.
	FormatIPC Format = iota
	// FormatCSV is comma-delimited text with a header row.
	FormatCSV
	// FormatTSV is tab-delimited text with a header row.
	FormatTSV
)

// FormatFromPath picks the format from the destination's extension.
// Matching is case-sensitive.
func FormatFromPath(path string) Format {
	switch {
	case strings.HasSuffix(path, ".csv"):
		return FormatCSV
	case strings.HasSuffix(path, ".tsv"):
		return FormatTSV
	default:
		return FormatIPC
	}
}

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	default:
		return "ipc"
	}
}

// delimiter returns the field separator of a text format.
func (f Format) delimiter() rune {
	if f == FormatTSV {
		return '\t'
	}
	return ','
}
