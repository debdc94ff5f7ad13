// Package document turns a candidate file into an index row.
package document

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/datashed/datashed/internal/errors"
)

// Document is one row of the index: a file's path relative to the
// document directory and its size in bytes.
type Document struct {
	// Path uses forward slashes on every platform.
	Path string

	// Size is the byte length reported by the file system.
	Size uint64
}

// FromPath builds the Document for the candidate at path, which must lie
// under baseDir. Symlinks are followed, so a dangling link fails with
// MetadataUnavailable like any vanished file.
func FromPath(path, baseDir string) (Document, error) {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || !utf8.ValidString(rel) {
		return Document{}, errors.NonTextPath(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Document{}, errors.MetadataUnavailable(path, err)
	}

	return Document{
		Path: filepath.ToSlash(rel),
		Size: uint64(info.Size()),
	}, nil
}
