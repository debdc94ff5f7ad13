// Package scanner enumerates candidate documents under a datashed's
// document directory.
package scanner

import (
	"context"
	"io/fs"
	"iter"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
)

// PlaintextExt is the extension that marks a file as a document.
const PlaintextExt = ".txt"

// Options configures the scanner.
type Options struct {
	// Ext is the case-sensitive suffix a file name must end with
	// (default PlaintextExt).
	Ext string

	// OnEntry is called once per directory entry visited, matching or not.
	OnEntry func()
}

// Scanner discovers candidate documents. It holds no walk state, so one
// Scanner can run any number of scans.
type Scanner struct {
	ext     string
	onEntry func()
}

// New creates a Scanner.
func New(opts *Options) *Scanner {
	if opts == nil {
		opts = &Options{}
	}

	ext := opts.Ext
	if ext == "" {
		ext = PlaintextExt
	}

	onEntry := opts.OnEntry
	if onEntry == nil {
		onEntry = func() {}
	}

	return &Scanner{ext: ext, onEntry: onEntry}
}

// Scan returns a lazy sequence of absolute candidate paths under dir, in
// directory-tree order. Every range over the sequence walks the tree anew.
//
// Directories and non-matching files are skipped. Entries that cannot be
// read are skipped as well, so files vanishing during a long walk do not
// abort it. A missing dir yields nothing. The walk stops as soon as ctx is
// done.
func (s *Scanner) Scan(ctx context.Context, dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			slog.Debug("scan_skip_root", slog.String("dir", dir), slog.String("error", err.Error()))
			return
		}

		_ = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return fs.SkipAll
			}
			if err != nil {
				slog.Debug("scan_skip_entry", slog.String("path", path), slog.String("error", err.Error()))
				return nil
			}

			s.onEntry()

			if d.IsDir() || !s.Match(path) {
				return nil
			}

			if !yield(path) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// Collect runs Scan to completion and returns the candidates, or the
// context's error if the walk was cut short.
func (s *Scanner) Collect(ctx context.Context, dir string) ([]string, error) {
	paths := slices.Collect(s.Scan(ctx, dir))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// Match reports whether path carries the document extension.
func (s *Scanner) Match(path string) bool {
	return strings.HasSuffix(path, s.ext)
}
