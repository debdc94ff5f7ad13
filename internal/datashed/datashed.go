// Package datashed locates the root of a datashed: a directory holding a
// config.toml manifest and a data/ directory of plaintext documents.
package datashed

import (
	"fmt"
	"os"
	"path/filepath"

	dserrors "github.com/datashed/datashed/internal/errors"
)

// Layout of a datashed relative to its root.
const (
	// DataDir holds the documents.
	DataDir = "data"
	// TmpDir holds scratch files and the index lock.
	TmpDir = "tmp"
	// ConfigFile is the manifest whose presence marks a datashed root.
	ConfigFile = "config.toml"
	// IndexFile is the default index artifact, next to the manifest.
	IndexFile = "index.ipc"
)

// Datashed is a resolved datashed root. It is cheap and immutable;
// discover a fresh one per command.
type Datashed struct {
	root string
}

// Discover finds the datashed containing the current working directory.
func Discover() (*Datashed, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return DiscoverFrom(wd)
}

// DiscoverFrom walks from startDir up to the file-system root and returns
// the first directory with a ConfigFile directly inside it.
func DiscoverFrom(startDir string) (*Datashed, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	dir := absDir
	for {
		if isFile(filepath.Join(dir, ConfigFile)) {
			return &Datashed{root: dir}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, dserrors.NotACorpus(absDir)
		}
		dir = parent
	}
}

// Open returns the datashed rooted at dir without searching ancestors.
// Used by init, which creates the manifest itself.
func Open(dir string) (*Datashed, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	return &Datashed{root: abs}, nil
}

// Root returns the absolute root directory.
func (d *Datashed) Root() string { return d.root }

// DataDir returns the document directory.
func (d *Datashed) DataDir() string { return filepath.Join(d.root, DataDir) }

// TmpDir returns the scratch directory.
func (d *Datashed) TmpDir() string { return filepath.Join(d.root, TmpDir) }

// ConfigPath returns the manifest path.
func (d *Datashed) ConfigPath() string { return filepath.Join(d.root, ConfigFile) }

// DefaultIndexPath returns the manifest-adjacent index artifact path.
func (d *Datashed) DefaultIndexPath() string { return filepath.Join(d.root, IndexFile) }

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
