package document

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datashed/datashed/internal/errors"
)

func TestFromPath_ReturnsRelativePathAndSize(t *testing.T) {
	// Given: a nested document of known size
	base := t.TempDir()
	path := filepath.Join(base, "0", "dnb.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 769)), 0o644))

	// When: building the row
	doc, err := FromPath(path, base)

	// Then: the path is base-relative with forward slashes
	require.NoError(t, err)
	assert.Equal(t, Document{Path: "0/dnb.txt", Size: 769}, doc)
}

func TestFromPath_EmptyFile(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	doc, err := FromPath(path, base)

	require.NoError(t, err)
	assert.Equal(t, uint64(0), doc.Size)
}

func TestFromPath_MissingFile(t *testing.T) {
	base := t.TempDir()

	_, err := FromPath(filepath.Join(base, "gone.txt"), base)

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMetadataUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromPath_BrokenSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	base := t.TempDir()
	link := filepath.Join(base, "broken.txt")
	require.NoError(t, os.Symlink(filepath.Join(base, "nowhere"), link))

	_, err := FromPath(link, base)

	assert.ErrorIs(t, err, errors.ErrMetadataUnavailable)
}

func TestFromPath_FollowsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	base := t.TempDir()
	target := filepath.Join(base, "real.txt")
	require.NoError(t, os.WriteFile(target, []byte("12345"), 0o644))
	link := filepath.Join(base, "link.txt")
	require.NoError(t, os.Symlink(target, link))

	doc, err := FromPath(link, base)

	require.NoError(t, err)
	assert.Equal(t, Document{Path: "link.txt", Size: 5}, doc)
}

func TestFromPath_NonUTF8Path(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("needs a file system that accepts arbitrary bytes in names")
	}

	// Given: a file whose name is not valid UTF-8
	base := t.TempDir()
	path := filepath.Join(base, "bad\xff.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	// When: building the row
	_, err := FromPath(path, base)

	// Then: the run must fail rather than emit a mangled path
	assert.ErrorIs(t, err, errors.ErrNonTextPath)
}
