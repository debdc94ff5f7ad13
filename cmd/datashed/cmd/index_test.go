package cmd

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dserrors "github.com/datashed/datashed/internal/errors"
	"github.com/datashed/datashed/internal/index"
)

func rowsOf(t *testing.T, path string) []string {
	t.Helper()
	table, err := index.Read(path)
	require.NoError(t, err)

	rows := make([]string, table.Len())
	for i := range table.Paths {
		rows[i] = table.Paths[i] + "=" + strconv.FormatUint(table.Sizes[i], 10)
	}
	sort.Strings(rows)
	return rows
}

func TestIndexCmd_QuietPrintsNothing(t *testing.T) {
	// Given: a corpus with three documents
	root := newTestCorpus(t)

	// When: indexing quietly
	stdout, stderr, err := execute(t, "index", "-q")

	// Then: both streams stay empty and the default index exists
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
	assert.Equal(t, []string{"0/dnb.txt=769", "0/tib.txt=1443", "1/zbw.txt=908"},
		rowsOf(t, filepath.Join(root, "index.ipc")))
}

func TestIndexCmd_CSVOutput(t *testing.T) {
	root := newTestCorpus(t)
	out := filepath.Join(root, "index.csv")

	_, _, err := execute(t, "index", "-q", "-o", out)

	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "path,size\n0/dnb.txt,769\n0/tib.txt,1443\n1/zbw.txt,908\n", sortedCSV(string(data)))
	assert.NoFileExists(t, filepath.Join(root, "index.ipc"))
}

func TestIndexCmd_RunsFromSubdirectory(t *testing.T) {
	// Given: the working directory is inside data/
	root := newTestCorpus(t)
	t.Chdir(filepath.Join(root, "data", "0"))

	// When: indexing
	_, _, err := execute(t, "index", "-q")

	// Then: the corpus root is discovered
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "index.ipc"))
}

func TestIndexCmd_ProgressOnStderr(t *testing.T) {
	newTestCorpus(t)

	stdout, stderr, err := execute(t, "index")

	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Collecting documents:")
	assert.Contains(t, stderr, "Indexing documents: 3 (100%)")
	assert.Contains(t, stderr, ", done.")
}

func TestIndexCmd_NotACorpus(t *testing.T) {
	// Given: a directory without a manifest
	isolate(t)
	t.Chdir(t.TempDir())

	// When: indexing
	_, _, err := execute(t, "index")

	// Then: the error is the one-line not-a-corpus message
	require.Error(t, err)
	assert.ErrorIs(t, err, dserrors.ErrNotACorpus)
	assert.Equal(t, "error: not a datashed (or any parent directory)", dserrors.FormatForCLI(err))
}

func TestIndexCmd_QuietAndVerboseConflict(t *testing.T) {
	newTestCorpus(t)

	_, _, err := execute(t, "index", "-q", "-v")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quiet")
}

func TestIndexCmd_RejectsArguments(t *testing.T) {
	newTestCorpus(t)

	_, _, err := execute(t, "index", "extra")

	assert.Error(t, err)
}

func TestIndexCmd_UnreadableDocumentLeavesNoIndex(t *testing.T) {
	// Given: a broken symlink that matches the extension
	root := newTestCorpus(t)
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "data", "broken.txt")))

	// When: indexing
	_, _, err := execute(t, "index", "-q")

	// Then: the run fails and nothing is written
	require.Error(t, err)
	assert.ErrorIs(t, err, dserrors.ErrMetadataUnavailable)
	assert.NoFileExists(t, filepath.Join(root, "index.ipc"))
}
