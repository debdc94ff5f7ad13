package index

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datashed/datashed/internal/datashed"
)

// sampleDocs are the documents of the reference corpus, by path relative
// to data/, with their sizes.
var sampleDocs = map[string]int{
	"0/dnb.txt": 769,
	"0/tib.txt": 1443,
	"1/zbw.txt": 908,
}

// newCorpus creates a datashed with the given documents under data/.
func newCorpus(t *testing.T, docs map[string]int) *datashed.Datashed {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, datashed.ConfigFile),
		[]byte("[metadata]\nname = \"test\"\nversion = \"0.1.0\"\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, datashed.DataDir), 0o755))

	for rel, size := range docs {
		writeDoc(t, root, rel, size)
	}

	ds, err := datashed.Open(root)
	require.NoError(t, err)
	return ds
}

// writeDoc writes a file of size bytes at data/rel.
func writeDoc(t *testing.T, root, rel string, size int) {
	t.Helper()
	path := filepath.Join(root, datashed.DataDir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("a", size)), 0o644))
}

// sortedRows returns the table's rows as "path=size" strings, sorted.
func sortedRows(t *Table) []string {
	rows := make([]string, t.Len())
	for i := range t.Paths {
		rows[i] = t.Paths[i] + "=" + strconv.FormatUint(t.Sizes[i], 10)
	}
	sort.Strings(rows)
	return rows
}

var sampleRows = []string{"0/dnb.txt=769", "0/tib.txt=1443", "1/zbw.txt=908"}
