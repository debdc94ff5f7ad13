package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datashed/datashed/internal/config"
	"github.com/datashed/datashed/internal/datashed"
)

// isolate points user settings and logs at a temp home so tests never
// read the developer's own files.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("DATASHED_NUM_JOBS", "")
	t.Setenv("DATASHED_LOG_LEVEL", "")
}

// newTestCorpus creates a datashed holding the reference documents and
// makes it the working directory.
func newTestCorpus(t *testing.T) string {
	t.Helper()
	isolate(t)

	root := t.TempDir()
	m := config.NewManifest(filepath.Join(root, datashed.ConfigFile))
	m.Metadata.Name = "test"
	require.NoError(t, m.Save())

	for rel, size := range map[string]int{
		"0/dnb.txt": 769,
		"0/tib.txt": 1443,
		"1/zbw.txt": 908,
	} {
		path := filepath.Join(root, datashed.DataDir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
	}

	t.Chdir(root)
	return root
}

// execute runs the CLI with args and returns what it wrote to stdout and
// stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd, g := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := run(cmd, g)
	return stdout.String(), stderr.String(), err
}
