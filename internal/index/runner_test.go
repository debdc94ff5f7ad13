package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datashed/datashed/internal/errors"
	"github.com/datashed/datashed/internal/ui"
)

// MockRenderer implements ui.Renderer for testing.
type MockRenderer struct {
	mu              sync.Mutex
	StartCalled     bool
	StopCalled      bool
	CompleteCalled  bool
	ProgressEvents  []ui.ProgressEvent
	FinishedStages  []ui.Stage
	CompletionStats ui.CompletionStats

	// OnUpdate, if set, sees every event after it is recorded.
	OnUpdate func(ui.ProgressEvent)
}

func (m *MockRenderer) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalled = true
	return nil
}

func (m *MockRenderer) UpdateProgress(event ui.ProgressEvent) {
	m.mu.Lock()
	m.ProgressEvents = append(m.ProgressEvents, event)
	m.mu.Unlock()

	if m.OnUpdate != nil {
		m.OnUpdate(event)
	}
}

func (m *MockRenderer) FinishStage(stage ui.Stage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FinishedStages = append(m.FinishedStages, stage)
}

func (m *MockRenderer) Complete(stats ui.CompletionStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteCalled = true
	m.CompletionStats = stats
}

func (m *MockRenderer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCalled = true
	return nil
}

// maxCurrent returns the highest count reported for stage.
func (m *MockRenderer) maxCurrent(stage ui.Stage) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	highest := 0
	for _, e := range m.ProgressEvents {
		if e.Stage == stage && e.Current > highest {
			highest = e.Current
		}
	}
	return highest
}

func TestNewRunner_RequiresDependencies(t *testing.T) {
	ds := newCorpus(t, nil)

	_, err := NewRunner(RunnerDependencies{Datashed: ds})
	assert.ErrorContains(t, err, "renderer is required")

	_, err = NewRunner(RunnerDependencies{Renderer: &MockRenderer{}})
	assert.ErrorContains(t, err, "datashed is required")

	r, err := NewRunner(RunnerDependencies{Renderer: &MockRenderer{}, Datashed: ds})
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func newTestRunner(t *testing.T, docs map[string]int) (*Runner, *MockRenderer) {
	t.Helper()
	renderer := &MockRenderer{}
	r, err := NewRunner(RunnerDependencies{
		Renderer: renderer,
		Datashed: newCorpus(t, docs),
	})
	require.NoError(t, err)
	return r, renderer
}

func TestRunner_Run_DefaultOutput(t *testing.T) {
	// Given: the reference corpus with non-plaintext noise
	r, renderer := newTestRunner(t, sampleDocs)
	writeDoc(t, r.datashed.Root(), "1/notes.md", 50)

	// When: indexing with the default destination
	result, err := r.Run(context.Background(), RunnerConfig{})

	// Then: the binary index sits next to the manifest
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.datashed.Root(), "index.ipc"), result.Output)
	assert.Equal(t, FormatIPC, result.Format)
	assert.Equal(t, 3, result.Documents)
	assert.Equal(t, uint64(3120), result.Bytes)
	assert.Equal(t, SizeUint16, result.SizeType)

	table, err := Read(result.Output)
	require.NoError(t, err)
	assert.Equal(t, sampleRows, sortedRows(table))

	// And: both stages were reported and finished
	assert.Equal(t, []ui.Stage{ui.StageCollecting, ui.StageIndexing}, renderer.FinishedStages)
	assert.Equal(t, 3, renderer.maxCurrent(ui.StageIndexing))
	assert.Greater(t, renderer.maxCurrent(ui.StageCollecting), 3)
	assert.True(t, renderer.CompleteCalled)
	assert.Equal(t, 3, renderer.CompletionStats.Documents)
}

func TestRunner_Run_CSVOutput(t *testing.T) {
	r, _ := newTestRunner(t, sampleDocs)
	output := filepath.Join(t.TempDir(), "index.csv")

	result, err := r.Run(context.Background(), RunnerConfig{Output: output})

	require.NoError(t, err)
	assert.Equal(t, FormatCSV, result.Format)

	table, err := Read(output)
	require.NoError(t, err)
	assert.Equal(t, sampleRows, sortedRows(table))
	assert.NoFileExists(t, r.datashed.DefaultIndexPath())
}

func TestRunner_Run_EmptyCorpus(t *testing.T) {
	// Given: a datashed whose data directory holds no plaintext files
	r, renderer := newTestRunner(t, nil)
	writeDoc(t, r.datashed.Root(), "readme.md", 10)
	output := filepath.Join(t.TempDir(), "index.csv")

	// When: indexing
	result, err := r.Run(context.Background(), RunnerConfig{Output: output})

	// Then: a zero-row table with the full schema is written
	require.NoError(t, err)
	assert.Equal(t, 0, result.Documents)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "path,size\n", string(data))
	assert.Contains(t, renderer.FinishedStages, ui.StageIndexing)
}

func TestRunner_Run_WorkerCountDoesNotChangeOutput(t *testing.T) {
	// Given: a corpus with enough files to spread across workers
	docs := make(map[string]int)
	for i := 0; i < 40; i++ {
		docs[fmt.Sprintf("%c/doc%02d.txt", 'a'+i%5, i)] = i * 37
	}
	r, _ := newTestRunner(t, docs)
	dir := t.TempDir()

	// When: indexing with one worker and with many
	serial := filepath.Join(dir, "serial.csv")
	parallel := filepath.Join(dir, "parallel.csv")
	_, err := r.Run(context.Background(), RunnerConfig{Output: serial, Workers: 1})
	require.NoError(t, err)
	_, err = r.Run(context.Background(), RunnerConfig{Output: parallel, Workers: 8})
	require.NoError(t, err)

	// Then: the artifacts are byte-identical
	a, err := os.ReadFile(serial)
	require.NoError(t, err)
	b, err := os.ReadFile(parallel)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRunner_Run_UnreadableDocumentWritesNothing(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	// Given: a previous index and a document whose metadata cannot be read
	r, _ := newTestRunner(t, sampleDocs)
	previous := []byte("previous index")
	require.NoError(t, os.WriteFile(r.datashed.DefaultIndexPath(), previous, 0o644))
	require.NoError(t, os.Symlink(
		filepath.Join(r.datashed.DataDir(), "nowhere"),
		filepath.Join(r.datashed.DataDir(), "0", "broken.txt")))
	csvOut := filepath.Join(t.TempDir(), "index.csv")

	// When: indexing to the default and to a fresh destination
	_, err := r.Run(context.Background(), RunnerConfig{})
	_, csvErr := r.Run(context.Background(), RunnerConfig{Output: csvOut})

	// Then: both fail and no artifact is touched or created
	assert.ErrorIs(t, err, errors.ErrMetadataUnavailable)
	assert.ErrorIs(t, csvErr, errors.ErrMetadataUnavailable)

	data, readErr := os.ReadFile(r.datashed.DefaultIndexPath())
	require.NoError(t, readErr)
	assert.Equal(t, previous, data)
	assert.NoFileExists(t, csvOut)
}

func TestRunner_Run_WriteFailure(t *testing.T) {
	r, _ := newTestRunner(t, sampleDocs)

	_, err := r.Run(context.Background(), RunnerConfig{
		Output: filepath.Join(t.TempDir(), "no", "such", "dir", "index.ipc"),
	})

	assert.ErrorIs(t, err, errors.ErrWriteFailed)
}

func TestRunner_Run_CorpusLocked(t *testing.T) {
	// Given: another run holding the corpus lock
	r, _ := newTestRunner(t, sampleDocs)
	lock, err := r.datashed.TryLock()
	require.NoError(t, err)
	defer func() { _ = lock.Unlock() }()

	// When: indexing
	_, err = r.Run(context.Background(), RunnerConfig{})

	// Then: the run is refused
	assert.ErrorIs(t, err, errors.ErrCorpusLocked)
	assert.NoFileExists(t, r.datashed.DefaultIndexPath())
}

func TestRunner_Run_ReleasesLock(t *testing.T) {
	r, _ := newTestRunner(t, sampleDocs)

	_, err := r.Run(context.Background(), RunnerConfig{})
	require.NoError(t, err)

	lock, err := r.datashed.TryLock()
	require.NoError(t, err)
	assert.NoError(t, lock.Unlock())
}

func TestRunner_Run_CancelledContext(t *testing.T) {
	r, _ := newTestRunner(t, sampleDocs)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, RunnerConfig{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, r.datashed.DefaultIndexPath())
}

func TestRunner_Run_CancelledMidScan(t *testing.T) {
	// Given: a large corpus and a context cancelled while collecting
	docs := make(map[string]int)
	for i := range 60 {
		docs[fmt.Sprintf("%02d/doc.txt", i)] = i
	}
	r, renderer := newTestRunner(t, docs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	renderer.OnUpdate = func(e ui.ProgressEvent) {
		if e.Stage == ui.StageCollecting && e.Current == 3 {
			cancel()
		}
	}

	// When: running
	_, err := r.Run(ctx, RunnerConfig{})

	// Then: the walk stops at once, extraction never starts, nothing is written
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, renderer.maxCurrent(ui.StageCollecting))
	assert.Zero(t, renderer.maxCurrent(ui.StageIndexing))
	assert.Empty(t, renderer.FinishedStages)
	assert.NoFileExists(t, r.datashed.DefaultIndexPath())
}
