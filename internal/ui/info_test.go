package ui

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInfo() IndexInfo {
	return IndexInfo{
		Path:       "/corpus/index.ipc",
		Format:     "ipc",
		Documents:  1234,
		TotalBytes: 3120,
		SizeType:   "uint16",
		FileSize:   900,
		ModTime:    time.Now().Add(-2 * time.Hour),
	}
}

func TestInfoRenderer_Render(t *testing.T) {
	// Given: an info renderer without color
	buf := &bytes.Buffer{}
	r := NewInfoRenderer(buf, true)

	// When: rendering info
	require.NoError(t, r.Render(sampleInfo()))

	// Then: all fields are shown in human form
	out := buf.String()
	assert.Contains(t, out, "Index: /corpus/index.ipc")
	assert.Contains(t, out, "Format:     ipc")
	assert.Contains(t, out, "Documents:  1,234")
	assert.Contains(t, out, "Total size: 3.1 kB")
	assert.Contains(t, out, "Size type:  uint16")
	assert.Contains(t, out, "2 hours ago")
}

func TestInfoRenderer_RenderJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewInfoRenderer(buf, true)

	require.NoError(t, r.RenderJSON(sampleInfo()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "ipc", got["format"])
	assert.Equal(t, float64(1234), got["documents"])
	assert.Equal(t, float64(3120), got["total_bytes"])
	assert.Equal(t, "uint16", got["size_type"])
}
