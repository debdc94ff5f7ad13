package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_Success_PrintsMarkAndMessage(t *testing.T) {
	// Given: a plain writer
	buf := &bytes.Buffer{}
	w := New(buf, true)

	// When: printing a success message
	w.Successf("Created %s", "settings.yaml")

	// Then: the line is marked and unstyled
	assert.Equal(t, "✓ Created settings.yaml\n", buf.String())
}

func TestWriter_Warning_PrintsWarningMark(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, true)

	w.Warning("Settings already exist")

	assert.Equal(t, "! Settings already exist\n", buf.String())
}

func TestWriter_Hint(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, true)

	w.Hint("Use --force to overwrite")

	assert.Equal(t, "→ Use --force to overwrite\n", buf.String())
}

func TestWriter_Field_IndentsLabel(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, true)

	w.Field("Location", "/tmp/settings.yaml")

	assert.Equal(t, "  Location: /tmp/settings.yaml\n", buf.String())
}

func TestWriter_Block_IndentsEachLine(t *testing.T) {
	// Given: YAML with a trailing newline
	buf := &bytes.Buffer{}
	w := New(buf, true)

	// When: printing it as a block
	w.Block("num_jobs: 4\nlog_level: info\n")

	// Then: every line is indented and framed, with no trailing empty line inside
	assert.Equal(t, "\n  num_jobs: 4\n  log_level: info\n\n", buf.String())
}

func TestWriter_Newline(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, true)

	w.Newline()

	assert.Equal(t, "\n", buf.String())
}

func TestWriter_Color_KeepsMessageText(t *testing.T) {
	// Given: a styled writer
	buf := &bytes.Buffer{}
	w := New(buf, false)

	// When: printing a success message
	w.Success("done")

	// Then: the message text survives styling
	assert.Contains(t, buf.String(), MarkSuccess)
	assert.Contains(t, buf.String(), "done")
}
