package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// IndexInfo describes an index artifact on disk.
type IndexInfo struct {
	Path       string    `json:"path"`
	Format     string    `json:"format"`
	Documents  int       `json:"documents"`
	TotalBytes uint64    `json:"total_bytes"`
	SizeType   string    `json:"size_type"`
	FileSize   int64     `json:"file_size"`
	ModTime    time.Time `json:"modified"`
}

// InfoRenderer displays index artifact information.
type InfoRenderer struct {
	out    io.Writer
	styles Styles
}

// NewInfoRenderer creates an info renderer.
func NewInfoRenderer(out io.Writer, noColor bool) *InfoRenderer {
	return &InfoRenderer{
		out:    out,
		styles: GetStyles(noColor),
	}
}

// Render displays index info to the terminal.
func (r *InfoRenderer) Render(info IndexInfo) error {
	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render("Index: "+info.Path))

	_, _ = fmt.Fprintf(r.out, "  Format:     %s\n", info.Format)
	_, _ = fmt.Fprintf(r.out, "  Documents:  %s\n", humanize.Comma(int64(info.Documents)))
	_, _ = fmt.Fprintf(r.out, "  Total size: %s\n", humanize.Bytes(info.TotalBytes))
	_, _ = fmt.Fprintf(r.out, "  Size type:  %s\n", info.SizeType)
	_, _ = fmt.Fprintln(r.out)

	_, _ = fmt.Fprintf(r.out, "  File size:  %s\n", humanize.Bytes(uint64(max(info.FileSize, 0))))
	if !info.ModTime.IsZero() {
		_, _ = fmt.Fprintf(r.out, "  Modified:   %s\n", humanize.Time(info.ModTime))
	}

	return nil
}

// RenderJSON outputs index info as JSON.
func (r *InfoRenderer) RenderJSON(info IndexInfo) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}
