package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/datashed/datashed/internal/datashed"
	"github.com/datashed/datashed/internal/index"
	"github.com/datashed/datashed/internal/ui"
)

func newIndexInfoCmd(g *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info [path]",
		Short: "Show information about an index file",
		Long: `Read an index file and show its format, row count, total document
size and the width of the size column.

Without a path, the datashed's default index (index.ipc) is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			} else {
				ds, err := datashed.Discover()
				if err != nil {
					return err
				}
				path = ds.DefaultIndexPath()
			}
			return runIndexInfo(cmd, g, path, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runIndexInfo(cmd *cobra.Command, g *globalOptions, path string, jsonOutput bool) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	stat, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("no index found at %s: %w", absPath, err)
	}

	table, err := index.Read(absPath)
	if err != nil {
		return err
	}

	info := ui.IndexInfo{
		Path:       absPath,
		Format:     index.FormatFromPath(absPath).String(),
		Documents:  table.Len(),
		TotalBytes: table.TotalBytes(),
		SizeType:   table.SizeType.String(),
		FileSize:   stat.Size(),
		ModTime:    stat.ModTime(),
	}

	out := cmd.OutOrStdout()
	renderer := ui.NewInfoRenderer(out, g.noColor() || !ui.IsTTY(out))
	if jsonOutput {
		return renderer.RenderJSON(info)
	}
	return renderer.Render(info)
}
