package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/datashed/datashed/internal/datashed"
	"github.com/datashed/datashed/internal/index"
	"github.com/datashed/datashed/internal/ui"
)

type indexOptions struct {
	output  string
	quiet   bool
	verbose bool
}

func newIndexCmd(g *globalOptions) *cobra.Command {
	opts := &indexOptions{}

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Create an index of all documents in the datashed",
		Long: `Build a table with one row per plaintext document under data/: the
document's path relative to data/ and its size in bytes.

The output format follows the file extension:
  .csv     comma-separated text with a header row
  .tsv     tab-separated text with a header row
  other    Arrow IPC file, zstd compressed (default: index.ipc)

The index is replaced atomically; if any document cannot be read the
previous index is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "",
		"Write the index to FILE (default: index.ipc in the datashed root)")
	addOutputFlags(cmd, &opts.quiet, &opts.verbose)

	cmd.AddCommand(newIndexInfoCmd(g))

	return cmd
}

func runIndex(cmd *cobra.Command, g *globalOptions, opts *indexOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := datashed.Discover()
	if err != nil {
		return err
	}

	renderer := ui.NewRenderer(ui.NewConfig(cmd.ErrOrStderr(),
		ui.WithQuiet(opts.quiet),
		ui.WithNoColor(g.noColor()),
	))
	if err := renderer.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = renderer.Stop() }()

	runner, err := index.NewRunner(index.RunnerDependencies{
		Renderer: renderer,
		Datashed: ds,
	})
	if err != nil {
		return err
	}

	_, err = runner.Run(ctx, index.RunnerConfig{
		Output:  opts.output,
		Workers: g.jobs,
	})
	return err
}
