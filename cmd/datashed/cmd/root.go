// Package cmd provides the CLI commands for datashed.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/datashed/datashed/internal/config"
	dserrors "github.com/datashed/datashed/internal/errors"
	"github.com/datashed/datashed/internal/logging"
	"github.com/datashed/datashed/internal/profiling"
	"github.com/datashed/datashed/internal/ui"
	"github.com/datashed/datashed/pkg/version"
)

// globalOptions holds the persistent flags and the state resolved from
// them once per invocation.
type globalOptions struct {
	numJobs int
	debug   bool
	profile profiling.Options

	// Resolved in setup.
	settings *config.Settings
	jobs     int

	loggingCleanup func()
	profiler       *profiling.Session
}

// NewRootCmd creates the root command for the datashed CLI.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *globalOptions) {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "datashed",
		Short: "Manage and index corpora of plaintext documents",
		Long: `datashed manages a corpus of plaintext documents: a directory with a
config.toml manifest and a data/ directory holding the documents.

Run 'datashed init' to create one and 'datashed index' to build a
table of every document's path and size.`,
		Version:            version.String(),
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  g.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error { return g.close() },
	}

	cmd.SetVersionTemplate("datashed {{.Version}}\n")

	cmd.PersistentFlags().IntVarP(&g.numJobs, "num-jobs", "j", 0,
		`Number of threads to use (0 = one per CPU)`)
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging to ~/.datashed/logs/")

	cmd.PersistentFlags().StringVar(&g.profile.CPUPath, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&g.profile.MemPath, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&g.profile.TracePath, "profile-trace", "", "Write execution trace to file")
	for _, name := range []string{"profile-cpu", "profile-mem", "profile-trace"} {
		_ = cmd.PersistentFlags().MarkHidden(name)
	}

	cmd.AddCommand(newIndexCmd(g))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd(g))

	return cmd, g
}

// addOutputFlags registers the -q/--quiet and -v/--verbose pair.
func addOutputFlags(cmd *cobra.Command, quiet, verbose *bool) {
	cmd.Flags().BoolVarP(quiet, "quiet", "q", false, "Operate quietly; do not show progress")
	cmd.Flags().BoolVarP(verbose, "verbose", "v", false,
		"Run verbosely; print additional information to the standard error stream")
	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")
}

// setup resolves settings and the worker count, then starts logging and
// profiling for the command about to run.
func (g *globalOptions) setup(cmd *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	g.settings = settings

	g.jobs = settings.NumJobs
	if cmd.Flags().Changed("num-jobs") {
		g.jobs = g.numJobs
	}
	if g.jobs < 0 {
		return fmt.Errorf("invalid value for --num-jobs: %d must not be negative", g.jobs)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = settings.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logCfg.Stderr = cmd.ErrOrStderr()
	}
	if g.debug {
		logCfg.Level = "debug"
		logCfg.FilePath = logging.DefaultLogPath()
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	g.loggingCleanup = cleanup
	slog.SetDefault(logger)

	if g.debug {
		slog.Debug("debug_logging_enabled",
			slog.String("log_file", logCfg.FilePath),
			slog.String("version", version.Short()),
			slog.String("command", cmd.CommandPath()))
	}

	if g.profile.Enabled() {
		g.profiler, err = profiling.Start(g.profile)
		if err != nil {
			return err
		}
	}

	return nil
}

// noColor reports whether styled output is disabled by settings or NO_COLOR.
func (g *globalOptions) noColor() bool {
	return ui.DetectNoColor() || (g.settings != nil && g.settings.NoColor)
}

// close stops profiling and logging. Safe to call more than once.
func (g *globalOptions) close() error {
	var errs []error

	if g.profiler != nil {
		errs = append(errs, g.profiler.Stop())
		g.profiler = nil
	}

	if g.loggingCleanup != nil {
		g.loggingCleanup()
		g.loggingCleanup = nil
	}

	return errors.Join(errs...)
}

// Execute runs the root command.
func Execute() error {
	cmd, g := newRootCmd()
	return run(cmd, g)
}

// run executes cmd, logs a failure while the logger is still open, then
// tears down g.
func run(cmd *cobra.Command, g *globalOptions) error {
	err := cmd.Execute()
	if err != nil {
		slog.Error("command_failed", dserrors.FormatForLog(err)...)
	}

	// PersistentPostRunE is skipped when a command fails.
	if cerr := g.close(); err == nil {
		err = cerr
	}
	return err
}
