package cmd

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/datashed/datashed/internal/config"
	"github.com/datashed/datashed/internal/datashed"
)

// Bump levels accepted by --bump.
const (
	bumpMajor = "major"
	bumpMinor = "minor"
	bumpPatch = "patch"
)

type versionOptions struct {
	force   bool
	bump    string
	quiet   bool
	verbose bool
}

func newVersionCmd() *cobra.Command {
	opts := &versionOptions{}

	cmd := &cobra.Command{
		Use:   "version [VERSION]",
		Short: "Get or set the version of the datashed",
		Long: `Without arguments, print the version of the datashed.

With VERSION, set the version. Unless --force is given, the new version
must be greater than the current one. Versions must follow semantic
versioning (MAJOR.MINOR.PATCH).

Use --bump to increment the major, minor or patch component instead.
The build information of the datashed binary is shown by --version.`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && cmd.Flags().Changed("bump") {
				return fmt.Errorf("the argument VERSION cannot be used with --bump")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite the current version even if not greater")
	cmd.Flags().StringVarP(&opts.bump, "bump", "b", "", "Increment the version: major, minor, patch")
	addOutputFlags(cmd, &opts.quiet, &opts.verbose)

	return cmd
}

func runVersion(cmd *cobra.Command, args []string, opts *versionOptions) error {
	ds, err := datashed.Discover()
	if err != nil {
		return err
	}

	manifest, err := config.Load(ds.ConfigPath())
	if err != nil {
		return err
	}

	current, err := manifest.SemVer()
	if err != nil {
		return err
	}

	switch {
	case len(args) > 0:
		next, err := semver.StrictNewVersion(args[0])
		if err != nil {
			return fmt.Errorf("invalid version '%s': %w", args[0], err)
		}
		if !opts.force && !next.GreaterThan(current) {
			return fmt.Errorf("%s must be greater than %s", next, current)
		}

		manifest.SetVersion(next)
		return manifest.Save()

	case opts.bump != "":
		next, err := bumpVersion(current, opts.bump)
		if err != nil {
			return err
		}
		if opts.verbose {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "bumped version to %s\n", next)
		}

		manifest.SetVersion(next)
		return manifest.Save()

	default:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), current)
		return nil
	}
}

// bumpVersion increments one component of v, resetting the lower ones.
// Pre-release and build metadata are dropped.
func bumpVersion(v *semver.Version, level string) (*semver.Version, error) {
	switch level {
	case bumpMajor:
		return semver.New(v.Major()+1, 0, 0, "", ""), nil
	case bumpMinor:
		return semver.New(v.Major(), v.Minor()+1, 0, "", ""), nil
	case bumpPatch:
		return semver.New(v.Major(), v.Minor(), v.Patch()+1, "", ""), nil
	default:
		return nil, fmt.Errorf("invalid value '%s' for --bump: expected one of major, minor, patch", level)
	}
}
