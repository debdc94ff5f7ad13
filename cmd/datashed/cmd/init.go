package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/datashed/datashed/internal/config"
	"github.com/datashed/datashed/internal/datashed"
)

// gitignore tracks only the manifest of a datashed.
const gitignore = "/data\n/tmp\n\n/index.ipc\n"

const (
	vcsGit  = "git"
	vcsNone = "none"
)

type initOptions struct {
	name        string
	version     string
	description string
	authors     []string
	vcs         string
	force       bool
	quiet       bool
	verbose     bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a new datashed or re-initialize an existing one",
		Long: `Create a datashed in DIRECTORY (default: the current directory).

The directory is created with a data/ directory for documents, a tmp/
directory for scratch files and a config.toml manifest. An existing
manifest is kept unless --force is given.

With --vcs git (the default) the directory is also initialized as a Git
repository, unless it already is inside one, and a .gitignore is added.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "The name of the datashed (default: directory name)")
	cmd.Flags().StringVar(&opts.version, "version", config.DefaultVersion, "The version of the datashed")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "A short blurb about the datashed")
	cmd.Flags().StringArrayVarP(&opts.authors, "author", "a", nil,
		"An author of the datashed; repeatable (default: the Git identity)")
	cmd.Flags().StringVar(&opts.vcs, "vcs", vcsGit, "Initialize for the given version control system: git, none")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing config with the given values")
	addOutputFlags(cmd, &opts.quiet, &opts.verbose)

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts *initOptions) error {
	if opts.vcs != vcsGit && opts.vcs != vcsNone {
		return fmt.Errorf("invalid value '%s' for --vcs: expected one of git, none", opts.vcs)
	}

	version, err := semver.StrictNewVersion(opts.version)
	if err != nil {
		return fmt.Errorf("invalid value '%s' for --version: %w", opts.version, err)
	}

	ds, err := datashed.Open(dir)
	if err != nil {
		return err
	}
	root := ds.Root()

	for _, d := range []string{root, ds.DataDir(), ds.TmpDir()} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", d, err)
		}
	}

	if opts.vcs == vcsGit {
		if !gitInsideWorkTree(root) && !gitInit(root) {
			return errors.New("failed to initialize Git repository")
		}

		ignorePath := filepath.Join(root, ".gitignore")
		if info, err := os.Stat(ignorePath); err != nil || !info.Mode().IsRegular() {
			if err := os.WriteFile(ignorePath, []byte(gitignore), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", ignorePath, err)
			}
		}
	}

	if _, err := os.Stat(ds.ConfigPath()); os.IsNotExist(err) || opts.force {
		authors := opts.authors
		if len(authors) == 0 {
			if author, ok := gitIdentity(root); ok {
				if opts.verbose {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Set author to Git identity '%s'\n", author)
				}
				authors = []string{author}
			}
		}

		name := opts.name
		if name == "" {
			name = filepath.Base(root)
		}

		manifest := config.NewManifest(ds.ConfigPath())
		manifest.Metadata.Name = name
		manifest.Metadata.Description = opts.description
		manifest.Metadata.Authors = authors
		manifest.SetVersion(version)

		if err := manifest.Save(); err != nil {
			return err
		}
	}

	if !opts.quiet {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Initialized datashed in %s\n", root)
	}

	return nil
}

// gitInsideWorkTree reports whether dir already belongs to a Git work tree.
func gitInsideWorkTree(dir string) bool {
	return runGit(dir, "rev-parse", "--is-inside-work-tree") == nil
}

func gitInit(dir string) bool {
	return runGit(dir, "init") == nil
}

// gitIdentity returns "Name <email>" from the Git config visible in dir.
// The email part is omitted when unset.
func gitIdentity(dir string) (string, bool) {
	name := gitConfig(dir, "user.name")
	if name == "" {
		return "", false
	}
	if email := gitConfig(dir, "user.email"); email != "" {
		return fmt.Sprintf("%s <%s>", name, email), true
	}
	return name, true
}

func gitConfig(dir, key string) string {
	c := exec.Command("git", "config", "--get", key)
	c.Dir = dir
	out, err := c.Output()
	if err != nil {
		return ""
	}
	return string(bytes.TrimRight(out, " \t\r\n"))
}

func runGit(dir string, args ...string) error {
	c := exec.Command("git", args...)
	c.Dir = dir
	return c.Run()
}
