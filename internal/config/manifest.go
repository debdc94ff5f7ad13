// Package config loads and saves the datashed manifest (config.toml) and
// the per-user CLI settings (settings.yaml).
package config

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/google/renameio/v2"
	"github.com/pelletier/go-toml/v2"

	dserrors "github.com/datashed/datashed/internal/errors"
)

// DefaultVersion is the version a freshly initialized datashed starts at.
const DefaultVersion = "0.1.0"

// Manifest is the content of a datashed's config.toml.
type Manifest struct {
	// path is where Save writes; not serialized.
	path string

	// Metadata describes the datashed.
	Metadata Metadata `toml:"metadata"`
}

// Metadata is the [metadata] table of the manifest.
type Metadata struct {
	// Name of the datashed.
	Name string `toml:"name"`

	// Version of the datashed as a semantic version string.
	Version string `toml:"version"`

	// Description is a short blurb about the datashed.
	Description string `toml:"description,omitempty"`

	// Authors lists the people or organizations behind the datashed.
	Authors []string `toml:"authors,omitempty"`
}

// NewManifest returns a manifest with default metadata that will be saved to path.
func NewManifest(path string) *Manifest {
	return &Manifest{
		path: path,
		Metadata: Metadata{
			Version: DefaultVersion,
		},
	}
}

// Load reads the manifest at path. The version must be valid semver.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	m := &Manifest{path: path}
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, dserrors.ConfigError(fmt.Sprintf("failed to parse manifest %s: %v", path, err), err)
	}

	if _, err := m.SemVer(); err != nil {
		return nil, err
	}

	return m, nil
}

// Path returns the file the manifest is saved to.
func (m *Manifest) Path() string { return m.path }

// SemVer parses the metadata version.
func (m *Manifest) SemVer() (*semver.Version, error) {
	v, err := semver.StrictNewVersion(m.Metadata.Version)
	if err != nil {
		return nil, dserrors.New(dserrors.ErrCodeInvalidVersion,
			fmt.Sprintf("invalid version '%s' in %s", m.Metadata.Version, m.path), err)
	}
	return v, nil
}

// SetVersion stores v as the metadata version.
func (m *Manifest) SetVersion(v *semver.Version) {
	m.Metadata.Version = v.String()
}

// Save writes the manifest atomically to its path.
func (m *Manifest) Save() error {
	data, err := toml.Marshal(m)
	if err != nil {
		return dserrors.ConfigError("failed to encode manifest", err)
	}
	if err := renameio.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", m.path, err)
	}
	return nil
}
