// Package descriptor loads the per-package install descriptor (dot.yml).
//
// A descriptor is a YAML document with a single required top-level config
// section. Every key inside it is optional: a missing list simply means the
// corresponding install action is skipped.
package descriptor

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dotinstall/pkg/errors"
)

// DefaultFilename is the descriptor file name looked for in packages
const DefaultFilename = "dot.yml"

//go:embed reference.md
var reference string

// Reference returns the markdown documentation of the descriptor format
func Reference() string {
	return reference
}

// Config is the parsed config section of a descriptor
type Config struct {
	// Dest is the destination directory, or the home marker
	Dest             string      `yaml:"dest"`
	Backup           *bool       `yaml:"backup"`
	PreShellCommands []string    `yaml:"pre_shell_commands"`
	Files            []string    `yaml:"files"`
	Directories      []string    `yaml:"directories"`
	ExtraFiles       []ExtraFile `yaml:"extra_files"`
	EnvVars          []EnvVar    `yaml:"env_vars"`
	ShellCommands    []string    `yaml:"shell_commands"`
}

// ExtraFile places a single file at a path outside Dest
type ExtraFile struct {
	Name string `yaml:"name"`
	Dest string `yaml:"dest"`
}

// EnvVar is exported through the profile fragment file
type EnvVar struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type document struct {
	Config *Config `yaml:"config"`
}

// BackupEnabled reports whether an existing destination is backed up.
// Only an explicit `backup: false` disables it.
func (c *Config) BackupEnabled() bool {
	return c.Backup == nil || *c.Backup
}

// HasCopyActions reports whether anything is copied into Dest
func (c *Config) HasCopyActions() bool {
	return len(c.Files) > 0 || len(c.Directories) > 0
}

// Validate checks presence only: entries the installer cannot act on at
// all. It is not a schema.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Dest) == "" && c.HasCopyActions() {
		return errors.New(errors.ErrParse, "files or directories declared without dest")
	}
	for i, f := range c.Files {
		if strings.TrimSpace(f) == "" {
			return errors.Newf(errors.ErrParse, "files[%d] is empty", i)
		}
	}
	for i, d := range c.Directories {
		if strings.TrimSpace(d) == "" {
			return errors.Newf(errors.ErrParse, "directories[%d] is empty", i)
		}
	}
	for i, ef := range c.ExtraFiles {
		if ef.Name == "" || ef.Dest == "" {
			return errors.Newf(errors.ErrParse, "extra_files[%d] needs both name and dest", i)
		}
	}
	for i, ev := range c.EnvVars {
		if ev.Name == "" {
			return errors.Newf(errors.ErrParse, "env_vars[%d] has no name", i)
		}
	}
	return nil
}

// Parse decodes descriptor content. source names the file in errors.
func Parse(data []byte, source string) (*Config, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrParse, "malformed descriptor %s", source).
			WithDetail("path", source)
	}
	if doc.Config == nil {
		return nil, errors.Newf(errors.ErrParse, "descriptor %s has no config section", source).
			WithDetail("path", source)
	}
	if err := doc.Config.Validate(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrParse, "invalid descriptor %s", source).
			WithDetail("path", source)
	}
	return doc.Config, nil
}

// Load reads and parses <packageDir>/<filename>
func Load(fs afero.Fs, packageDir, filename string) (*Config, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	path := filepath.Join(packageDir, filename)

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrParse, "descriptor %s not found", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrParse, "cannot read descriptor %s", path).
			WithDetail("path", path)
	}
	return Parse(data, path)
}
