package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/errors"
)

// Environment variable names
const (
	// EnvDotfilesRoot selects the packages root when --root is not given
	EnvDotfilesRoot = "DOTFILES_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// DefaultProfileFilename is the shared profile fragment file under home
const DefaultProfileFilename = ".userprofile"

// Options configures New. Zero values fall back to the process environment.
type Options struct {
	// Root is the packages root; defaults to $DOTFILES_ROOT, then the cwd
	Root string
	// Home is the user's home; defaults to os.UserHomeDir
	Home string
	// ProfileFilename is joined to Home
	ProfileFilename string
	// LookupEnv resolves variables other than HOME during expansion
	LookupEnv func(string) (string, bool)
}

// Paths holds every location the installer touches outside a package
type Paths struct {
	root        string
	home        string
	profileFile string
	lookupEnv   func(string) (string, bool)
}

// New resolves opts into absolute paths
func New(opts Options) (*Paths, error) {
	p := &Paths{lookupEnv: opts.LookupEnv}
	if p.lookupEnv == nil {
		p.lookupEnv = os.LookupEnv
	}

	home := opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "cannot determine home directory")
		}
		home = h
	}
	absHome, err := filepath.Abs(home)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for home %s", home)
	}
	p.home = absHome

	root := opts.Root
	if root == "" {
		root = os.Getenv(EnvDotfilesRoot)
	}
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to get current directory")
		}
		root = cwd
	}
	absRoot, err := filepath.Abs(p.expandHome(root))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for root %s", root)
	}
	p.root = absRoot

	profile := opts.ProfileFilename
	if profile == "" {
		profile = DefaultProfileFilename
	}
	p.profileFile = filepath.Join(p.home, profile)

	return p, nil
}

// Root returns the directory packages are discovered in
func (p *Paths) Root() string { return p.root }

// Home returns the user's home directory
func (p *Paths) Home() string { return p.home }

// ProfileFile returns the shared profile fragment file
func (p *Paths) ProfileFile() string { return p.profileFile }

// Expand substitutes $VAR and ${VAR} references and a leading ~.
// HOME always resolves to the configured home. Unset variables are left
// in place rather than replaced by an empty string.
func (p *Paths) Expand(s string) string {
	expanded := os.Expand(s, func(name string) string {
		if name == EnvHome {
			return p.home
		}
		if value, ok := p.lookupEnv(name); ok {
			return value
		}
		return "${" + name + "}"
	})
	return p.expandHome(expanded)
}

// ExpandAbs expands s and makes the result absolute against the root
func (p *Paths) ExpandAbs(s string) (string, error) {
	expanded := p.Expand(s)
	if expanded == "" {
		return "", errors.New(errors.ErrInvalidInput, "path is empty")
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	return filepath.Join(p.root, expanded), nil
}

func (p *Paths) expandHome(path string) string {
	if path == "~" {
		return p.home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return filepath.Join(p.home, path[2:])
	}
	// ~user is not supported; leave it alone
	return path
}
