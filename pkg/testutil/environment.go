package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotinstall/pkg/discovery"
	"github.com/arthur-debert/dotinstall/pkg/paths"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

const (
	memoryRoot = "/dotfiles"
	memoryHome = "/home/user"
)

// TestEnvironment provides a packages root, a home directory and the
// dependencies built on them
type TestEnvironment struct {
	DotfilesRoot string
	HomeDir      string

	FS     afero.Fs
	Paths  *paths.Paths
	Runner *MockRunner
	// Vars backs variable expansion in memory environments
	Vars map[string]string

	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:      t,
		Type:   envType,
		Runner: &MockRunner{},
		Vars:   map[string]string{},
	}

	lookup := env.lookupVar
	switch envType {
	case EnvMemoryOnly:
		env.FS = afero.NewMemMapFs()
		env.DotfilesRoot = memoryRoot
		env.HomeDir = memoryHome
	case EnvIsolated:
		base := t.TempDir()
		env.FS = afero.NewOsFs()
		env.DotfilesRoot = filepath.Join(base, "dotfiles")
		env.HomeDir = filepath.Join(base, "home")

		t.Setenv("HOME", env.HomeDir)
		t.Setenv("DOTFILES_ROOT", env.DotfilesRoot)
		t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))
		lookup = os.LookupEnv
	}

	env.MkdirAll(env.DotfilesRoot)
	env.MkdirAll(env.HomeDir)

	p, err := paths.New(paths.Options{
		Root:      env.DotfilesRoot,
		Home:      env.HomeDir,
		LookupEnv: lookup,
	})
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = p

	return env
}

func (env *TestEnvironment) lookupVar(name string) (string, bool) {
	v, ok := env.Vars[name]
	return v, ok
}

// Path makes rel absolute against the root; absolute paths are kept
func (env *TestEnvironment) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(env.DotfilesRoot, rel)
}

// HomePath joins rel to the home directory
func (env *TestEnvironment) HomePath(rel string) string {
	return filepath.Join(env.HomeDir, rel)
}

// MkdirAll creates a directory and its parents
func (env *TestEnvironment) MkdirAll(path string) {
	env.t.Helper()
	if err := env.FS.MkdirAll(env.Path(path), 0755); err != nil {
		env.t.Fatalf("Failed to create directory %s: %v", path, err)
	}
}

// WriteFile writes content, creating parent directories
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()
	full := env.Path(path)
	env.MkdirAll(filepath.Dir(full))
	if err := afero.WriteFile(env.FS, full, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", full, err)
	}
}

// ReadFile returns the content of path, failing the test if unreadable
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()
	data, err := afero.ReadFile(env.FS, env.Path(path))
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether path exists
func (env *TestEnvironment) Exists(path string) bool {
	env.t.Helper()
	ok, err := afero.Exists(env.FS, env.Path(path))
	if err != nil {
		env.t.Fatalf("Failed to stat %s: %v", path, err)
	}
	return ok
}

// SetupPackage creates <root>/<name> with the given dot.yml and files,
// keyed by path relative to the package
func (env *TestEnvironment) SetupPackage(name, descriptor string, files map[string]string) discovery.Package {
	env.t.Helper()
	dir := env.Path(name)
	env.WriteFile(filepath.Join(dir, "dot.yml"), descriptor)
	for rel, content := range files {
		env.WriteFile(filepath.Join(dir, rel), content)
	}
	return discovery.Package{Name: name, Path: dir, Source: name}
}
