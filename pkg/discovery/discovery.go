// Package discovery finds installable packages.
//
// A package is a directory whose subtree contains the descriptor file
// somewhere. Candidates come either from the top level of a root directory
// or from an explicit list of names; candidates without a descriptor are
// reported as not Found and skipped by Packages, never as errors.
package discovery

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotinstall/pkg/descriptor"
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/logging"
)

// Package is a directory tree installed as one unit
type Package struct {
	// Name is the base name of the package directory
	Name string
	// Path is the absolute package directory
	Path string
	// Source is the name the package was requested or listed under. It
	// identifies the package in generated profile comments.
	Source string
}

// Candidate is a directory that may or may not be a package
type Candidate struct {
	Package
	Found bool
}

// Options selects where to look
type Options struct {
	// Root is scanned when Names is empty, and anchors relative Names
	Root string
	// Names restricts discovery to these candidates, in this order
	Names []string
	// DescriptorFilename defaults to descriptor.DefaultFilename
	DescriptorFilename string
}

var errFound = stderrors.New("descriptor found")

// Discover returns every candidate with Found set. Root entries come back
// sorted by name; explicit names keep the order given, duplicates dropped.
func Discover(fs afero.Fs, opts Options) ([]Candidate, error) {
	logger := logging.GetLogger("discovery")

	filename := opts.DescriptorFilename
	if filename == "" {
		filename = descriptor.DefaultFilename
	}

	var packages []Package
	var err error
	if len(opts.Names) > 0 {
		packages = fromNames(opts.Root, opts.Names)
	} else {
		packages, err = fromRoot(fs, opts.Root)
		if err != nil {
			return nil, err
		}
	}

	candidates := make([]Candidate, 0, len(packages))
	for _, pkg := range packages {
		found, err := HasDescriptor(fs, pkg.Path, filename)
		if err != nil {
			return nil, err
		}
		if !found {
			logger.Debug().
				Str("candidate", pkg.Source).
				Str("code", string(errors.ErrDiscovery)).
				Msg("No descriptor found, skipping")
		}
		candidates = append(candidates, Candidate{Package: pkg, Found: found})
	}

	logger.Debug().Int("candidates", len(candidates)).Str("root", opts.Root).Msg("Discovery completed")
	return candidates, nil
}

// Packages keeps the candidates that were found
func Packages(candidates []Candidate) []Package {
	var found []Package
	for _, c := range candidates {
		if c.Found {
			found = append(found, c.Package)
		}
	}
	return found
}

// HasDescriptor walks the whole subtree of dir looking for filename.
// Unreadable parts of the tree are skipped. A dir that does not exist or
// is not a directory has no descriptor.
func HasDescriptor(fs afero.Fs, dir, filename string) (bool, error) {
	info, err := fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return false, nil
	}

	err = afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil {
			return nil
		}
		if !info.IsDir() && info.Name() == filename {
			return errFound
		}
		return nil
	})
	if err == errFound {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFilesystem, "failed to walk %s", dir)
	}
	return false, nil
}

// NormalizeName removes trailing slashes added by shell completion
func NormalizeName(name string) string {
	trimmed := strings.TrimRight(name, "/")
	if trimmed == "" {
		return name
	}
	return trimmed
}

func fromNames(root string, names []string) []Package {
	seen := make(map[string]bool, len(names))
	var packages []Package
	for _, raw := range names {
		name := NormalizeName(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, name)
		}
		packages = append(packages, Package{
			Name:   filepath.Base(path),
			Path:   filepath.Clean(path),
			Source: name,
		})
	}
	return packages
}

func fromRoot(fs afero.Fs, root string) ([]Package, error) {
	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilesystem, "cannot read packages root %s", root).
			WithDetail("root", root)
	}

	var packages []Package
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		// Stat follows symlinked package directories
		info, err := fs.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		packages = append(packages, Package{
			Name:   entry.Name(),
			Path:   path,
			Source: entry.Name(),
		})
	}
	return packages, nil
}
