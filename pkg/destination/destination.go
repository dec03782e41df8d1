// Package destination prepares the directory a package installs into.
package destination

import (
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/filesystem"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/paths"
)

const (
	// DefaultHomeMarker is the dest value that means the home directory
	DefaultHomeMarker = "$HOME"

	// DefaultBackupSuffix precedes the backup index
	DefaultBackupSuffix = ".back."
)

// Resolution describes what Resolve did
type Resolution struct {
	// Path is the absolute destination directory
	Path string
	// Home is set when the home marker was used
	Home bool
	// Created is set when the directory did not exist before
	Created bool
	// BackupPath is the backup copy, empty when none was taken
	BackupPath string
}

// Resolver turns a descriptor dest into a ready directory
type Resolver struct {
	fs           afero.Fs
	paths        *paths.Paths
	homeMarker   string
	backupSuffix string
	dryRun       bool
	logger       zerolog.Logger
}

// Option customises a Resolver
type Option func(*Resolver)

// WithHomeMarker changes the dest value that selects the home directory
func WithHomeMarker(marker string) Option {
	return func(r *Resolver) { r.homeMarker = marker }
}

// WithBackupSuffix changes the ".back." part of backup names
func WithBackupSuffix(suffix string) Option {
	return func(r *Resolver) { r.backupSuffix = suffix }
}

// WithDryRun makes Resolve compute the result without touching the filesystem
func WithDryRun(dryRun bool) Option {
	return func(r *Resolver) { r.dryRun = dryRun }
}

// NewResolver creates a Resolver
func NewResolver(fs afero.Fs, p *paths.Paths, opts ...Option) *Resolver {
	r := &Resolver{
		fs:           fs,
		paths:        p,
		homeMarker:   DefaultHomeMarker,
		backupSuffix: DefaultBackupSuffix,
		logger:       logging.GetLogger("destination"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsHome reports whether raw is the home marker
func (r *Resolver) IsHome(raw string) bool {
	return raw == r.homeMarker
}

// Resolve prepares the destination for raw.
//
// The home marker resolves to the home directory and nothing else happens:
// no creation and no backup, whatever backup says. Any other value is
// expanded; a missing directory is created with its parents, an existing
// one is copied to the first free <dest><suffix>N when backup is set. The
// original stays in place to be overwritten.
func (r *Resolver) Resolve(raw string, backup bool) (Resolution, error) {
	if r.IsHome(raw) {
		return Resolution{Path: r.paths.Home(), Home: true}, nil
	}

	dest, err := r.paths.ExpandAbs(raw)
	if err != nil {
		return Resolution{}, errors.Wrapf(err, errors.ErrFilesystem, "invalid destination %q", raw)
	}
	res := Resolution{Path: dest}

	exists, err := filesystem.Exists(r.fs, dest)
	if err != nil {
		return Resolution{}, err
	}

	if !exists {
		r.logger.Info().Str("dest", dest).Bool("dryRun", r.dryRun).Msg("Creating destination directory")
		if !r.dryRun {
			if err := r.fs.MkdirAll(dest, 0755); err != nil {
				return Resolution{}, errors.Wrapf(err, errors.ErrFilesystem, "failed to create destination %s", dest).
					WithDetail("dest", dest)
			}
		}
		res.Created = true
		return res, nil
	}

	if !backup {
		r.logger.Debug().Str("dest", dest).Msg("Destination exists, backup disabled")
		return res, nil
	}

	backupPath, err := r.NextBackupPath(dest)
	if err != nil {
		return Resolution{}, err
	}
	r.logger.Info().Str("dest", dest).Str("backup", backupPath).Bool("dryRun", r.dryRun).Msg("Backing up destination")
	if !r.dryRun {
		if err := filesystem.CopyTree(r.fs, dest, backupPath); err != nil {
			return Resolution{}, errors.Wrapf(err, errors.ErrFilesystem, "failed to back up %s", dest).
				WithDetail("backup", backupPath)
		}
	}
	res.BackupPath = backupPath
	return res, nil
}

// NextBackupPath returns <dest><suffix>N for the lowest N >= 1 not in use
func (r *Resolver) NextBackupPath(dest string) (string, error) {
	for i := 1; ; i++ {
		candidate := dest + r.backupSuffix + strconv.Itoa(i)
		exists, err := filesystem.Exists(r.fs, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		r.logger.Debug().Str("backup", candidate).Msg("Backup already exists")
	}
}
