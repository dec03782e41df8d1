package installer

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotinstall/pkg/descriptor"
	"github.com/arthur-debert/dotinstall/pkg/discovery"
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/filesystem"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// runCommands runs hooks in order. A failing command is recorded and the
// next one still runs; only a cancelled context stops the sequence.
func (i *Installer) runCommands(ctx context.Context, res *Result, pkg discovery.Package, commands []string, kind types.EventKind) error {
	for _, command := range commands {
		i.report(types.Event{Kind: kind, Package: pkg.Name, Subject: command})
		if i.dryRun {
			continue
		}

		err := i.runner.Run(ctx, command)
		if err == nil {
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrap(ctxErr, errors.ErrSubprocess, "installation interrupted").
				WithDetail("command", command)
		}

		i.logger.Warn().
			Err(err).
			Str("package", pkg.Name).
			Str("command", command).
			Str("code", string(errors.ErrSubprocess)).
			Msg("Shell command failed")
		i.report(types.Event{Kind: types.EventCommandFailed, Package: pkg.Name, Subject: command, Err: err})
		res.FailedCommands = append(res.FailedCommands, command)
	}
	return nil
}

func (i *Installer) copyFiles(res *Result, pkg discovery.Package, files []string) error {
	for _, name := range files {
		src := sourcePath(pkg, name)
		target := filepath.Join(res.Dest, filepath.Base(src))

		if i.dryRun {
			if err := i.requireSource(src, false); err != nil {
				return err
			}
		} else {
			written, err := filesystem.CopyFile(i.fs, src, res.Dest)
			if err != nil {
				return err
			}
			target = written
		}

		i.logger.Debug().Str("src", src).Str("dst", target).Msg("Copied file")
		i.report(types.Event{Kind: types.EventFileCopied, Package: pkg.Name, Subject: name, Target: res.Dest})
		res.Copied = append(res.Copied, target)
	}
	return nil
}

func (i *Installer) copyDirectories(res *Result, pkg discovery.Package, dirs []string) error {
	for _, name := range dirs {
		src := sourcePath(pkg, name)
		target := filepath.Join(res.Dest, filepath.Base(src))

		if i.dryRun {
			if err := i.requireSource(src, true); err != nil {
				return err
			}
		} else if err := filesystem.CopyTree(i.fs, src, target); err != nil {
			return err
		}

		i.logger.Debug().Str("src", src).Str("dst", target).Msg("Merged directory")
		i.report(types.Event{Kind: types.EventDirCopied, Package: pkg.Name, Subject: filepath.Clean(name), Target: target})
		res.Copied = append(res.Copied, target)
	}
	return nil
}

func (i *Installer) copyExtraFiles(res *Result, pkg discovery.Package, extras []descriptor.ExtraFile) error {
	for _, extra := range extras {
		src := sourcePath(pkg, extra.Name)
		dest, err := i.paths.ExpandAbs(extra.Dest)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFilesystem, "invalid destination for extra file %s", extra.Name)
		}

		target := dest
		if i.dryRun {
			if err := i.requireSource(src, false); err != nil {
				return err
			}
		} else {
			target, err = filesystem.CopyFile(i.fs, src, dest)
			if err != nil {
				return err
			}
		}

		i.logger.Debug().Str("src", src).Str("dst", target).Msg("Copied extra file")
		i.report(types.Event{Kind: types.EventExtraFileCopied, Package: pkg.Name, Subject: extra.Name, Target: dest})
		res.Copied = append(res.Copied, target)
	}
	return nil
}

func (i *Installer) writeEnvVars(res *Result, pkg discovery.Package, vars []descriptor.EnvVar) error {
	if len(vars) == 0 {
		return nil
	}

	if !i.dryRun {
		if err := i.appender.AppendEnvVars(pkg.Source, vars); err != nil {
			return err
		}
	}

	for _, v := range vars {
		i.report(types.Event{Kind: types.EventEnvVarWritten, Package: pkg.Name, Subject: v.Name, Target: i.appender.Path()})
		res.EnvVars = append(res.EnvVars, v.Name)
	}
	return nil
}

// appendSnippet appends the package's top-level profile file, if any
func (i *Installer) appendSnippet(res *Result, pkg discovery.Package) error {
	name := filepath.Base(i.paths.ProfileFile())
	src := sourcePath(pkg, name)

	isFile, err := i.isFile(src)
	if err != nil || !isFile {
		return err
	}

	if !i.dryRun {
		content, err := afero.ReadFile(i.fs, src)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFilesystem, "cannot read %s", src).
				WithDetail("src", src)
		}
		if err := i.appender.AppendFragment(pkg.Source, content); err != nil {
			return err
		}
	}

	i.report(types.Event{Kind: types.EventProfileAppended, Package: pkg.Name, Subject: name, Target: i.appender.Path()})
	res.ProfileSnippet = true
	return nil
}

func (i *Installer) isFile(path string) (bool, error) {
	exists, err := filesystem.Exists(i.fs, path)
	if err != nil || !exists {
		return false, err
	}
	isDir, err := filesystem.IsDir(i.fs, path)
	if err != nil {
		return false, err
	}
	return !isDir, nil
}

// requireSource checks in dry-run mode what the copy would have checked
func (i *Installer) requireSource(src string, wantDir bool) error {
	exists, err := filesystem.Exists(i.fs, src)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Newf(errors.ErrFilesystem, "source %s does not exist", src).
			WithDetail("src", src)
	}
	isDir, err := filesystem.IsDir(i.fs, src)
	if err != nil {
		return err
	}
	if isDir != wantDir {
		return errors.Newf(errors.ErrFilesystem, "source %s has the wrong type", src).
			WithDetail("src", src)
	}
	return nil
}
