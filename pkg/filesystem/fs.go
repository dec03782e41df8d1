package filesystem

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotinstall/pkg/errors"
)

// NewOS returns the real filesystem
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// Exists reports whether path exists
func Exists(fs afero.Fs, path string) (bool, error) {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFilesystem, "failed to stat %s", path)
	}
	return ok, nil
}

// IsDir reports whether path exists and is a directory
func IsDir(fs afero.Fs, path string) (bool, error) {
	ok, err := afero.DirExists(fs, path)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFilesystem, "failed to stat %s", path)
	}
	return ok, nil
}

// CopyFile copies the regular file src to dst and returns the path written.
// When dst is an existing directory the file lands inside it under its own
// base name. An existing file is overwritten. The parent directory of the
// final path must already exist. Permission bits are copied from src.
func CopyFile(fs afero.Fs, src, dst string) (string, error) {
	target := dst
	if isDir, err := IsDir(fs, dst); err != nil {
		return "", err
	} else if isDir {
		target = filepath.Join(dst, filepath.Base(src))
	}

	info, err := fs.Stat(src)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFilesystem, "cannot read source file %s", src).
			WithDetail("src", src)
	}
	if info.IsDir() {
		return "", errors.Newf(errors.ErrFilesystem, "source %s is a directory", src).
			WithDetail("src", src)
	}

	parent := filepath.Dir(target)
	if ok, err := IsDir(fs, parent); err != nil {
		return "", err
	} else if !ok {
		return "", errors.Newf(errors.ErrFilesystem, "destination directory %s does not exist", parent).
			WithDetail("dst", target)
	}

	if err := copyContents(fs, src, target, info.Mode().Perm()); err != nil {
		return "", err
	}
	return target, nil
}

// CopyTree recursively copies the directory src into dst, creating dst as
// needed. It merges: files present in both are overwritten with src's
// content, files only present in dst are left untouched.
func CopyTree(fs afero.Fs, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "cannot read source directory %s", src).
			WithDetail("src", src)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrFilesystem, "source %s is not a directory", src).
			WithDetail("src", src)
	}

	if sameFile(fs, src, dst, info) || within(src, dst) {
		return errors.Newf(errors.ErrFilesystem, "cannot copy directory %s into itself", src).
			WithDetail("src", src).
			WithDetail("dst", dst)
	}

	if dstInfo, err := fs.Stat(dst); err == nil && !dstInfo.IsDir() {
		return errors.Newf(errors.ErrFilesystem, "cannot merge directory into file %s", dst).
			WithDetail("dst", dst)
	}
	if err := fs.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to create directory %s", dst)
	}

	entries, err := afero.ReadDir(fs, src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to read directory %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		// Stat follows symlinks so linked content is copied, not the link
		entryInfo, err := fs.Stat(srcPath)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFilesystem, "cannot read %s", srcPath)
		}

		if entryInfo.IsDir() {
			if err := CopyTree(fs, srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		if existing, err := fs.Stat(dstPath); err == nil && existing.IsDir() {
			return errors.Newf(errors.ErrFilesystem, "cannot overwrite directory %s with a file", dstPath).
				WithDetail("src", srcPath)
		}
		if err := copyContents(fs, srcPath, dstPath, entryInfo.Mode().Perm()); err != nil {
			return err
		}
	}

	return nil
}

// sameFile reports whether dst names src, by path or, on the OS filesystem,
// by identity (hard links, symlinked parents)
func sameFile(fs afero.Fs, src, dst string, srcInfo os.FileInfo) bool {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return true
	}
	dstInfo, err := fs.Stat(dst)
	if err != nil {
		return false
	}
	return os.SameFile(srcInfo, dstInfo)
}

// within reports whether path lies strictly below dir
func within(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func copyContents(fs afero.Fs, src, dst string, perm os.FileMode) (err error) {
	srcInfo, err := fs.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "cannot read %s", src)
	}
	// truncating dst would empty src before it is read
	if sameFile(fs, src, dst, srcInfo) {
		return errors.Newf(errors.ErrFilesystem, "source and destination are the same file: %s", src).
			WithDetail("src", src).
			WithDetail("dst", dst)
	}

	in, err := fs.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to open %s", src)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to create %s", dst)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, errors.ErrFilesystem, "failed to close %s", dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to copy %s to %s", src, dst)
	}

	// OpenFile only applies perm on creation
	if err := fs.Chmod(dst, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to set permissions on %s", dst)
	}
	return nil
}
