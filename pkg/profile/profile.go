// Package profile appends to the shared profile fragment file.
//
// The file (~/.userprofile by default) collects environment exports and raw
// profile snippets from every installed package. It is only ever appended
// to. Each contribution is one block: a generated marker comment naming the
// source package followed by the body, written with a single append so
// blocks never interleave.
package profile

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotinstall/pkg/descriptor"
	"github.com/arthur-debert/dotinstall/pkg/errors"
)

// DefaultGenerator names the tool in marker comments
const DefaultGenerator = "dotfiles"

// Appender writes blocks to one profile fragment file
type Appender struct {
	fs        afero.Fs
	path      string
	generator string

	mu sync.Mutex
}

// NewAppender returns an Appender for path
func NewAppender(fs afero.Fs, path, generator string) *Appender {
	if generator == "" {
		generator = DefaultGenerator
	}
	return &Appender{fs: fs, path: path, generator: generator}
}

// Path returns the profile fragment file
func (a *Appender) Path() string {
	return a.path
}

// Marker returns the comment line opening a block from source
func (a *Appender) Marker(source string) string {
	return fmt.Sprintf("# automatically generated by %s (%s)\n", a.generator, source)
}

// EnvBlock renders vars as export statements under a marker, followed by a
// blank line
func (a *Appender) EnvBlock(source string, vars []descriptor.EnvVar) string {
	var b strings.Builder
	b.WriteString(a.Marker(source))
	for _, v := range vars {
		fmt.Fprintf(&b, "export %s=\"%s\"\n", v.Name, v.Value)
	}
	b.WriteString("\n")
	return b.String()
}

// FragmentBlock renders a raw profile snippet under a marker
func (a *Appender) FragmentBlock(source string, content []byte) string {
	return a.Marker(source) + string(content) + "\n"
}

// AppendEnvVars appends one export block. No vars, no block.
func (a *Appender) AppendEnvVars(source string, vars []descriptor.EnvVar) error {
	if len(vars) == 0 {
		return nil
	}
	return a.append(a.EnvBlock(source, vars))
}

// AppendFragment appends a snippet block
func (a *Appender) AppendFragment(source string, content []byte) error {
	return a.append(a.FragmentBlock(source, content))
}

func (a *Appender) append(block string) (err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := a.fs.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to open profile file %s", a.path).
			WithDetail("path", a.path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, errors.ErrFilesystem, "failed to close profile file %s", a.path)
		}
	}()

	if _, err := f.WriteString(block); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to append to profile file %s", a.path).
			WithDetail("path", a.path)
	}
	return nil
}
