// Package shell runs the pre- and post-install hook commands of packages.
package shell

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/logging"
)

// DefaultShell interprets hook commands
const DefaultShell = "/bin/sh"

// Runner executes one command line
type Runner interface {
	Run(ctx context.Context, command string) error
}

// ExecRunner runs commands as `<shell> -c <command>`, streaming their
// output. It inherits the working directory and environment of the process.
type ExecRunner struct {
	Shell  string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer

	logger zerolog.Logger
}

// NewExecRunner returns a runner using shellPath, writing to the process'
// stdout and stderr
func NewExecRunner(shellPath string) *ExecRunner {
	if shellPath == "" {
		shellPath = DefaultShell
	}
	return &ExecRunner{
		Shell:  shellPath,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logging.GetLogger("shell"),
	}
}

// Run executes command and waits for it. There is no timeout: a command
// that never exits blocks until ctx is cancelled. A non-zero exit or a
// failure to start is reported as an ErrSubprocess error.
func (r *ExecRunner) Run(ctx context.Context, command string) error {
	cmd := exec.CommandContext(ctx, r.Shell, "-c", command)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	r.logger.Debug().Str("shell", r.Shell).Str("command", command).Msg("Executing command")

	if err := cmd.Run(); err != nil {
		e := errors.Wrapf(err, errors.ErrSubprocess, "command %q failed", command).
			WithDetail("command", command)
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			e.WithDetail("exitCode", exitErr.ExitCode())
		}
		return e
	}
	return nil
}

// ExitCode extracts the exit status from a Run error, or -1
func ExitCode(err error) int {
	if code, ok := errors.GetErrorDetails(err)["exitCode"].(int); ok {
		return code
	}
	return -1
}
