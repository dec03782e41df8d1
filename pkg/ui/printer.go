package ui

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/shell"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Printer writes one line per installer event
type Printer struct {
	out io.Writer

	pkg     lipgloss.Style
	path    lipgloss.Style
	dir     lipgloss.Style
	file    lipgloss.Style
	command lipgloss.Style
	warn    lipgloss.Style
	dim     lipgloss.Style
}

// NewPrinter returns a Printer writing to out. With FormatText (or FormatAuto
// resolved to text by the caller) every style renders as plain text.
func NewPrinter(out io.Writer, format Format) *Printer {
	r := lipgloss.NewRenderer(out)
	if format == FormatTerminal {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		out:     out,
		pkg:     r.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
		path:    r.NewStyle().Foreground(lipgloss.Color("2")),
		dir:     r.NewStyle().Foreground(lipgloss.Color("4")),
		file:    r.NewStyle().Foreground(lipgloss.Color("6")),
		command: r.NewStyle().Foreground(lipgloss.Color("3")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("1")),
		dim:     r.NewStyle().Faint(true),
	}
}

// Report implements types.Reporter
func (p *Printer) Report(e types.Event) {
	if e.Kind == types.EventPackageDone {
		fmt.Fprintln(p.out)
		return
	}

	line := p.line(e)
	if line == "" {
		return
	}
	if e.DryRun {
		line = p.dim.Render("[dry-run]") + " " + line
	}
	fmt.Fprintln(p.out, line)
}

func (p *Printer) line(e types.Event) string {
	switch e.Kind {
	case types.EventPackageStart:
		return "installing: " + p.pkg.Render(e.Package)
	case types.EventPackageFailed:
		return p.warn.Render("failed: ") + p.pkg.Render(e.Package) + p.warn.Render(fmt.Sprintf(" [%s]", errors.GetErrorCode(e.Err)))
	case types.EventPreCommand:
		return "executing pre_shell_command " + p.command.Render(e.Subject)
	case types.EventPostCommand:
		return "executing shell command " + p.command.Render(e.Subject)
	case types.EventCommandFailed:
		return p.warn.Render(fmt.Sprintf("command exited with status %d: ", shell.ExitCode(e.Err))) + p.command.Render(e.Subject)
	case types.EventDestCreated:
		return "creating directory: " + p.path.Render(e.Target)
	case types.EventBackupCreated:
		return "creating backup: " + p.path.Render(e.Target)
	case types.EventFileCopied:
		return "copying file " + p.file.Render(e.Subject) + " to " + p.path.Render(e.Target)
	case types.EventDirCopied:
		return "copying directory " + p.dir.Render(e.Subject+string(filepath.Separator)) + " to " + p.path.Render(e.Target)
	case types.EventExtraFileCopied:
		return "copying extra file " + p.file.Render(e.Subject) + " to " + p.path.Render(e.Target)
	case types.EventEnvVarWritten:
		return "writing env var " + p.file.Render(e.Subject) + " to " + p.path.Render(e.Target)
	case types.EventProfileAppended:
		return "copying " + p.file.Render(e.Subject) + " to " + p.path.Render(e.Target)
	default:
		return ""
	}
}
