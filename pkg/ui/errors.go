package ui

import (
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/dotinstall/pkg/errors"
)

// UsageHint is printed after any fatal error
const UsageHint = "Usage: dotinstall install [<package>...]"

// FormatError renders the line shown for a fatal error. Messages along the
// wrap chain are joined; error codes are left to the logs.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return pterm.Error.MessageStyle.Sprint("Error: " + plainMessage(err))
}

func plainMessage(err error) string {
	switch e := err.(type) {
	case *errors.InstallError:
		if e.Wrapped == nil {
			return e.Message
		}
		return e.Message + ": " + plainMessage(e.Wrapped)
	case interface{ Unwrap() []error }:
		var parts []string
		for _, inner := range e.Unwrap() {
			if inner != nil {
				parts = append(parts, plainMessage(inner))
			}
		}
		return strings.Join(parts, "\n")
	default:
		return err.Error()
	}
}

// FormatUsage renders the usage hint printed after a fatal error
func FormatUsage() string {
	return pterm.Info.MessageStyle.Sprint(UsageHint)
}

// DisableStyling turns off pterm colors for non-terminal output
func DisableStyling() {
	pterm.DisableStyling()
}
