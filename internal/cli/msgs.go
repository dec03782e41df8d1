package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Install dotfile packages described by dot.yml files"
	MsgInstallShort    = "Install packages into the home directory"
	MsgListShort       = "List package candidates under the root"
	MsgListLong        = "List displays every directory of the packages root and whether it holds a descriptor."
	MsgGenConfigShort  = "Generate a configuration file"
	MsgGenConfigLong   = "Output the current configuration with every value commented out, or write it to the packages root."
	MsgFormatShort     = "Describe the dot.yml format"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgInstallingAll    = "installing all dotfiles"
	MsgNoPackagesFound  = "No packages found."
	MsgDryRunNotice     = "DRY RUN MODE - No changes were made"
	MsgCandidateFormat  = "  %-20s %s\n"
	MsgInstallable      = "installable"
	MsgNoDescriptor     = "no descriptor"
	MsgConfigWritten    = "Wrote %s\n"
	MsgManPagesWritten  = "Man pages written to %s\n"
	MsgPackagesFailed   = "%d of %d packages failed\n"
	MsgVersionFormat    = "dotinstall version %s\n"
	MsgVersionCommit    = "Commit: %s\n"
	MsgVersionBuildDate = "Built:  %s\n"

	// Error messages
	MsgErrConfigExists = "%s already exists"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Preview changes without executing them"
	MsgFlagRoot    = "Packages root (default: $DOTFILES_ROOT, then the current directory)"
	MsgFlagIsolate = "Keep installing the remaining packages when one fails"
	MsgFlagColor   = "Color output: auto, term or text"
	MsgFlagWrite   = "Write config to <root>/.dotinstall.toml instead of stdout"
	MsgFlagManDir  = "Directory the man pages are written to"
)

// Long messages, embedded from msgs/
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimRight(msgInstallExampleRaw, "\n")

	//go:embed msgs/list-example.txt
	msgListExampleRaw string
	MsgListExample    = strings.TrimRight(msgListExampleRaw, "\n")

	//go:embed msgs/genconfig-example.txt
	msgGenConfigExampleRaw string
	MsgGenConfigExample    = strings.TrimRight(msgGenConfigExampleRaw, "\n")
)
