package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dotinstall/internal/version"
	"github.com/arthur-debert/dotinstall/pkg/config"
	"github.com/arthur-debert/dotinstall/pkg/descriptor"
	"github.com/arthur-debert/dotinstall/pkg/discovery"
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/filesystem"
	"github.com/arthur-debert/dotinstall/pkg/installer"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/ui"
)

func newInstallCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "install [packages...]",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli.install")

			env, err := loadEnvironment(cmd, opts)
			if err != nil {
				return err
			}
			inst, err := env.newInstaller(cmd, opts.dryRun)
			if err != nil {
				return err
			}

			candidates, err := inst.Candidates(args)
			if err != nil {
				return err
			}
			packages := discovery.Packages(candidates)
			if len(args) > 0 && len(packages) < len(candidates) {
				warnMissing(inst, candidates)
			}

			logger.Info().
				Str("root", env.paths.Root()).
				Strs("requested", args).
				Int("packages", len(packages)).
				Bool("dryRun", opts.dryRun).
				Bool("isolate", env.config.Install.IsolateFailures).
				Msg("Starting install")

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, MsgInstallingAll)
			}

			results, err := inst.Run(cmd.Context(), packages)

			if env.config.Install.IsolateFailures && err != nil {
				failed := 0
				for _, r := range results {
					if r.Err != nil {
						failed++
					}
				}
				fmt.Fprintf(out, MsgPackagesFailed, failed, len(results))
			}
			if opts.dryRun {
				fmt.Fprintln(out, MsgDryRunNotice)
			}
			return err
		},
	}
}

// warnMissing logs requested names without a descriptor, with the closest
// installable names under the root
func warnMissing(inst *installer.Installer, requested []discovery.Candidate) {
	logger := logging.GetLogger("cli.install")

	// best effort: an unreadable root only loses the suggestions
	available, _ := inst.Candidates(nil)
	for _, c := range requested {
		if c.Found {
			continue
		}
		logger.Info().
			Str("package", c.Source).
			Strs("suggestions", discovery.Suggest(c.Source, available)).
			Msg("No descriptor found, skipping")
	}
}

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		Example: MsgListExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, opts)
			if err != nil {
				return err
			}

			candidates, err := discovery.Discover(filesystem.NewOS(), discovery.Options{
				Root:               env.paths.Root(),
				DescriptorFilename: env.config.Descriptor.Filename,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(candidates) == 0 {
				fmt.Fprintln(out, MsgNoPackagesFound)
				return nil
			}
			for _, c := range candidates {
				state := MsgNoDescriptor
				if c.Found {
					state = MsgInstallable
				}
				fmt.Fprintf(out, MsgCandidateFormat, c.Name, state)
			}
			return nil
		},
	}
}

func newGenConfigCmd(opts *globalOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Example: MsgGenConfigExample,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, opts)
			if err != nil {
				return err
			}

			content, err := config.GenerateConfigContent(env.config)
			if err != nil {
				return err
			}

			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			target := filepath.Join(env.paths.Root(), config.RootConfigFile)
			if _, err := os.Stat(target); err == nil {
				return errors.Newf(errors.ErrInvalidInput, MsgErrConfigExists, target)
			}
			if err := os.WriteFile(target, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFilesystem, "failed to write %s", target)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, target)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}

func newFormatCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "format",
		Short:   MsgFormatShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ui.ParseFormat(opts.color)
			if err != nil {
				return err
			}
			format = format.Resolve(cmd.OutOrStdout())

			_, err = fmt.Fprint(cmd.OutOrStdout(), ui.RenderMarkdown(descriptor.Reference(), format, 80))
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Long:    `Print detailed version information including commit hash and build date`,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, MsgVersionCommit, version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, MsgVersionBuildDate, version.Date)
			}
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(dotinstall completion bash)

Zsh:
  $ dotinstall completion zsh > "${fpath[1]}/_dotinstall"

Fish:
  $ dotinstall completion fish | source

PowerShell:
  PS> dotinstall completion powershell | Out-String | Invoke-Expression
`,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				err = cmd.Root().GenZshCompletion(out)
			case "fish":
				err = cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			if err != nil {
				log.Error().Err(err).Str("shell", args[0]).Msg("Failed to generate completion")
			}
			return err
		},
	}
}

func newManCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		Long:    `Generate man pages for dotinstall and each of its commands`,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrFilesystem, "failed to create %s", dir)
			}
			if err := doc.GenManTree(cmd.Root(), ManHeader(), dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgManPagesWritten, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", MsgFlagManDir)
	return cmd
}

// ManHeader is shared by the man command and the manpage generator
func ManHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "DOTINSTALL",
		Section: "1",
		Source:  "dotinstall " + version.Version,
		Manual:  "dotinstall manual",
	}
}
