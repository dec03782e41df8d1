package cli

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotinstall/pkg/config"
	"github.com/arthur-debert/dotinstall/pkg/filesystem"
	"github.com/arthur-debert/dotinstall/pkg/installer"
	"github.com/arthur-debert/dotinstall/pkg/paths"
	"github.com/arthur-debert/dotinstall/pkg/shell"
	"github.com/arthur-debert/dotinstall/pkg/ui"
)

// environment is everything a command needs, resolved from flags, the
// process environment and the configuration files
type environment struct {
	paths  *paths.Paths
	config *config.Config
	format ui.Format
}

func loadEnvironment(cmd *cobra.Command, opts *globalOptions) (*environment, error) {
	format, err := ui.ParseFormat(opts.color)
	if err != nil {
		return nil, err
	}
	format = format.Resolve(cmd.OutOrStdout())

	// The root has to be known before the config that may live in it
	p, err := paths.New(paths.Options{Root: opts.root})
	if err != nil {
		return nil, err
	}

	overrides := map[string]interface{}{}
	if opts.isolate {
		overrides["install.isolate_failures"] = true
	}
	cfg, err := config.Load(config.Options{Root: p.Root(), Overrides: overrides})
	if err != nil {
		return nil, err
	}

	if cfg.Profile.Filename != paths.DefaultProfileFilename {
		p, err = paths.New(paths.Options{Root: p.Root(), ProfileFilename: cfg.Profile.Filename})
		if err != nil {
			return nil, err
		}
	}

	return &environment{paths: p, config: cfg, format: format}, nil
}

func (e *environment) newInstaller(cmd *cobra.Command, dryRun bool) (*installer.Installer, error) {
	runner := shell.NewExecRunner(e.config.Shell.Path)
	runner.Stdout = cmd.OutOrStdout()
	runner.Stderr = cmd.ErrOrStderr()

	return installer.New(installer.Options{
		FS:       filesystem.NewOS(),
		Paths:    e.paths,
		Config:   e.config,
		Runner:   runner,
		Reporter: ui.NewPrinter(cmd.OutOrStdout(), e.format),
		DryRun:   dryRun,
	})
}
