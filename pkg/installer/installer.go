package installer

import (
	"context"
	stderrors "errors"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/dotinstall/pkg/config"
	"github.com/arthur-debert/dotinstall/pkg/descriptor"
	"github.com/arthur-debert/dotinstall/pkg/destination"
	"github.com/arthur-debert/dotinstall/pkg/discovery"
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/filesystem"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/paths"
	"github.com/arthur-debert/dotinstall/pkg/profile"
	"github.com/arthur-debert/dotinstall/pkg/shell"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Options contains configuration for the installer
type Options struct {
	// FS defaults to the OS filesystem
	FS afero.Fs
	// Paths is required
	Paths *paths.Paths
	// Config defaults to config.Default()
	Config *config.Config
	// Runner defaults to an ExecRunner using Config.Shell.Path
	Runner shell.Runner
	// Reporter receives one event per step; defaults to types.Discard
	Reporter types.Reporter
	DryRun   bool
	Logger   zerolog.Logger
}

// Installer installs packages
type Installer struct {
	fs       afero.Fs
	paths    *paths.Paths
	cfg      *config.Config
	runner   shell.Runner
	reporter types.Reporter
	resolver *destination.Resolver
	appender *profile.Appender
	dryRun   bool
	logger   zerolog.Logger
}

// Result records what Install did for one package
type Result struct {
	Package discovery.Package
	// Dest is the resolved destination, empty when the package has none
	Dest       string
	Home       bool
	Created    bool
	BackupPath string
	// Copied lists every path written by files, directories and extra_files
	Copied []string
	// EnvVars lists the variable names exported
	EnvVars        []string
	ProfileSnippet bool
	// FailedCommands lists hook commands that exited non-zero
	FailedCommands []string
	Err            error
}

// New creates an installer
func New(opts Options) (*Installer, error) {
	if opts.Paths == nil {
		return nil, errors.New(errors.ErrInternal, "installer needs paths")
	}

	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("installer")
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	runner := opts.Runner
	if runner == nil {
		runner = shell.NewExecRunner(cfg.Shell.Path)
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = types.Discard
	}

	return &Installer{
		fs:       fs,
		paths:    opts.Paths,
		cfg:      cfg,
		runner:   runner,
		reporter: reporter,
		resolver: destination.NewResolver(fs, opts.Paths,
			destination.WithHomeMarker(cfg.Descriptor.HomeMarker),
			destination.WithBackupSuffix(cfg.Backup.Suffix),
			destination.WithDryRun(opts.DryRun),
		),
		appender: profile.NewAppender(fs, opts.Paths.ProfileFile(), cfg.Profile.Generator),
		dryRun:   opts.DryRun,
		logger:   logger,
	}, nil
}

// Candidates discovers packages under the root, or among names when given
func (i *Installer) Candidates(names []string) ([]discovery.Candidate, error) {
	return discovery.Discover(i.fs, discovery.Options{
		Root:               i.paths.Root(),
		Names:              names,
		DescriptorFilename: i.cfg.Descriptor.Filename,
	})
}

// Run installs packages in order. Without isolation it returns at the first
// failure; the results gathered so far are returned with the error.
func (i *Installer) Run(ctx context.Context, packages []discovery.Package) ([]Result, error) {
	done := logging.LogOperationStart(i.logger, "install")
	defer done()

	isolate := i.cfg.Install.IsolateFailures
	results := make([]Result, 0, len(packages))
	var errs []error

	for _, pkg := range packages {
		res, err := i.Install(ctx, pkg)
		results = append(results, res)
		if err == nil {
			continue
		}

		i.logger.Error().
			Err(err).
			Str("package", pkg.Name).
			Str("code", string(errors.GetErrorCode(err))).
			Interface("details", errors.GetErrorDetails(err)).
			Msg("Package installation failed")
		i.report(types.Event{Kind: types.EventPackageFailed, Package: pkg.Name, Err: err})

		if !isolate || ctx.Err() != nil {
			return results, err
		}
		errs = append(errs, err)
	}

	i.logger.Info().
		Int("packages", len(packages)).
		Int("failed", len(errs)).
		Msg("Installation finished")

	return results, stderrors.Join(errs...)
}

// Install applies one package's descriptor
func (i *Installer) Install(ctx context.Context, pkg discovery.Package) (Result, error) {
	res := Result{Package: pkg}
	logger := i.logger.With().Str("package", pkg.Name).Logger()

	cfg, err := descriptor.Load(i.fs, pkg.Path, i.cfg.Descriptor.Filename)
	if err != nil {
		return i.fail(&res, pkg, err)
	}

	logger.Info().Str("path", pkg.Path).Bool("dryRun", i.dryRun).Msg("Installing package")
	i.report(types.Event{Kind: types.EventPackageStart, Package: pkg.Name})

	if err := i.runCommands(ctx, &res, pkg, cfg.PreShellCommands, types.EventPreCommand); err != nil {
		return i.fail(&res, pkg, err)
	}

	if cfg.Dest != "" {
		resolution, err := i.resolver.Resolve(cfg.Dest, cfg.BackupEnabled())
		if err != nil {
			return i.fail(&res, pkg, err)
		}
		res.Dest = resolution.Path
		res.Home = resolution.Home
		res.Created = resolution.Created
		res.BackupPath = resolution.BackupPath

		if resolution.Created {
			i.report(types.Event{Kind: types.EventDestCreated, Package: pkg.Name, Target: resolution.Path})
		}
		if resolution.BackupPath != "" {
			i.report(types.Event{Kind: types.EventBackupCreated, Package: pkg.Name, Subject: resolution.Path, Target: resolution.BackupPath})
		}
	}

	if err := i.copyFiles(&res, pkg, cfg.Files); err != nil {
		return i.fail(&res, pkg, err)
	}
	if err := i.copyDirectories(&res, pkg, cfg.Directories); err != nil {
		return i.fail(&res, pkg, err)
	}
	if err := i.copyExtraFiles(&res, pkg, cfg.ExtraFiles); err != nil {
		return i.fail(&res, pkg, err)
	}
	if err := i.writeEnvVars(&res, pkg, cfg.EnvVars); err != nil {
		return i.fail(&res, pkg, err)
	}

	if err := i.runCommands(ctx, &res, pkg, cfg.ShellCommands, types.EventPostCommand); err != nil {
		return i.fail(&res, pkg, err)
	}

	if err := i.appendSnippet(&res, pkg); err != nil {
		return i.fail(&res, pkg, err)
	}

	logger.Info().
		Str("dest", res.Dest).
		Int("copied", len(res.Copied)).
		Int("failedCommands", len(res.FailedCommands)).
		Msg("Package installed")
	i.report(types.Event{Kind: types.EventPackageDone, Package: pkg.Name})

	return res, nil
}

func (i *Installer) fail(res *Result, pkg discovery.Package, err error) (Result, error) {
	wrapped := errors.Wrapf(err, errors.GetErrorCode(err), "failed to install %s", pkg.Name).
		WithDetail("package", pkg.Name)
	res.Err = wrapped
	return *res, wrapped
}

func (i *Installer) report(e types.Event) {
	e.DryRun = i.dryRun
	i.reporter.Report(e)
}

// sourcePath joins a descriptor entry to the package directory
func sourcePath(pkg discovery.Package, name string) string {
	return filepath.Join(pkg.Path, name)
}
