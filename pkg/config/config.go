package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/dotinstall/pkg/errors"
)

const (
	// EnvPrefix prefixes every environment override
	EnvPrefix = "DOTINSTALL_"

	// RootConfigFile is looked up in the packages root
	RootConfigFile = ".dotinstall.toml"

	// AppDirName is the directory under XDG config home
	AppDirName = "dotinstall"
)

// Config is the tool configuration
type Config struct {
	Descriptor Descriptor `koanf:"descriptor" toml:"descriptor"`
	Profile    Profile    `koanf:"profile" toml:"profile"`
	Backup     Backup     `koanf:"backup" toml:"backup"`
	Shell      Shell      `koanf:"shell" toml:"shell"`
	Install    Install    `koanf:"install" toml:"install"`
}

// Descriptor controls how packages are recognised
type Descriptor struct {
	// Filename marks a directory tree as a package
	Filename string `koanf:"filename" toml:"filename"`
	// HomeMarker is the dest value meaning "the home directory itself"
	HomeMarker string `koanf:"home_marker" toml:"home_marker"`
}

// Profile controls the shared profile fragment file
type Profile struct {
	Filename  string `koanf:"filename" toml:"filename"`
	Generator string `koanf:"generator" toml:"generator"`
}

type Backup struct {
	Suffix string `koanf:"suffix" toml:"suffix"`
}

type Shell struct {
	Path string `koanf:"path" toml:"path"`
}

type Install struct {
	// IsolateFailures keeps installing remaining packages after one fails
	IsolateFailures bool `koanf:"isolate_failures" toml:"isolate_failures"`
}

// Options selects the files Load reads. Empty fields use the defaults.
type Options struct {
	// Root is the packages root searched for RootConfigFile
	Root string
	// UserConfigPath overrides $XDG_CONFIG_HOME/dotinstall/config.toml
	UserConfigPath string
	// SkipEnv disables environment overrides
	SkipEnv bool
	// Overrides are dotted keys applied last, typically from flags
	Overrides map[string]interface{}
}

// UserConfigPath returns the default location of the user config file
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppDirName, "config.toml")
}

// Default returns the embedded defaults
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic("embedded defaults are invalid: " + err.Error())
	}
	cfg, err := unmarshal(k)
	if err != nil {
		panic("embedded defaults are invalid: " + err.Error())
	}
	return cfg
}

// Load merges all configuration layers into a Config
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath = UserConfigPath()
	}
	if err := loadFileIfExists(k, userPath); err != nil {
		return nil, err
	}

	if opts.Root != "" {
		if err := loadFileIfExists(k, filepath.Join(opts.Root, RootConfigFile)); err != nil {
			return nil, err
		}
	}

	if !opts.SkipEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the installer cannot work with
func (c *Config) Validate() error {
	required := map[string]string{
		"descriptor.filename":    c.Descriptor.Filename,
		"descriptor.home_marker": c.Descriptor.HomeMarker,
		"profile.filename":       c.Profile.Filename,
		"backup.suffix":          c.Backup.Suffix,
		"shell.path":             c.Shell.Path,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return errors.Newf(errors.ErrConfigLoad, "%s must not be empty", key).
				WithDetail("key", key)
		}
	}
	if strings.ContainsRune(c.Descriptor.Filename, filepath.Separator) {
		return errors.Newf(errors.ErrConfigLoad, "descriptor.filename must be a plain file name, got %q", c.Descriptor.Filename)
	}
	return nil
}

// envKey maps DOTINSTALL_PROFILE__FILENAME to profile.filename
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat config %s", path)
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}
	return &cfg, nil
}
