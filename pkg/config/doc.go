// Package config handles configuration management for dotinstall.
//
// Values are layered with koanf, later sources overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user config file, $XDG_CONFIG_HOME/dotinstall/config.toml
//  3. the root config file, <root>/.dotinstall.toml
//  4. DOTINSTALL_ environment variables, where a double underscore
//     separates section and key (DOTINSTALL_SHELL__PATH sets shell.path)
//
// This is the tool's own configuration. Package descriptors (dot.yml) are
// parsed by pkg/descriptor.
package config
