// Package testutil builds installer test environments.
//
// A TestEnvironment owns a packages root and a home directory, either on an
// in-memory afero filesystem (EnvMemoryOnly) or in a temporary directory on
// disk (EnvIsolated, with HOME and the XDG state directory pointed there).
// Relative paths given to its file helpers are taken from the root.
package testutil
