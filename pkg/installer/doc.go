// Package installer applies package descriptors.
//
// Install runs one package through a fixed sequence, each step skipped when
// its descriptor field is empty:
//
//  1. pre_shell_commands
//  2. destination resolution (creation or backup)
//  3. files, copied into the destination
//  4. directories, merged into <dest>/<basename>
//  5. extra_files, each copied to its own expanded dest
//  6. env_vars, appended as one export block to the profile fragment file
//  7. shell_commands
//  8. the package's own profile snippet, appended to the same file
//
// A failing hook command is logged and reported, never fatal. Any other
// error stops the package. Run stops the whole run at the first failed
// package unless failures are isolated, in which case every package is
// attempted and the errors are joined.
package installer
