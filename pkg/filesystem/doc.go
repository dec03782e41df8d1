// Package filesystem provides the copy primitives the installer is built on.
//
// All functions take an afero.Fs so the same code runs against the real
// filesystem (NewOS) and an in-memory one in tests (NewMemory).
package filesystem
