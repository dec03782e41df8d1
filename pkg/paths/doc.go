// Package paths provides the explicit installation environment.
//
// Rather than reading $HOME and friends from the process environment deep
// inside the installer, a Paths value is built once at startup and passed
// down. Tests inject a fake home directory through Options.
package paths
