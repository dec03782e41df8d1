// Package types holds the small value types shared between the installer
// and its presentation layer.
package types
