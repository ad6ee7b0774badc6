// Package registry provides a generic, thread-safe registry of named
// items. The plugin catalogue is built on it.
package registry
