// Package prebuild applies the mod tree of an app config to the native
// projects on disk. Each pass reads the artifacts that have mods, runs
// their chains, and writes back only the files whose bytes changed.
package prebuild
