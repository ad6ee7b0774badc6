// Package types defines the application configuration that config plugins
// read and that flows through every mod chain, together with the closed set
// of platforms a mod can target.
package types
