// Package android decodes and encodes the android project artifacts that mods
// operate on: the application manifest, the string resources and the raw
// source and gradle files.
package android
