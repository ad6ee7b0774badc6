package config

import (
	"regexp"

	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/types"
)

var (
	androidPackagePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)+$`)
	bundleIDPattern       = regexp.MustCompile(`^[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)*$`)
	schemePattern         = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*$`)
)

// Validate checks the fields prebuild relies on
func Validate(cfg types.AppConfig) error {
	if cfg.Name == "" {
		return errors.New(errors.ErrConfigValid, "app config has no name").
			WithDetail("field", "name")
	}
	if cfg.Android.Package != "" && !androidPackagePattern.MatchString(cfg.Android.Package) {
		return errors.Newf(errors.ErrConfigValid, "android.package %q is not a valid Java package name", cfg.Android.Package).
			WithDetail("field", "android.package")
	}
	if cfg.Android.VersionCode < 0 {
		return errors.Newf(errors.ErrConfigValid, "android.versionCode must not be negative, got %d", cfg.Android.VersionCode).
			WithDetail("field", "android.versionCode")
	}
	if cfg.IOS.BundleIdentifier != "" && !bundleIDPattern.MatchString(cfg.IOS.BundleIdentifier) {
		return errors.Newf(errors.ErrConfigValid, "ios.bundleIdentifier %q contains invalid characters", cfg.IOS.BundleIdentifier).
			WithDetail("field", "ios.bundleIdentifier")
	}
	if cfg.Scheme != "" && !schemePattern.MatchString(cfg.Scheme) {
		return errors.Newf(errors.ErrConfigValid, "scheme %q is not a valid URL scheme", cfg.Scheme).
			WithDetail("field", "scheme")
	}
	for i, p := range cfg.Plugins {
		if p.Name == "" {
			return errors.Newf(errors.ErrConfigValid, "plugin entry %d has no name", i).
				WithDetail("field", "plugins").
				WithDetail("index", i)
		}
	}
	return nil
}
