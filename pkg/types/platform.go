package types

import "github.com/eppisapiafsl/expo-cli/pkg/errors"

// Platform identifies the native project a mod targets
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// Platforms lists every supported platform in evaluation order
func Platforms() []Platform {
	return []Platform{PlatformAndroid, PlatformIOS}
}

// ParsePlatform converts a user supplied name into a Platform
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformAndroid, PlatformIOS:
		return Platform(s), nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown platform %q (expected android or ios)", s).
		WithDetail("platform", s)
}

// Dir returns the platform project directory name relative to the project root
func (p Platform) Dir() string {
	return string(p)
}

func (p Platform) String() string {
	return string(p)
}
