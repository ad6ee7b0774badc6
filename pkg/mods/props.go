package mods

import "github.com/eppisapiafsl/expo-cli/pkg/types"

// ModProps is the request context that accompanies the payload through a
// chain. Links may read it but cannot change it: the executor restores it
// after every link and only advances the cursor fields.
type ModProps struct {
	// ProjectRoot is the root directory of the universal app
	ProjectRoot string
	// PlatformProjectRoot is the root of the native project for Platform
	PlatformProjectRoot string
	// ModName is the slot being evaluated
	ModName SlotName
	// Platform is the platform the chain runs under
	Platform types.Platform
	// ProjectName is the ios path component used for querying project
	// files (projectRoot/ios/<ProjectName>/). Empty when unknown.
	ProjectName string

	// Link is the zero based position of the running link
	Link int
	// LinkName is the name the running link was registered with
	LinkName string
	// ChainLength is the number of links in the chain
	ChainLength int
}

// ExportedConfig is the whole app configuration together with the tree of
// registered mods. Mods is nil when no plugin contributed anything.
type ExportedConfig struct {
	Config types.AppConfig
	Mods   *ModConfig
}

// ExportedConfigWithProps is the value handed from link to link
type ExportedConfigWithProps[T any] struct {
	// Config is a per evaluation copy of the app configuration. Changes made
	// by a link are visible to the later links of the same chain only.
	Config types.AppConfig
	// ModResults is the in-flight representation of the slot's artifact
	ModResults T
	// ModRequest describes the running evaluation
	ModRequest ModProps
}
