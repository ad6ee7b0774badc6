// Package slots is the catalogue of native artifacts mods can target. Each
// slot is declared once here with the payload type its mods operate on.
package slots

import (
	"github.com/eppisapiafsl/expo-cli/pkg/android"
	"github.com/eppisapiafsl/expo-cli/pkg/mods"
	"github.com/eppisapiafsl/expo-cli/pkg/pbxproj"
	"github.com/eppisapiafsl/expo-cli/pkg/plist"
	"github.com/eppisapiafsl/expo-cli/pkg/types"
)

// Android slots
var (
	AndroidManifest               = mods.NewSlot[*android.Manifest](types.PlatformAndroid, "manifest")
	AndroidStrings                = mods.NewSlot[*android.Resources](types.PlatformAndroid, "strings")
	AndroidMainActivity           = mods.NewSlot[android.ProjectFile](types.PlatformAndroid, "mainActivity")
	AndroidAppBuildGradle         = mods.NewSlot[android.ProjectFile](types.PlatformAndroid, "appBuildGradle")
	AndroidProjectBuildGradle     = mods.NewSlot[android.ProjectFile](types.PlatformAndroid, "projectBuildGradle")
	AndroidExpoAppBuildGradle     = mods.NewSlot[android.ProjectFile](types.PlatformAndroid, "expoAppBuildGradle")
	AndroidExpoProjectBuildGradle = mods.NewSlot[android.ProjectFile](types.PlatformAndroid, "expoProjectBuildGradle")
)

// iOS slots
var (
	IOSInfoPlist    = mods.NewSlot[plist.Dict](types.PlatformIOS, "infoPlist")
	IOSEntitlements = mods.NewSlot[plist.Dict](types.PlatformIOS, "entitlements")
	IOSExpoPlist    = mods.NewSlot[plist.Dict](types.PlatformIOS, "expoPlist")
	IOSXcodeproj    = mods.NewSlot[*pbxproj.Project](types.PlatformIOS, "xcodeproj")
)

// Info describes one catalogue entry
type Info struct {
	Platform    types.Platform
	Name        mods.SlotName
	Payload     string
	Path        string
	Required    bool
	Description string
}

// Catalogue lists every slot in a stable order. Path is the location
// pattern relative to the project root; {name} stands for the iOS project
// name.
func Catalogue() []Info {
	return []Info{
		{types.PlatformAndroid, AndroidManifest.Name(), "*android.Manifest", "android/app/src/main/AndroidManifest.xml", true, "Android manifest"},
		{types.PlatformAndroid, AndroidStrings.Name(), "*android.Resources", "android/app/src/main/res/values/strings.xml", false, "string resources"},
		{types.PlatformAndroid, AndroidMainActivity.Name(), "android.ProjectFile", "android/app/src/main/java/**/MainActivity.{java,kt}", true, "main activity source"},
		{types.PlatformAndroid, AndroidAppBuildGradle.Name(), "android.ProjectFile", "android/app/build.gradle{,.kts}", true, "app module build script"},
		{types.PlatformAndroid, AndroidProjectBuildGradle.Name(), "android.ProjectFile", "android/build.gradle{,.kts}", true, "root project build script"},
		{types.PlatformAndroid, AndroidExpoAppBuildGradle.Name(), "android.ProjectFile", "android/.expo/app-build.gradle", false, "generated app build script"},
		{types.PlatformAndroid, AndroidExpoProjectBuildGradle.Name(), "android.ProjectFile", "android/.expo/project-build.gradle", false, "generated project build script"},
		{types.PlatformIOS, IOSInfoPlist.Name(), "plist.Dict", "ios/{name}/Info.plist", true, "bundle Info.plist"},
		{types.PlatformIOS, IOSEntitlements.Name(), "plist.Dict", "ios/{name}/{name}.entitlements", false, "app entitlements"},
		{types.PlatformIOS, IOSExpoPlist.Name(), "plist.Dict", "ios/{name}/Supporting/Expo.plist", false, "Expo runtime settings"},
		{types.PlatformIOS, IOSXcodeproj.Name(), "*pbxproj.Project", "ios/*.xcodeproj/project.pbxproj", true, "Xcode project graph"},
	}
}

// Find returns the catalogue entry for platform/name
func Find(platform types.Platform, name mods.SlotName) (Info, bool) {
	for _, info := range Catalogue() {
		if info.Platform == platform && info.Name == name {
			return info, true
		}
	}
	return Info{}, false
}

// PlistSlot resolves the name of a property list slot
func PlistSlot(name string) (mods.Slot[plist.Dict], bool) {
	switch mods.SlotName(name) {
	case IOSInfoPlist.Name():
		return IOSInfoPlist, true
	case IOSEntitlements.Name():
		return IOSEntitlements, true
	case IOSExpoPlist.Name():
		return IOSExpoPlist, true
	}
	return mods.Slot[plist.Dict]{}, false
}

// GradleSlot resolves the name of a build script slot
func GradleSlot(name string) (mods.Slot[android.ProjectFile], bool) {
	switch mods.SlotName(name) {
	case AndroidAppBuildGradle.Name():
		return AndroidAppBuildGradle, true
	case AndroidProjectBuildGradle.Name():
		return AndroidProjectBuildGradle, true
	case AndroidExpoAppBuildGradle.Name():
		return AndroidExpoAppBuildGradle, true
	case AndroidExpoProjectBuildGradle.Name():
		return AndroidExpoProjectBuildGradle, true
	}
	return mods.Slot[android.ProjectFile]{}, false
}
