package plugins

import (
	"math"
	"strconv"

	"github.com/eppisapiafsl/expo-cli/pkg/android"
	"github.com/eppisapiafsl/expo-cli/pkg/logging"
	"github.com/eppisapiafsl/expo-cli/pkg/mods"
	"github.com/eppisapiafsl/expo-cli/pkg/pbxproj"
	"github.com/eppisapiafsl/expo-cli/pkg/plist"
	"github.com/eppisapiafsl/expo-cli/pkg/slots"
)

type (
	manifestConfig  = mods.ExportedConfigWithProps[*android.Manifest]
	resourcesConfig = mods.ExportedConfigWithProps[*android.Resources]
	fileConfig      = mods.ExportedConfigWithProps[android.ProjectFile]
	plistConfig     = mods.ExportedConfigWithProps[plist.Dict]
	projectConfig   = mods.ExportedConfigWithProps[*pbxproj.Project]
	androidFile     = android.ProjectFile
)

// Keys of the Expo runtime settings
const (
	updatesEnabledKey        = "EXUpdatesEnabled"
	updatesURLKey            = "EXUpdatesURL"
	updatesCheckOnLaunchKey  = "EXUpdatesCheckOnLaunch"
	updatesRuntimeVersionKey = "EXUpdatesRuntimeVersion"

	metaUpdatesEnabled       = "expo.modules.updates.ENABLED"
	metaUpdatesURL           = "expo.modules.updates.EXPO_UPDATE_URL"
	metaUpdatesCheckOnLaunch = "expo.modules.updates.EXPO_UPDATES_CHECK_ON_LAUNCH"
	metaUpdatesRuntime       = "expo.modules.updates.EXPO_RUNTIME_VERSION"

	associatedDomainsKey = "com.apple.developer.associated-domains"
)

func builtinPlugins() []Plugin {
	return []Plugin{
		{Name: "name", Description: "Sets the display name", Builtin: true, Apply: withName},
		{Name: "package", Description: "Sets the android package and ios bundle identifier", Builtin: true, Apply: withPackage},
		{Name: "version", Description: "Sets version names and build numbers", Builtin: true, Apply: withVersion},
		{Name: "permissions", Description: "Declares and blocks android permissions", Builtin: true, Apply: withPermissions},
		{Name: "scheme", Description: "Registers the deep link url scheme", Builtin: true, Apply: withScheme},
		{Name: "entitlements", Description: "Sets ios associated domains", Builtin: true, Apply: withEntitlements},
		{Name: "updates", Description: "Configures over-the-air updates", Builtin: true, Apply: withUpdates},
		{Name: "team", Description: "Sets the Apple development team", Builtin: true, Apply: withTeam},
		{Name: "infoPlist", Description: "Merges raw Info.plist keys", Builtin: true, Apply: withInfoPlist},
	}
}

func withName(exp *mods.ExportedConfig, _ map[string]interface{}) error {
	if err := mods.Register(exp.Mods, slots.AndroidStrings, "name", mods.Func(func(cfg *resourcesConfig) error {
		cfg.ModResults.SetString("app_name", cfg.Config.Name)
		return nil
	})); err != nil {
		return err
	}
	return mods.Register(exp.Mods, slots.IOSInfoPlist, "name", mods.Func(func(cfg *plistConfig) error {
		cfg.ModResults["CFBundleDisplayName"] = cfg.Config.Name
		return nil
	}))
}

func withPackage(exp *mods.ExportedConfig, _ map[string]interface{}) error {
	if exp.Config.Android.Package != "" {
		if err := mods.Register(exp.Mods, slots.AndroidManifest, "package", mods.Func(func(cfg *manifestConfig) error {
			cfg.ModResults.SetPackage(cfg.Config.Android.Package)
			return nil
		})); err != nil {
			return err
		}
		if err := mods.Register(exp.Mods, slots.AndroidAppBuildGradle, "package", mods.Func(func(cfg *fileConfig) error {
			if !cfg.ModResults.SetApplicationID(cfg.Config.Android.Package) {
				logger := logging.GetLogger("plugins.package")
				logger.Warn().
					Str("path", cfg.ModResults.Path).
					Msg("No applicationId declaration found")
			}
			return nil
		})); err != nil {
			return err
		}
	}

	if exp.Config.IOS.BundleIdentifier == "" {
		return nil
	}
	if err := mods.Register(exp.Mods, slots.IOSInfoPlist, "package", mods.Func(func(cfg *plistConfig) error {
		cfg.ModResults["CFBundleIdentifier"] = cfg.Config.IOS.BundleIdentifier
		return nil
	})); err != nil {
		return err
	}
	return mods.Register(exp.Mods, slots.IOSXcodeproj, "package", mods.Func(func(cfg *projectConfig) error {
		return setTargetBuildSetting(cfg, "PRODUCT_BUNDLE_IDENTIFIER", cfg.Config.IOS.BundleIdentifier)
	}))
}

func withVersion(exp *mods.ExportedConfig, _ map[string]interface{}) error {
	if err := mods.Register(exp.Mods, slots.AndroidAppBuildGradle, "version", mods.Func(func(cfg *fileConfig) error {
		if cfg.Config.Version != "" {
			cfg.ModResults.SetVersionName(cfg.Config.Version)
		}
		if cfg.Config.Android.VersionCode > 0 {
			cfg.ModResults.SetVersionCode(cfg.Config.Android.VersionCode)
		}
		return nil
	})); err != nil {
		return err
	}
	return mods.Register(exp.Mods, slots.IOSInfoPlist, "version", mods.Func(func(cfg *plistConfig) error {
		if cfg.Config.Version != "" {
			cfg.ModResults["CFBundleShortVersionString"] = cfg.Config.Version
		}
		if cfg.Config.IOS.BuildNumber != "" {
			cfg.ModResults["CFBundleVersion"] = cfg.Config.IOS.BuildNumber
		}
		return nil
	}))
}

func withPermissions(exp *mods.ExportedConfig, _ map[string]interface{}) error {
	declared := exp.Config.Android
	if len(declared.Permissions) == 0 && len(declared.BlockedPermissions) == 0 {
		return nil
	}
	return mods.Register(exp.Mods, slots.AndroidManifest, "permissions", mods.Func(func(cfg *manifestConfig) error {
		for _, p := range cfg.Config.Android.Permissions {
			cfg.ModResults.AddPermission(p)
		}
		for _, p := range cfg.Config.Android.BlockedPermissions {
			cfg.ModResults.BlockPermission(p)
		}
		return nil
	}))
}

func withScheme(exp *mods.ExportedConfig, _ map[string]interface{}) error {
	if exp.Config.Scheme == "" {
		return nil
	}
	if err := mods.Register(exp.Mods, slots.AndroidManifest, "scheme", mods.Func(func(cfg *manifestConfig) error {
		_, err := cfg.ModResults.AddScheme(cfg.Config.Scheme)
		return err
	})); err != nil {
		return err
	}
	return mods.Register(exp.Mods, slots.IOSInfoPlist, "scheme", mods.Func(func(cfg *plistConfig) error {
		addURLScheme(cfg.ModResults, cfg.Config.Scheme)
		return nil
	}))
}

// addURLScheme appends a CFBundleURLTypes entry unless one already lists
// scheme
func addURLScheme(d plist.Dict, scheme string) {
	urlTypes, _ := d["CFBundleURLTypes"].([]any)
	for _, t := range urlTypes {
		entry, ok := asDict(t)
		if !ok {
			continue
		}
		for _, s := range entry.Strings("CFBundleURLSchemes") {
			if s == scheme {
				return
			}
		}
	}
	d["CFBundleURLTypes"] = append(urlTypes, plist.Dict{"CFBundleURLSchemes": []any{scheme}})
}

func withEntitlements(exp *mods.ExportedConfig, _ map[string]interface{}) error {
	if len(exp.Config.IOS.AssociatedDomains) == 0 {
		return nil
	}
	return mods.Register(exp.Mods, slots.IOSEntitlements, "entitlements", mods.Func(func(cfg *plistConfig) error {
		cfg.ModResults.AppendUnique(associatedDomainsKey, cfg.Config.IOS.AssociatedDomains...)
		return nil
	}))
}

func withUpdates(exp *mods.ExportedConfig, _ map[string]interface{}) error {
	updates := exp.Config.Updates
	if !updates.Enabled && updates.URL == "" {
		return nil
	}

	if err := mods.Register(exp.Mods, slots.AndroidManifest, "updates", mods.Func(func(cfg *manifestConfig) error {
		u := cfg.Config.Updates
		m := cfg.ModResults
		if err := m.SetMetaData(metaUpdatesEnabled, strconv.FormatBool(u.Enabled)); err != nil {
			return err
		}
		for _, kv := range [][2]string{
			{metaUpdatesURL, u.URL},
			{metaUpdatesCheckOnLaunch, u.CheckOnLaunch},
			{metaUpdatesRuntime, u.RuntimeVersion},
		} {
			if kv[1] == "" {
				m.RemoveMetaData(kv[0])
				continue
			}
			if err := m.SetMetaData(kv[0], kv[1]); err != nil {
				return err
			}
		}
		return nil
	})); err != nil {
		return err
	}

	return mods.Register(exp.Mods, slots.IOSExpoPlist, "updates", mods.Func(func(cfg *plistConfig) error {
		u := cfg.Config.Updates
		d := cfg.ModResults
		d[updatesEnabledKey] = u.Enabled
		for key, value := range map[string]string{
			updatesURLKey:            u.URL,
			updatesCheckOnLaunchKey:  u.CheckOnLaunch,
			updatesRuntimeVersionKey: u.RuntimeVersion,
		} {
			if value == "" {
				delete(d, key)
				continue
			}
			d[key] = value
		}
		return nil
	}))
}

func withTeam(exp *mods.ExportedConfig, _ map[string]interface{}) error {
	if exp.Config.IOS.AppleTeamID == "" {
		return nil
	}
	return mods.Register(exp.Mods, slots.IOSXcodeproj, "team", mods.Func(func(cfg *projectConfig) error {
		return setTargetBuildSetting(cfg, "DEVELOPMENT_TEAM", cfg.Config.IOS.AppleTeamID)
	}))
}

func withInfoPlist(exp *mods.ExportedConfig, _ map[string]interface{}) error {
	if len(exp.Config.IOS.InfoPlist) == 0 {
		return nil
	}
	return mods.Register(exp.Mods, slots.IOSInfoPlist, "infoPlist", mods.Func(func(cfg *plistConfig) error {
		for key, value := range cfg.Config.IOS.InfoPlist {
			cfg.ModResults[key] = plistValue(value)
		}
		return nil
	}))
}

// setTargetBuildSetting updates the target named after the project, or
// every native target when there is none
func setTargetBuildSetting(cfg *projectConfig, key, value string) error {
	project := cfg.ModResults
	if name := cfg.ModRequest.ProjectName; name != "" {
		if _, ok := project.NativeTarget(name); ok {
			_, err := project.SetBuildSetting(name, key, value)
			return err
		}
	}
	for _, target := range project.NativeTargets() {
		if _, err := project.SetBuildSetting(target.Object.String("name"), key, value); err != nil {
			return err
		}
	}
	return nil
}

// plistValue converts decoded config values to property list values
func plistValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		d := make(plist.Dict, len(val))
		for k, item := range val {
			d[k] = plistValue(item)
		}
		return d
	case []interface{}:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plistValue(item)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case int:
		return int64(val)
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return int64(val)
		}
		return val
	}
	return v
}

func asDict(v any) (plist.Dict, bool) {
	switch d := v.(type) {
	case plist.Dict:
		return d, true
	case map[string]any:
		return plist.Dict(d), true
	}
	return nil, false
}
