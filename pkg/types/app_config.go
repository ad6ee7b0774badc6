package types

// AppConfig is the universal application configuration. Mods receive a copy
// of it alongside their payload.
type AppConfig struct {
	Name    string        `koanf:"name" json:"name" yaml:"name" toml:"name"`
	Slug    string        `koanf:"slug" json:"slug,omitempty" yaml:"slug,omitempty" toml:"slug,omitempty"`
	Version string        `koanf:"version" json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Scheme  string        `koanf:"scheme" json:"scheme,omitempty" yaml:"scheme,omitempty" toml:"scheme,omitempty"`
	Android AndroidConfig `koanf:"android" json:"android" yaml:"android" toml:"android"`
	IOS     IOSConfig     `koanf:"ios" json:"ios" yaml:"ios" toml:"ios"`
	Updates UpdatesConfig `koanf:"updates" json:"updates" yaml:"updates" toml:"updates"`
	Plugins []PluginEntry `koanf:"plugins" json:"plugins,omitempty" yaml:"plugins,omitempty" toml:"plugins,omitempty"`
}

// AndroidConfig holds the android specific part of the app config
type AndroidConfig struct {
	Package            string   `koanf:"package" json:"package,omitempty" yaml:"package,omitempty" toml:"package,omitempty"`
	VersionCode        int      `koanf:"versioncode" json:"versionCode,omitempty" yaml:"versionCode,omitempty" toml:"versionCode,omitempty"`
	Permissions        []string `koanf:"permissions" json:"permissions,omitempty" yaml:"permissions,omitempty" toml:"permissions,omitempty"`
	BlockedPermissions []string `koanf:"blockedpermissions" json:"blockedPermissions,omitempty" yaml:"blockedPermissions,omitempty" toml:"blockedPermissions,omitempty"`
}

// IOSConfig holds the ios specific part of the app config
type IOSConfig struct {
	BundleIdentifier  string                 `koanf:"bundleidentifier" json:"bundleIdentifier,omitempty" yaml:"bundleIdentifier,omitempty" toml:"bundleIdentifier,omitempty"`
	BuildNumber       string                 `koanf:"buildnumber" json:"buildNumber,omitempty" yaml:"buildNumber,omitempty" toml:"buildNumber,omitempty"`
	AppleTeamID       string                 `koanf:"appleteamid" json:"appleTeamId,omitempty" yaml:"appleTeamId,omitempty" toml:"appleTeamId,omitempty"`
	AssociatedDomains []string               `koanf:"associateddomains" json:"associatedDomains,omitempty" yaml:"associatedDomains,omitempty" toml:"associatedDomains,omitempty"`
	InfoPlist         map[string]interface{} `koanf:"infoplist" json:"infoPlist,omitempty" yaml:"infoPlist,omitempty" toml:"infoPlist,omitempty"`
}

// UpdatesConfig configures the embedded over-the-air update settings
type UpdatesConfig struct {
	Enabled        bool   `koanf:"enabled" json:"enabled" yaml:"enabled" toml:"enabled"`
	URL            string `koanf:"url" json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	CheckOnLaunch  string `koanf:"checkonlaunch" json:"checkOnLaunch,omitempty" yaml:"checkOnLaunch,omitempty" toml:"checkOnLaunch,omitempty"`
	RuntimeVersion string `koanf:"runtimeversion" json:"runtimeVersion,omitempty" yaml:"runtimeVersion,omitempty" toml:"runtimeVersion,omitempty"`
}

// PluginEntry declares a config plugin to run, with its options
type PluginEntry struct {
	Name  string                 `koanf:"name" json:"name" yaml:"name" toml:"name"`
	Props map[string]interface{} `koanf:"props" json:"props,omitempty" yaml:"props,omitempty" toml:"props,omitempty"`
}

// Clone returns a deep copy whose slices and maps, nested ones included, can
// be modified without affecting the receiver
func (c AppConfig) Clone() AppConfig {
	out := c
	out.Android.Permissions = append([]string(nil), c.Android.Permissions...)
	out.Android.BlockedPermissions = append([]string(nil), c.Android.BlockedPermissions...)
	out.IOS.AssociatedDomains = append([]string(nil), c.IOS.AssociatedDomains...)
	out.IOS.InfoPlist = cloneMap(c.IOS.InfoPlist)
	if len(c.Plugins) > 0 {
		out.Plugins = make([]PluginEntry, len(c.Plugins))
		for i, p := range c.Plugins {
			out.Plugins[i] = PluginEntry{Name: p.Name, Props: cloneMap(p.Props)}
		}
	}
	return out
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies the containers config decoders produce; other values
// are immutable or copied by assignment
func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return cloneMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	case []byte:
		return append([]byte(nil), val...)
	}
	return v
}
