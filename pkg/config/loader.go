package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/logging"
	"github.com/eppisapiafsl/expo-cli/pkg/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/tidwall/jsonc"
)

// EnvPrefix marks environment variables that override the app config
const EnvPrefix = "PREBUILD_"

// AppConfigFiles lists the file names searched in the project root, first
// match wins
var AppConfigFiles = []string{"app.json", "app.yaml", "app.yml", "app.toml"}

// userKeyPaths hold maps whose keys are user data and keep their case
var userKeyPaths = map[string]bool{
	"ios.infoplist": true,
}

// Result is a loaded app config together with where it came from
type Result struct {
	Config types.AppConfig
	// Source is the app config file that was read, empty when none exists
	Source string
	Koanf  *koanf.Koanf
}

// Load resolves the app config of the project at root
func Load(root string) (*Result, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := loadNormalized(k, &rawBytesProvider{bytes: defaultConfig}, toml.Parser(), "defaults"); err != nil {
		return nil, err
	}

	// 2. App config file
	source, err := findAppConfig(root)
	if err != nil {
		return nil, err
	}
	if source != "" {
		logger.Debug().Str("path", source).Msg("Loading app config")
		if err := loadAppConfig(k, source); err != nil {
			return nil, err
		}
	}

	// 3. .env file
	dotenv := filepath.Join(root, ".env")
	if _, err := os.Stat(dotenv); err == nil {
		vars, err := godotenv.Read(dotenv)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot read %s", dotenv).
				WithDetail("path", dotenv)
		}
		flat := make(map[string]interface{})
		for key, value := range vars {
			if strings.HasPrefix(key, EnvPrefix) {
				flat[envKey(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(flat, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot load .env values")
		}
		logger.Debug().Int("count", len(flat)).Msg("Loaded .env overrides")
	}

	// 4. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot load environment overrides")
	}

	// 5. Unmarshal
	var cfg types.AppConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				pluginEntryHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot decode app config")
	}

	// 6. Validate
	if err := Validate(cfg); err != nil {
		if source != "" {
			errors.GetErrorDetails(err)["source"] = source
		}
		return nil, err
	}

	return &Result{Config: cfg, Source: source, Koanf: k}, nil
}

func findAppConfig(root string) (string, error) {
	for _, name := range AppConfigFiles {
		path := filepath.Join(root, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", path)
		}
	}
	return "", nil
}

func loadAppConfig(k *koanf.Koanf, path string) error {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return loadNormalized(k, file.Provider(path), yaml.Parser(), path)
	case ".toml":
		return loadNormalized(k, file.Provider(path), toml.Parser(), path)
	}

	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", path)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path).
			WithDetail("path", path)
	}
	return k.Load(confmap.Provider(normalize(unwrap(raw)), ""), nil)
}

// loadNormalized parses a provider's bytes and loads them with lower case
// keys so every source addresses the same paths
func loadNormalized(k *koanf.Koanf, p koanf.Provider, pa koanf.Parser, name string) error {
	data, err := p.ReadBytes()
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", name)
	}
	raw, err := pa.Unmarshal(data)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", name).
			WithDetail("path", name)
	}
	if err := k.Load(confmap.Provider(normalize(unwrap(raw)), ""), nil); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot load %s", name)
	}
	return nil
}

// unwrap accepts configs nested under a top level "expo" key
func unwrap(raw map[string]interface{}) map[string]interface{} {
	if inner, ok := raw["expo"].(map[string]interface{}); ok {
		return inner
	}
	return raw
}

func normalize(m map[string]interface{}) map[string]interface{} {
	return normalizeAt(m, "")
}

func normalizeAt(m map[string]interface{}, prefix string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for key, value := range m {
		lower := strings.ToLower(key)
		path := lower
		if prefix != "" {
			path = prefix + "." + lower
		}
		if sub, ok := value.(map[string]interface{}); ok && !userKeyPaths[path] {
			value = normalizeAt(sub, path)
		}
		out[lower] = value
	}
	return out
}

// envKey maps PREBUILD_IOS_BUNDLEIDENTIFIER to ios.bundleidentifier
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
}

// pluginEntryHookFunc accepts the short plugin forms "name" and
// ["name", {props}]
func pluginEntryHookFunc() mapstructure.DecodeHookFunc {
	entryType := reflect.TypeOf(types.PluginEntry{})
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != entryType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return map[string]interface{}{"name": v}, nil
		case []interface{}:
			if len(v) == 0 || len(v) > 2 {
				return nil, errors.Newf(errors.ErrConfigValid, "plugin entry must be [name] or [name, props], got %d items", len(v))
			}
			entry := map[string]interface{}{"name": v[0]}
			if len(v) == 2 {
				entry["props"] = v[1]
			}
			return entry, nil
		}
		return data, nil
	}
}
