package plugins

import (
	"encoding/base64"
	"math/big"
	"time"

	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/mods"
	"github.com/eppisapiafsl/expo-cli/pkg/plist"
	"github.com/eppisapiafsl/expo-cli/pkg/slots"
	"github.com/itchyny/gojq"
)

func userPlugins() []Plugin {
	return []Plugin{
		{Name: "jq", Description: "Rewrites a property list with a jq expression", Apply: withJQ},
		{Name: "gradle-line", Description: "Appends a line to a gradle build script", Apply: withGradleLine},
		{Name: "activity-state", Description: "Makes the main activity discard saved state", Apply: withActivityState},
		{Name: "lock", Description: "Stops later plugins from changing a slot", Apply: withLock},
	}
}

func withJQ(exp *mods.ExportedConfig, props map[string]interface{}) error {
	query, ok := stringProp(props, "query")
	if !ok {
		return invalidProps("jq", "jq plugin needs a query")
	}
	slotName, ok := stringProp(props, "slot")
	if !ok {
		slotName = string(slots.IOSInfoPlist.Name())
	}
	slot, ok := slots.PlistSlot(slotName)
	if !ok {
		return invalidProps("jq", "jq plugin cannot target %q", slotName)
	}

	parsed, err := gojq.Parse(query)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPluginInvalid, "invalid jq query %q", query).
			WithDetail("plugin", "jq")
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPluginInvalid, "cannot compile jq query %q", query).
			WithDetail("plugin", "jq")
	}

	return mods.Register(exp.Mods, slot, "jq", func(cfg plistConfig) *mods.Future[plist.Dict] {
		return mods.Async(func() (mods.Step[plist.Dict], error) {
			out, err := runJQ(code, cfg.ModResults)
			if err != nil {
				return mods.Step[plist.Dict]{}, err
			}
			cfg.ModResults = out
			return mods.Step[plist.Dict]{Config: cfg, Continue: true}, nil
		})
	})
}

func runJQ(code *gojq.Code, d plist.Dict) (plist.Dict, error) {
	iter := code.Run(toJQ(d))
	v, ok := iter.Next()
	if !ok {
		return nil, errors.New(errors.ErrPluginApply, "jq query produced no output")
	}
	if err, isErr := v.(error); isErr {
		return nil, errors.Wrap(err, errors.ErrPluginApply, "jq query failed")
	}
	obj, isObj := fromJQ(v).(plist.Dict)
	if !isObj {
		return nil, errors.Newf(errors.ErrPluginApply, "jq query must produce an object, got %T", v)
	}
	return obj, nil
}

// toJQ converts property list values to the JSON shaped values gojq accepts
func toJQ(v any) any {
	switch val := v.(type) {
	case plist.Dict:
		return toJQ(map[string]any(val))
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = toJQ(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toJQ(item)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case int64:
		return int(val)
	case int32:
		return int(val)
	case uint64:
		return new(big.Int).SetUint64(val)
	case float32:
		return float64(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case []byte:
		return base64.StdEncoding.EncodeToString(val)
	}
	return v
}

func fromJQ(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(plist.Dict, len(val))
		for k, item := range val {
			out[k] = fromJQ(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromJQ(item)
		}
		return out
	case int:
		return int64(val)
	case *big.Int:
		if val.IsInt64() {
			return val.Int64()
		}
		return val.String()
	}
	return v
}

func withGradleLine(exp *mods.ExportedConfig, props map[string]interface{}) error {
	line, ok := stringProp(props, "line")
	if !ok {
		return invalidProps("gradle-line", "gradle-line plugin needs a line")
	}
	target, ok := stringProp(props, "target")
	if !ok {
		target = string(slots.AndroidAppBuildGradle.Name())
	}
	slot, ok := slots.GradleSlot(target)
	if !ok {
		return invalidProps("gradle-line", "gradle-line plugin cannot target %q", target)
	}

	return mods.Register(exp.Mods, slot, "gradle-line", mods.ResultsFunc(func(f androidFile) (androidFile, error) {
		f.AppendLine(line)
		return f, nil
	}))
}

func withActivityState(exp *mods.ExportedConfig, _ map[string]interface{}) error {
	return mods.Register(exp.Mods, slots.AndroidMainActivity, "activity-state", mods.ResultsFunc(func(f androidFile) (androidFile, error) {
		f.DiscardSavedState()
		return f, nil
	}))
}

func withLock(exp *mods.ExportedConfig, props map[string]interface{}) error {
	name, ok := stringProp(props, "slot")
	if !ok {
		return invalidProps("lock", "lock plugin needs a slot")
	}

	switch name {
	case string(slots.AndroidManifest.Name()):
		return lock(exp, slots.AndroidManifest)
	case string(slots.AndroidStrings.Name()):
		return lock(exp, slots.AndroidStrings)
	case string(slots.AndroidMainActivity.Name()):
		return lock(exp, slots.AndroidMainActivity)
	case string(slots.IOSXcodeproj.Name()):
		return lock(exp, slots.IOSXcodeproj)
	}
	if slot, ok := slots.GradleSlot(name); ok {
		return lock(exp, slot)
	}
	if slot, ok := slots.PlistSlot(name); ok {
		return lock(exp, slot)
	}
	return invalidProps("lock", "lock plugin cannot target %q", name)
}

// lock registers a link that ends the chain, so links registered after it
// never run
func lock[T any](exp *mods.ExportedConfig, slot mods.Slot[T]) error {
	return mods.Register(exp.Mods, slot, "lock", mods.Terminal(func(*mods.ExportedConfigWithProps[T]) error {
		return nil
	}))
}
