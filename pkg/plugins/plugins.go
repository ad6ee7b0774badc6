// Package plugins turns an app config into a tree of mods. Built-in plugins
// run on every pass in a fixed order, then the plugins the app config
// declares run in declaration order.
package plugins

import (
	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/logging"
	"github.com/eppisapiafsl/expo-cli/pkg/mods"
	"github.com/eppisapiafsl/expo-cli/pkg/registry"
)

// ConfigPlugin contributes mods to the tree of exp. props holds the options
// declared next to the plugin name, nil for built-ins.
type ConfigPlugin func(exp *mods.ExportedConfig, props map[string]interface{}) error

// Plugin is a named ConfigPlugin
type Plugin struct {
	Name        string
	Description string
	// Builtin plugins run on every pass and cannot be declared
	Builtin bool
	Apply   ConfigPlugin
}

var defaultRegistry = newDefaultRegistry()

func newDefaultRegistry() registry.Registry[Plugin] {
	reg := registry.New[Plugin]()
	for _, p := range builtinPlugins() {
		registry.MustRegister(reg, p.Name, p)
	}
	for _, p := range userPlugins() {
		registry.MustRegister(reg, p.Name, p)
	}
	return reg
}

// Default returns the registry holding every plugin prebuild ships
func Default() registry.Registry[Plugin] {
	return defaultRegistry
}

// Apply builds the mod tree of exp with the default registry
func Apply(exp *mods.ExportedConfig) error {
	return ApplyWith(defaultRegistry, exp)
}

// ApplyWith runs the built-ins of reg in registration order, then every
// plugin declared by the app config, and freezes the tree
func ApplyWith(reg registry.Registry[Plugin], exp *mods.ExportedConfig) error {
	logger := logging.GetLogger("plugins")
	if exp == nil {
		return errors.New(errors.ErrInvalidInput, "no config to apply plugins to")
	}
	if exp.Mods == nil {
		exp.Mods = mods.NewModConfig()
	}

	for _, name := range reg.Ordered() {
		p := registry.MustGet(reg, name)
		if !p.Builtin {
			continue
		}
		if err := run(p, exp, nil); err != nil {
			return err
		}
	}

	for i, entry := range exp.Config.Plugins {
		p, err := reg.Get(entry.Name)
		if err != nil {
			return errors.Wrapf(err, errors.ErrPluginNotFound, "unknown plugin %q", entry.Name).
				WithDetail("plugin", entry.Name).
				WithDetail("index", i)
		}
		if p.Builtin {
			return errors.Newf(errors.ErrPluginInvalid, "plugin %q is built in and always runs", entry.Name).
				WithDetail("plugin", entry.Name).
				WithDetail("index", i)
		}
		if err := run(p, exp, entry.Props); err != nil {
			return err
		}
	}

	exp.Mods.Freeze()
	logger.Debug().
		Int("declared", len(exp.Config.Plugins)).
		Msg("Mod tree built")
	return nil
}

func run(p Plugin, exp *mods.ExportedConfig, props map[string]interface{}) error {
	logger := logging.WithFields(map[string]interface{}{"component": "plugins", "plugin": p.Name})
	logger.Trace().Bool("builtin", p.Builtin).Msg("Applying plugin")
	if err := p.Apply(exp, props); err != nil {
		if errors.IsErrorCode(err, errors.ErrPluginInvalid) {
			return err
		}
		return errors.Wrapf(err, errors.ErrPluginApply, "plugin %q failed", p.Name).
			WithDetail("plugin", p.Name)
	}
	return nil
}

func invalidProps(plugin, format string, args ...interface{}) error {
	return errors.Newf(errors.ErrPluginInvalid, format, args...).
		WithDetail("plugin", plugin)
}

func stringProp(props map[string]interface{}, key string) (string, bool) {
	s, ok := props[key].(string)
	return s, ok && s != ""
}
