// Package config loads the app config of a project. Sources are layered
// with koanf: embedded defaults, the project's app.json, app.yaml or
// app.toml, a .env file and finally PREBUILD_ environment variables.
package config
