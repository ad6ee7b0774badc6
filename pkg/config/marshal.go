package config

import (
	"encoding/json"

	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Formats lists the encodings Marshal accepts
var Formats = []string{"toml", "yaml", "json"}

// Marshal renders a resolved app config
func Marshal(cfg types.AppConfig, format string) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch format {
	case "toml":
		out, err = toml.Marshal(cfg)
	case "yaml", "yml":
		out, err = yaml.Marshal(cfg)
	case "json":
		out, err = json.MarshalIndent(cfg, "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format %q", format).
			WithDetail("formats", Formats)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrEncode, "cannot encode app config as %s", format)
	}
	return out, nil
}
