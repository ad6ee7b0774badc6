// Package provisioning reads the fields prebuild needs from an Apple
// provisioning profile.
package provisioning

import (
	"encoding/base64"
	"strings"

	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/plist"
)

const malformed = "Provisioning profile is malformed"

// Team identifies the Apple developer team a profile was issued for
type Team struct {
	ID   string `json:"teamId" yaml:"teamId"`
	Name string `json:"teamName" yaml:"teamName"`
}

// Decode reads the property list embedded in a base64 encoded profile
func Decode(encoded string) (plist.Dict, error) {
	blob, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrProfileMalformed, malformed)
	}
	raw, err := plist.Extract(blob)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrProfileMalformed, malformed)
	}
	dict, err := plist.Decode(raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrProfileMalformed, malformed)
	}
	return dict, nil
}

// ReadAppleTeam returns the team a base64 encoded profile belongs to
func ReadAppleTeam(encoded string) (Team, error) {
	dict, err := Decode(encoded)
	if err != nil {
		return Team{}, err
	}

	ids := dict.Strings("TeamIdentifier")
	name, _ := dict.String("TeamName")
	if len(ids) == 0 || ids[0] == "" {
		return Team{}, errors.New(errors.ErrProfileMalformed, malformed).
			WithDetail("missing", "TeamIdentifier")
	}
	return Team{ID: ids[0], Name: name}, nil
}

// ReadProfileName returns the Name field of a base64 encoded profile
func ReadProfileName(encoded string) (string, error) {
	dict, err := Decode(encoded)
	if err != nil {
		return "", err
	}
	name, ok := dict.String("Name")
	if !ok {
		return "", errors.New(errors.ErrProfileMalformed, malformed).
			WithDetail("missing", "Name")
	}
	return name, nil
}
