package provisioning_test

import (
	"encoding/base64"
	"testing"

	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/provisioning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const malformedProfile = "aWV5Zmd3eXVlZmdl"

const profilePlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>AppIDName</key>
	<string>testapp</string>
	<key>Name</key>
	<string>org.reactjs.native.example.testapp.turtlev2 profil</string>
	<key>TeamIdentifier</key>
	<array>
		<string>QL76XYH73P</string>
	</array>
	<key>TeamName</key>
	<string>Alicja Warchał</string>
	<key>Version</key>
	<integer>1</integer>
</dict>
</plist>`

// signed wraps a document in opaque bytes the way a CMS envelope does
func signed(doc string) string {
	blob := append([]byte{0x30, 0x80, 0x06, 0x09, 0x2a, 0x86, 0x48}, doc...)
	blob = append(blob, 0xa0, 0x82, 0x0b, 0x00, 0x00)
	return base64.StdEncoding.EncodeToString(blob)
}

func TestReadAppleTeam(t *testing.T) {
	team, err := provisioning.ReadAppleTeam(signed(profilePlist))
	require.NoError(t, err)
	assert.Equal(t, provisioning.Team{ID: "QL76XYH73P", Name: "Alicja Warchał"}, team)
}

func TestReadProfileName(t *testing.T) {
	name, err := provisioning.ReadProfileName(signed(profilePlist))
	require.NoError(t, err)
	assert.Equal(t, "org.reactjs.native.example.testapp.turtlev2 profil", name)
}

func TestMalformedProfiles(t *testing.T) {
	noTeam := `<?xml version="1.0"?><plist version="1.0"><dict><key>Name</key><string>x</string></dict></plist>`
	noName := `<?xml version="1.0"?><plist version="1.0"><dict><key>TeamIdentifier</key><array><string>T</string></array></dict></plist>`

	tests := []struct {
		name    string
		encoded string
		read    func(string) error
	}{
		{"team from garbage", malformedProfile, readTeam},
		{"name from garbage", malformedProfile, readName},
		{"not base64", "%%%", readTeam},
		{"truncated plist", signed(profilePlist[:200]), readName},
		{"missing team", signed(noTeam), readTeam},
		{"missing name", signed(noName), readName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(tt.encoded)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrProfileMalformed))
			assert.Contains(t, err.Error(), "Provisioning profile is malformed")
		})
	}
}

func readTeam(s string) error {
	_, err := provisioning.ReadAppleTeam(s)
	return err
}

func readName(s string) error {
	_, err := provisioning.ReadProfileName(s)
	return err
}
