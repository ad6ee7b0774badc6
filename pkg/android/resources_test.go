package android_test

import (
	"testing"

	"github.com/eppisapiafsl/expo-cli/pkg/android"
	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stringsXML = `<resources>
    <string name="app_name">Demo</string>
    <string name="expo_runtime_version" translatable="false">1.0.0</string>
</resources>
`

func TestReadResources(t *testing.T) {
	r, err := android.ReadResources([]byte(stringsXML))
	require.NoError(t, err)

	assert.Equal(t, []string{"app_name", "expo_runtime_version"}, r.Names())
	v, ok := r.String("app_name")
	assert.True(t, ok)
	assert.Equal(t, "Demo", v)
}

func TestReadResourcesEmptyStartsNewDocument(t *testing.T) {
	r, err := android.ReadResources(nil)
	require.NoError(t, err)
	assert.Empty(t, r.Names())

	r.SetString("app_name", "Fresh")
	out, err := r.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(out), `<string name="app_name">Fresh</string>`)
}

func TestReadResourcesMalformed(t *testing.T) {
	for _, input := range []string{`<resources><string>`, `<manifest/>`} {
		_, err := android.ReadResources([]byte(input))
		assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedInput), "input %q: %v", input, err)
	}
}

func TestResourcesSetAndRemove(t *testing.T) {
	r, err := android.ReadResources([]byte(stringsXML))
	require.NoError(t, err)

	r.SetString("app_name", "Bob's <App>")
	r.SetUntranslatedString("expo_runtime_version", "2.0.0")
	r.SetString("new_key", "@not-a-reference")

	out, err := r.Bytes()
	require.NoError(t, err)

	again, err := android.ReadResources(out)
	require.NoError(t, err)

	v, _ := again.String("app_name")
	assert.Equal(t, "Bob's <App>", v)
	v, _ = again.String("expo_runtime_version")
	assert.Equal(t, "2.0.0", v)
	v, _ = again.String("new_key")
	assert.Equal(t, "@not-a-reference", v)
	assert.Contains(t, string(out), `translatable="false"`)

	assert.True(t, again.RemoveString("new_key"))
	assert.False(t, again.RemoveString("new_key"))
	assert.Equal(t, []string{"app_name", "expo_runtime_version"}, again.Names())
}

func TestEscapeResource(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"it's", `it\'s`},
		{`say "hi"`, `say \"hi\"`},
		{"@string/x", `\@string/x`},
		{"line\nbreak", `line\nbreak`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, android.EscapeResource(tt.in))
			assert.Equal(t, tt.in, android.UnescapeResource(tt.want))
		})
	}
}
