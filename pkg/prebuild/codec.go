package prebuild

import (
	"github.com/eppisapiafsl/expo-cli/pkg/android"
	"github.com/eppisapiafsl/expo-cli/pkg/pbxproj"
	"github.com/eppisapiafsl/expo-cli/pkg/plist"
)

// codec converts a slot's file to its payload and back. empty builds the
// payload of an optional file that does not exist yet.
type codec[T any] struct {
	decode func(path string, data []byte) (T, error)
	empty  func(path string) T
	encode func(value T) ([]byte, error)
}

var manifestCodec = codec[*android.Manifest]{
	decode: func(_ string, data []byte) (*android.Manifest, error) { return android.ReadManifest(data) },
	encode: func(m *android.Manifest) ([]byte, error) { return m.Bytes() },
}

var resourcesCodec = codec[*android.Resources]{
	decode: func(_ string, data []byte) (*android.Resources, error) { return android.ReadResources(data) },
	empty:  func(string) *android.Resources { return android.NewResources() },
	encode: func(r *android.Resources) ([]byte, error) { return r.Bytes() },
}

var projectFileCodec = codec[android.ProjectFile]{
	decode: func(path string, data []byte) (android.ProjectFile, error) {
		return android.NewProjectFile(path, data), nil
	},
	empty:  func(path string) android.ProjectFile { return android.NewProjectFile(path, nil) },
	encode: func(f android.ProjectFile) ([]byte, error) { return []byte(f.Contents), nil },
}

var plistCodec = codec[plist.Dict]{
	decode: func(_ string, data []byte) (plist.Dict, error) { return plist.Decode(data) },
	empty:  func(string) plist.Dict { return plist.Dict{} },
	encode: plist.Encode,
}

var projectCodec = codec[*pbxproj.Project]{
	decode: func(_ string, data []byte) (*pbxproj.Project, error) { return pbxproj.Parse(data) },
	encode: func(p *pbxproj.Project) ([]byte, error) { return p.Bytes() },
}
