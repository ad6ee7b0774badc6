// Package pbxproj is the in-memory project graph of an Xcode project. It
// decodes the old-style property list stored in project.pbxproj, exposes
// the objects table, and encodes the graph back.
package pbxproj

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"howett.net/plist"
)

const header = "// !$*UTF8*$!\n"

// Object is one entry of the objects table
type Object map[string]any

// ISA returns the object class
func (o Object) ISA() string {
	s, _ := o["isa"].(string)
	return s
}

// String returns a string property
func (o Object) String(key string) string {
	s, _ := o[key].(string)
	return s
}

// Strings returns a list property
func (o Object) Strings(key string) []string {
	items, _ := o[key].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Entry is an object together with its identifier
type Entry struct {
	ID     string
	Object Object
}

// Project is a decoded project.pbxproj
type Project struct {
	root map[string]any
}

// Parse decodes a project.pbxproj document
func Parse(data []byte) (*Project, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrMalformedInput, "project file is empty")
	}

	var root map[string]any
	format, err := plist.Unmarshal(data, &root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrMalformedInput, "project file is not a valid property list")
	}
	if format != plist.OpenStepFormat && format != plist.GNUStepFormat {
		return nil, errors.Newf(errors.ErrMalformedInput, "project file uses the %s format, expected OpenStep", plist.FormatNames[format])
	}
	if _, ok := root["objects"].(map[string]any); !ok {
		return nil, errors.New(errors.ErrMalformedInput, "project file has no objects table")
	}
	if _, ok := root["rootObject"].(string); !ok {
		return nil, errors.New(errors.ErrMalformedInput, "project file has no rootObject")
	}
	return &Project{root: root}, nil
}

// Bytes encodes the project with tab indentation
func (p *Project) Bytes() ([]byte, error) {
	body, err := plist.MarshalIndent(p.root, plist.OpenStepFormat, "\t")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrEncode, "cannot encode project file")
	}
	out := make([]byte, 0, len(header)+len(body)+1)
	out = append(out, header...)
	out = append(out, body...)
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}

func (p *Project) objects() map[string]any {
	return p.root["objects"].(map[string]any)
}

// RootObject returns the PBXProject entry
func (p *Project) RootObject() (Entry, bool) {
	id, _ := p.root["rootObject"].(string)
	obj, ok := p.Object(id)
	return Entry{ID: id, Object: obj}, ok
}

// Object returns the object with id
func (p *Project) Object(id string) (Object, bool) {
	obj, ok := p.objects()[id].(map[string]any)
	return Object(obj), ok
}

// Len returns the number of objects
func (p *Project) Len() int {
	return len(p.objects())
}

// ObjectsOfISA returns every object of the given class sorted by id
func (p *Project) ObjectsOfISA(isa string) []Entry {
	var out []Entry
	for id, raw := range p.objects() {
		obj, ok := raw.(map[string]any)
		if !ok || Object(obj).ISA() != isa {
			continue
		}
		out = append(out, Entry{ID: id, Object: Object(obj)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NativeTargets returns the PBXNativeTarget objects
func (p *Project) NativeTargets() []Entry {
	return p.ObjectsOfISA("PBXNativeTarget")
}

// NativeTarget finds a native target by name
func (p *Project) NativeTarget(name string) (Entry, bool) {
	for _, e := range p.NativeTargets() {
		if e.Object.String("name") == name {
			return e, true
		}
	}
	return Entry{}, false
}

// BuildConfigurations returns the XCBuildConfiguration objects of target,
// or of the whole project when target is empty
func (p *Project) BuildConfigurations(target string) ([]Entry, error) {
	if target == "" {
		return p.ObjectsOfISA("XCBuildConfiguration"), nil
	}

	t, ok := p.NativeTarget(target)
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "target %q not found", target)
	}
	list, ok := p.Object(t.Object.String("buildConfigurationList"))
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "target %q has no configuration list", target)
	}

	var out []Entry
	for _, id := range list.Strings("buildConfigurations") {
		if obj, ok := p.Object(id); ok {
			out = append(out, Entry{ID: id, Object: obj})
		}
	}
	return out, nil
}

// SetBuildSetting sets key on the build configurations of target (all when
// empty) and returns how many configurations changed
func (p *Project) SetBuildSetting(target, key, value string) (int, error) {
	configs, err := p.BuildConfigurations(target)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, c := range configs {
		settings, ok := c.Object["buildSettings"].(map[string]any)
		if !ok {
			settings = make(map[string]any)
			c.Object["buildSettings"] = settings
		}
		if current, _ := settings[key].(string); current == value {
			continue
		}
		settings[key] = value
		changed++
	}
	return changed, nil
}

// BuildSetting returns the distinct values of key across the build
// configurations of target, sorted
func (p *Project) BuildSetting(target, key string) ([]string, error) {
	configs, err := p.BuildConfigurations(target)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []string
	for _, c := range configs {
		settings, _ := c.Object["buildSettings"].(map[string]any)
		if v, ok := settings[key].(string); ok && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out, nil
}

// AddObject inserts a new object into the objects table
func (p *Project) AddObject(id string, obj Object) error {
	if obj.ISA() == "" {
		return errors.Newf(errors.ErrInvalidInput, "object %s has no isa", id)
	}
	if _, exists := p.objects()[id]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "object %s already exists", id)
	}
	p.objects()[id] = map[string]any(obj)
	return nil
}

// GenerateID derives a stable 24 character object identifier from seed
func GenerateID(seed string) string {
	sum := sha1.Sum([]byte(seed))
	return strings.ToUpper(hex.EncodeToString(sum[:12]))
}
