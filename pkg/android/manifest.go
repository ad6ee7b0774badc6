package android

import (
	"bytes"
	"strings"

	"github.com/beevik/etree"
	"github.com/eppisapiafsl/expo-cli/pkg/errors"
)

const (
	androidNS = "http://schemas.android.com/apk/res/android"
	toolsNS   = "http://schemas.android.com/tools"
)

// Manifest is a parsed AndroidManifest.xml
type Manifest struct {
	doc *etree.Document
}

// ReadManifest parses data as an android manifest
func ReadManifest(data []byte) (*Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrMalformedInput, "manifest is empty")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrMalformedInput, "manifest is not valid XML")
	}

	root := doc.Root()
	if root == nil || root.Tag != "manifest" {
		return nil, errors.New(errors.ErrMalformedInput, "manifest has no <manifest> root element")
	}
	return &Manifest{doc: doc}, nil
}

// NewManifest returns a minimal manifest for pkg with an empty application
func NewManifest(pkg string) *Manifest {
	doc := etree.NewDocument()
	root := doc.CreateElement("manifest")
	root.CreateAttr("xmlns:android", androidNS)
	if pkg != "" {
		root.CreateAttr("package", pkg)
	}
	app := root.CreateElement("application")
	app.CreateAttr("android:name", ".MainApplication")
	return &Manifest{doc: doc}
}

// Root returns the <manifest> element
func (m *Manifest) Root() *etree.Element {
	return m.doc.Root()
}

// Package returns the manifest package attribute
func (m *Manifest) Package() string {
	return m.Root().SelectAttrValue("package", "")
}

// SetPackage sets the manifest package attribute
func (m *Manifest) SetPackage(pkg string) {
	m.Root().CreateAttr("package", pkg)
}

// MainApplication returns the <application> element named .MainApplication,
// or the first <application> when none carries that name
func (m *Manifest) MainApplication() *etree.Element {
	apps := m.Root().SelectElements("application")
	for _, app := range apps {
		if strings.HasSuffix(app.SelectAttrValue("android:name", ""), ".MainApplication") {
			return app
		}
	}
	if len(apps) > 0 {
		return apps[0]
	}
	return nil
}

// MainActivity returns the <activity> element named .MainActivity
func (m *Manifest) MainActivity() *etree.Element {
	app := m.MainApplication()
	if app == nil {
		return nil
	}
	for _, activity := range app.SelectElements("activity") {
		if strings.HasSuffix(activity.SelectAttrValue("android:name", ""), ".MainActivity") {
			return activity
		}
	}
	return nil
}

// PermissionName expands a short permission such as CAMERA to its fully
// qualified android.permission name
func PermissionName(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return "android.permission." + name
}

// Permissions returns the requested permissions in document order, leaving
// out those marked for removal
func (m *Manifest) Permissions() []string {
	var out []string
	for _, el := range m.Root().SelectElements("uses-permission") {
		if el.SelectAttrValue("tools:node", "") == "remove" {
			continue
		}
		out = append(out, el.SelectAttrValue("android:name", ""))
	}
	return out
}

func (m *Manifest) permission(name string) *etree.Element {
	for _, el := range m.Root().SelectElements("uses-permission") {
		if el.SelectAttrValue("android:name", "") == name {
			return el
		}
	}
	return nil
}

// AddPermission requests a permission. It reports whether the manifest
// changed.
func (m *Manifest) AddPermission(name string) bool {
	name = PermissionName(name)
	if el := m.permission(name); el != nil {
		if el.SelectAttrValue("tools:node", "") != "remove" {
			return false
		}
		el.RemoveAttr("tools:node")
		return true
	}

	el := etree.NewElement("uses-permission")
	el.CreateAttr("android:name", name)
	m.insertBeforeApplication(el)
	return true
}

// RemovePermission drops a permission request. It reports whether the
// manifest changed.
func (m *Manifest) RemovePermission(name string) bool {
	el := m.permission(PermissionName(name))
	if el == nil {
		return false
	}
	m.Root().RemoveChild(el)
	return true
}

// BlockPermission marks a permission with tools:node="remove" so that the
// manifest merger strips it even when a library requests it
func (m *Manifest) BlockPermission(name string) {
	name = PermissionName(name)
	m.ensureNamespace("tools", toolsNS)

	el := m.permission(name)
	if el == nil {
		el = etree.NewElement("uses-permission")
		el.CreateAttr("android:name", name)
		m.insertBeforeApplication(el)
	}
	el.CreateAttr("tools:node", "remove")
}

func (m *Manifest) ensureNamespace(prefix, uri string) {
	root := m.Root()
	if root.SelectAttr("xmlns:"+prefix) == nil {
		root.CreateAttr("xmlns:"+prefix, uri)
	}
}

func (m *Manifest) insertBeforeApplication(el *etree.Element) {
	root := m.Root()
	if app := root.SelectElement("application"); app != nil {
		root.InsertChildAt(app.Index(), el)
		return
	}
	root.AddChild(el)
}

func (m *Manifest) metaData(name string) *etree.Element {
	app := m.MainApplication()
	if app == nil {
		return nil
	}
	for _, el := range app.SelectElements("meta-data") {
		if el.SelectAttrValue("android:name", "") == name {
			return el
		}
	}
	return nil
}

// MetaData returns the value of an application <meta-data> entry
func (m *Manifest) MetaData(name string) (string, bool) {
	el := m.metaData(name)
	if el == nil {
		return "", false
	}
	return el.SelectAttrValue("android:value", ""), true
}

// SetMetaData adds or updates an application <meta-data> entry
func (m *Manifest) SetMetaData(name, value string) error {
	app := m.MainApplication()
	if app == nil {
		return errors.New(errors.ErrInvalidInput, "manifest has no <application> element")
	}

	el := m.metaData(name)
	if el == nil {
		el = app.CreateElement("meta-data")
		el.CreateAttr("android:name", name)
	}
	el.CreateAttr("android:value", value)
	return nil
}

// RemoveMetaData drops an application <meta-data> entry
func (m *Manifest) RemoveMetaData(name string) bool {
	el := m.metaData(name)
	if el == nil {
		return false
	}
	el.Parent().RemoveChild(el)
	return true
}

// Schemes returns the url schemes the main activity handles
func (m *Manifest) Schemes() []string {
	activity := m.MainActivity()
	if activity == nil {
		return nil
	}

	var out []string
	for _, filter := range activity.SelectElements("intent-filter") {
		for _, data := range filter.SelectElements("data") {
			if scheme := data.SelectAttrValue("android:scheme", ""); scheme != "" {
				out = append(out, scheme)
			}
		}
	}
	return out
}

// AddScheme registers a VIEW intent filter for scheme on the main activity.
// It reports whether the manifest changed.
func (m *Manifest) AddScheme(scheme string) (bool, error) {
	activity := m.MainActivity()
	if activity == nil {
		return false, errors.New(errors.ErrInvalidInput, "manifest has no .MainActivity")
	}
	for _, s := range m.Schemes() {
		if s == scheme {
			return false, nil
		}
	}

	filter := activity.CreateElement("intent-filter")
	filter.CreateElement("action").CreateAttr("android:name", "android.intent.action.VIEW")
	filter.CreateElement("category").CreateAttr("android:name", "android.intent.category.DEFAULT")
	filter.CreateElement("category").CreateAttr("android:name", "android.intent.category.BROWSABLE")
	filter.CreateElement("data").CreateAttr("android:scheme", scheme)
	return true, nil
}

// Bytes encodes the manifest with four space indentation
func (m *Manifest) Bytes() ([]byte, error) {
	m.doc.Indent(4)
	out, err := m.doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrEncode, "cannot encode manifest")
	}
	return out, nil
}
