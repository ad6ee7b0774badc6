package android

import (
	"bytes"
	"strings"

	"github.com/beevik/etree"
	"github.com/eppisapiafsl/expo-cli/pkg/errors"
)

// Resources is a parsed res/values/strings.xml
type Resources struct {
	doc *etree.Document
}

// ReadResources parses a string resource file. Empty input yields an empty
// <resources> document so that a missing file can be created.
func ReadResources(data []byte) (*Resources, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewResources(), nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrMalformedInput, "string resources are not valid XML")
	}

	root := doc.Root()
	if root == nil || root.Tag != "resources" {
		return nil, errors.New(errors.ErrMalformedInput, "string resources have no <resources> root element")
	}
	return &Resources{doc: doc}, nil
}

// NewResources returns an empty resource document
func NewResources() *Resources {
	doc := etree.NewDocument()
	doc.CreateElement("resources")
	return &Resources{doc: doc}
}

func (r *Resources) find(name string) *etree.Element {
	for _, el := range r.doc.Root().SelectElements("string") {
		if el.SelectAttrValue("name", "") == name {
			return el
		}
	}
	return nil
}

// String returns the unescaped value of a string resource
func (r *Resources) String(name string) (string, bool) {
	el := r.find(name)
	if el == nil {
		return "", false
	}
	return UnescapeResource(el.Text()), true
}

// Names returns the declared string names in document order
func (r *Resources) Names() []string {
	var out []string
	for _, el := range r.doc.Root().SelectElements("string") {
		out = append(out, el.SelectAttrValue("name", ""))
	}
	return out
}

// SetString adds or replaces a string resource
func (r *Resources) SetString(name, value string) {
	r.set(name, value).RemoveAttr("translatable")
}

// SetUntranslatedString adds or replaces a string resource marked
// translatable="false"
func (r *Resources) SetUntranslatedString(name, value string) {
	r.set(name, value).CreateAttr("translatable", "false")
}

func (r *Resources) set(name, value string) *etree.Element {
	el := r.find(name)
	if el == nil {
		el = r.doc.Root().CreateElement("string")
		el.CreateAttr("name", name)
	}
	el.SetText(EscapeResource(value))
	return el
}

// RemoveString drops a string resource. It reports whether it existed.
func (r *Resources) RemoveString(name string) bool {
	el := r.find(name)
	if el == nil {
		return false
	}
	r.doc.Root().RemoveChild(el)
	return true
}

// Bytes encodes the resources with four space indentation
func (r *Resources) Bytes() ([]byte, error) {
	r.doc.Indent(4)
	out, err := r.doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrEncode, "cannot encode string resources")
	}
	return out, nil
}

var resourceEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `"`, `\"`, "\n", `\n`)

// EscapeResource escapes a value for use as android string resource text
func EscapeResource(s string) string {
	s = resourceEscaper.Replace(s)
	if strings.HasPrefix(s, "@") || strings.HasPrefix(s, "?") {
		s = `\` + s
	}
	return s
}

// UnescapeResource reverses EscapeResource
func UnescapeResource(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
