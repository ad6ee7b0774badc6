// Package plist decodes and encodes XML property lists with etree.
//
// Values map to Go as follows: <string> string, <integer> int64, <real>
// float64, <true/> and <false/> bool, <date> time.Time, <data> []byte,
// <array> []any and <dict> Dict. Binary property lists are not supported.
package plist

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/eppisapiafsl/expo-cli/pkg/errors"
)

const doctype = `DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd"`

// Dict is a property list dictionary
type Dict map[string]any

// Decode parses an XML property list whose top level value is a dictionary
func Decode(data []byte) (Dict, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrMalformedInput, "property list is empty")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrMalformedInput, "property list is not valid XML")
	}

	root := doc.Root()
	if root == nil || root.Tag != "plist" {
		return nil, errors.New(errors.ErrMalformedInput, "property list has no <plist> root element")
	}

	children := root.ChildElements()
	if len(children) != 1 || children[0].Tag != "dict" {
		return nil, errors.New(errors.ErrMalformedInput, "property list root must contain a single <dict>")
	}

	v, err := decodeValue(children[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrMalformedInput, "property list is malformed")
	}
	return v.(Dict), nil
}

func decodeValue(el *etree.Element) (any, error) {
	text := el.Text()

	switch el.Tag {
	case "dict":
		return decodeDict(el)
	case "array":
		children := el.ChildElements()
		out := make([]any, 0, len(children))
		for _, child := range children {
			v, err := decodeValue(child)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case "string":
		return text, nil
	case "integer":
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid <integer> %q", text)
		}
		return n, nil
	case "real":
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid <real> %q", text)
		}
		return f, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "date":
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("invalid <date> %q", text)
		}
		return t.UTC(), nil
	case "data":
		raw := strings.Join(strings.Fields(text), "")
		b, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid <data>: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unsupported element <%s>", el.Tag)
}

func decodeDict(el *etree.Element) (Dict, error) {
	children := el.ChildElements()
	if len(children)%2 != 0 {
		return nil, fmt.Errorf("<dict> has a key without a value")
	}

	out := make(Dict, len(children)/2)
	for i := 0; i < len(children); i += 2 {
		key := children[i]
		if key.Tag != "key" {
			return nil, fmt.Errorf("expected <key> in <dict>, found <%s>", key.Tag)
		}
		v, err := decodeValue(children[i+1])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key.Text(), err)
		}
		out[key.Text()] = v
	}
	return out, nil
}

// Encode renders d as an XML property list. Dictionary keys are sorted.
func Encode(d Dict) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(doctype)

	root := doc.CreateElement("plist")
	root.CreateAttr("version", "1.0")

	if d == nil {
		d = Dict{}
	}
	if err := encodeValue(root, d); err != nil {
		return nil, errors.Wrap(err, errors.ErrEncode, "cannot encode property list")
	}

	doc.IndentTabs()
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrEncode, "cannot write property list")
	}
	return out, nil
}

func encodeValue(parent *etree.Element, v any) error {
	switch val := v.(type) {
	case Dict:
		return encodeDict(parent, val)
	case map[string]any:
		return encodeDict(parent, Dict(val))
	case []any:
		arr := parent.CreateElement("array")
		for _, item := range val {
			if err := encodeValue(arr, item); err != nil {
				return err
			}
		}
	case []string:
		arr := parent.CreateElement("array")
		for _, item := range val {
			arr.CreateElement("string").SetText(item)
		}
	case []Dict:
		arr := parent.CreateElement("array")
		for _, item := range val {
			if err := encodeDict(arr, item); err != nil {
				return err
			}
		}
	case string:
		parent.CreateElement("string").SetText(val)
	case bool:
		if val {
			parent.CreateElement("true")
		} else {
			parent.CreateElement("false")
		}
	case int:
		parent.CreateElement("integer").SetText(strconv.FormatInt(int64(val), 10))
	case int32:
		parent.CreateElement("integer").SetText(strconv.FormatInt(int64(val), 10))
	case int64:
		parent.CreateElement("integer").SetText(strconv.FormatInt(val, 10))
	case uint64:
		parent.CreateElement("integer").SetText(strconv.FormatUint(val, 10))
	case float32:
		parent.CreateElement("real").SetText(strconv.FormatFloat(float64(val), 'g', -1, 32))
	case float64:
		parent.CreateElement("real").SetText(strconv.FormatFloat(val, 'g', -1, 64))
	case time.Time:
		parent.CreateElement("date").SetText(val.UTC().Format(time.RFC3339))
	case []byte:
		parent.CreateElement("data").SetText(base64.StdEncoding.EncodeToString(val))
	case nil:
		return fmt.Errorf("property lists cannot hold nil values")
	default:
		return fmt.Errorf("unsupported value of type %T", v)
	}
	return nil
}

func encodeDict(parent *etree.Element, d Dict) error {
	dict := parent.CreateElement("dict")

	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		dict.CreateElement("key").SetText(k)
		if err := encodeValue(dict, d[k]); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	return nil
}

// Extract returns the XML property list embedded in blob, such as the
// payload of a signed container
func Extract(blob []byte) ([]byte, error) {
	start := bytes.Index(blob, []byte("<?xml"))
	if start < 0 {
		return nil, errors.New(errors.ErrMalformedInput, "no embedded property list found")
	}
	const closing = "</plist>"
	end := bytes.Index(blob[start:], []byte(closing))
	if end < 0 {
		return nil, errors.New(errors.ErrMalformedInput, "embedded property list is truncated")
	}
	return blob[start : start+end+len(closing)], nil
}
