package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Object is a decoded JSON object that remembers key order. Values are
// *Object, []any, string, json.Number, bool or nil.
type Object struct {
	keys   []string
	values map[string]any
}

func NewObject() *Object {
	return &Object{values: map[string]any{}}
}

// Set stores v under key. A repeated key keeps its first position.
func (o *Object) Set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Keys returns the keys in declaration order.
func (o *Object) Keys() []string { return o.keys }

func (o *Object) Len() int { return len(o.keys) }

func (o *Object) String(key string) (string, bool) {
	s, ok := o.values[key].(string)
	return s, ok
}

func (o *Object) Bool(key string) bool {
	b, _ := o.values[key].(bool)
	return b
}

func (o *Object) Object(key string) (*Object, bool) {
	obj, ok := o.values[key].(*Object)
	return obj, ok
}

func (o *Object) Array(key string) ([]any, bool) {
	arr, ok := o.values[key].([]any)
	return arr, ok
}

// Merge returns a shallow copy of o with every key of overrides applied on top.
// Keys of o come first, new keys from overrides follow in their own order.
func (o *Object) Merge(overrides *Object) *Object {
	out := NewObject()
	for _, k := range o.keys {
		out.Set(k, o.values[k])
	}
	if overrides != nil {
		for _, k := range overrides.keys {
			out.Set(k, overrides.values[k])
		}
	}
	return out
}

// MarshalJSON writes the object with its keys in declaration order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Pretty renders the object as indented JSON.
func (o *Object) Pretty() ([]byte, error) {
	compact, err := o.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decode picks the decoder from the file extension: .yaml and .yml are YAML,
// everything else is JSON.
func Decode(name string, data []byte) (*Object, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// DecodeJSON decodes a JSON document whose top level must be an object.
func DecodeJSON(data []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode json: trailing data after document")
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("decode json: document is %T, want object", v)
	}
	return obj, nil
}

func readValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, want string", keyTok)
				}
				v, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				v, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
	case float64:
		return json.Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	default:
		return t, nil
	}
}

// DecodeYAML decodes a YAML document whose top level must be a mapping.
func DecodeYAML(data []byte) (*Object, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("decode yaml: empty document")
	}
	v, err := fromYAML(doc.Content[0])
	if err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("decode yaml: document is %T, want mapping", v)
	}
	return obj, nil
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			val, err := fromYAML(v)
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return b, nil
	case "!!int":
		// Arbitrary precision, so bounds like the uint64 maximum survive.
		i, ok := new(big.Int).SetString(n.Value, 0)
		if !ok {
			return nil, fmt.Errorf("line %d: invalid integer %q", n.Line, n.Value)
		}
		return json.Number(i.String()), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		// JSON has no literal for these.
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		return n.Value, nil
	}
}

// formatValue renders an enum or const value the way it is shown in type details.
func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}

func compact(o *Object) string {
	data, err := o.MarshalJSON()
	if err != nil {
		return "<unprintable>"
	}
	return string(data)
}
