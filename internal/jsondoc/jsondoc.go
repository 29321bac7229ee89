// Package jsondoc provides typed optional lookups over schema-less JSON
// documents. Every accessor reports absence instead of failing, so
// translators can probe provider payloads field by field.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject is returned when a document's top level is not a JSON object.
var ErrNotObject = errors.New("document is not a JSON object")

// ErrTrailingData is returned by Parse when data holds more than one value.
var ErrTrailingData = errors.New("unexpected data after JSON object")

// Object is a decoded JSON object.
type Object map[string]any

// Array is a decoded JSON array.
type Array []any

// Parse decodes data and requires the top level to be an object. Anything
// but whitespace after the object is an error.
func Parse(data []byte) (Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	obj, err := decodeObject(dec)
	if err != nil {
		return nil, locate(data, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	return obj, nil
}

// locate adds the line and column of a syntax error in data.
func locate(data []byte, err error) error {
	var se *json.SyntaxError
	if !errors.As(err, &se) || se.Offset <= 0 {
		return err
	}
	p := int(se.Offset) - 1
	if p >= len(data) {
		p = len(data) - 1
	}
	line := 1 + bytes.Count(data[:p], []byte{'\n'})
	col := p - bytes.LastIndexByte(data[:p], '\n')
	return fmt.Errorf("%w (line %d, column %d)", err, line, col)
}

// ParseList decodes a top-level array whose elements are all objects,
// as found in bulk exports.
func ParseList(data []byte) ([]Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	objs := make([]Object, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d: %w", i, ErrNotObject)
		}
		objs = append(objs, Object(obj))
	}
	return objs, nil
}

// Decode reads a single JSON value from r and requires it to be an object.
func Decode(r io.Reader) (Object, error) {
	return decodeObject(json.NewDecoder(r))
}

func decodeObject(dec *json.Decoder) (Object, error) {
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return Object(obj), nil
}

// Has reports whether key is present, even if its value is null.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// IsNull reports whether key is present with a null value.
func (o Object) IsNull(key string) bool {
	v, ok := o[key]
	return ok && v == nil
}

// String returns key's value rendered as text. Numbers and booleans are
// rendered as their JSON literal; objects, arrays and null report false.
func (o Object) String(key string) (string, bool) {
	return asString(o[key])
}

// Object returns key's value if it is an object.
func (o Object) Object(key string) (Object, bool) {
	m, ok := o[key].(map[string]any)
	return Object(m), ok
}

// Array returns key's value if it is an array.
func (o Object) Array(key string) (Array, bool) {
	a, ok := o[key].([]any)
	return Array(a), ok
}

// Len returns the number of elements.
func (a Array) Len() int { return len(a) }

// Object returns element i if it is an object.
func (a Array) Object(i int) (Object, bool) {
	if i < 0 || i >= len(a) {
		return nil, false
	}
	m, ok := a[i].(map[string]any)
	return Object(m), ok
}

// Array returns element i if it is itself an array.
func (a Array) Array(i int) (Array, bool) {
	if i < 0 || i >= len(a) {
		return nil, false
	}
	s, ok := a[i].([]any)
	return Array(s), ok
}

// String returns element i rendered as text; see Object.String.
func (a Array) String(i int) (string, bool) {
	if i < 0 || i >= len(a) {
		return "", false
	}
	return asString(a[i])
}

// IsNull reports whether element i is null.
func (a Array) IsNull(i int) bool {
	return i >= 0 && i < len(a) && a[i] == nil
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	case float64:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}
