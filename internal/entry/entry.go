// Package entry defines the canonical bibliographic entry every translator produces.
package entry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Siedlerchr/jabref/internal/field"
)

// Entry is one bibliographic record: an entry type, an optional cite key
// and a set of non-empty field values.
type Entry struct {
	Type    field.EntryType
	CiteKey string
	fields  map[field.Field]string
}

// New returns an empty entry of the given type.
func New(t field.EntryType) *Entry {
	return &Entry{Type: t, fields: make(map[field.Field]string)}
}

// SetField stores value under f. Blank values are never stored; SetField
// reports whether the value was kept.
func (e *Entry) SetField(f field.Field, value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	if e.fields == nil {
		e.fields = make(map[field.Field]string)
	}
	e.fields[f] = value
	return true
}

// Field returns the value of f, if present.
func (e *Entry) Field(f field.Field) (string, bool) {
	v, ok := e.fields[f]
	return v, ok
}

// HasField reports whether f is set.
func (e *Entry) HasField(f field.Field) bool {
	_, ok := e.fields[f]
	return ok
}

// ClearField removes f and reports whether it was present.
func (e *Entry) ClearField(f field.Field) bool {
	if _, ok := e.fields[f]; !ok {
		return false
	}
	delete(e.fields, f)
	return true
}

// Fields returns the present fields in lexical order.
func (e *Entry) Fields() []field.Field {
	set := make(field.Set, len(e.fields))
	for f := range e.fields {
		set[f] = struct{}{}
	}
	return set.Sorted()
}

// FieldSet returns the present fields as a set.
func (e *Entry) FieldSet() field.Set {
	set := make(field.Set, len(e.fields))
	for f := range e.fields {
		set[f] = struct{}{}
	}
	return set
}

// Len returns the number of present fields.
func (e *Entry) Len() int { return len(e.fields) }

// Equal reports whether both entries have the same type, cite key and fields.
func (e *Entry) Equal(other *Entry) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Type != other.Type || e.CiteKey != other.CiteKey || len(e.fields) != len(other.fields) {
		return false
	}
	for f, v := range e.fields {
		if ov, ok := other.fields[f]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (e *Entry) Clone() *Entry {
	c := New(e.Type)
	c.CiteKey = e.CiteKey
	for f, v := range e.fields {
		c.fields[f] = v
	}
	return c
}

// AddKeyword appends keyword to the keywords field. Keywords are joined
// with sep followed by a space; blanks and duplicates are skipped.
func (e *Entry) AddKeyword(keyword string, sep rune) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return
	}
	existing := e.Keywords(sep)
	for _, k := range existing {
		if k == keyword {
			return
		}
	}
	existing = append(existing, keyword)
	e.SetField(field.Keywords, strings.Join(existing, string(sep)+" "))
}

// Keywords splits the keywords field on sep.
func (e *Entry) Keywords(sep rune) []string {
	raw, ok := e.fields[field.Keywords]
	if !ok {
		return nil
	}
	var out []string
	for _, k := range strings.Split(raw, string(sep)) {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// SetMonth stores m as its BibTeX month macro.
func (e *Entry) SetMonth(m Month) {
	e.SetField(field.Month, m.Short)
}

func (e *Entry) String() string {
	return fmt.Sprintf("@%s{%s} (%d fields)", e.Type, e.CiteKey, len(e.fields))
}

// jsonEntry is the wire form. encoding/json sorts map keys, so output is
// deterministic.
type jsonEntry struct {
	Type    field.EntryType        `json:"type"`
	CiteKey string                 `json:"citekey,omitempty"`
	Fields  map[field.Field]string `json:"fields"`
}

// MarshalJSON implements json.Marshaler.
func (e *Entry) MarshalJSON() ([]byte, error) {
	fields := e.fields
	if fields == nil {
		fields = map[field.Field]string{}
	}
	return json.Marshal(jsonEntry{Type: e.Type, CiteKey: e.CiteKey, Fields: fields})
}

// UnmarshalJSON implements json.Unmarshaler. Blank values are dropped.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw jsonEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding entry: %w", err)
	}
	e.Type = raw.Type
	e.CiteKey = raw.CiteKey
	e.fields = make(map[field.Field]string, len(raw.Fields))
	for f, v := range raw.Fields {
		e.SetField(field.Normalize(string(f)), v)
	}
	return nil
}
