// Package integrity checks entries against schema dialects.
package integrity

import (
	"sync"

	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
)

// Message reports one conformance problem in one entry.
type Message struct {
	CiteKey string      `json:"citekey,omitempty"`
	Field   field.Field `json:"field"`
	Text    string      `json:"message"`
}

// Checker inspects a single entry. Implementations must not modify it.
type Checker interface {
	Check(e *entry.Entry) []Message
}

// MsgBiblatexOnly is the text attached to fields unknown to plain BibTeX.
const MsgBiblatexOnly = "biblatex field only"

// allowed are biblatex-only fields that are displayed by default and
// therefore never reported.
var allowed = field.NewSet(field.Abstract, field.Comment, field.DOI, field.URL)

// BiblatexOnlyFields returns the fields used by some extended entry type
// but by no base entry type, minus the display allow-list.
var BiblatexOnlyFields = sync.OnceValue(func() field.Set {
	extra := field.Extended().AllFields().Minus(field.Base().AllFields())
	return extra.Minus(allowed)
})

// NoBibtexFieldChecker flags every field that only biblatex understands.
type NoBibtexFieldChecker struct{}

var _ Checker = NoBibtexFieldChecker{}

// Check returns one message per offending field, ordered by field name.
func (NoBibtexFieldChecker) Check(e *entry.Entry) []Message {
	if e == nil {
		return nil
	}
	only := BiblatexOnlyFields()
	var msgs []Message
	for _, f := range e.Fields() {
		if only.Contains(f) {
			msgs = append(msgs, Message{CiteKey: e.CiteKey, Field: f, Text: MsgBiblatexOnly})
		}
	}
	return msgs
}

// CheckAll runs every checker over every entry, in order.
func CheckAll(entries []*entry.Entry, checkers ...Checker) []Message {
	var msgs []Message
	for _, e := range entries {
		for _, c := range checkers {
			msgs = append(msgs, c.Check(e)...)
		}
	}
	return msgs
}
