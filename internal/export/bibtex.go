// Package export renders entries as BibTeX.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
)

// verbatim fields are written without LaTeX escaping.
var verbatim = field.NewSet(field.URL, field.DOI, field.ISSN, field.ISBN, field.Eprint)

// ToBibTeX converts an entry to BibTeX. Fields are written in lexical order
// so output is deterministic. Entries without a cite key get one from
// GenerateKey.
func ToBibTeX(e *entry.Entry) string {
	key := e.CiteKey
	if key == "" {
		key = GenerateKey(e)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("@%s{%s,\n", e.Type, key))

	for _, f := range e.Fields() {
		v, _ := e.Field(f)
		b.WriteString(fmt.Sprintf("  %s = %s,\n", f, formatValue(f, v)))
	}

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts multiple entries to BibTeX format.
func ToBibTeXList(entries []*entry.Entry) string {
	var out []string
	for _, e := range entries {
		out = append(out, ToBibTeX(e))
	}
	return strings.Join(out, "\n")
}

func formatValue(f field.Field, v string) string {
	if f == field.Month {
		if m, ok := entry.MonthByName(v); ok && v == m.Short {
			return m.Short // macro, unbraced
		}
	}
	if verbatim.Contains(f) {
		return "{" + v + "}"
	}
	return "{" + escapeLatex(v) + "}"
}

var keyUnsafe = regexp.MustCompile(`[^A-Za-z0-9]+`)

// GenerateKey builds "<FirstAuthorFamily><Year>" from the entry, falling
// back to the title's first word and finally to "entry".
func GenerateKey(e *entry.Entry) string {
	var base string
	if authors, ok := e.Field(field.Author); ok {
		first, _, _ := strings.Cut(authors, " and ")
		family, _, found := strings.Cut(first, ",")
		if !found {
			words := strings.Fields(first)
			if len(words) > 0 {
				family = words[len(words)-1]
			}
		}
		base = keyUnsafe.ReplaceAllString(family, "")
	}
	if base == "" {
		if title, ok := e.Field(field.Title); ok {
			words := strings.Fields(title)
			if len(words) > 0 {
				base = keyUnsafe.ReplaceAllString(words[0], "")
			}
		}
	}
	if base == "" {
		base = "entry"
	}
	if year, ok := e.Field(field.Year); ok {
		base += keyUnsafe.ReplaceAllString(year, "")
	}
	return base
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
