package translate

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
	"github.com/Siedlerchr/jabref/internal/jsondoc"
)

// CSL translates CSL-JSON items, the format doi.org returns for
// "Accept: application/vnd.citationstyles.csl+json".
type CSL struct{}

var _ Translator = CSL{}

// Name returns the provider identifier.
func (CSL) Name() string { return "csl" }

// Description returns a human-readable provider description.
func (CSL) Description() string { return "CSL-JSON items (doi.org content negotiation)" }

var cslTypes = map[string]field.EntryType{
	"article":          field.Article,
	"article-journal":  field.Article,
	"journal-article":  field.Article,
	"book":             field.Book,
	"chapter":          field.InCollection,
	"book-chapter":     field.InCollection,
	"paper-conference": field.InProceedings,
	"report":           field.TechReport,
	"thesis":           field.PhdThesis,
	"manuscript":       field.Unpublished,
}

var cslFields = map[string]field.Field{
	"volume":    field.Volume,
	"issue":     field.Number,
	"publisher": field.Publisher,
	"DOI":       field.DOI,
	"URL":       field.URL,
	"abstract":  field.Abstract,
	"edition":   field.Edition,
	"language":  field.Language,
}

// Translate maps a CSL-JSON item onto an entry. Items without a type fall
// back to ISBN inference, the same rule Springer records use.
func (CSL) Translate(doc jsondoc.Object, opts Options) (*entry.Entry, error) {
	if doc == nil {
		return nil, jsondoc.ErrNotObject
	}
	opts = opts.withDefaults()
	log := opts.Logger.With("provider", "csl")

	isbn, _ := firstString(doc, "ISBN")
	typ, container := inferContainer(isbn)
	if raw, ok := doc.String("type"); ok {
		if t, known := cslTypes[raw]; known {
			typ = t
		} else {
			typ = field.Misc
		}
		container = cslContainer(typ)
	}

	e := entry.New(typ)
	if key, ok := doc.String("citation-key"); ok {
		e.CiteKey = key
	}

	e.SetField(field.Author, cslNames(doc, "author", log))
	e.SetField(field.Editor, cslNames(doc, "editor", log))

	if title, ok := firstString(doc, "title"); ok {
		e.SetField(field.Title, title)
	}
	if ct, ok := firstString(doc, "container-title"); ok && container != "" {
		e.SetField(container, ct)
	}
	for key, f := range cslFields {
		if v, ok := doc.String(key); ok {
			e.SetField(f, v)
		}
	}
	if issn, ok := firstString(doc, "ISSN"); ok {
		e.SetField(field.ISSN, issn)
	}
	e.SetField(field.ISBN, isbn)

	if page, ok := doc.String("page"); ok {
		start, end, _ := strings.Cut(page, "-")
		e.SetField(field.Pages, pageRange(strings.TrimSpace(start), strings.Trim(end, "- ")))
	}

	cslIssued(e, doc, log)

	if kw, ok := doc.String("keyword"); ok {
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				e.AddKeyword(k, opts.KeywordSeparator)
			}
		}
	}

	stripAbstractPrefix(e)
	return e, nil
}

func cslContainer(t field.EntryType) field.Field {
	switch t {
	case field.Article:
		return field.Journal
	case field.InCollection, field.InProceedings, field.InBook:
		return field.BookTitle
	default:
		return ""
	}
}

// cslNames renders a CSL name list as "Family, Given and ...".
func cslNames(doc jsondoc.Object, key string, log *slog.Logger) string {
	people, ok := doc.Array(key)
	if !ok {
		if key == "author" {
			log.Info("no author found", "key", key)
		}
		return ""
	}
	names := make([]string, 0, people.Len())
	for i := 0; i < people.Len(); i++ {
		p, ok := people.Object(i)
		if !ok {
			log.Info("empty author name", "key", key, "index", i)
			continue
		}
		family, _ := p.String("family")
		given, _ := p.String("given")
		literal, _ := p.String("literal")
		switch {
		case family != "" && given != "":
			names = append(names, family+", "+given)
		case family != "":
			names = append(names, family)
		case literal != "":
			names = append(names, literal)
		default:
			log.Info("empty author name", "key", key, "index", i)
		}
	}
	return strings.Join(names, authorSeparator)
}

// cslIssued reads issued.date-parts[0] = [year, month?, day?].
func cslIssued(e *entry.Entry, doc jsondoc.Object, log *slog.Logger) {
	issued, ok := doc.Object("issued")
	if !ok {
		return
	}
	parts, ok := issued.Array("date-parts")
	if !ok {
		return
	}
	first, ok := parts.Array(0)
	if !ok || first.Len() == 0 {
		return
	}

	year, ok := first.String(0)
	if !ok {
		return
	}
	e.SetField(field.Year, year)
	date := year

	if m, ok := first.String(1); ok {
		n, err := strconv.Atoi(m)
		if month, valid := entry.MonthByNumber(n); err == nil && valid {
			e.SetMonth(month)
			date += fmt.Sprintf("-%02d", n)
			if d, ok := first.String(2); ok {
				if day, err := strconv.Atoi(d); err == nil {
					date += fmt.Sprintf("-%02d", day)
				}
			}
		} else {
			log.Warn("month out of range", "month", m)
		}
	}
	e.SetField(field.Date, date)
}
