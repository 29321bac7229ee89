package translate

import (
	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
	"github.com/Siedlerchr/jabref/internal/jsondoc"
)

// BibJSON translates the bibJSON records served by aggregators such as DOAJ.
//
// Records are always articles. The nested journal title maps straight to
// the journal field; no type inference is involved.
type BibJSON struct{}

var _ Translator = BibJSON{}

// Name returns the provider identifier.
func (BibJSON) Name() string { return "bibjson" }

// Description returns a human-readable provider description.
func (BibJSON) Description() string { return "bibJSON aggregator records (DOAJ)" }

var (
	bibJSONTopFields     = []field.Field{field.Year, field.Title, field.Abstract, field.Month}
	bibJSONJournalFields = []field.Field{field.Publisher, field.Number, field.Volume}
)

// Translate maps a bibJSON record onto an article entry.
func (BibJSON) Translate(doc jsondoc.Object, opts Options) (*entry.Entry, error) {
	if doc == nil {
		return nil, jsondoc.ErrNotObject
	}
	opts = opts.withDefaults()
	log := opts.Logger.With("provider", "bibjson")

	e := entry.New(field.Article)

	setAuthors(e, doc, "author", "name", log)
	copyFields(e, doc, bibJSONTopFields...)
	setPages(e, doc, "start_page", "end_page")

	if journal, ok := doc.Object("journal"); ok {
		if title, ok := journal.String("title"); ok {
			e.SetField(field.Journal, title)
		} else {
			log.Info("no journal title found")
		}
		copyFields(e, journal, bibJSONJournalFields...)
	} else {
		log.Info("no journal information found")
	}

	if keywords, ok := doc.Array("keywords"); ok {
		for i := 0; i < keywords.Len(); i++ {
			if keywords.IsNull(i) {
				continue
			}
			if kw, ok := keywords.String(i); ok {
				e.AddKeyword(kw, opts.KeywordSeparator)
			}
		}
	}

	// Print and electronic ISSN share one field; the later one wins.
	if identifiers, ok := doc.Array("identifier"); ok {
		for i := 0; i < identifiers.Len(); i++ {
			ident, ok := identifiers.Object(i)
			if !ok {
				continue
			}
			typ, _ := ident.String("type")
			id, _ := ident.String("id")
			switch typ {
			case "doi":
				e.SetField(field.DOI, id)
			case "pissn", "eissn":
				e.SetField(field.ISSN, id)
			}
		}
	}

	if links, ok := doc.Array("link"); ok {
		for i := 0; i < links.Len(); i++ {
			link, ok := links.Object(i)
			if !ok {
				continue
			}
			if typ, _ := link.String("type"); typ != "fulltext" {
				continue
			}
			if u, ok := link.String("url"); ok {
				e.SetField(field.URL, u)
			}
		}
	}

	return e, nil
}
