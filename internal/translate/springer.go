package translate

import (
	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
	"github.com/Siedlerchr/jabref/internal/jsondoc"
)

// Springer translates records from the Springer metadata API
// (api.springer.com/metadata/json).
//
// The payload carries no explicit type. A non-empty isbn makes the record a
// book chapter whose publicationName is the booktitle; otherwise it is a
// journal article and publicationName is the journal.
type Springer struct{}

var _ Translator = Springer{}

// Name returns the provider identifier.
func (Springer) Name() string { return "springer" }

// Description returns a human-readable provider description.
func (Springer) Description() string { return "Springer metadata API records" }

var springerFields = []field.Field{
	field.ISSN, field.Volume, field.Abstract, field.DOI, field.Title, field.Number, field.Publisher,
}

// Translate maps a Springer record onto an article or incollection entry.
func (Springer) Translate(doc jsondoc.Object, opts Options) (*entry.Entry, error) {
	if doc == nil {
		return nil, jsondoc.ErrNotObject
	}
	opts = opts.withDefaults()
	log := opts.Logger.With("provider", "springer")

	// Type inference runs first: it decides where publicationName goes.
	isbn, _ := doc.String("isbn")
	typ, container := inferContainer(isbn)
	e := entry.New(typ)
	if typ != field.Article {
		e.SetField(field.ISBN, isbn)
	}

	setAuthors(e, doc, "creators", "creator", log)
	copyFields(e, doc, springerFields...)
	setPages(e, doc, "startingPage", "endPage")

	if name, ok := doc.String("publicationName"); ok {
		e.SetField(container, name)
	}

	if urls, ok := doc.Array("url"); ok {
		for i := 0; i < urls.Len(); i++ {
			u, ok := urls.Object(i)
			if !ok {
				continue
			}
			if v, ok := u.String("value"); ok && e.SetField(field.URL, v) {
				break
			}
		}
	} else if u, ok := doc.String("url"); ok {
		e.SetField(field.URL, u)
	}

	if date, ok := doc.String("publicationDate"); ok {
		setDate(e, date, log)
	}

	stripAbstractPrefix(e)
	return e, nil
}
