package translate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
	"github.com/Siedlerchr/jabref/internal/jsondoc"
)

// Paperpile translates items of a Paperpile JSON export.
//
// Years, months and days may be strings or numbers. The item's citekey
// becomes the cite key, falling back to the Paperpile _id.
type Paperpile struct{}

var _ Translator = Paperpile{}

// Name returns the provider identifier.
func (Paperpile) Name() string { return "paperpile" }

// Description returns a human-readable provider description.
func (Paperpile) Description() string { return "Paperpile JSON export items" }

// paperpileTypes maps Paperpile pubtype codes onto entry types.
var paperpileTypes = map[string]field.EntryType{
	"JOUR": field.Article,
	"BOOK": field.Book,
	"CHAP": field.InCollection,
	"CONF": field.InProceedings,
	"THES": field.PhdThesis,
	"RPRT": field.TechReport,
}

// Translate maps one Paperpile item onto an entry.
func (Paperpile) Translate(doc jsondoc.Object, opts Options) (*entry.Entry, error) {
	if doc == nil {
		return nil, jsondoc.ErrNotObject
	}
	opts = opts.withDefaults()
	log := opts.Logger.With("provider", "paperpile")

	typ := field.Article
	if code, ok := doc.String("pubtype"); ok {
		if t, known := paperpileTypes[strings.ToUpper(code)]; known {
			typ = t
		} else {
			log.Info("unknown publication type", "pubtype", code)
			typ = field.Misc
		}
	}
	e := entry.New(typ)

	if key, ok := doc.String("citekey"); ok && strings.TrimSpace(key) != "" {
		e.CiteKey = key
	} else if id, ok := doc.String("_id"); ok {
		e.CiteKey = id
	}

	setPaperpileAuthors(e, doc, opts)
	copyFields(e, doc, field.Title, field.Abstract, field.DOI)

	if venue, ok := doc.String("journal"); ok {
		switch typ {
		case field.Article:
			e.SetField(field.Journal, venue)
		case field.InCollection, field.InProceedings:
			e.SetField(field.BookTitle, venue)
		default:
			log.Debug("venue dropped for entry type", "type", typ)
		}
	}

	if published, ok := doc.Object("published"); ok {
		setPublished(e, published, opts)
	} else {
		log.Info("no publication date found")
	}

	if attachments, ok := doc.Array("attachments"); ok {
		for i := 0; i < attachments.Len(); i++ {
			att, ok := attachments.Object(i)
			if !ok {
				continue
			}
			if main, _ := att.String("article_pdf"); main == "1" {
				if name, ok := att.String("filename"); ok {
					e.SetField(field.File, name)
				}
				break
			}
		}
	}

	stripAbstractPrefix(e)
	return e, nil
}

// setPaperpileAuthors stores "Last, First" names. An author with only a
// last name keeps it alone.
func setPaperpileAuthors(e *entry.Entry, doc jsondoc.Object, opts Options) {
	log := opts.Logger
	authors, ok := doc.Array("author")
	if !ok {
		log.Info("no author found", "key", "author")
		return
	}
	names := make([]string, 0, authors.Len())
	for i := 0; i < authors.Len(); i++ {
		a, ok := authors.Object(i)
		if !ok {
			log.Info("empty author name", "index", i)
			continue
		}
		last, _ := a.String("last")
		first, _ := a.String("first")
		last, first = strings.TrimSpace(last), strings.TrimSpace(first)
		switch {
		case last != "" && first != "":
			names = append(names, last+", "+first)
		case last != "":
			names = append(names, last)
		default:
			log.Info("empty author name", "index", i)
		}
	}
	e.SetField(field.Author, strings.Join(names, authorSeparator))
}

// setPublished fills year, month and date from the published object.
// Out-of-range months and days are logged and left out.
func setPublished(e *entry.Entry, published jsondoc.Object, opts Options) {
	log := opts.Logger
	year, ok := published.String("year")
	if !ok || !e.SetField(field.Year, year) {
		return
	}

	raw, ok := published.String("month")
	if !ok {
		return
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn("malformed month", "month", raw, "error", err)
		return
	}
	month, ok := entry.MonthByNumber(n)
	if !ok {
		log.Warn("month out of range", "month", n)
		return
	}
	e.SetMonth(month)

	date := fmt.Sprintf("%s-%02d", year, n)
	if raw, ok := published.String("day"); ok {
		if day, err := strconv.Atoi(raw); err == nil && day >= 1 && day <= 31 {
			date += fmt.Sprintf("-%02d", day)
		} else {
			log.Warn("day out of range", "day", raw)
		}
	}
	e.SetField(field.Date, date)
}
