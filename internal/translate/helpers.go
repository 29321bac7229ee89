package translate

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
	"github.com/Siedlerchr/jabref/internal/jsondoc"
)

// authorSeparator joins names in BibTeX author lists.
const authorSeparator = " and "

// abstractPrefix is stripped from abstracts that open with it.
const abstractPrefix = "Abstract"

// setAuthors collects the nameKey of every element of doc[arrayKey] and
// stores them joined with " and ". Elements without a name are skipped.
func setAuthors(e *entry.Entry, doc jsondoc.Object, arrayKey, nameKey string, log *slog.Logger) {
	authors, ok := doc.Array(arrayKey)
	if !ok {
		log.Info("no author found", "key", arrayKey)
		return
	}

	names := make([]string, 0, authors.Len())
	for i := 0; i < authors.Len(); i++ {
		author, ok := authors.Object(i)
		if !ok {
			log.Info("empty author name", "index", i)
			continue
		}
		name, ok := author.String(nameKey)
		if !ok || strings.TrimSpace(name) == "" {
			log.Info("empty author name", "index", i)
			continue
		}
		names = append(names, name)
	}
	e.SetField(field.Author, strings.Join(names, authorSeparator))
}

// copyFields copies each field whose JSON key equals the field name.
// Empty strings are treated as absent.
func copyFields(e *entry.Entry, doc jsondoc.Object, fields ...field.Field) {
	for _, f := range fields {
		if v, ok := doc.String(string(f)); ok {
			e.SetField(f, v)
		}
	}
}

// pageRange builds the canonical pages value: "start--end", or start
// alone. An end page without a start page yields nothing.
func pageRange(start, end string) string {
	if strings.TrimSpace(start) == "" {
		return ""
	}
	if strings.TrimSpace(end) == "" {
		return start
	}
	return start + "--" + end
}

// setPages reads start and end page keys from doc.
func setPages(e *entry.Entry, doc jsondoc.Object, startKey, endKey string) {
	start, _ := doc.String(startKey)
	end, _ := doc.String(endKey)
	e.SetField(field.Pages, pageRange(start, end))
}

// setDate stores date verbatim and decomposes YYYY-MM[-DD...] into year
// and month. A bad month segment is logged and does not stop translation.
func setDate(e *entry.Entry, date string, log *slog.Logger) {
	if !e.SetField(field.Date, date) {
		return
	}
	parts := strings.Split(date, "-")
	e.SetField(field.Year, parts[0])

	if len(parts) < 2 {
		log.Debug("date has no month", "date", date)
		return
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		log.Warn("malformed month in date", "date", date, "error", err)
		return
	}
	month, ok := entry.MonthByNumber(n)
	if !ok {
		log.Warn("month out of range", "date", date, "month", n)
		return
	}
	e.SetMonth(month)
}

// stripAbstractPrefix removes a leading literal "Abstract". The cut is a
// fixed eight characters, so "Abstracted ..." loses its first word too.
func stripAbstractPrefix(e *entry.Entry) {
	text, ok := e.Field(field.Abstract)
	if !ok || !strings.HasPrefix(text, abstractPrefix) {
		return
	}
	if !e.SetField(field.Abstract, text[len(abstractPrefix):]) {
		e.ClearField(field.Abstract)
	}
}

// inferContainer picks the entry type and the field receiving the
// container name from ISBN evidence: an ISBN means a chapter in a book,
// otherwise a journal article.
func inferContainer(isbn string) (field.EntryType, field.Field) {
	if strings.TrimSpace(isbn) == "" {
		return field.Article, field.Journal
	}
	return field.InCollection, field.BookTitle
}

// firstString returns doc[key] as text, or the first non-empty string
// element when doc[key] is an array.
func firstString(doc jsondoc.Object, key string) (string, bool) {
	if s, ok := doc.String(key); ok {
		return s, true
	}
	arr, ok := doc.Array(key)
	if !ok {
		return "", false
	}
	for i := 0; i < arr.Len(); i++ {
		if s, ok := arr.String(i); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}
