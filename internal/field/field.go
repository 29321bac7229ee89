// Package field defines the field identifiers and entry types of the
// canonical entry model, plus the BibTeX and biblatex dialects.
package field

import (
	"sort"
	"strings"
)

// Field is a case-normalized field identifier such as "title" or "doi".
type Field string

// Standard fields.
const (
	Abstract        Field = "abstract"
	Addendum        Field = "addendum"
	Address         Field = "address"
	Annotation      Field = "annotation"
	Annotator       Field = "annotator"
	Author          Field = "author"
	BookAuthor      Field = "bookauthor"
	BookPagination  Field = "bookpagination"
	BookSubtitle    Field = "booksubtitle"
	BookTitle       Field = "booktitle"
	BookTitleAddon  Field = "booktitleaddon"
	Chapter         Field = "chapter"
	Commentator     Field = "commentator"
	Comment         Field = "comment"
	Crossref        Field = "crossref"
	Date            Field = "date"
	DOI             Field = "doi"
	Edition         Field = "edition"
	Editor          Field = "editor"
	EditorA         Field = "editora"
	EditorB         Field = "editorb"
	EditorC         Field = "editorc"
	EditorType      Field = "editortype"
	EID             Field = "eid"
	EntrySubtype    Field = "entrysubtype"
	Eprint          Field = "eprint"
	EprintClass     Field = "eprintclass"
	EprintType      Field = "eprinttype"
	EventDate       Field = "eventdate"
	EventTitle      Field = "eventtitle"
	File            Field = "file"
	Foreword        Field = "foreword"
	Holder          Field = "holder"
	HowPublished    Field = "howpublished"
	Institution     Field = "institution"
	Introduction    Field = "introduction"
	ISBN            Field = "isbn"
	ISRN            Field = "isrn"
	ISSN            Field = "issn"
	Issue           Field = "issue"
	IssueSubtitle   Field = "issuesubtitle"
	IssueTitle      Field = "issuetitle"
	Journal         Field = "journal"
	JournalSubtitle Field = "journalsubtitle"
	JournalTitle    Field = "journaltitle"
	Key             Field = "key"
	Keywords        Field = "keywords"
	Language        Field = "language"
	Location        Field = "location"
	MainSubtitle    Field = "mainsubtitle"
	MainTitle       Field = "maintitle"
	MainTitleAddon  Field = "maintitleaddon"
	Month           Field = "month"
	Note            Field = "note"
	Number          Field = "number"
	Organization    Field = "organization"
	OrigLanguage    Field = "origlanguage"
	Pages           Field = "pages"
	PageTotal       Field = "pagetotal"
	Pagination      Field = "pagination"
	Part            Field = "part"
	Publisher       Field = "publisher"
	PubState        Field = "pubstate"
	School          Field = "school"
	Series          Field = "series"
	Subtitle        Field = "subtitle"
	Title           Field = "title"
	TitleAddon      Field = "titleaddon"
	Translator      Field = "translator"
	Type            Field = "type"
	URL             Field = "url"
	URLDate         Field = "urldate"
	Venue           Field = "venue"
	Version         Field = "version"
	Volume          Field = "volume"
	Volumes         Field = "volumes"
	Year            Field = "year"
)

// Normalize turns a raw field name into its canonical identifier.
// No aliasing is performed here; translators own that.
func Normalize(name string) Field {
	return Field(strings.ToLower(strings.TrimSpace(name)))
}

func (f Field) String() string { return string(f) }

// Set is an unordered set of fields.
type Set map[Field]struct{}

// NewSet builds a set from the given fields.
func NewSet(fields ...Field) Set {
	s := make(Set, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

// Contains reports whether f is in the set.
func (s Set) Contains(f Field) bool {
	_, ok := s[f]
	return ok
}

// Union returns a new set with the members of s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for f := range s {
		out[f] = struct{}{}
	}
	for f := range other {
		out[f] = struct{}{}
	}
	return out
}

// Minus returns a new set with the members of s that are not in other.
func (s Set) Minus(other Set) Set {
	out := make(Set, len(s))
	for f := range s {
		if !other.Contains(f) {
			out[f] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []Field {
	out := make([]Field, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
