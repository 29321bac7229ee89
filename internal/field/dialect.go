package field

import (
	"sort"
	"sync"
)

// Dialect names.
const (
	BibTeX   = "bibtex"
	Biblatex = "biblatex"
)

// Dialect is a named schema: for every entry type it knows, the set of
// fields that type recognizes. Dialects are immutable once built.
type Dialect struct {
	name  string
	types map[EntryType]Set
	all   Set
}

func newDialect(name string, types map[EntryType]Set) *Dialect {
	all := Set{}
	for _, fields := range types {
		all = all.Union(fields)
	}
	return &Dialect{name: name, types: types, all: all}
}

// Name returns the dialect identifier.
func (d *Dialect) Name() string { return d.name }

// Types returns the recognized entry types in lexical order.
func (d *Dialect) Types() []EntryType {
	out := make([]EntryType, 0, len(d.types))
	for t := range d.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Recognizes reports whether the dialect defines the entry type.
func (d *Dialect) Recognizes(t EntryType) bool {
	_, ok := d.types[t]
	return ok
}

// FieldsOf returns a copy of the fields recognized for t.
func (d *Dialect) FieldsOf(t EntryType) (Set, bool) {
	fields, ok := d.types[t]
	if !ok {
		return nil, false
	}
	return fields.Union(nil), true
}

// AllFields returns a copy of the union of fields across all entry types.
func (d *Dialect) AllFields() Set {
	return d.all.Union(nil)
}

// Base returns the BibTeX dialect.
var Base = sync.OnceValue(func() *Dialect {
	types := make(map[EntryType]Set, len(bibtexTypes))
	for t, fields := range bibtexTypes {
		types[t] = NewSet(fields...).Union(NewSet(bibtexCommon...))
	}
	return newDialect(BibTeX, types)
})

// Extended returns the biblatex dialect. Every BibTeX type is present with
// a superset of its BibTeX fields.
var Extended = sync.OnceValue(func() *Dialect {
	common := NewSet(biblatexCommon...)
	types := make(map[EntryType]Set, len(bibtexTypes)+len(biblatexOnlyTypes))
	for t, fields := range bibtexTypes {
		types[t] = NewSet(fields...).
			Union(NewSet(bibtexCommon...)).
			Union(NewSet(biblatexExtras[t]...)).
			Union(common)
	}
	for t, fields := range biblatexOnlyTypes {
		types[t] = NewSet(fields...).Union(common)
	}
	return newDialect(Biblatex, types)
})

var bibtexCommon = []Field{Crossref, Key, Note}

var bibtexTypes = map[EntryType][]Field{
	Article:       {Author, Title, Journal, Year, Volume, Number, Pages, Month, ISSN},
	Book:          {Author, Editor, Title, Publisher, Year, Volume, Number, Series, Address, Edition, Month, ISBN},
	Booklet:       {Title, Author, HowPublished, Address, Month, Year},
	Conference:    {Author, Title, BookTitle, Year, Editor, Volume, Number, Series, Pages, Address, Month, Organization, Publisher},
	InBook:        {Author, Editor, Title, Chapter, Pages, Publisher, Year, Volume, Number, Series, Type, Address, Edition, Month, ISBN},
	InCollection:  {Author, Title, BookTitle, Publisher, Year, Editor, Volume, Number, Series, Type, Chapter, Pages, Address, Edition, Month, ISBN},
	InProceedings: {Author, Title, BookTitle, Year, Editor, Volume, Number, Series, Pages, Address, Month, Organization, Publisher},
	Manual:        {Title, Author, Organization, Address, Edition, Month, Year},
	MastersThesis: {Author, Title, School, Year, Type, Address, Month},
	Misc:          {Author, Title, HowPublished, Month, Year},
	PhdThesis:     {Author, Title, School, Year, Type, Address, Month},
	Proceedings:   {Title, Year, Editor, Volume, Number, Series, Address, Publisher, Month, Organization, ISBN},
	TechReport:    {Author, Title, Institution, Year, Type, Number, Address, Month},
	Unpublished:   {Author, Title, Month, Year},
}

// biblatexCommon holds the optional fields biblatex accepts on every type.
var biblatexCommon = []Field{
	Abstract, Addendum, Comment, Date, DOI, Eprint, EprintClass, EprintType,
	Language, PubState, URL, URLDate, Subtitle, TitleAddon,
}

var bookExtras = []Field{
	EditorA, EditorB, EditorC, EditorType, Translator, Annotator, Commentator,
	Introduction, Foreword, MainTitle, MainSubtitle, MainTitleAddon,
	OrigLanguage, Volumes, Part, Location, PageTotal, Pagination,
}

var containedExtras = []Field{
	BookAuthor, BookSubtitle, BookTitleAddon, MainTitle, MainSubtitle,
	MainTitleAddon, EditorA, EditorB, EditorC, Translator, Annotator,
	Commentator, Location, OrigLanguage, Volumes, Part, BookPagination,
}

var thesisExtras = []Field{Institution, Location, PageTotal}

var biblatexExtras = map[EntryType][]Field{
	Article: {
		Translator, Annotator, Commentator, Editor, EditorA, EditorB, EditorC,
		JournalTitle, JournalSubtitle, IssueTitle, IssueSubtitle, OrigLanguage,
		Series, EID, Issue, Version,
	},
	Book:          bookExtras,
	Booklet:       {EntrySubtype, Location, PageTotal, Type},
	Conference:    append([]Field{EventTitle, EventDate, Venue, ISBN, Location}, containedExtras...),
	InBook:        append([]Field{BookTitle}, containedExtras...),
	InCollection:  containedExtras,
	InProceedings: append([]Field{EventTitle, EventDate, Venue, ISBN, Location}, containedExtras...),
	Manual:        {Editor, Series, Number, Type, Version, Location, PageTotal, ISBN, Publisher, Pages},
	MastersThesis: thesisExtras,
	Misc:          {Editor, Organization, Type, Version, Location},
	PhdThesis:     thesisExtras,
	Proceedings:   append([]Field{EventTitle, EventDate, Venue, PageTotal}, bookExtras...),
	TechReport:    {Location, PageTotal, Pages, ISRN, Version},
	Unpublished:   {Type, EventTitle, EventDate, Venue, Location, HowPublished},
}

var biblatexOnlyTypes = map[EntryType][]Field{
	BookInBook:     append([]Field{Author, Title, BookTitle, Year, Publisher, Pages, Edition, Series, Number, ISBN}, containedExtras...),
	Collection:     append([]Field{Editor, Title, Year, Publisher, Series, Number, Edition, ISBN}, bookExtras...),
	Electronic:     {Author, Editor, Title, Year, Month, Version, Organization, Note},
	InReference:    append([]Field{Author, Title, BookTitle, Year, Editor, Publisher, Pages, Series, Number, ISBN}, containedExtras...),
	MvBook:         append([]Field{Author, Title, Year, Editor, Publisher, Series, Number, Edition, ISBN}, bookExtras...),
	MvCollection:   append([]Field{Editor, Title, Year, Publisher, Series, Number, Edition, ISBN}, bookExtras...),
	MvProceedings:  append([]Field{Title, Year, Editor, Publisher, Organization, EventTitle, EventDate, Venue, ISBN}, bookExtras...),
	MvReference:    append([]Field{Editor, Title, Year, Publisher, Series, Number, Edition, ISBN}, bookExtras...),
	Online:         {Author, Editor, Title, Year, Month, Version, Organization, Note},
	Patent:         {Author, Title, Number, Year, Month, Holder, Location, Type, Version},
	Periodical:     {Editor, EditorA, EditorB, EditorC, Title, IssueTitle, IssueSubtitle, Series, Volume, Number, Issue, Year, Month, ISSN},
	Reference:      append([]Field{Editor, Title, Year, Publisher, Series, Number, Edition, ISBN}, bookExtras...),
	Report:         {Author, Title, Type, Institution, Year, Month, Number, Version, Location, Pages, PageTotal, ISRN},
	EntrySet:       {Crossref},
	SuppBook:       append([]Field{Author, Title, BookTitle, Year, Publisher, Pages, ISBN}, containedExtras...),
	SuppCollection: append([]Field{Author, Title, BookTitle, Year, Editor, Publisher, Pages, ISBN}, containedExtras...),
	SuppPeriodical: {Author, Title, Journal, JournalTitle, Year, Month, Volume, Number, Issue, Pages, ISSN},
	Thesis:         {Author, Title, Type, Institution, Year, Month, Location, PageTotal},
	WWW:            {Author, Editor, Title, Year, Month, Version, Organization, Note},
}
