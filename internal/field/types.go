package field

import "strings"

// EntryType tags the kind of work an entry describes.
type EntryType string

// Entry types shared by BibTeX and biblatex.
const (
	Article       EntryType = "article"
	Book          EntryType = "book"
	Booklet       EntryType = "booklet"
	Conference    EntryType = "conference"
	InBook        EntryType = "inbook"
	InCollection  EntryType = "incollection"
	InProceedings EntryType = "inproceedings"
	Manual        EntryType = "manual"
	MastersThesis EntryType = "mastersthesis"
	Misc          EntryType = "misc"
	PhdThesis     EntryType = "phdthesis"
	Proceedings   EntryType = "proceedings"
	TechReport    EntryType = "techreport"
	Unpublished   EntryType = "unpublished"
)

// Entry types known only to biblatex.
const (
	BookInBook     EntryType = "bookinbook"
	Collection     EntryType = "collection"
	Electronic     EntryType = "electronic"
	InReference    EntryType = "inreference"
	MvBook         EntryType = "mvbook"
	MvCollection   EntryType = "mvcollection"
	MvProceedings  EntryType = "mvproceedings"
	MvReference    EntryType = "mvreference"
	Online         EntryType = "online"
	Patent         EntryType = "patent"
	Periodical     EntryType = "periodical"
	Reference      EntryType = "reference"
	Report         EntryType = "report"
	EntrySet       EntryType = "set"
	SuppBook       EntryType = "suppbook"
	SuppCollection EntryType = "suppcollection"
	SuppPeriodical EntryType = "suppperiodical"
	Thesis         EntryType = "thesis"
	WWW            EntryType = "www"
)

// ParseEntryType normalizes a raw type name. Unknown names are returned
// lowercased; callers decide whether a dialect recognizes them.
func ParseEntryType(name string) EntryType {
	return EntryType(strings.ToLower(strings.TrimSpace(name)))
}

func (t EntryType) String() string { return string(t) }
