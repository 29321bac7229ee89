package translate

import (
	"testing"

	"github.com/Siedlerchr/jabref/internal/field"
)

func TestCSL_JournalArticle(t *testing.T) {
	item := `{
		"type": "journal-article",
		"citation-key": "Taylor_2017",
		"title": "Gene flow in island populations",
		"container-title": ["Journal of Island Biology"],
		"author": [
			{"family": "Taylor", "given": "Ann"},
			{"literal": "The Island Consortium"},
			{"given": ""}
		],
		"issued": {"date-parts": [[2017, 7, 3]]},
		"page": "101-118",
		"volume": "12",
		"issue": "3",
		"publisher": "Island Press",
		"DOI": "10.1234/jib.2017.101",
		"URL": "https://doi.org/10.1234/jib.2017.101",
		"ISSN": ["1234-5678", "8765-4321"],
		"keyword": "biology, genomics"
	}`
	e, err := TranslateJSON(CSL{}, []byte(item), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if e.Type != field.Article {
		t.Errorf("type = %s", e.Type)
	}
	if e.CiteKey != "Taylor_2017" {
		t.Errorf("citekey = %q", e.CiteKey)
	}
	assertFields(t, e, map[field.Field]string{
		field.Author:    "Taylor, Ann and The Island Consortium",
		field.Title:     "Gene flow in island populations",
		field.Journal:   "Journal of Island Biology",
		field.Year:      "2017",
		field.Month:     "jul",
		field.Date:      "2017-07-03",
		field.Pages:     "101--118",
		field.Volume:    "12",
		field.Number:    "3",
		field.Publisher: "Island Press",
		field.DOI:       "10.1234/jib.2017.101",
		field.URL:       "https://doi.org/10.1234/jib.2017.101",
		field.ISSN:      "1234-5678",
		field.Keywords:  "biology, genomics",
	})
}

func TestCSL_Types(t *testing.T) {
	tests := []struct {
		doc       string
		wantType  field.EntryType
		container field.Field
	}{
		{`{"type": "chapter", "container-title": "C"}`, field.InCollection, field.BookTitle},
		{`{"type": "paper-conference", "container-title": "C"}`, field.InProceedings, field.BookTitle},
		{`{"type": "dataset", "container-title": "C"}`, field.Misc, ""},
		{`{"container-title": "C"}`, field.Article, field.Journal},
		{`{"ISBN": "978-0-00-000000-2", "container-title": "C"}`, field.InCollection, field.BookTitle},
	}
	for _, tt := range tests {
		e, err := CSL{}.Translate(mustParse(t, tt.doc), Options{})
		if err != nil {
			t.Fatal(err)
		}
		if e.Type != tt.wantType {
			t.Errorf("%s: type = %s, want %s", tt.doc, e.Type, tt.wantType)
		}
		if tt.container == "" {
			if e.HasField(field.Journal) || e.HasField(field.BookTitle) {
				t.Errorf("%s: container should be dropped, got %v", tt.doc, e.Fields())
			}
			continue
		}
		if got, _ := e.Field(tt.container); got != "C" {
			t.Errorf("%s: %s = %q", tt.doc, tt.container, got)
		}
	}
}

func TestCSL_YearOnly(t *testing.T) {
	e, _ := CSL{}.Translate(mustParse(t, `{"issued": {"date-parts": [["2015"]]}}`), Options{})
	if got, _ := e.Field(field.Year); got != "2015" {
		t.Errorf("year = %q", got)
	}
	if got, _ := e.Field(field.Date); got != "2015" {
		t.Errorf("date = %q", got)
	}
	if e.HasField(field.Month) {
		t.Error("month should be unset")
	}
}
