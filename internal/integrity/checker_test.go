package integrity

import (
	"testing"

	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
)

func TestBiblatexOnlyFields(t *testing.T) {
	only := BiblatexOnlyFields()

	for _, f := range []field.Field{field.Date, field.JournalTitle, field.Location, field.Subtitle, field.EventTitle} {
		if !only.Contains(f) {
			t.Errorf("%s should be biblatex-only", f)
		}
	}
	for _, f := range []field.Field{field.Abstract, field.Comment, field.DOI, field.URL} {
		if only.Contains(f) {
			t.Errorf("%s is allow-listed and should not be reported", f)
		}
	}
	for _, f := range field.Base().AllFields().Sorted() {
		if only.Contains(f) {
			t.Errorf("base field %s reported as biblatex-only", f)
		}
	}
	if only.Contains(field.Keywords) {
		t.Error("keywords belongs to neither dialect and must not be flagged")
	}
}

func TestNoBibtexFieldChecker(t *testing.T) {
	tests := []struct {
		name   string
		fields map[field.Field]string
		want   []field.Field
	}{
		{
			name:   "plain bibtex",
			fields: map[field.Field]string{field.Author: "A", field.Title: "T", field.Year: "2017"},
		},
		{
			name:   "allow-listed only",
			fields: map[field.Field]string{field.DOI: "10.1/x", field.URL: "u", field.Abstract: "a", field.Comment: "c"},
		},
		{
			name: "date and journaltitle",
			fields: map[field.Field]string{
				field.Title:        "T",
				field.JournalTitle: "J",
				field.Date:         "2017-07",
			},
			want: []field.Field{field.Date, field.JournalTitle},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entry.New(field.Article)
			e.CiteKey = "key"
			for f, v := range tt.fields {
				e.SetField(f, v)
			}
			before := e.Clone()

			msgs := NoBibtexFieldChecker{}.Check(e)
			if len(msgs) != len(tt.want) {
				t.Fatalf("got %d messages %+v, want %d", len(msgs), msgs, len(tt.want))
			}
			for i, m := range msgs {
				if m.Field != tt.want[i] {
					t.Errorf("msgs[%d].Field = %s, want %s", i, m.Field, tt.want[i])
				}
				if m.Text != MsgBiblatexOnly {
					t.Errorf("msgs[%d].Text = %q", i, m.Text)
				}
				if m.CiteKey != "key" {
					t.Errorf("msgs[%d].CiteKey = %q", i, m.CiteKey)
				}
			}
			if !e.Equal(before) {
				t.Error("Check modified the entry")
			}
		})
	}
}

func TestNoBibtexFieldChecker_Nil(t *testing.T) {
	if msgs := (NoBibtexFieldChecker{}).Check(nil); msgs != nil {
		t.Errorf("Check(nil) = %v", msgs)
	}
}

func TestCheckAll(t *testing.T) {
	a := entry.New(field.Article)
	a.CiteKey = "a"
	a.SetField(field.Date, "2017")
	b := entry.New(field.Book)
	b.CiteKey = "b"
	b.SetField(field.Title, "T")
	c := entry.New(field.Online)
	c.CiteKey = "c"
	c.SetField(field.URLDate, "2020-01-01")

	msgs := CheckAll([]*entry.Entry{a, b, c}, NoBibtexFieldChecker{})
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2: %+v", len(msgs), msgs)
	}
	if msgs[0].CiteKey != "a" || msgs[1].CiteKey != "c" {
		t.Errorf("messages out of entry order: %+v", msgs)
	}
}
