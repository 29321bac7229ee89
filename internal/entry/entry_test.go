package entry

import (
	"encoding/json"
	"testing"

	"github.com/Siedlerchr/jabref/internal/field"
)

func TestSetField_IgnoresBlankValues(t *testing.T) {
	e := New(field.Article)
	if e.SetField(field.Title, "") {
		t.Error("SetField(\"\") should report false")
	}
	if e.SetField(field.Title, "   ") {
		t.Error("SetField(blank) should report false")
	}
	if e.HasField(field.Title) {
		t.Error("blank title should not be stored")
	}
	if !e.SetField(field.Title, "A Title") {
		t.Error("SetField(non-empty) should report true")
	}
	if v, ok := e.Field(field.Title); !ok || v != "A Title" {
		t.Errorf("Field(title) = %q, %v", v, ok)
	}
}

func TestSetField_BlankDoesNotClearExisting(t *testing.T) {
	e := New(field.Article)
	e.SetField(field.Year, "2017")
	e.SetField(field.Year, "")
	if v, _ := e.Field(field.Year); v != "2017" {
		t.Errorf("year = %q, want 2017", v)
	}
}

func TestFieldsSorted(t *testing.T) {
	e := New(field.Article)
	e.SetField(field.Year, "2017")
	e.SetField(field.Author, "A")
	e.SetField(field.Title, "T")
	got := e.Fields()
	want := []field.Field{field.Author, field.Title, field.Year}
	if len(got) != len(want) {
		t.Fatalf("Fields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fields()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEqual(t *testing.T) {
	a := New(field.Article)
	a.CiteKey = "Decker_2007"
	a.SetField(field.Title, "BPEL4Chor")
	b := a.Clone()

	if !a.Equal(b) {
		t.Fatal("clone should be equal")
	}

	b.SetField(field.Year, "2007")
	if a.Equal(b) {
		t.Error("entries with different fields should differ")
	}

	c := a.Clone()
	c.CiteKey = "other"
	if a.Equal(c) {
		t.Error("entries with different cite keys should differ")
	}

	d := a.Clone()
	d.Type = field.InProceedings
	if a.Equal(d) {
		t.Error("entries with different types should differ")
	}

	var nilEntry *Entry
	if a.Equal(nilEntry) || !nilEntry.Equal(nil) {
		t.Error("nil handling is wrong")
	}
}

func TestClearField(t *testing.T) {
	e := New(field.Misc)
	e.SetField(field.Note, "n")
	if !e.ClearField(field.Note) {
		t.Error("ClearField should report true for present field")
	}
	if e.ClearField(field.Note) {
		t.Error("ClearField should report false for absent field")
	}
	if e.Len() != 0 {
		t.Errorf("Len() = %d, want 0", e.Len())
	}
}

func TestAddKeyword(t *testing.T) {
	e := New(field.Article)
	e.AddKeyword("biology", ',')
	e.AddKeyword("  ", ',')
	e.AddKeyword("genomics", ',')
	e.AddKeyword("biology", ',')

	if v, _ := e.Field(field.Keywords); v != "biology, genomics" {
		t.Errorf("keywords = %q, want %q", v, "biology, genomics")
	}

	other := New(field.Article)
	other.AddKeyword("a", ';')
	other.AddKeyword("b", ';')
	if v, _ := other.Field(field.Keywords); v != "a; b" {
		t.Errorf("keywords = %q, want %q", v, "a; b")
	}
}

func TestSetMonth(t *testing.T) {
	m, ok := MonthByNumber(7)
	if !ok {
		t.Fatal("MonthByNumber(7) failed")
	}
	e := New(field.Article)
	e.SetMonth(m)
	if v, _ := e.Field(field.Month); v != "jul" {
		t.Errorf("month = %q, want jul", v)
	}
}

func TestMonthLookup(t *testing.T) {
	for _, n := range []int{0, 13, -1} {
		if _, ok := MonthByNumber(n); ok {
			t.Errorf("MonthByNumber(%d) should fail", n)
		}
	}
	tests := []struct {
		name string
		want int
	}{
		{"jan", 1},
		{"December", 12},
		{"#sep#", 9},
		{" MAY ", 5},
	}
	for _, tt := range tests {
		m, ok := MonthByName(tt.name)
		if !ok || m.Number != tt.want {
			t.Errorf("MonthByName(%q) = %v, %v; want %d", tt.name, m, ok, tt.want)
		}
	}
	if _, ok := MonthByName("smarch"); ok {
		t.Error("MonthByName(smarch) should fail")
	}
}

func TestJSONDeterministic(t *testing.T) {
	e := New(field.Article)
	e.CiteKey = "key"
	e.SetField(field.Year, "2017")
	e.SetField(field.Author, "A and B")
	e.SetField(field.Title, "T")

	first, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"type":"article","citekey":"key","fields":{"author":"A and B","title":"T","year":"2017"}}`
	if string(first) != want {
		t.Errorf("Marshal = %s\nwant %s", first, want)
	}

	var back Entry
	if err := json.Unmarshal(first, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !e.Equal(&back) {
		t.Errorf("decoded entry differs: %v", back.Fields())
	}
}

func TestUnmarshalDropsBlankValues(t *testing.T) {
	var e Entry
	if err := json.Unmarshal([]byte(`{"type":"misc","fields":{"Title":"T","note":""}}`), &e); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if e.HasField(field.Note) {
		t.Error("blank note should be dropped")
	}
	if v, _ := e.Field(field.Title); v != "T" {
		t.Errorf("title = %q, want T (normalized key)", v)
	}
}
