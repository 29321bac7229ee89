package entry

import "strings"

// Month is a calendar month with its BibTeX macro name.
type Month struct {
	Number int
	Short  string // BibTeX macro, e.g. "jan"
	Full   string
}

var months = [12]Month{
	{1, "jan", "January"},
	{2, "feb", "February"},
	{3, "mar", "March"},
	{4, "apr", "April"},
	{5, "may", "May"},
	{6, "jun", "June"},
	{7, "jul", "July"},
	{8, "aug", "August"},
	{9, "sep", "September"},
	{10, "oct", "October"},
	{11, "nov", "November"},
	{12, "dec", "December"},
}

// MonthByNumber returns the month for 1..12.
func MonthByNumber(n int) (Month, bool) {
	if n < 1 || n > 12 {
		return Month{}, false
	}
	return months[n-1], true
}

// MonthByName matches a macro ("jul"), a full name ("July") or a
// #jul# style reference, ignoring case.
func MonthByName(name string) (Month, bool) {
	name = strings.ToLower(strings.Trim(strings.TrimSpace(name), "#"))
	for _, m := range months {
		if name == m.Short || name == strings.ToLower(m.Full) {
			return m, true
		}
	}
	return Month{}, false
}
