// Package doi parses and normalizes Digital Object Identifiers.
package doi

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ResolverHost is the DOI proxy used to build resolvable URIs.
const ResolverHost = "https://doi.org/"

var (
	// urlPrefix matches a doi.org resolver prefix, with or without scheme,
	// www. or dx. subdomain.
	urlPrefix = regexp.MustCompile(`(?i)^(https?://)?(dx\.|www\.)?doi\.org/`)

	// labelPrefix matches a leading "doi:" label.
	labelPrefix = regexp.MustCompile(`(?i)^doi:`)

	// shape is the full DOI syntax: 10.<registrant>/<suffix>.
	shape = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

	// inText finds DOIs embedded in free text.
	inText = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)
)

// DOI is a normalized identifier of the shape 10.<registrant>/<suffix>.
// Case is preserved as given.
type DOI struct {
	value string
}

// Parse normalizes raw into a DOI. All whitespace is removed first (DOIs
// copied across line breaks arrive with embedded spaces), then an optional
// doi.org URL prefix and an optional doi: label are stripped. Parse reports
// false when the remainder is not DOI-shaped.
func Parse(raw string) (DOI, bool) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if s == "" {
		return DOI{}, false
	}

	s = urlPrefix.ReplaceAllString(s, "")
	s = labelPrefix.ReplaceAllString(s, "")

	if !shape.MatchString(s) {
		return DOI{}, false
	}
	return DOI{value: s}, true
}

// MustParse is like Parse but panics on invalid input. Intended for tests
// and constants.
func MustParse(raw string) DOI {
	d, ok := Parse(raw)
	if !ok {
		panic("doi: invalid DOI " + raw)
	}
	return d
}

// IsValid reports whether raw parses as a DOI.
func IsValid(raw string) bool {
	_, ok := Parse(raw)
	return ok
}

// String returns the normalized DOI.
func (d DOI) String() string { return d.value }

// IsZero reports whether d is the zero value.
func (d DOI) IsZero() bool { return d.value == "" }

// URI returns the doi.org resolver URL for d.
func (d DOI) URI() string { return ResolverHost + d.PathEscape() }

// PathEscape returns d as URL path segments. Every segment is escaped on
// its own, so '/' separators (including empty segments) survive while
// '%', '?' and '#' in the suffix cannot change the request.
func (d DOI) PathEscape() string {
	segs := strings.Split(d.value, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}

// EqualFold compares two DOIs ignoring case. DOIs are case-insensitive by
// registration rules, but DOI values themselves keep their original case.
func (d DOI) EqualFold(other DOI) bool {
	return strings.EqualFold(d.value, other.value)
}

// Find returns the first DOI found in text, with trailing punctuation
// removed.
func Find(text string) (DOI, bool) {
	for _, match := range inText.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if d, ok := Parse(match); ok {
			return d, true
		}
	}
	return DOI{}, false
}
