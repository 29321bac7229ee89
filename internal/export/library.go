package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/Siedlerchr/jabref/internal/doi"
	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
)

// Library is what an existing .bib file already holds: its cite keys and
// the DOIs of its entries. It is only used to avoid duplicate appends and
// is not a BibTeX parser.
type Library struct {
	keys map[string]struct{}
	dois map[string]string // lowercased DOI -> cite key
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{
		keys: make(map[string]struct{}),
		dois: make(map[string]string),
	}
}

var (
	headerPattern   = regexp.MustCompile(`^\s*@(\w+)\s*[{(]\s*([^,\s]+)\s*,`)
	doiFieldPattern = regexp.MustCompile(`(?i)^\s*doi\s*=\s*[{"]?\s*([^}",]+)`)
)

// nonEntries are the @-commands that carry no cite key.
var nonEntries = map[string]bool{"comment": true, "string": true, "preamble": true}

// ReadLibrary scans BibTeX text line by line, recording entry headers and
// doi fields. A doi field belongs to the nearest header above it.
func ReadLibrary(r io.Reader) (*Library, error) {
	lib := NewLibrary()
	var current string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			if nonEntries[strings.ToLower(m[1])] {
				current = ""
				continue
			}
			current = m[2]
			lib.keys[current] = struct{}{}
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), "@") {
			current = ""
			continue
		}
		if current == "" {
			continue
		}
		if m := doiFieldPattern.FindStringSubmatch(line); m != nil {
			if d, ok := doi.Parse(m[1]); ok {
				lib.dois[strings.ToLower(d.String())] = current
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading bibtex: %w", err)
	}
	return lib, nil
}

// LoadLibrary reads the .bib file at path. A missing file is an empty
// library.
func LoadLibrary(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewLibrary(), nil
		}
		return nil, fmt.Errorf("opening bibtex file: %w", err)
	}
	defer f.Close()
	return ReadLibrary(f)
}

// Len returns the number of entries seen.
func (l *Library) Len() int { return len(l.keys) }

// HasKey reports whether key is taken.
func (l *Library) HasKey(key string) bool {
	_, ok := l.keys[key]
	return ok
}

// KeyForDOI returns the cite key of the entry carrying d, compared
// case-insensitively.
func (l *Library) KeyForDOI(d doi.DOI) (string, bool) {
	key, ok := l.dois[strings.ToLower(d.String())]
	return key, ok
}

// Contains reports whether e is already present. A parsable DOI decides
// when e has one; otherwise the cite key does.
func (l *Library) Contains(e *entry.Entry) bool {
	if d, ok := entryDOI(e); ok {
		if _, found := l.KeyForDOI(d); found {
			return true
		}
	}
	return e.CiteKey != "" && l.HasKey(e.CiteKey)
}

// Add records e and returns the key it is filed under. An entry without a
// cite key gets a generated one, suffixed a, b, ... when already taken.
func (l *Library) Add(e *entry.Entry) string {
	key := e.CiteKey
	if key == "" {
		key = l.freeKey(GenerateKey(e))
	}
	l.keys[key] = struct{}{}
	if d, ok := entryDOI(e); ok {
		l.dois[strings.ToLower(d.String())] = key
	}
	return key
}

func (l *Library) freeKey(base string) string {
	if !l.HasKey(base) {
		return base
	}
	for n := 0; ; n++ {
		if key := base + keySuffix(n); !l.HasKey(key) {
			return key
		}
	}
}

// keySuffix maps 0, 1, ..., 25, 26 to a, b, ..., z, aa.
func keySuffix(n int) string {
	var b []byte
	for n++; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('a' + (n-1)%26)}, b...)
	}
	return string(b)
}

func entryDOI(e *entry.Entry) (doi.DOI, bool) {
	raw, ok := e.Field(field.DOI)
	if !ok {
		return doi.DOI{}, false
	}
	return doi.Parse(raw)
}

// AppendEntries appends to the .bib file at path every entry it does not
// already contain, and reports how many were added and skipped. Entries
// are written under the keys Add assigns; the caller's entries are not
// modified.
func AppendEntries(path string, entries []*entry.Entry) (added, skipped int, err error) {
	lib, err := LoadLibrary(path)
	if err != nil {
		return 0, 0, err
	}

	var fresh []*entry.Entry
	for _, e := range entries {
		if lib.Contains(e) {
			skipped++
			continue
		}
		if key := lib.Add(e); key != e.CiteKey {
			e = e.Clone()
			e.CiteKey = key
		}
		fresh = append(fresh, e)
	}
	if len(fresh) == 0 {
		return 0, skipped, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return 0, skipped, fmt.Errorf("opening bibtex file: %w", err)
	}
	if _, err := io.WriteString(f, "\n"+ToBibTeXList(fresh)); err != nil {
		f.Close()
		return 0, skipped, fmt.Errorf("appending entries: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, skipped, err
	}
	return len(fresh), skipped, nil
}
