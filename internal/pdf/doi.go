// Package pdf pulls plain text, and the DOI printed in it, out of PDF
// files.
package pdf

import (
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Siedlerchr/jabref/internal/doi"
)

// DOIPages is the default number of leading pages searched for a DOI.
const DOIPages = 3

// Document is an opened PDF.
type Document struct {
	r     *pdf.Reader
	file  *os.File
	pages int
}

// Open opens the PDF at path. The caller must Close it.
func Open(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	return &Document{r: r, file: f, pages: r.NumPage()}, nil
}

// NewDocument reads a PDF of the given size from r.
func NewDocument(r io.ReaderAt, size int64) (*Document, error) {
	pr, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	return &Document{r: pr, pages: pr.NumPage()}, nil
}

// Close releases the underlying file, if any.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

// Pages returns the page count.
func (d *Document) Pages() int { return d.pages }

// limit clamps n to the page count; n <= 0 means every page.
func (d *Document) limit(n int) int {
	if n <= 0 || n > d.pages {
		return d.pages
	}
	return n
}

// PageText returns the plain text of page n (1-based). Blank and
// unreadable pages give "".
func (d *Document) PageText(n int) string {
	if n < 1 || n > d.pages {
		return ""
	}
	p := d.r.Page(n)
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// Text joins the text of the first n pages, one page per line group.
func (d *Document) Text(n int) string {
	var sb strings.Builder
	for i := 1; i <= d.limit(n); i++ {
		if t := d.PageText(i); t != "" {
			sb.WriteString(t)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// FindDOI returns the first DOI found on the first n pages, scanning page
// by page so an early match skips the rest.
func (d *Document) FindDOI(n int) (doi.DOI, bool) {
	for i := 1; i <= d.limit(n); i++ {
		if found, ok := doi.Find(d.PageText(i)); ok {
			return found, true
		}
	}
	return doi.DOI{}, false
}

// ExtractDOI opens path and searches its first DOIPages pages. A PDF with
// no DOI there gives false and no error.
func ExtractDOI(path string) (doi.DOI, bool, error) {
	d, err := Open(path)
	if err != nil {
		return doi.DOI{}, false, err
	}
	defer d.Close()
	found, ok := d.FindDOI(DOIPages)
	return found, ok, nil
}

// ExtractDOIReader is ExtractDOI for an in-memory PDF.
func ExtractDOIReader(r io.ReaderAt, size int64) (doi.DOI, bool, error) {
	d, err := NewDocument(r, size)
	if err != nil {
		return doi.DOI{}, false, err
	}
	found, ok := d.FindDOI(DOIPages)
	return found, ok, nil
}

// ExtractText returns the text of the first maxPages pages of path.
func ExtractText(path string, maxPages int) (string, error) {
	d, err := Open(path)
	if err != nil {
		return "", err
	}
	defer d.Close()
	return d.Text(maxPages), nil
}
