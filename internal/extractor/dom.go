package extractor

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
)

// Document is the read-only view of a page the extractor works against.
// Implementations must not mutate the underlying page.
type Document interface {
	// QueryText returns the text content of the first element matching
	// selector and whether any element matched.
	QueryText(selector string) (string, bool)

	// Title returns the document title.
	Title() string

	// BodyText returns the visible text of the body.
	BodyText() string

	// IsLive reports whether the document still reflects the page it was
	// taken from. A stale document must not be acted upon.
	IsLive() bool
}

// HTMLDocument is a Document over a goquery parse of a static HTML snapshot
type HTMLDocument struct {
	doc      *goquery.Document
	liveness func() bool
	detached atomic.Bool
}

// NewHTMLDocument parses r into a document
func NewHTMLDocument(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &HTMLDocument{doc: doc}, nil
}

// ParseHTML parses an HTML string into a document
func ParseHTML(html string) (*HTMLDocument, error) {
	return NewHTMLDocument(strings.NewReader(html))
}

// WithLiveness ties the document's liveness to check, typically a comparison
// against the owning page's navigation generation.
func (d *HTMLDocument) WithLiveness(check func() bool) *HTMLDocument {
	d.liveness = check
	return d
}

// Detach marks the document stale
func (d *HTMLDocument) Detach() {
	d.detached.Store(true)
}

func (d *HTMLDocument) QueryText(selector string) (string, bool) {
	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return "", false
	}
	return sel.First().Text(), true
}

func (d *HTMLDocument) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// BodyText returns body text with script, style and noscript content removed
func (d *HTMLDocument) BodyText() string {
	body := d.doc.Find("body").First().Clone()
	body.Find("script, style, noscript, template").Remove()
	return body.Text()
}

func (d *HTMLDocument) IsLive() bool {
	if d.detached.Load() {
		return false
	}
	if d.liveness != nil {
		return d.liveness()
	}
	return true
}
