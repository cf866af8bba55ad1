package browser

import (
	"context"

	"jobsight/internal/extractor"
)

const (
	EngineRod       = "rod"
	EngineFirecrawl = "firecrawl"
)

// Engine loads a URL and returns a static snapshot of the rendered page
type Engine interface {
	// Name returns the engine identifier used in requests
	Name() string

	// Snapshot navigates to url and returns the parsed document
	Snapshot(ctx context.Context, url string) (*extractor.HTMLDocument, error)
}

// LivePage is a page kept open so its DOM can be watched
type LivePage interface {
	extractor.MutationSource

	// Snapshot parses the current DOM. The document goes stale when the page
	// navigates or closes.
	Snapshot(ctx context.Context) (*extractor.HTMLDocument, error)

	// URL returns the page's current location
	URL() string

	// IsAlive reports whether the page is still open
	IsAlive() bool

	Close() error
}

// Opener opens live pages
type Opener interface {
	Open(ctx context.Context, url string) (LivePage, error)
}
