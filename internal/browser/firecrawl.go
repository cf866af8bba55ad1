package browser

import (
	"context"
	"fmt"

	"github.com/mendableai/firecrawl-go"

	"jobsight/internal/config"
	"jobsight/internal/extractor"
	"jobsight/internal/logging"
	"jobsight/pkg/utils"
)

// FirecrawlEngine loads pages through the Firecrawl API and returns their
// rendered HTML
type FirecrawlEngine struct {
	app    *firecrawl.FirecrawlApp
	logger logging.Logger
}

// NewFirecrawlEngine creates an engine; it fails when no API key is configured
func NewFirecrawlEngine(cfg *config.Config) (*FirecrawlEngine, error) {
	if cfg.Firecrawl.APIKey == "" {
		return nil, fmt.Errorf("firecrawl api key is not configured")
	}
	app, err := firecrawl.NewFirecrawlApp(cfg.Firecrawl.APIKey, cfg.Firecrawl.APIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firecrawl: %w", err)
	}
	return &FirecrawlEngine{
		app:    app,
		logger: logging.GetGlobalLogger().WithField("engine", EngineFirecrawl),
	}, nil
}

func (f *FirecrawlEngine) Name() string { return EngineFirecrawl }

// Snapshot scrapes url and parses the returned HTML. The SDK call is not
// cancellable; ctx only bounds how long the caller waits for it.
func (f *FirecrawlEngine) Snapshot(ctx context.Context, url string) (*extractor.HTMLDocument, error) {
	type result struct {
		doc *firecrawl.FirecrawlDocument
		err error
	}
	ch := make(chan result, 1)

	go func() {
		doc, err := f.app.ScrapeURL(url, &firecrawl.ScrapeParams{Formats: []string{"html"}})
		ch <- result{doc: doc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, utils.NewPageLoadError(ctx.Err().Error())
	case r := <-ch:
		if r.err != nil {
			return nil, utils.NewPageLoadError(r.err.Error())
		}
		if r.doc == nil || r.doc.HTML == "" {
			return nil, utils.NewPageLoadError("firecrawl returned no html")
		}
		f.logger.Debug("Firecrawl snapshot received", map[string]interface{}{
			"url":   url,
			"bytes": len(r.doc.HTML),
		})
		return extractor.ParseHTML(r.doc.HTML)
	}
}
