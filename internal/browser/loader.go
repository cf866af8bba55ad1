package browser

import (
	"context"
	"fmt"
	"sort"

	"jobsight/internal/extractor"
	"jobsight/pkg/utils"
)

// Loader picks an engine by name and applies per-host limits around it
type Loader struct {
	engines  map[string]Engine
	limiter  *HostLimiter
	fallback string
}

// NewLoader registers engines; the first one becomes the default
func NewLoader(limiter *HostLimiter, engines ...Engine) *Loader {
	l := &Loader{
		engines: make(map[string]Engine, len(engines)),
		limiter: limiter,
	}
	for _, e := range engines {
		if e == nil {
			continue
		}
		if l.fallback == "" {
			l.fallback = e.Name()
		}
		l.engines[e.Name()] = e
	}
	return l
}

// Engines lists registered engine names
func (l *Loader) Engines() []string {
	names := make([]string, 0, len(l.engines))
	for name := range l.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default is the engine used when a request names none
func (l *Loader) Default() string {
	return l.fallback
}

// Load canonicalizes url, waits for the host limiter and snapshots the page.
// It returns the URL actually loaded.
func (l *Loader) Load(ctx context.Context, engine, url string) (*extractor.HTMLDocument, string, error) {
	if engine == "" {
		engine = l.fallback
	}
	e, ok := l.engines[engine]
	if !ok {
		return nil, "", utils.NewBadRequestError(fmt.Sprintf("unsupported engine: %s", engine))
	}

	target := utils.CanonicalJobURL(url)

	if l.limiter != nil {
		if err := l.limiter.Wait(ctx, target); err != nil {
			return nil, target, err
		}
	}

	doc, err := e.Snapshot(ctx, target)
	if l.limiter != nil {
		if err != nil {
			l.limiter.RecordFailure(target, err)
		} else {
			l.limiter.RecordSuccess(target)
		}
	}
	if err != nil {
		return nil, target, err
	}
	return doc, target, nil
}
