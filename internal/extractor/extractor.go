package extractor

import (
	"context"
	"errors"
	"sync"
	"time"

	"jobsight/internal/logging"
	"jobsight/pkg/models"
	"jobsight/pkg/utils"
)

// ErrStaleDocument is returned when a scan is asked to act on a document the
// page has since navigated away from. Callers treat it as a no-op.
var ErrStaleDocument = errors.New("document is no longer live")

// Notifier receives each valid posting once per pass. Delivery runs in the
// background; a failed notification is logged and never retried.
type Notifier interface {
	Notify(ctx context.Context, posting *models.JobPosting) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, posting *models.JobPosting) error

func (f NotifierFunc) Notify(ctx context.Context, posting *models.JobPosting) error {
	return f(ctx, posting)
}

// Option configures an Extractor
type Option func(*Extractor)

// WithRuleset replaces the built-in selector tables
func WithRuleset(rules *Ruleset) Option {
	return func(e *Extractor) { e.rules = rules }
}

// WithMinDescriptionLength sets the generic description floor
func WithMinDescriptionLength(n int) Option {
	return func(e *Extractor) { e.minDescription = n }
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithNotifyTimeout bounds each notification delivery
func WithNotifyTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.notifyTimeout = d }
}

// DefaultNotifyTimeout is used when no notify timeout is configured
const DefaultNotifyTimeout = 10 * time.Second

// WithClock overrides time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// Extractor runs classification and extraction passes and keeps the result
// of the last completed one
type Extractor struct {
	rules          *Ruleset
	minDescription int
	fields         *FieldExtractor
	notifier       Notifier
	notifyTimeout  time.Duration
	logger         logging.Logger
	now            func() time.Time

	mu    sync.RWMutex
	state models.PageState

	inflight sync.WaitGroup
}

// New creates an Extractor. notifier may be nil.
func New(notifier Notifier, opts ...Option) *Extractor {
	e := &Extractor{
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.GetGlobalLogger()
	}
	if e.notifyTimeout <= 0 {
		e.notifyTimeout = DefaultNotifyTimeout
	}
	e.fields = NewFieldExtractor(e.rules, e.minDescription)
	return e
}

// Scan runs one pass over doc, replaces the stored state and returns it. A
// stale document leaves the state untouched and returns ErrStaleDocument.
func (e *Extractor) Scan(ctx context.Context, url string, doc Document) (models.PageState, error) {
	if !doc.IsLive() {
		return e.Current(), ErrStaleDocument
	}

	hostname := utils.Hostname(url)
	state := models.PageState{ScannedAt: e.now()}

	state.IsJobPage = Classify(url, hostname, doc.Title(), doc.BodyText())
	var posting *models.JobPosting
	if state.IsJobPage {
		posting = e.Build(url, hostname, doc)
		if posting.IsValid() {
			state.JobData = posting
		}
	}

	// The page may have navigated while fields were read
	if !doc.IsLive() {
		return e.Current(), ErrStaleDocument
	}

	e.mu.Lock()
	e.state = state
	e.mu.Unlock()

	logger := e.logger.WithFields(map[string]interface{}{
		"url":         url,
		"is_job_page": state.IsJobPage,
	})
	if posting != nil && !posting.IsValid() {
		logger.Debug("Job page has no title or description, nothing emitted")
	}

	if state.JobData != nil {
		logger.Info("Job posting extracted", map[string]interface{}{
			"title":        state.JobData.TitleOrEmpty(),
			"company":      state.JobData.CompanyOrEmpty(),
			"requirements": len(state.JobData.Requirements),
			"skills":       len(state.JobData.Skills),
		})
		e.notify(ctx, state.JobData)
	}

	return state, nil
}

// Build extracts every field from doc and derives requirements and skills.
// The result is not checked for validity.
func (e *Extractor) Build(url, hostname string, doc Document) *models.JobPosting {
	posting := &models.JobPosting{
		Requirements: []string{},
		Skills:       []string{},
		SourceURL:    url,
		ExtractedAt:  e.now(),
	}

	for _, field := range Fields {
		m, ok := e.fields.Match(field, hostname, doc)
		if !ok {
			continue
		}
		value := m.Value
		switch field {
		case FieldTitle:
			posting.Title = &value
		case FieldCompany:
			posting.Company = &value
		case FieldLocation:
			posting.Location = &value
		case FieldDescription:
			posting.Description = &value
		}
		e.logger.Debug("Field matched", map[string]interface{}{
			"field":    string(field),
			"tier":     string(m.Tier),
			"site":     m.Site,
			"selector": m.Selector,
		})
	}

	if posting.Description != nil {
		posting.Requirements = ParseRequirements(*posting.Description)
		posting.Skills = MatchSkills(*posting.Description)
	}
	return posting
}

// Current returns the state of the last completed pass without rescanning
func (e *Extractor) Current() models.PageState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Wait blocks until notifications already handed off have finished
func (e *Extractor) Wait() {
	e.inflight.Wait()
}

// notify delivers in the background, detached from ctx and bounded by the
// notify timeout
func (e *Extractor) notify(ctx context.Context, posting *models.JobPosting) {
	if e.notifier == nil {
		return
	}
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.notifyTimeout)
		defer cancel()
		if err := e.notifier.Notify(notifyCtx, posting); err != nil {
			e.logger.Warn("Failed to deliver job posting", map[string]interface{}{
				"url":   posting.SourceURL,
				"error": err.Error(),
			})
		}
	}()
}
