package notify

import (
	"context"
	"errors"
	"fmt"

	"jobsight/internal/extractor"
	"jobsight/internal/logging"
	"jobsight/pkg/models"
)

// Fanout delivers each posting to every registered notifier in order. A
// failing notifier does not stop the others.
type Fanout struct {
	targets []target
}

type target struct {
	name     string
	notifier extractor.Notifier
}

// NewFanout creates an empty fan-out
func NewFanout() *Fanout {
	return &Fanout{}
}

// Add registers a notifier under name; nil notifiers are skipped
func (f *Fanout) Add(name string, n extractor.Notifier) *Fanout {
	if n != nil {
		f.targets = append(f.targets, target{name: name, notifier: n})
	}
	return f
}

// Names lists the registered notifiers
func (f *Fanout) Names() []string {
	names := make([]string, 0, len(f.targets))
	for _, t := range f.targets {
		names = append(names, t.name)
	}
	return names
}

// Notify calls every notifier once and joins their errors
func (f *Fanout) Notify(ctx context.Context, posting *models.JobPosting) error {
	var errs []error
	for _, t := range f.targets {
		if err := t.notifier.Notify(ctx, posting); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.name, err))
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes a one-line summary of each posting
type LogNotifier struct {
	logger logging.Logger
}

// NewLogNotifier creates a notifier logging through logger, or the global
// logger when nil
func NewLogNotifier(logger logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &LogNotifier{logger: logger.WithField("component", "notify")}
}

func (n *LogNotifier) Notify(_ context.Context, posting *models.JobPosting) error {
	n.logger.Info("Job posting emitted", map[string]interface{}{
		"url":      posting.SourceURL,
		"title":    posting.TitleOrEmpty(),
		"company":  posting.CompanyOrEmpty(),
		"location": posting.LocationOrEmpty(),
		"skills":   posting.Skills,
	})
	return nil
}
