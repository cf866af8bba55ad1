package extractor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"jobsight/internal/logging"
)

// Mutation is one batch of structural changes observed on a page
type Mutation struct {
	AddedNodes int
}

// MutationSource delivers observed mutations until the page goes away,
// at which point the channel is closed
type MutationSource interface {
	Mutations() <-chan Mutation
}

// DebounceMode selects how qualifying mutations schedule rescans
type DebounceMode string

const (
	// ModeDebounce keeps one pending rescan, re-armed by every qualifying
	// mutation; a burst produces a single rescan once the page settles.
	ModeDebounce DebounceMode = "debounce"

	// ModeFixed schedules a rescan per qualifying mutation, each after the
	// same fixed delay. A burst produces one rescan per mutation.
	ModeFixed DebounceMode = "fixed"
)

// DefaultDebounceDelay is used when WatcherConfig.Delay is zero
const DefaultDebounceDelay = time.Second

// RescanFunc performs one classification and extraction pass
type RescanFunc func(ctx context.Context) error

// WatcherConfig configures a ChangeWatcher
type WatcherConfig struct {
	Delay  time.Duration
	Mode   DebounceMode
	IsLive func() bool
	Logger logging.Logger
}

// timer is the part of *time.Timer the watcher uses
type timer interface {
	Stop() bool
}

func afterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

// ChangeWatcher re-runs extraction after DOM additions settle
type ChangeWatcher struct {
	delay     time.Duration
	mode      DebounceMode
	isLive    func() bool
	rescan    RescanFunc
	logger    logging.Logger
	afterFunc func(time.Duration, func()) timer
	rescans   atomic.Int64
	skipped   atomic.Int64
}

// NewChangeWatcher creates a watcher that calls rescan
func NewChangeWatcher(rescan RescanFunc, cfg WatcherConfig) *ChangeWatcher {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDebounceDelay
	}
	if cfg.Mode != ModeFixed {
		cfg.Mode = ModeDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetGlobalLogger()
	}
	return &ChangeWatcher{
		delay:     cfg.Delay,
		mode:      cfg.Mode,
		isLive:    cfg.IsLive,
		rescan:    rescan,
		logger:    cfg.Logger,
		afterFunc: afterFunc,
	}
}

// Rescans returns how many rescans have run
func (w *ChangeWatcher) Rescans() int64 {
	return w.rescans.Load()
}

// Skipped returns how many rescans were dropped because the document was stale
func (w *ChangeWatcher) Skipped() int64 {
	return w.skipped.Load()
}

// Run consumes mutations from src until ctx is done or src closes. Rescans run
// on the calling goroutine, one at a time. Timers that have not fired when Run
// returns are stopped.
func (w *ChangeWatcher) Run(ctx context.Context, src MutationSource) error {
	mutations := src.Mutations()
	fires := make(chan uint64)
	done := make(chan struct{})

	var (
		nextID  uint64
		pending = make(map[uint64]timer)
		current uint64
	)

	defer func() {
		close(done)
		for _, t := range pending {
			t.Stop()
		}
	}()

	schedule := func() {
		nextID++
		id := nextID
		pending[id] = w.afterFunc(w.delay, func() {
			select {
			case fires <- id:
			case <-done:
			}
		})
		current = id
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case m, ok := <-mutations:
			if !ok {
				return nil
			}
			if m.AddedNodes <= 0 {
				continue
			}
			if w.mode == ModeDebounce && current != 0 {
				if t, ok := pending[current]; ok {
					t.Stop()
					delete(pending, current)
				}
			}
			schedule()

		case id := <-fires:
			delete(pending, id)
			if w.mode == ModeDebounce {
				// a timer that fired while being re-armed has been superseded
				if id != current {
					continue
				}
				current = 0
			}
			w.fire(ctx)
		}
	}
}

func (w *ChangeWatcher) fire(ctx context.Context) {
	if w.isLive != nil && !w.isLive() {
		w.skipped.Add(1)
		w.logger.Debug("Skipping rescan of stale document")
		return
	}

	w.rescans.Add(1)
	if err := w.rescan(ctx); err != nil {
		if errors.Is(err, ErrStaleDocument) {
			w.skipped.Add(1)
			w.logger.Debug("Rescan found a stale document")
			return
		}
		w.logger.Warn("Rescan failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// ChannelSource adapts a plain channel to MutationSource
type ChannelSource chan Mutation

func (c ChannelSource) Mutations() <-chan Mutation { return c }
