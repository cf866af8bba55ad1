package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"jobsight/internal/browser"
	"jobsight/internal/config"
	"jobsight/internal/extractor"
	"jobsight/internal/logging"
	"jobsight/pkg/models"
	"jobsight/pkg/utils"
)

// ErrNotFound is returned for unknown session ids
var ErrNotFound = errors.New("watch session not found")

// session is one live page with its own extractor and change watcher
type session struct {
	id        string
	url       string
	startedAt time.Time

	page      browser.LivePage
	extractor *extractor.Extractor
	watcher   *extractor.ChangeWatcher

	lastActive atomic.Int64
	cancel     context.CancelFunc
	done       chan struct{}
}

func (s *session) touch(t time.Time) {
	s.lastActive.Store(t.UnixNano())
}

func (s *session) view() models.WatchSession {
	return models.WatchSession{
		ID:         s.id,
		URL:        s.url,
		StartedAt:  s.startedAt,
		LastActive: time.Unix(0, s.lastActive.Load()).UTC(),
		Rescans:    s.watcher.Rescans(),
		State:      s.extractor.Current(),
	}
}

// Manager owns every watch session
type Manager struct {
	opener   browser.Opener
	notifier extractor.Notifier
	config   *config.Config
	logger   logging.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewManager creates a session manager. notifier receives postings from every
// session.
func NewManager(cfg *config.Config, opener browser.Opener, notifier extractor.Notifier) *Manager {
	return &Manager{
		opener:   opener,
		notifier: notifier,
		config:   cfg,
		logger:   logging.GetGlobalLogger().WithField("component", "watch"),
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Start opens url, runs an initial scan and keeps rescanning as the DOM changes
func (m *Manager) Start(ctx context.Context, url string) (models.WatchSession, error) {
	target := utils.CanonicalJobURL(url)

	page, err := m.opener.Open(ctx, target)
	if err != nil {
		return models.WatchSession{}, err
	}

	s := &session{
		id:        utils.GenerateRequestID(),
		url:       target,
		startedAt: m.now(),
		page:      page,
		done:      make(chan struct{}),
	}
	s.touch(s.startedAt)

	logger := m.logger.WithFields(map[string]interface{}{"session_id": s.id, "url": target})
	s.extractor = extractor.New(m.notifier,
		extractor.WithMinDescriptionLength(m.config.Extractor.MinDescriptionLength),
		extractor.WithLogger(logger),
	)

	rescan := func(ctx context.Context) error {
		doc, err := page.Snapshot(ctx)
		if err != nil {
			return err
		}
		pageURL := page.URL()
		if pageURL == "" {
			pageURL = target
		}
		if _, err := s.extractor.Scan(ctx, pageURL, doc); err != nil {
			return err
		}
		s.touch(m.now())
		return nil
	}

	s.watcher = extractor.NewChangeWatcher(rescan, extractor.WatcherConfig{
		Delay:  m.config.Extractor.DebounceDelay,
		Mode:   extractor.DebounceMode(m.config.Extractor.DebounceMode),
		IsLive: page.IsAlive,
		Logger: logger,
	})

	if err := rescan(ctx); err != nil && !errors.Is(err, extractor.ErrStaleDocument) {
		logger.Warn("Initial scan failed", map[string]interface{}{"error": err.Error()})
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() {
		defer close(s.done)
		if err := s.watcher.Run(runCtx, page); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Watcher stopped", map[string]interface{}{"error": err.Error()})
		}
	}()

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	logger.Info("Watch session started")
	return s.view(), nil
}

// Stop ends a session and closes its page
func (m *Manager) Stop(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	m.stop(s)
	return nil
}

func (m *Manager) stop(s *session) {
	s.cancel()
	if err := s.page.Close(); err != nil {
		m.logger.Warn("Failed to close watched page", map[string]interface{}{
			"session_id": s.id,
			"error":      err.Error(),
		})
	}
	<-s.done
	s.extractor.Wait()
	m.logger.Info("Watch session stopped", map[string]interface{}{
		"session_id": s.id,
		"rescans":    s.watcher.Rescans(),
		"uptime":     utils.FormatDuration(m.now().Sub(s.startedAt)),
	})
}

// Get returns one session
func (m *Manager) Get(id string) (models.WatchSession, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return models.WatchSession{}, ErrNotFound
	}
	return s.view(), nil
}

// List returns every session, oldest first
func (m *Manager) List() []models.WatchSession {
	m.mu.RLock()
	out := make([]models.WatchSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.view())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// Count returns the number of open sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StopIdle stops sessions with no completed scan within idle, and sessions
// whose page has gone away
func (m *Manager) StopIdle(idle time.Duration) int {
	cutoff := m.now().Add(-idle).UnixNano()

	m.mu.Lock()
	var expired []*session
	for id, s := range m.sessions {
		if s.lastActive.Load() < cutoff || !s.page.IsAlive() {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.stop(s)
	}
	return len(expired)
}

// Shutdown stops every session
func (m *Manager) Shutdown() {
	m.mu.Lock()
	all := make([]*session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range all {
		m.stop(s)
	}
}
