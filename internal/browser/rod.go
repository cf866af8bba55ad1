package browser

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"jobsight/internal/config"
	"jobsight/internal/extractor"
	"jobsight/internal/logging"
	"jobsight/pkg/utils"
)

// mutationBinding is the window function the in-page observer reports to
const mutationBinding = "__jobsightMutations"

// observerScript installs a MutationObserver on the body that reports the
// number of added nodes per batch. It is safe to run more than once.
var observerScript = fmt.Sprintf(`(() => {
	if (window.__jobsightObserver) return;
	const start = () => {
		const target = document.body || document.documentElement;
		if (!target) { setTimeout(start, 50); return; }
		window.__jobsightObserver = new MutationObserver((records) => {
			let added = 0;
			for (const r of records) added += r.addedNodes.length;
			if (added > 0) window[%q]({ added });
		});
		window.__jobsightObserver.observe(target, { childList: true, subtree: true });
	};
	start();
})()`, mutationBinding)

// RodManager owns one launched browser and hands out stealth pages from it
type RodManager struct {
	config   *config.Config
	launcher *launcher.Launcher
	pages    chan struct{}
	logger   logging.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

// NewRodManager prepares the launcher; the browser starts on first use
func NewRodManager(cfg *config.Config) *RodManager {
	logger := logging.GetGlobalLogger().WithField("engine", EngineRod)

	l := launcher.New().
		Headless(cfg.Browser.Headless).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")

	if bin := chromePath(cfg.Browser.BinPath); bin != "" {
		l = l.Bin(bin)
		logger.Info("Using system Chrome browser", map[string]interface{}{"chrome_path": bin})
	}

	maxPages := cfg.Browser.MaxPages
	if maxPages <= 0 {
		maxPages = 5
	}

	return &RodManager{
		config:   cfg,
		launcher: l,
		pages:    make(chan struct{}, maxPages),
		logger:   logger,
	}
}

func (m *RodManager) Name() string { return EngineRod }

// Snapshot loads url in a fresh page, waits for load and returns its HTML
func (m *RodManager) Snapshot(ctx context.Context, url string) (*extractor.HTMLDocument, error) {
	page, release, err := m.newPage(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := m.navigate(ctx, page, url); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, utils.NewPageLoadError(fmt.Sprintf("failed to read page HTML: %v", err))
	}
	return extractor.ParseHTML(html)
}

// Open loads url in a page that stays open, with a mutation observer attached.
// The page holds one slot of the page budget until closed.
func (m *RodManager) Open(ctx context.Context, url string) (LivePage, error) {
	page, release, err := m.newPage(ctx)
	if err != nil {
		return nil, err
	}

	pageCtx, cancel := context.WithCancel(context.Background())
	lp := &rodPage{
		page:      page.Context(pageCtx),
		cancel:    cancel,
		release:   release,
		mutations: make(chan extractor.Mutation, 64),
		logger:    m.logger.WithField("url", url),
	}

	if err := lp.attach(); err != nil {
		_ = lp.Close()
		return nil, err
	}

	if err := m.navigate(ctx, page, url); err != nil {
		_ = lp.Close()
		return nil, err
	}

	// Install on the current document too; the new-document hook only covers later loads
	if _, err := lp.page.Eval(`() => ` + observerScript); err != nil {
		lp.logger.Warn("Failed to install mutation observer", map[string]interface{}{"error": err.Error()})
	}

	return lp, nil
}

// IsHealthy reports whether the browser, once started, still answers
func (m *RodManager) IsHealthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.browser == nil {
		return true
	}
	_, err := m.browser.Version()
	return err == nil
}

// Close shuts the browser down
func (m *RodManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.browser == nil {
		return nil
	}
	err := m.browser.Close()
	m.browser = nil
	m.launcher.Kill()
	return err
}

func (m *RodManager) connect() (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		return m.browser, nil
	}

	u, err := m.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	m.browser = b
	m.logger.Info("Browser started")
	return b, nil
}

// newPage takes a slot from the page budget and opens a stealth page
func (m *RodManager) newPage(ctx context.Context) (*rod.Page, func(), error) {
	select {
	case m.pages <- struct{}{}:
	case <-ctx.Done():
		return nil, nil, utils.NewRateLimitError("no free browser page")
	}
	freeSlot := func() { <-m.pages }

	b, err := m.connect()
	if err != nil {
		freeSlot()
		return nil, nil, err
	}

	page, err := stealth.Page(b)
	if err != nil {
		freeSlot()
		return nil, nil, fmt.Errorf("failed to create stealth page: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		m.logger.Warn("Failed to set viewport", map[string]interface{}{"error": err.Error()})
	}

	if ua := m.config.Browser.UserAgent; ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      ua,
			AcceptLanguage: "en-US,en;q=0.9",
		}); err != nil {
			m.logger.Warn("Failed to set user agent", map[string]interface{}{"error": err.Error()})
		}
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := page.Close(); err != nil {
				m.logger.Debug("Failed to close page", map[string]interface{}{"error": err.Error()})
			}
			freeSlot()
		})
	}
	return page, release, nil
}

func (m *RodManager) navigate(ctx context.Context, page *rod.Page, url string) error {
	timeout := m.config.Browser.NavigationTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := page.Context(navCtx)
	if err := p.Navigate(url); err != nil {
		return utils.NewPageLoadError(fmt.Sprintf("failed to navigate to %s: %v", url, err))
	}
	if err := p.WaitLoad(); err != nil {
		return utils.NewPageLoadError(fmt.Sprintf("page did not finish loading: %v", err))
	}
	return nil
}

// rodPage is a LivePage over an open rod page
type rodPage struct {
	page      *rod.Page
	cancel    context.CancelFunc
	release   func()
	mutations chan extractor.Mutation
	logger    logging.Logger

	generation atomic.Uint64
	closed     atomic.Bool
	stopExpose func() error

	// guards sends on mutations against close
	mu sync.Mutex
}

// attach exposes the mutation binding, registers the observer for every new
// document and bumps the generation whenever the main frame navigates
func (p *rodPage) attach() error {
	stop, err := p.page.Expose(mutationBinding, func(j gson.JSON) (interface{}, error) {
		p.push(extractor.Mutation{AddedNodes: j.Get("added").Int()})
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to expose mutation binding: %w", err)
	}
	p.stopExpose = stop

	if _, err := p.page.EvalOnNewDocument(observerScript); err != nil {
		return fmt.Errorf("failed to register mutation observer: %w", err)
	}

	go p.page.EachEvent(func(e *proto.PageFrameNavigated) {
		if e.Frame != nil && e.Frame.ParentID == "" {
			p.generation.Add(1)
		}
	})()

	return nil
}

// push never blocks the browser's event loop; a full buffer already
// guarantees a pending rescan
func (p *rodPage) push(m extractor.Mutation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed.Load() {
		return
	}
	select {
	case p.mutations <- m:
	default:
	}
}

func (p *rodPage) Mutations() <-chan extractor.Mutation {
	return p.mutations
}

func (p *rodPage) Snapshot(ctx context.Context) (*extractor.HTMLDocument, error) {
	if p.closed.Load() {
		return nil, extractor.ErrStaleDocument
	}
	gen := p.generation.Load()

	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return nil, utils.NewPageLoadError(fmt.Sprintf("failed to read page HTML: %v", err))
	}
	doc, err := extractor.ParseHTML(html)
	if err != nil {
		return nil, err
	}
	return doc.WithLiveness(func() bool {
		return !p.closed.Load() && p.generation.Load() == gen
	}), nil
}

func (p *rodPage) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *rodPage) IsAlive() bool {
	return !p.closed.Load()
}

// Close stops the observer bridge, closes the page and the mutation channel
func (p *rodPage) Close() error {
	p.mu.Lock()
	if p.closed.Load() {
		p.mu.Unlock()
		return nil
	}
	p.closed.Store(true)
	close(p.mutations)
	p.mu.Unlock()

	if p.stopExpose != nil {
		_ = p.stopExpose()
	}
	p.cancel()
	p.release()
	return nil
}

// chromePath returns the configured binary, then CHROME_BIN, then a known
// install location, or "" to let rod download one
func chromePath(configured string) string {
	candidates := []string{configured, os.Getenv("CHROME_BIN"), os.Getenv("CHROME_PATH")}
	candidates = append(candidates,
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	)
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
