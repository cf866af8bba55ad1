package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsight/internal/browser"
	"jobsight/internal/config"
	"jobsight/internal/extractor"
	"jobsight/pkg/models"
)

const jobHTML = `<html><body>
<h1 class="top-card-layout__title">Backend Engineer</h1>
<div class="description__text">Requirements: Go and PostgreSQL experience</div>
</body></html>`

type fakePage struct {
	mu        sync.Mutex
	html      string
	url       string
	mutations chan extractor.Mutation
	closed    atomic.Bool
	closeOnce sync.Once
}

func newFakePage(url, html string) *fakePage {
	return &fakePage{url: url, html: html, mutations: make(chan extractor.Mutation, 8)}
}

func (p *fakePage) Mutations() <-chan extractor.Mutation { return p.mutations }

func (p *fakePage) Snapshot(context.Context) (*extractor.HTMLDocument, error) {
	p.mu.Lock()
	html := p.html
	p.mu.Unlock()
	doc, err := extractor.ParseHTML(html)
	if err != nil {
		return nil, err
	}
	return doc.WithLiveness(func() bool { return !p.closed.Load() }), nil
}

func (p *fakePage) setHTML(html string) {
	p.mu.Lock()
	p.html = html
	p.mu.Unlock()
}

func (p *fakePage) URL() string { return p.url }
func (p *fakePage) IsAlive() bool { return !p.closed.Load() }
func (p *fakePage) Close() error {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.mutations)
	})
	return nil
}

type fakeOpener struct {
	pages map[string]*fakePage
	err   error
}

func (o *fakeOpener) Open(_ context.Context, url string) (browser.LivePage, error) {
	if o.err != nil {
		return nil, o.err
	}
	p, ok := o.pages[url]
	if !ok {
		return nil, errors.New("no such page")
	}
	return p, nil
}

type countingNotifier struct{ n atomic.Int64 }

func (c *countingNotifier) Notify(context.Context, *models.JobPosting) error {
	c.n.Add(1)
	return nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Extractor.DebounceDelay = 10 * time.Millisecond
	return cfg
}

func TestManager_StartScansImmediately(t *testing.T) {
	url := "https://www.linkedin.com/jobs/view/42"
	page := newFakePage(url, jobHTML)
	notifier := &countingNotifier{}
	m := NewManager(testConfig(), &fakeOpener{pages: map[string]*fakePage{url: page}}, notifier)
	defer m.Shutdown()

	ws, err := m.Start(context.Background(), url)
	require.NoError(t, err)

	assert.NotEmpty(t, ws.ID)
	assert.Equal(t, url, ws.URL)
	assert.True(t, ws.State.IsJobPage)
	require.NotNil(t, ws.State.JobData)
	assert.Equal(t, "Backend Engineer", ws.State.JobData.TitleOrEmpty())
	assert.Equal(t, []string{"Go and PostgreSQL experience"}, ws.State.JobData.Requirements)
	assert.Eventually(t, func() bool { return notifier.n.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, m.Count())
}

func TestManager_RescansOnMutation(t *testing.T) {
	url := "https://www.linkedin.com/jobs/view/42"
	page := newFakePage(url, jobHTML)
	m := NewManager(testConfig(), &fakeOpener{pages: map[string]*fakePage{url: page}}, nil)
	defer m.Shutdown()

	ws, err := m.Start(context.Background(), url)
	require.NoError(t, err)

	page.setHTML(`<html><body><h1 class="top-card-layout__title">Staff Engineer</h1>
<div class="description__text">Lead the platform group.</div></body></html>`)
	page.mutations <- extractor.Mutation{AddedNodes: 3}

	require.Eventually(t, func() bool {
		got, err := m.Get(ws.ID)
		return err == nil && got.State.JobData != nil && got.State.JobData.TitleOrEmpty() == "Staff Engineer"
	}, time.Second, 5*time.Millisecond)

	got, err := m.Get(ws.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Rescans)
}

func TestManager_CanonicalizesLinkedInPanels(t *testing.T) {
	canonical := "https://www.linkedin.com/jobs/view/7"
	page := newFakePage(canonical, jobHTML)
	m := NewManager(testConfig(), &fakeOpener{pages: map[string]*fakePage{canonical: page}}, nil)
	defer m.Shutdown()

	ws, err := m.Start(context.Background(), "https://www.linkedin.com/jobs/search/?currentJobId=7")
	require.NoError(t, err)
	assert.Equal(t, canonical, ws.URL)
}

func TestManager_StopAndList(t *testing.T) {
	a := newFakePage("https://a.dev/careers/1", jobHTML)
	b := newFakePage("https://b.dev/careers/2", jobHTML)
	m := NewManager(testConfig(), &fakeOpener{pages: map[string]*fakePage{a.url: a, b.url: b}}, nil)
	defer m.Shutdown()

	first, err := m.Start(context.Background(), a.url)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), b.url)
	require.NoError(t, err)
	assert.Len(t, m.List(), 2)

	require.NoError(t, m.Stop(first.ID))
	assert.True(t, a.closed.Load())
	assert.ErrorIs(t, m.Stop(first.ID), ErrNotFound)
	_, err = m.Get(first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, m.List(), 1)
}

func TestManager_OpenFailure(t *testing.T) {
	m := NewManager(testConfig(), &fakeOpener{err: errors.New("browser down")}, nil)
	_, err := m.Start(context.Background(), "https://a.dev")
	assert.Error(t, err)
	assert.Zero(t, m.Count())
}

func TestManager_StopIdle(t *testing.T) {
	url := "https://a.dev/careers/1"
	page := newFakePage(url, jobHTML)
	m := NewManager(testConfig(), &fakeOpener{pages: map[string]*fakePage{url: page}}, nil)
	defer m.Shutdown()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	_, err := m.Start(context.Background(), url)
	require.NoError(t, err)

	assert.Zero(t, m.StopIdle(time.Hour))

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, m.StopIdle(time.Hour))
	assert.Zero(t, m.Count())
	assert.True(t, page.closed.Load())
}

func TestJanitor_Sweep(t *testing.T) {
	url := "https://a.dev/careers/1"
	page := newFakePage(url, jobHTML)
	m := NewManager(testConfig(), &fakeOpener{pages: map[string]*fakePage{url: page}}, nil)
	defer m.Shutdown()

	_, err := m.Start(context.Background(), url)
	require.NoError(t, err)
	require.NoError(t, page.Close())

	j := NewJanitor("@every 1h", time.Hour, m, nil)
	require.NoError(t, j.Start())
	defer j.Stop()

	j.Sweep()
	assert.Zero(t, m.Count())
}

func TestJanitor_BadSpec(t *testing.T) {
	j := NewJanitor("every now and then", time.Minute, nil, nil)
	assert.Error(t, j.Start())
}
