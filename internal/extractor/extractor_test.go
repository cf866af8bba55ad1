package extractor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsight/internal/logging"
	"jobsight/pkg/models"
)

type recordingNotifier struct {
	mu       sync.Mutex
	postings []*models.JobPosting
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, p *models.JobPosting) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.postings = append(n.postings, p)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.postings)
}

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newTestExtractor(n Notifier) *Extractor {
	return New(n, WithLogger(logging.NewMultiLogger()), WithClock(func() time.Time { return fixedNow }))
}

const indeedDescription = "We are hiring a Senior Engineer to build APIs in Python on AWS. " +
	"Requirements: 5 years of backend experience with Docker and Kubernetes in production environments."

const indeedPage = `<html><head><title>Senior Engineer - Acme - Indeed.com</title></head><body>
<h1 data-testid="jobsearch-JobInfoHeader-title">Senior Engineer</h1>
<div data-testid="inlineHeader-companyName">Acme</div>
<div data-testid="inlineHeader-companyLocation">Austin, TX</div>
<div id="jobDescriptionText">
  <p>` + indeedDescription + `</p>
</div>
</body></html>`

func TestExtractor_Scan_IndeedEndToEnd(t *testing.T) {
	n := &recordingNotifier{}
	e := newTestExtractor(n)
	doc := mustParse(t, indeedPage)

	state, err := e.Scan(context.Background(), "https://www.indeed.com/viewjob?jk=abc123", doc)
	require.NoError(t, err)

	assert.True(t, state.IsJobPage)
	require.NotNil(t, state.JobData)
	job := state.JobData
	assert.Equal(t, "Senior Engineer", job.TitleOrEmpty())
	assert.Equal(t, "Acme", job.CompanyOrEmpty())
	assert.Equal(t, "Austin, TX", job.LocationOrEmpty())
	assert.Equal(t, indeedDescription, job.DescriptionOrEmpty())
	assert.GreaterOrEqual(t, len(job.DescriptionOrEmpty()), 150)
	assert.Equal(t, []string{"5 years of backend experience with Docker and Kubernetes in production environments."}, job.Requirements)
	assert.Equal(t, []string{"Python", "AWS", "Docker", "Kubernetes", "API"}, job.Skills)
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=abc123", job.SourceURL)
	assert.Equal(t, fixedNow, job.ExtractedAt)

	e.Wait()
	require.Equal(t, 1, n.count())
	assert.Same(t, job, n.postings[0])
	assert.Equal(t, state, e.Current())
}

func TestExtractor_Scan(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		html       string
		wantJob    bool
		wantData   bool
		wantNotify int
	}{
		{
			name:       "not a job page",
			url:        "https://example.com/recipes",
			html:       `<html><head><title>Soup</title></head><body><h1>Tomato soup</h1></body></html>`,
			wantJob:    false,
			wantData:   false,
			wantNotify: 0,
		},
		{
			name:       "job page without description is not emitted",
			url:        "https://acme.dev/careers/42",
			html:       `<html><body><h1>Platform Engineer</h1></body></html>`,
			wantJob:    true,
			wantData:   false,
			wantNotify: 0,
		},
		{
			name:       "job page without title is not emitted",
			url:        "https://acme.dev/careers/42",
			html:       `<html><body><div class="description">` + indeedDescription + `</div></body></html>`,
			wantJob:    true,
			wantData:   false,
			wantNotify: 0,
		},
		{
			name:       "generic page with title and long description",
			url:        "https://acme.dev/careers/42",
			html:       `<html><body><h1>Platform Engineer</h1><div class="description">` + indeedDescription + `</div></body></html>`,
			wantJob:    true,
			wantData:   true,
			wantNotify: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &recordingNotifier{}
			e := newTestExtractor(n)

			state, err := e.Scan(context.Background(), tt.url, mustParse(t, tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.wantJob, state.IsJobPage)
			assert.Equal(t, tt.wantData, state.JobData != nil)
			e.Wait()
			assert.Equal(t, tt.wantNotify, n.count())
		})
	}
}

func TestExtractor_Scan_StaleDocument(t *testing.T) {
	n := &recordingNotifier{}
	e := newTestExtractor(n)

	first, err := e.Scan(context.Background(), "https://www.indeed.com/viewjob?jk=1", mustParse(t, indeedPage))
	require.NoError(t, err)

	stale := mustParse(t, `<html><body>nothing</body></html>`)
	stale.Detach()

	state, err := e.Scan(context.Background(), "https://example.com", stale)
	assert.ErrorIs(t, err, ErrStaleDocument)
	assert.Equal(t, first, state)
	assert.Equal(t, first, e.Current())
	e.Wait()
	assert.Equal(t, 1, n.count())
}

func TestExtractor_Scan_NavigatedDuringScan(t *testing.T) {
	n := &recordingNotifier{}
	e := newTestExtractor(n)

	calls := 0
	doc := mustParse(t, indeedPage).WithLiveness(func() bool {
		calls++
		return calls == 1
	})

	_, err := e.Scan(context.Background(), "https://www.indeed.com/viewjob?jk=1", doc)
	assert.ErrorIs(t, err, ErrStaleDocument)
	assert.Nil(t, e.Current().JobData)
	e.Wait()
	assert.Zero(t, n.count())
}

func TestExtractor_Scan_NotifierFailureIsNotFatal(t *testing.T) {
	n := &recordingNotifier{err: errors.New("port disconnected")}
	e := newTestExtractor(n)

	state, err := e.Scan(context.Background(), "https://www.indeed.com/viewjob?jk=1", mustParse(t, indeedPage))
	require.NoError(t, err)
	assert.NotNil(t, state.JobData)
	e.Wait()
	assert.Equal(t, 1, n.count())
}

func TestExtractor_SupersedesPreviousState(t *testing.T) {
	e := newTestExtractor(nil)

	_, err := e.Scan(context.Background(), "https://www.indeed.com/viewjob?jk=1", mustParse(t, indeedPage))
	require.NoError(t, err)
	require.NotNil(t, e.Current().JobData)

	_, err = e.Scan(context.Background(), "https://example.com/recipes", mustParse(t, `<html><body>soup</body></html>`))
	require.NoError(t, err)
	assert.False(t, e.Current().IsJobPage)
	assert.Nil(t, e.Current().JobData)
}

func TestExtractor_Build_NoDescription(t *testing.T) {
	e := newTestExtractor(nil)
	p := e.Build("https://acme.dev/careers/1", "acme.dev", mustParse(t, `<h1>Platform Engineer</h1>`))

	assert.False(t, p.IsValid())
	assert.Nil(t, p.Description)
	assert.Empty(t, p.Requirements)
	assert.Empty(t, p.Skills)
	assert.NotNil(t, p.Requirements)
}

func TestExtractor_Scan_DoesNotWaitForNotifier(t *testing.T) {
	release := make(chan struct{})
	delivered := make(chan error, 1)
	slow := NotifierFunc(func(ctx context.Context, _ *models.JobPosting) error {
		<-release
		delivered <- ctx.Err()
		return nil
	})
	e := New(slow, WithLogger(logging.NewMultiLogger()), WithNotifyTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	state, err := e.Scan(ctx, "https://www.indeed.com/viewjob?jk=1", mustParse(t, indeedPage))
	require.NoError(t, err)
	require.NotNil(t, state.JobData)

	// the request is gone before the sink finishes
	cancel()
	close(release)
	e.Wait()
	assert.NoError(t, <-delivered)
}

func TestExtractor_NotifyTimeoutBoundsDelivery(t *testing.T) {
	stuck := NotifierFunc(func(ctx context.Context, _ *models.JobPosting) error {
		<-ctx.Done()
		return ctx.Err()
	})
	e := New(stuck, WithLogger(logging.NewMultiLogger()), WithNotifyTimeout(20*time.Millisecond))

	_, err := e.Scan(context.Background(), "https://www.indeed.com/viewjob?jk=1", mustParse(t, indeedPage))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		e.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notification outlived its timeout")
	}
}
