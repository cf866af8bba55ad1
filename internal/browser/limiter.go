package browser

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"jobsight/internal/config"
	"jobsight/internal/logging"
	"jobsight/pkg/utils"
)

// CircuitState represents the state of a host circuit breaker
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

type hostLimiter struct {
	limiter      *rate.Limiter
	lastSeen     time.Time
	requests     int64
	failures     int
	lastFailTime time.Time
	state        CircuitState
}

// HostStats is a snapshot of one host's limiter
type HostStats struct {
	Requests     int64     `json:"requests"`
	Failures     int       `json:"failures"`
	CircuitState string    `json:"circuit_state"`
	LastSeen     time.Time `json:"last_seen"`
}

// HostLimiter throttles page loads per host and stops loading a host after
// repeated failures until resetTimeout has passed
type HostLimiter struct {
	limit        rate.Limit
	burst        int
	maxFailures  int
	resetTimeout time.Duration
	now          func() time.Time

	mu    sync.Mutex
	hosts map[string]*hostLimiter

	logger logging.Logger
}

// NewHostLimiter creates a limiter from the rate_limit section
func NewHostLimiter(cfg *config.Config) *HostLimiter {
	perMinute := cfg.RateLimit.PerHostPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	burst := cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}
	return &HostLimiter{
		limit:        rate.Limit(float64(perMinute) / 60.0),
		burst:        burst,
		maxFailures:  5,
		resetTimeout: 30 * time.Second,
		now:          time.Now,
		hosts:        make(map[string]*hostLimiter),
		logger:       logging.GetGlobalLogger().WithField("component", "host_limiter"),
	}
}

// Wait blocks until a load of rawURL's host is permitted. It fails fast with a
// rate limit error while the host's circuit is open.
func (hl *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	host := strings.ToLower(utils.Hostname(rawURL))

	hl.mu.Lock()
	h := hl.get(host)
	if !hl.allowCircuit(host, h) {
		hl.mu.Unlock()
		return utils.NewRateLimitError("too many recent failures for " + host)
	}
	h.requests++
	h.lastSeen = hl.now()
	limiter := h.limiter
	hl.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return utils.NewRateLimitError(err.Error())
	}
	return nil
}

// RecordSuccess closes a half-open circuit
func (hl *HostLimiter) RecordSuccess(rawURL string) {
	host := strings.ToLower(utils.Hostname(rawURL))

	hl.mu.Lock()
	defer hl.mu.Unlock()

	h, ok := hl.hosts[host]
	if !ok {
		return
	}
	if h.state == CircuitHalfOpen {
		hl.logger.Info("Circuit breaker closed after successful load", map[string]interface{}{"host": host})
	}
	h.state = CircuitClosed
	h.failures = 0
}

// RecordFailure counts a failed load and opens the circuit at the threshold
func (hl *HostLimiter) RecordFailure(rawURL string, err error) {
	host := strings.ToLower(utils.Hostname(rawURL))

	hl.mu.Lock()
	defer hl.mu.Unlock()

	h := hl.get(host)
	h.failures++
	h.lastFailTime = hl.now()

	if h.state == CircuitHalfOpen || (h.state == CircuitClosed && h.failures >= hl.maxFailures) {
		h.state = CircuitOpen
		hl.logger.Warn("Circuit breaker opened", map[string]interface{}{
			"host":     host,
			"failures": h.failures,
			"error":    err.Error(),
		})
	}
}

// Stats returns per-host statistics
func (hl *HostLimiter) Stats() map[string]HostStats {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	out := make(map[string]HostStats, len(hl.hosts))
	for host, h := range hl.hosts {
		out[host] = HostStats{
			Requests:     h.requests,
			Failures:     h.failures,
			CircuitState: h.state.String(),
			LastSeen:     h.lastSeen,
		}
	}
	return out
}

// Prune drops hosts idle for longer than maxIdle whose circuit is closed
func (hl *HostLimiter) Prune(maxIdle time.Duration) int {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	cutoff := hl.now().Add(-maxIdle)
	removed := 0
	for host, h := range hl.hosts {
		if h.state == CircuitClosed && h.lastSeen.Before(cutoff) {
			delete(hl.hosts, host)
			removed++
		}
	}
	return removed
}

// get must be called with hl.mu held
func (hl *HostLimiter) get(host string) *hostLimiter {
	if h, ok := hl.hosts[host]; ok {
		return h
	}
	h := &hostLimiter{
		limiter:  rate.NewLimiter(hl.limit, hl.burst),
		lastSeen: hl.now(),
	}
	hl.hosts[host] = h
	return h
}

// allowCircuit must be called with hl.mu held
func (hl *HostLimiter) allowCircuit(host string, h *hostLimiter) bool {
	switch h.state {
	case CircuitOpen:
		if hl.now().Sub(h.lastFailTime) > hl.resetTimeout {
			h.state = CircuitHalfOpen
			hl.logger.Info("Circuit breaker half-open", map[string]interface{}{"host": host})
			return true
		}
		return false
	default:
		return true
	}
}
