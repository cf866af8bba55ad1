package session

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"jobsight/internal/browser"
	"jobsight/internal/logging"
)

// Janitor periodically stops idle watch sessions and prunes idle host limiters
type Janitor struct {
	cron     *cron.Cron
	spec     string
	idle     time.Duration
	sessions *Manager
	limiter  *browser.HostLimiter
	logger   logging.Logger
}

// NewJanitor creates a janitor running on a cron spec such as "@every 1m"
func NewJanitor(spec string, idle time.Duration, sessions *Manager, limiter *browser.HostLimiter) *Janitor {
	logger := logging.GetGlobalLogger().WithField("component", "janitor")
	return &Janitor{
		cron:     cron.New(cron.WithLogger(cronLogger{logger})),
		spec:     spec,
		idle:     idle,
		sessions: sessions,
		limiter:  limiter,
		logger:   logger,
	}
}

// Start registers the sweep and starts the scheduler
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.Sweep); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	j.cron.Start()
	j.logger.Info("Cleanup scheduler started", map[string]interface{}{
		"spec":         j.spec,
		"idle_timeout": j.idle.String(),
	})
	return nil
}

// Stop waits for a running sweep to finish
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Cleanup scheduler stopped")
}

// Sweep runs one cleanup pass
func (j *Janitor) Sweep() {
	stopped := 0
	if j.sessions != nil {
		stopped = j.sessions.StopIdle(j.idle)
	}
	pruned := 0
	if j.limiter != nil {
		pruned = j.limiter.Prune(j.idle)
	}
	if stopped > 0 || pruned > 0 {
		j.logger.Info("Cleanup pass finished", map[string]interface{}{
			"sessions_stopped": stopped,
			"hosts_pruned":     pruned,
		})
	}
}

// cronLogger routes cron's own logging through ours
type cronLogger struct {
	logger logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, pairs(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.WithError(err).Error("cron: "+msg, pairs(keysAndValues))
}

func pairs(kv []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
