// Package janitor prunes sessions that nobody has touched in a long time, so
// abandoned turn queues do not accumulate in the database forever.
package janitor

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/isitmyturn/isitmyturn/pkg/session"
	"github.com/isitmyturn/isitmyturn/pkg/utils"
)

const (
	// DefaultRetentionDays is how long a session may sit idle before pruning
	DefaultRetentionDays = 90

	// defaultSchedule runs the prune once a day at 03:00
	defaultSchedule = "0 3 * * *"
)

// Janitor periodically removes idle sessions from a store
type Janitor struct {
	pruner    session.Pruner
	retention time.Duration
	schedule  string
	cron      *cron.Cron
}

// New creates a janitor from configuration. Returns nil when JANITOR_ENABLED
// is not set; callers treat a nil janitor as disabled
func New(cfg *utils.Config, pruner session.Pruner) *Janitor {
	if !cfg.GetBool("JANITOR_ENABLED") {
		return nil
	}

	days := cfg.GetIntWithDefault("SESSION_RETENTION_DAYS", DefaultRetentionDays)
	if days <= 0 {
		days = DefaultRetentionDays
	}

	return &Janitor{
		pruner:    pruner,
		retention: time.Duration(days) * 24 * time.Hour,
		schedule:  cfg.GetWithDefault("JANITOR_SCHEDULE", defaultSchedule),
		cron:      cron.New(),
	}
}

// Start schedules the pruning job and begins the cron loop
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.RunOnce); err != nil {
		return err
	}

	j.cron.Start()
	log.Printf("[JANITOR]: Started with schedule %q, retention %s", j.schedule, j.retention)
	return nil
}

// Stop halts the cron loop. Jobs already running finish on their own
func (j *Janitor) Stop() {
	j.cron.Stop()
}

// RunOnce prunes idle sessions a single time
func (j *Janitor) RunOnce() {
	pruned, err := j.pruner.PruneSessions(context.Background(), j.retention)
	if err != nil {
		log.Printf("[JANITOR]: Failed to prune sessions: %v", err)
		return
	}

	if pruned > 0 {
		log.Printf("[JANITOR]: Pruned %d idle sessions", pruned)
	}
}
