package janitor

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"bgpanel/config"
	"bgpanel/core/store"
	"bgpanel/core/utils"
)

// Janitor runs the periodic cleanup jobs: expired sessions and audit rows
// past the retention window.
type Janitor struct {
	cfg      config.JanitorConfig
	sessions store.SessionsStore
	audit    store.AuditStore
	logger   *utils.Logger
	cron     *cron.Cron
}

func New(cfg config.JanitorConfig, sessions store.SessionsStore, audit store.AuditStore, logger *utils.Logger) *Janitor {
	return &Janitor{
		cfg:      cfg,
		sessions: sessions,
		audit:    audit,
		logger:   logger,
		cron:     cron.New(),
	}
}

func (j *Janitor) Start() error {
	if !j.cfg.Enabled {
		return nil
	}
	schedule := j.cfg.Schedule
	if schedule == "" {
		schedule = "@every 15m"
	}
	if _, err := j.cron.AddFunc(schedule, j.RunOnce); err != nil {
		return err
	}
	j.cron.Start()
	if j.logger != nil {
		j.logger.Printf("janitor started, schedule %s", schedule)
	}
	return nil
}

func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// RunOnce performs one cleanup pass.
func (j *Janitor) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now().UTC()
	if n, err := j.sessions.PurgeExpired(ctx, now); err != nil {
		j.logger.Errorf("janitor: purge sessions: %v", err)
	} else if n > 0 {
		j.logger.Printf("janitor: purged %d expired sessions", n)
	}

	if j.cfg.AuditRetention > 0 {
		cutoff := now.AddDate(0, 0, -j.cfg.AuditRetention)
		if n, err := j.audit.DeleteOlderThan(ctx, cutoff); err != nil {
			j.logger.Errorf("janitor: prune audit log: %v", err)
		} else if n > 0 {
			j.logger.Printf("janitor: pruned %d audit entries", n)
		}
	}
}
