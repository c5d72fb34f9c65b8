package janitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"bgpanel/config"
	"bgpanel/core/store"
	"bgpanel/core/utils"
)

type fakeSessions struct {
	store.SessionsStore
	mu     sync.Mutex
	purged int
}

func (f *fakeSessions) PurgeExpired(_ context.Context, _ time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purged++
	return 2, nil
}

type fakeAudit struct {
	store.AuditStore
	mu     sync.Mutex
	cutoff time.Time
	calls  int
}

func (f *fakeAudit) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoff = cutoff
	f.calls++
	return 1, nil
}

func TestRunOncePurgesSessionsAndAudit(t *testing.T) {
	sessions := &fakeSessions{}
	audit := &fakeAudit{}
	j := New(config.JanitorConfig{Enabled: true, AuditRetention: 30}, sessions, audit, utils.NewLogger())

	j.RunOnce()

	if sessions.purged != 1 {
		t.Fatalf("expected one purge pass, got %d", sessions.purged)
	}
	if audit.calls != 1 {
		t.Fatalf("expected one audit prune, got %d", audit.calls)
	}
	wantCutoff := time.Now().UTC().AddDate(0, 0, -30)
	if diff := audit.cutoff.Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("cutoff %v not near %v", audit.cutoff, wantCutoff)
	}
}

func TestRunOnceSkipsAuditWhenRetentionDisabled(t *testing.T) {
	sessions := &fakeSessions{}
	audit := &fakeAudit{}
	j := New(config.JanitorConfig{Enabled: true, AuditRetention: 0}, sessions, audit, utils.NewLogger())

	j.RunOnce()

	if audit.calls != 0 {
		t.Fatalf("audit prune must be skipped when retention is zero")
	}
}

func TestStartDisabled(t *testing.T) {
	j := New(config.JanitorConfig{Enabled: false}, &fakeSessions{}, &fakeAudit{}, utils.NewLogger())
	if err := j.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	j.Stop()
}
