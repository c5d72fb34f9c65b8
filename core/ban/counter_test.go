package ban

import (
	"testing"
	"time"
)

func fixedClock(start time.Time) (*time.Time, func() time.Time) {
	now := start
	return &now, func() time.Time { return now }
}

func TestBanAfterThreshold(t *testing.T) {
	c := NewCounter(3, 10*time.Minute)

	if c.IsBanned("10.0.0.1") {
		t.Fatalf("fresh key must not be banned")
	}
	if c.Increment("10.0.0.1") {
		t.Fatalf("1st failure must not ban")
	}
	if c.Increment("10.0.0.1") {
		t.Fatalf("2nd failure must not ban")
	}
	if !c.Increment("10.0.0.1") {
		t.Fatalf("3rd failure must ban")
	}
	if !c.IsBanned("10.0.0.1") {
		t.Fatalf("key must stay banned after threshold")
	}
	if c.RetryAfter("10.0.0.1") <= 0 {
		t.Fatalf("banned key must report remaining time")
	}

	if c.IsBanned("10.0.0.2") {
		t.Fatalf("other keys must be unaffected")
	}
}

func TestBanExpires(t *testing.T) {
	c := NewCounter(2, 10*time.Minute)
	now, clock := fixedClock(time.Now())
	c.now = clock

	c.Increment("key")
	c.Increment("key")
	if !c.IsBanned("key") {
		t.Fatalf("key must be banned")
	}

	*now = now.Add(10*time.Minute + time.Second)
	if c.IsBanned("key") {
		t.Fatalf("ban must lift after its duration")
	}
	if c.RetryAfter("key") != 0 {
		t.Fatalf("expired ban must report zero retry time")
	}
	if c.Increment("key") {
		t.Fatalf("count must restart after the ban lifts")
	}
}

func TestResetClearsFailures(t *testing.T) {
	c := NewCounter(3, 10*time.Minute)

	c.Increment("key")
	c.Increment("key")
	c.Reset("key")
	if c.Increment("key") {
		t.Fatalf("reset must clear accumulated failures")
	}
}

func TestStaleEntriesCleanedUp(t *testing.T) {
	c := NewCounter(5, time.Minute)
	now, clock := fixedClock(time.Now())
	c.now = clock

	c.Increment("stale")
	*now = now.Add(2 * time.Minute)
	c.Increment("fresh")

	c.mu.Lock()
	_, staleAlive := c.entries["stale"]
	c.mu.Unlock()
	if staleAlive {
		t.Fatalf("stale unbanned entries must be dropped")
	}
}
