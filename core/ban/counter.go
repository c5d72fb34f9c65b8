package ban

import (
	"sync"
	"time"
)

const maxEntries = 10000

type entry struct {
	failures  int
	bannedAt  time.Time
	updatedAt time.Time
}

// Counter tracks failed login attempts per client key and bans a key for a
// fixed duration once it crosses the threshold. While a key is banned its
// attempts are rejected regardless of the credentials presented.
type Counter struct {
	mu        sync.Mutex
	entries   map[string]*entry
	threshold int
	duration  time.Duration
	now       func() time.Time
}

func NewCounter(threshold int, duration time.Duration) *Counter {
	if threshold < 1 {
		threshold = 1
	}
	if duration <= 0 {
		duration = 10 * time.Minute
	}
	return &Counter{
		entries:   make(map[string]*entry),
		threshold: threshold,
		duration:  duration,
		now:       time.Now,
	}
}

// Increment records a failed attempt and reports whether the key is now
// banned.
func (c *Counter) Increment(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.cleanupLocked(now)
	e := c.entries[key]
	if e == nil {
		if len(c.entries) >= maxEntries {
			c.evictOldestLocked()
		}
		e = &entry{}
		c.entries[key] = e
	}
	e.failures++
	e.updatedAt = now
	if e.failures >= c.threshold && e.bannedAt.IsZero() {
		e.bannedAt = now
	}
	return c.bannedLocked(e, now)
}

// Reset clears the failure count for a key after a successful login.
func (c *Counter) Reset(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Counter) IsBanned(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[key]
	if e == nil {
		return false
	}
	return c.bannedLocked(e, c.now())
}

// RetryAfter returns the remaining ban time for a key, zero when not banned.
func (c *Counter) RetryAfter(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[key]
	if e == nil || e.bannedAt.IsZero() {
		return 0
	}
	remaining := e.bannedAt.Add(c.duration).Sub(c.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *Counter) bannedLocked(e *entry, now time.Time) bool {
	if e.bannedAt.IsZero() {
		return false
	}
	if now.Sub(e.bannedAt) >= c.duration {
		e.failures = 0
		e.bannedAt = time.Time{}
		return false
	}
	return true
}

// cleanupLocked drops entries that are neither banned nor recently updated.
func (c *Counter) cleanupLocked(now time.Time) {
	for key, e := range c.entries {
		if !e.bannedAt.IsZero() {
			if now.Sub(e.bannedAt) >= c.duration {
				delete(c.entries, key)
			}
			continue
		}
		if now.Sub(e.updatedAt) >= c.duration {
			delete(c.entries, key)
		}
	}
}

func (c *Counter) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.updatedAt.Before(oldest) {
			oldestKey = key
			oldest = e.updatedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
