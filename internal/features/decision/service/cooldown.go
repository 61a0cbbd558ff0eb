package service

import (
	"sync"
	"time"
)

// Cooldown tracks when each action kind last ran and vetoes repeats inside the period
type Cooldown struct {
	period  time.Duration
	now     func() time.Time
	lastRun map[string]time.Time
	mu      sync.RWMutex
}

// NewCooldown creates a cooldown gate. A non-positive period disables the gate.
func NewCooldown(period time.Duration, now func() time.Time) *Cooldown {
	if now == nil {
		now = time.Now
	}
	return &Cooldown{
		period:  period,
		now:     now,
		lastRun: make(map[string]time.Time),
	}
}

// Active reports whether key is inside its cooldown period and how long remains
func (c *Cooldown) Active(key string) (bool, time.Duration) {
	if c.period <= 0 {
		return false, 0
	}

	c.mu.RLock()
	last, ok := c.lastRun[key]
	c.mu.RUnlock()
	if !ok {
		return false, 0
	}

	remaining := last.Add(c.period).Sub(c.now())
	if remaining <= 0 {
		return false, 0
	}
	return true, remaining
}

// Record marks key as having run now
func (c *Cooldown) Record(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRun[key] = c.now()
}

// Period returns the configured cooldown period
func (c *Cooldown) Period() time.Duration {
	return c.period
}
