package resource

import (
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrLimitExceeded is returned when a reservation does not fit the limit.
var ErrLimitExceeded = errors.New("memory limit exceeded")

// Config holds the accounting limits.
type Config struct {
	// LimitBytes caps the reserved bytes. 0 only tracks usage.
	LimitBytes int64
}

// Controller tracks reserved bytes against an optional hard limit.
type Controller struct {
	limit int64
	sem   *semaphore.Weighted // nil when unlimited

	used       atomic.Int64
	peak       atomic.Int64
	rejections atomic.Int64
}

// NewController creates a controller for cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{limit: cfg.LimitBytes}
	if cfg.LimitBytes > 0 {
		c.sem = semaphore.NewWeighted(cfg.LimitBytes)
	}
	return c
}

// Reserve accounts bytes or fails with ErrLimitExceeded without blocking.
func (c *Controller) Reserve(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.sem != nil && !c.sem.TryAcquire(bytes) {
		c.rejections.Add(1)
		return ErrLimitExceeded
	}

	used := c.used.Add(bytes)
	for {
		peak := c.peak.Load()
		if used <= peak || c.peak.CompareAndSwap(peak, used) {
			return nil
		}
	}
}

// Release returns bytes obtained from Reserve.
func (c *Controller) Release(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.sem != nil {
		c.sem.Release(bytes)
	}
	c.used.Add(-bytes)
}

// ReleaseAll returns every outstanding reservation. The peak is kept.
func (c *Controller) ReleaseAll() {
	if c == nil {
		return
	}
	c.Release(c.used.Load())
}

// Used returns the currently reserved bytes.
func (c *Controller) Used() int64 {
	if c == nil {
		return 0
	}
	return c.used.Load()
}

// Peak returns the highest reservation level observed.
func (c *Controller) Peak() int64 {
	if c == nil {
		return 0
	}
	return c.peak.Load()
}

// Limit returns the configured limit (0 if unlimited).
func (c *Controller) Limit() int64 {
	if c == nil {
		return 0
	}
	return c.limit
}

// Rejections returns the number of failed reservations.
func (c *Controller) Rejections() int64 {
	if c == nil {
		return 0
	}
	return c.rejections.Load()
}
