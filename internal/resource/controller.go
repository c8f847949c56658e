package resource

import (
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var (
	// ErrMemoryLimitExceeded is returned when memory limit would be exceeded.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")
	// ErrRateLimited is returned when the allocation rate limit has no tokens left.
	ErrRateLimited = errors.New("allocation rate limit exceeded")
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for managed memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// AllocsPerSec is the sustained number of allocations admitted per second.
	// If 0, unlimited.
	AllocsPerSec float64

	// AllocBurst is the number of allocations admitted back to back before the
	// rate applies. Defaults to 1 when AllocsPerSec is set.
	AllocBurst int
}

// Controller manages memory and allocation-rate limits shared by allocators.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Allocation rate
	allocLimiter *rate.Limiter // nil if unlimited
	rejected     atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.AllocsPerSec > 0 {
		burst := cfg.AllocBurst
		if burst <= 0 {
			burst = 1
		}
		c.cfg.AllocBurst = burst
		c.allocLimiter = rate.NewLimiter(rate.Limit(cfg.AllocsPerSec), burst)
	}

	return c
}

// AcquireMemory attempts to reserve memory.
// Returns ErrMemoryLimitExceeded if limit would be exceeded.
// Non-blocking - callers control retry/backoff policy.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			c.rejected.Add(1)
			return ErrMemoryLimitExceeded
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// AllowAlloc consumes one allocation token.
// Returns ErrRateLimited if none is available right now.
func (c *Controller) AllowAlloc() error {
	if c == nil || c.allocLimiter == nil {
		return nil
	}
	if !c.allocLimiter.AllowN(time.Now(), 1) {
		c.rejected.Add(1)
		return ErrRateLimited
	}
	return nil
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// Rejected returns how many requests were refused by either limit.
func (c *Controller) Rejected() int64 {
	if c == nil {
		return 0
	}
	return c.rejected.Load()
}
