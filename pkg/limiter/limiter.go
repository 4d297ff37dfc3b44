package limiter

import (
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

type Limiter interface {
	limiterSetup()
}

// NewRate returns a token bucket allowing limit operations per second, or nil
// for no limit.
func NewRate(limit int) *rate.Limiter {
	if limit <= 0 {
		return nil
	}

	return rate.NewLimiter(rate.Limit(limit), limit)
}

// NewConcurrency returns a semaphore admitting n parallel operations, or nil
// for no limit.
func NewConcurrency(n int) *semaphore.Weighted {
	if n <= 0 {
		return nil
	}

	return semaphore.NewWeighted(int64(n))
}
