package router

import (
	"sync"
	"sync/atomic"
	"time"
)

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // Normal operation
	CircuitOpen                         // Failing, rejecting requests
	CircuitHalfOpen                     // Testing if recovered
)

// Default configuration values
const (
	DefaultFailureThreshold = 3
	DefaultRecoveryTimeout  = 30 * time.Second

	DefaultLatencyAlpha = 0.2
)

// ProviderStats tracks health and render latency for a single provider
type ProviderStats struct {
	mu sync.RWMutex

	avgLatency    time.Duration
	totalRequests int64
	totalFailures int64

	inflight atomic.Int64

	state               CircuitState
	consecutiveFailures int
	lastFailure         time.Time
}

func NewProviderStats() *ProviderStats {
	return &ProviderStats{
		state: CircuitClosed,
	}
}

// IsAvailable checks if the provider accepts requests.
// An open circuit turns half-open once the recovery timeout has passed.
func (s *ProviderStats) IsAvailable(recoveryTimeout time.Duration) bool {
	s.mu.RLock()
	state := s.state
	lastFailure := s.lastFailure
	s.mu.RUnlock()

	switch state {
	case CircuitOpen:
		if time.Since(lastFailure) >= recoveryTimeout {
			s.mu.Lock()
			if s.state == CircuitOpen {
				s.state = CircuitHalfOpen
			}
			s.mu.Unlock()
			return true
		}
		return false

	case CircuitHalfOpen:
		// a single probe at a time
		return s.inflight.Load() == 0

	default:
		return true
	}
}

// GetMetrics returns current metrics in a thread-safe manner
func (s *ProviderStats) GetMetrics() (state CircuitState, avgLatency time.Duration, totalRequests, totalFailures, inflight int64) {
	s.mu.RLock()
	state = s.state
	avgLatency = s.avgLatency
	totalRequests = s.totalRequests
	totalFailures = s.totalFailures
	s.mu.RUnlock()

	inflight = s.inflight.Load()
	return
}

// RecordSuccess closes the circuit and folds latency into the moving average
func (s *ProviderStats) RecordSuccess(latency time.Duration, latencyAlpha float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	s.consecutiveFailures = 0

	if s.totalRequests == 1 {
		s.avgLatency = latency
	} else {
		newAvg := float64(latency)*latencyAlpha + float64(s.avgLatency)*(1-latencyAlpha)
		s.avgLatency = time.Duration(newAvg)
	}

	if s.state == CircuitHalfOpen {
		s.state = CircuitClosed
	}
}

// RecordFailure opens the circuit once the threshold is reached or a half-open probe failed
func (s *ProviderStats) RecordFailure(failureThreshold int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	s.totalFailures++
	s.consecutiveFailures++
	s.lastFailure = time.Now()

	if s.state == CircuitHalfOpen || s.consecutiveFailures >= failureThreshold {
		s.state = CircuitOpen
	}
}

func (s *ProviderStats) GetLastFailure() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFailure
}

func (s *ProviderStats) SetHalfOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = CircuitHalfOpen
}

func (s *ProviderStats) AddInflight(delta int64) int64 {
	return s.inflight.Add(delta)
}
