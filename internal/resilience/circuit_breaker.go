package resilience

import (
	"errors"
	"sync"
	"time"
)

// CircuitState is the current mode of a circuit breaker.
type CircuitState int

const (
	StateClosed   CircuitState = iota // normal operation
	StateOpen                         // calls fail immediately
	StateHalfOpen                     // probing whether the upstream recovered
)

// ErrCircuitOpen is returned by Call while the circuit rejects requests.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards calls to an upstream provider. After maxFailures
// consecutive failures the circuit opens and calls fail fast; after
// resetTimeout a limited number of probe calls decide whether to close it.
type CircuitBreaker struct {
	name         string
	maxFailures  int
	resetTimeout time.Duration
	probeMax     int

	mu            sync.RWMutex
	state         CircuitState
	failures      int
	probeCount    int
	probeSuccess  int
	lastFailure   time.Time
	totalRequests int64
	totalFailures int64
}

// NewCircuitBreaker creates a closed circuit breaker for a named upstream.
func NewCircuitBreaker(name string, maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:         name,
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		probeMax:     3,
		state:        StateClosed,
	}
}

// Call runs fn under circuit breaker protection.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}

	err := fn()
	cb.RecordResult(err == nil)
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true

	case StateOpen:
		if time.Since(cb.lastFailure) >= cb.resetTimeout {
			cb.state = StateHalfOpen
			cb.probeCount = 0
			cb.probeSuccess = 0
			return true
		}
		return false

	case StateHalfOpen:
		if cb.probeCount < cb.probeMax {
			cb.probeCount++
			return true
		}
		return false
	}

	return false
}

// RecordResult feeds the outcome of a guarded call back into the breaker.
// Exported so callers that cannot route through Call (async write paths)
// can still drive state transitions.
func (cb *CircuitBreaker) RecordResult(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.totalRequests++

	if success {
		cb.onSuccess()
	} else {
		cb.onFailure()
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateClosed:
		cb.failures = 0

	case StateHalfOpen:
		cb.probeSuccess++
		if cb.probeSuccess >= cb.probeMax {
			cb.state = StateClosed
			cb.failures = 0
			cb.probeCount = 0
			cb.probeSuccess = 0
		}
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.totalFailures++
	cb.lastFailure = time.Now()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.maxFailures {
			cb.state = StateOpen
		}

	case StateHalfOpen:
		// Any probe failure reopens immediately.
		cb.state = StateOpen
		cb.probeCount = 0
		cb.probeSuccess = 0
	}
}

// GetState returns the breaker's current state.
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// GetStats returns lifetime counters for health reporting.
func (cb *CircuitBreaker) GetStats() (state CircuitState, requests, failures int64, failureRate float64) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	state = cb.state
	requests = cb.totalRequests
	failures = cb.totalFailures
	if requests > 0 {
		failureRate = float64(failures) / float64(requests) * 100.0
	}
	return
}

// Reset forces the breaker back to closed and clears all counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failures = 0
	cb.probeCount = 0
	cb.probeSuccess = 0
	cb.totalRequests = 0
	cb.totalFailures = 0
}
