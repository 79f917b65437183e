package geocode

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// errBreakerOpen is returned while the breaker is rejecting calls.
var errBreakerOpen = eris.New("geocode: breaker is open")

// breaker is a minimal circuit breaker for the external resolver. A run of
// consecutive failures opens it; after resetTimeout one probe call is let
// through, and its outcome decides whether the breaker closes again.
type breaker struct {
	mu          sync.Mutex
	threshold   int
	reset       time.Duration
	failures    int
	open        bool
	lastFailure time.Time

	// nowFunc allows test injection of time.
	nowFunc func() time.Time
}

func newBreaker(threshold int, reset time.Duration) *breaker {
	if threshold <= 0 {
		threshold = 3
	}
	if reset <= 0 {
		reset = 30 * time.Second
	}
	return &breaker{threshold: threshold, reset: reset, nowFunc: time.Now}
}

// allow reports whether a call may proceed.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return true
	}
	return b.nowFunc().Sub(b.lastFailure) >= b.reset
}

// record feeds a call outcome into the breaker.
func (b *breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.failures = 0
		b.open = false
		return
	}
	b.failures++
	b.lastFailure = b.nowFunc()
	if b.failures >= b.threshold {
		b.open = true
	}
}
