package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"parts-checkout/internal/core/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// serverStatusError marks a 5xx answer as a breaker failure without hiding the
// response from the caller.
type serverStatusError struct {
	status int
}

func (e *serverStatusError) Error() string {
	return fmt.Sprintf("upstream answered %d", e.status)
}

// BreakerRoundTripper trips after consecutive transport errors or 5xx responses.
// While open, requests fail fast with gobreaker.ErrOpenState.
type BreakerRoundTripper struct {
	Proxied http.RoundTripper
	cb      *gobreaker.CircuitBreaker[*http.Response]
}

// WithBreaker guards a client with a circuit breaker that opens after maxFailures
// consecutive failures and probes again after openFor.
func WithBreaker(name string, maxFailures int, openFor time.Duration) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return NewBreakerRoundTripper(name, maxFailures, openFor, next)
	}
}

func NewBreakerRoundTripper(name string, maxFailures int, openFor time.Duration, next http.RoundTripper) *BreakerRoundTripper {
	if maxFailures < 1 {
		maxFailures = 1
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Named("breaker").Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &BreakerRoundTripper{
		Proxied: next,
		cb:      gobreaker.NewCircuitBreaker[*http.Response](settings),
	}
}

// RoundTrip runs the request through the breaker.
func (b *BreakerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := b.cb.Execute(func() (*http.Response, error) {
		resp, err := b.Proxied.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, &serverStatusError{status: resp.StatusCode}
		}
		return resp, nil
	})
	if _, ok := err.(*serverStatusError); ok {
		return resp, nil
	}
	return resp, err
}

// State exposes the breaker state for health reporting and tests.
func (b *BreakerRoundTripper) State() gobreaker.State {
	return b.cb.State()
}
