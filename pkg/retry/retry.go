// Package retry runs fallible operations with a bounded number of retries
// and a fixed delay between attempts.
package retry

import (
	"context"
	"strconv"
	"time"

	"github.com/pocketledger/client/internal/metrics"
	"github.com/pocketledger/client/pkg/failure"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxRetries = 3
	DefaultDelay      = 2 * time.Second
)

// Policy configures Do.
type Policy struct {
	Name       string           // Operation name used in logs and metrics
	MaxRetries int              // Attempts in addition to the first one
	Delay      time.Duration    // Fixed wait between two attempts
	Retryable  func(error) bool // Reports whether a failure is transient. nil retries nothing.
}

// Default returns the policy used for all remote calls: three retries two
// seconds apart, only for server errors.
func Default(name string) Policy {
	return Policy{
		Name:       name,
		MaxRetries: DefaultMaxRetries,
		Delay:      DefaultDelay,
		Retryable:  failure.IsServerError,
	}
}

// Named returns a copy of the policy with the given operation name.
func (p Policy) Named(name string) Policy {
	p.Name = name
	return p
}

// Do invokes op until it succeeds, fails with an error the policy does not
// consider retryable, or MaxRetries retries have been made. The last error
// is returned in the latter two cases.
//
// Do imposes no timeout on op. Cancelling ctx aborts the wait between two
// attempts and is passed on to op.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	retries := max(p.MaxRetries, 0)
	for attempt := 0; ; attempt++ {
		metrics.FetchAttempts.WithLabelValues(p.Name, strconv.FormatBool(attempt > 0)).Inc()

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		if attempt >= retries || p.Retryable == nil || !p.Retryable(err) || ctx.Err() != nil {
			metrics.FetchFailures.WithLabelValues(p.Name, failure.KindOf(err).String()).Inc()
			return zero, err
		}

		log.Warn().
			Str("operation", p.Name).
			Int("attempt", attempt+1).
			Dur("delay", p.Delay).
			Err(err).
			Msg("retrying")

		timer := time.NewTimer(p.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}
