package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tsubaki01/slimoro/internal/domain"
)

// Defaults applied by NewPolicy.
const (
	DefaultMaxRetries = 2
	DefaultBaseDelay  = time.Second
	DefaultJitter     = 100 * time.Millisecond
)

// Policy configures bounded retry with exponential backoff. The zero value
// performs a single attempt with no sleeps.
type Policy struct {
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int
	// BaseDelay is the sleep before the first retry; each subsequent retry
	// doubles it.
	BaseDelay time.Duration
	// Jitter is the maximum random duration added to each backoff sleep.
	Jitter time.Duration
	// IsRetryable decides whether a failure is transient. Defaults to
	// domain.IsRetryable.
	IsRetryable func(error) bool
	// Logger, when set, receives one event per failed attempt.
	Logger *zerolog.Logger

	// Sleep suspends between attempts; tests substitute it to observe the
	// backoff schedule. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewPolicy returns a Policy with the service defaults.
func NewPolicy(maxRetries int, baseDelay time.Duration) Policy {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	return Policy{
		MaxRetries: maxRetries,
		BaseDelay:  baseDelay,
		Jitter:     DefaultJitter,
	}
}

// Do runs op under the policy. Transient failures are retried with
// exponentially doubling delays; terminal failures and exhausted attempts
// return the last underlying error unchanged so callers can tell the causes
// apart. Sleeps select on ctx so cancellation never waits out a backoff.
func Do[T any](ctx context.Context, policy Policy, op func(context.Context) (T, error)) (T, error) {
	isRetryable := policy.IsRetryable
	if isRetryable == nil {
		isRetryable = domain.IsRetryable
	}
	sleep := policy.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var zero T
	var lastErr error
	for attempt := 0; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt >= policy.MaxRetries {
			return zero, lastErr
		}

		delay := policy.BaseDelay << attempt
		if policy.Jitter > 0 {
			delay += time.Duration(rand.Int63n(int64(policy.Jitter)))
		}
		if policy.Logger != nil {
			policy.Logger.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Dur("backoff", delay).
				Msg("retry: transient failure, backing off")
		}
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
