package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
)

// Policy describes bounded retry with exponential backoff. One policy is
// shared by every retrying call site in the orchestrator, replacing
// per-call-site ad hoc retry logic.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// Jitter perturbs a computed delay. Nil means no jitter; DefaultPolicy
	// installs DefaultJitter.
	Jitter func(time.Duration) time.Duration
}

// DefaultPolicy returns the standard policy: 3 attempts, 500ms initial
// delay doubling to at most 8s, with half-range jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
		Jitter:      DefaultJitter,
	}
}

// DefaultJitter maps d to a uniform value in [d/2, d).
func DefaultJitter(d time.Duration) time.Duration {
	if d <= 1 {
		return d
	}
	half := d / 2
	return half + rand.N(half)
}

// Do executes fn, retrying transient errors with exponential backoff.
//
// Non-transient errors return immediately. A retry-after hint on the error
// overrides a shorter computed delay. Returns ctx.Err() when cancelled while
// waiting; fn itself observes the same context.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.BaseDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if lastErr = err; !apperrors.IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := delay
		if hint := apperrors.RetryAfterOf(err); hint > wait {
			wait = hint
		}
		if p.Jitter != nil {
			wait = p.Jitter(wait)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return lastErr
}
