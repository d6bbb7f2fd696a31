package checker

import (
	"context"
	"time"
)

// RetryPolicy bounds how often a failing check is repeated.
type RetryPolicy struct {
	// MaxRetries is the number of extra attempts after the first.
	// Zero means a single attempt with no delay.
	MaxRetries int
	// Delay is the pause between attempts.
	Delay time.Duration
}

// WithRetries runs fn until it reports ok or the policy is exhausted,
// pausing between attempts. It returns the first successful result,
// or the last failure once all attempts are spent; earlier failures
// are discarded. Cancelling the context during a pause cuts the run
// short and surfaces the most recent failure.
func WithRetries(ctx context.Context, policy RetryPolicy, fn func(context.Context) Result) Result {
	var last Result
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		last = fn(ctx)
		if last.Ok {
			return last
		}
		if attempt == policy.MaxRetries {
			break
		}
		if policy.Delay > 0 {
			timer := time.NewTimer(policy.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return last
			case <-timer.C:
			}
		}
	}
	return last
}
