package resilience

import (
	"context"
	"time"
)

// RetryPolicy retries a function on transient failure with a fixed
// per-attempt backoff schedule. Schedule[i] is the pause after attempt i+1
// fails; the number of attempts is len(Schedule)+1.
type RetryPolicy struct {
	Schedule []time.Duration
	Sleep    func(time.Duration)
}

// NewRetryPolicy builds a policy from an explicit backoff schedule.
func NewRetryPolicy(schedule ...time.Duration) RetryPolicy {
	if len(schedule) == 0 {
		schedule = []time.Duration{200 * time.Millisecond}
	}
	return RetryPolicy{Schedule: schedule}
}

// ExponentialSchedule returns attempts-1 pauses doubling from base.
func ExponentialSchedule(base time.Duration, attempts int) []time.Duration {
	if attempts < 2 {
		return nil
	}
	out := make([]time.Duration, 0, attempts-1)
	d := base
	for i := 0; i < attempts-1; i++ {
		out = append(out, d)
		d *= 2
	}
	return out
}

// LinearSchedule returns attempts-1 pauses growing by step from step.
func LinearSchedule(step time.Duration, attempts int) []time.Duration {
	if attempts < 2 {
		return nil
	}
	out := make([]time.Duration, 0, attempts-1)
	for i := 1; i < attempts; i++ {
		out = append(out, time.Duration(i)*step)
	}
	return out
}

// Attempts reports the total attempt count for this policy.
func (r RetryPolicy) Attempts() int { return len(r.Schedule) + 1 }

// Do runs fn up to Attempts times, pausing per the schedule between
// failures. The context is checked before each attempt; cancellation wins
// over the remaining schedule.
func (r RetryPolicy) Do(ctx context.Context, fn func() error) error {
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	var err error
	for i := 0; i <= len(r.Schedule); i++ {
		if ctx != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		err = fn()
		if err == nil {
			return nil
		}
		if i == len(r.Schedule) {
			return err
		}
		sleep(r.Schedule[i])
	}
	return err
}
