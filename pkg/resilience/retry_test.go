package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyAttemptCountAndSchedule(t *testing.T) {
	var pauses []time.Duration
	policy := RetryPolicy{
		Schedule: ExponentialSchedule(time.Second, 3),
		Sleep:    func(d time.Duration) { pauses = append(pauses, d) },
	}
	if policy.Attempts() != 3 {
		t.Fatalf("expected 3 attempts, got %d", policy.Attempts())
	}

	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		return errors.New("transient")
	})
	if err == nil {
		t.Fatalf("expected error after exhaustion")
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(pauses) != len(want) {
		t.Fatalf("expected %d pauses, got %d", len(want), len(pauses))
	}
	for i, d := range want {
		if pauses[i] != d {
			t.Fatalf("pause %d: expected %v, got %v", i, d, pauses[i])
		}
	}
}

func TestRetryPolicyStopsOnSuccess(t *testing.T) {
	policy := RetryPolicy{
		Schedule: LinearSchedule(time.Second, 2),
		Sleep:    func(time.Duration) {},
	}
	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestRetryPolicyHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	policy := NewRetryPolicy(time.Millisecond)
	err := policy.Do(ctx, func() error { return errors.New("never reached") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
