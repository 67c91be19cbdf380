package conversation

import (
	"errors"
	"sync"
	"testing"
)

type captureListener struct {
	mu     sync.Mutex
	events []StateChange
}

func (c *captureListener) OnStateChange(event StateChange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureListener) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestHappyPathTransitions(t *testing.T) {
	listener := &captureListener{}
	sm := NewStateMachine(StateInitial)
	sm.AddListener(listener)

	steps := []struct {
		to     State
		reason string
	}{
		{StateGatheringSpecs, "product named"},
		{StateGatheringSpecs, "spec supplied"},
		{StateSearching, "specs complete"},
		{StatePresentingResults, "search done"},
		{StateFollowUp, "follow-up question"},
		{StateSearching, "product pivot"},
	}
	for _, step := range steps {
		if err := sm.Transition(step.to, step.reason); err != nil {
			t.Fatalf("transition to %s: %v", step.to, err)
		}
	}
	if listener.Count() != len(steps) {
		t.Fatalf("expected %d events, got %d", len(steps), listener.Count())
	}
}

func TestAnyStateMayEnd(t *testing.T) {
	for _, from := range []State{StateInitial, StateGatheringSpecs, StateSearching, StatePresentingResults, StateFollowUp} {
		sm := NewStateMachine(from)
		if err := sm.Transition(StateEnded, "exit phrase"); err != nil {
			t.Fatalf("end from %s: %v", from, err)
		}
	}
}

func TestEndedIsTerminal(t *testing.T) {
	sm := NewStateMachine(StateEnded)
	err := sm.Transition(StateSearching, "reuse attempt")
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if sm.State() != StateEnded {
		t.Fatalf("state changed out of ended")
	}
}

func TestSkippingPhasesRejected(t *testing.T) {
	sm := NewStateMachine(StateGatheringSpecs)
	if err := sm.Transition(StatePresentingResults, "skip search"); err == nil {
		t.Fatalf("expected invalid transition")
	}
}

func TestStateStringRoundTrip(t *testing.T) {
	for _, s := range []State{StateInitial, StateGatheringSpecs, StateSearching, StatePresentingResults, StateFollowUp, StateEnded} {
		parsed, ok := ParseState(s.String())
		if !ok || parsed != s {
			t.Fatalf("round trip failed for %s", s)
		}
	}
	if _, ok := ParseState("bogus"); ok {
		t.Fatalf("expected parse failure")
	}
}
