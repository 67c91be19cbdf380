package conversation

import (
	"sync"
	"time"
)

// StateChange represents a state transition event.
type StateChange struct {
	FromState State
	ToState   State
	Timestamp time.Time
	Reason    string
}

// StateListener observes conversation state changes.
type StateListener interface {
	OnStateChange(event StateChange)
}

// StateMachine tracks the conversation phase of a single session and
// validates transitions. ended is terminal; a session in ended must be
// deleted rather than reused.
type StateMachine struct {
	mu        sync.RWMutex
	current   State
	listeners []StateListener
}

// validTransitions encodes the legal phase graph. A transition to
// StateEnded is allowed from every non-terminal state and is handled
// separately in transitionValid.
var validTransitions = map[State][]State{
	StateInitial:           {StateGatheringSpecs, StateSearching},
	StateGatheringSpecs:    {StateGatheringSpecs, StateSearching},
	StateSearching:         {StatePresentingResults},
	StatePresentingResults: {StateFollowUp, StateSearching, StateGatheringSpecs},
	StateFollowUp:          {StateGatheringSpecs, StateSearching},
}

// NewStateMachine creates a state machine starting in the given state.
func NewStateMachine(initial State) *StateMachine {
	return &StateMachine{current: initial}
}

// State returns the current state.
func (m *StateMachine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func transitionValid(from, to State) bool {
	if from == StateEnded {
		return false
	}
	if to == StateEnded {
		return true
	}
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanTransition reports whether a transition is legal without applying it.
func CanTransition(from, to State) bool {
	return transitionValid(from, to)
}

// Transition moves to a new state with validation.
func (m *StateMachine) Transition(to State, reason string) error {
	m.mu.Lock()
	if !transitionValid(m.current, to) {
		from := m.current
		m.mu.Unlock()
		return &InvalidTransitionError{From: from, To: to}
	}
	event := StateChange{
		FromState: m.current,
		ToState:   to,
		Timestamp: time.Now(),
		Reason:    reason,
	}
	m.current = to
	listeners := make([]StateListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, listener := range listeners {
		listener.OnStateChange(event)
	}
	return nil
}

// AddListener registers a listener for state change events.
func (m *StateMachine) AddListener(listener StateListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// InvalidTransitionError represents an invalid state transition attempt.
type InvalidTransitionError struct {
	From State
	To   State
}

func (e *InvalidTransitionError) Error() string {
	return "invalid state transition from " + e.From.String() + " to " + e.To.String()
}
