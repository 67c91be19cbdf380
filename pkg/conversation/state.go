package conversation

import "strings"

// State is a phase of a shopping conversation.
type State int

const (
	StateInitial State = iota
	StateGatheringSpecs
	StateSearching
	StatePresentingResults
	StateFollowUp
	StateEnded
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateGatheringSpecs:
		return "gathering_specs"
	case StateSearching:
		return "searching"
	case StatePresentingResults:
		return "presenting_results"
	case StateFollowUp:
		return "follow_up"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// ParseState maps a state name back onto a State.
func ParseState(raw string) (State, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "initial":
		return StateInitial, true
	case "gathering_specs":
		return StateGatheringSpecs, true
	case "searching":
		return StateSearching, true
	case "presenting_results":
		return StatePresentingResults, true
	case "follow_up":
		return StateFollowUp, true
	case "ended":
		return StateEnded, true
	default:
		return StateInitial, false
	}
}

// Terminal reports whether the state admits no outgoing transitions.
func (s State) Terminal() bool { return s == StateEnded }
