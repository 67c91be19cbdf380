package errorsx

import "testing"

func TestWrapAndReason(t *testing.T) {
	err := Wrap(assertErr{}, ReasonSearchFailed)
	if Reason(err) != ReasonSearchFailed {
		t.Fatalf("expected reason %s, got %s", ReasonSearchFailed, Reason(err))
	}
	if !HasReason(err, ReasonSearchFailed) {
		t.Fatalf("expected HasReason true")
	}
}

func TestWrapPreservesExistingReason(t *testing.T) {
	first := Wrap(assertErr{}, ReasonTranscriptionFailed)
	second := Wrap(first, ReasonSynthesisFailed)
	if Reason(second) != ReasonTranscriptionFailed {
		t.Fatalf("expected reason preserved, got %s", Reason(second))
	}
}

func TestNewCarriesMessage(t *testing.T) {
	err := New(ReasonSessionNotFound, "session missing")
	if err.Error() != "session missing" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if Reason(err) != ReasonSessionNotFound {
		t.Fatalf("expected session_not_found, got %s", Reason(err))
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
