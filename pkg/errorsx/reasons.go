package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonSessionNotFound ReasonCode = "session_not_found"
	ReasonSessionExists   ReasonCode = "session_exists"
	ReasonSessionStore    ReasonCode = "session_store"

	ReasonTranscriptionFailed ReasonCode = "transcription_failed"
	ReasonSynthesisFailed     ReasonCode = "synthesis_failed"
	ReasonSearchFailed        ReasonCode = "search_failed"
	ReasonInterpretFailed     ReasonCode = "interpret_failed"

	ReasonValidation        ReasonCode = "validation"
	ReasonInvalidTransition ReasonCode = "invalid_transition"

	ReasonProviderRateLimit   ReasonCode = "provider_rate_limit"
	ReasonProviderCircuitOpen ReasonCode = "provider_circuit_open"
)
