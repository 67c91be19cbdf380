package metrics

import "time"

// Event names emitted by the assistant core.
const (
	EventTurnLatency         = "turn_latency_ms"
	EventTranscribeDegraded  = "transcribe_degraded"
	EventTranscribeExhausted = "transcribe_retries_exhausted"
	EventSynthesizeExhausted = "synthesize_retries_exhausted"
	EventSearchResults       = "search_results"
	EventCacheHit            = "cache_hit"
	EventCacheMiss           = "cache_miss"
	EventSessionSwept        = "session_swept"
	EventConversationEnded   = "conversation_ended"
	EventIdlePrompt          = "idle_prompt"
	EventStateTransition     = "state_transition"
	EventPrewarmedPhrases    = "prewarmed_phrases"
	EventFallbackSummary     = "fallback_summary"
	EventUnrecognizedAction  = "unrecognized_action"
	EventExitPhraseDetected  = "exit_phrase_detected"
	EventInterpretActionKind = "interpret_action"
	EventResponseFromApology = "apology_response"
	EventSessionStarted      = "session_started"
	EventSessionEnded        = "session_ended"
)

type MetricsEvent struct {
	Name   string
	Time   time.Time
	Value  float64
	Tags   map[string]string
	Fields map[string]any
}

type Observer interface {
	RecordEvent(ev MetricsEvent)
}

type NoopObserver struct{}

func (NoopObserver) RecordEvent(MetricsEvent) {}

// Record is a convenience for observers that may be nil.
func Record(obs Observer, name string, value float64, tags map[string]string) {
	if obs == nil {
		return
	}
	obs.RecordEvent(MetricsEvent{Name: name, Time: time.Now(), Value: value, Tags: tags})
}
