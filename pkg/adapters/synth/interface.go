package synth

import "context"

// Request describes one synthesis call. Voice and Format are optional;
// implementations apply their own defaults when empty.
type Request struct {
	Text   string
	Voice  string
	Format string
}

// Synthesizer defines the contract for any text-to-speech vendor
// implementation producing a complete audio buffer.
type Synthesizer interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Synthesize renders the request text as audio.
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}
