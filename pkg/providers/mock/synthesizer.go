package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/synth"
)

// SynthesizerConfig scripts a deterministic synthesizer.
type SynthesizerConfig struct {
	// FailFirst makes the first N calls fail before succeeding.
	FailFirst int
	// AlwaysFail makes every call fail.
	AlwaysFail bool
}

// Synthesizer is a scripted text-to-speech fake. The produced audio is the
// request text prefixed with a marker, so tests can assert what was spoken.
type Synthesizer struct {
	cfg   SynthesizerConfig
	mu    sync.Mutex
	calls int
	texts []string
}

func NewSynthesizer(cfg SynthesizerConfig) *Synthesizer {
	return &Synthesizer{cfg: cfg}
}

func (s *Synthesizer) Name() string { return "mock_synthesizer" }

func (s *Synthesizer) Synthesize(ctx context.Context, req synth.Request) ([]byte, error) {
	s.mu.Lock()
	s.calls++
	calls := s.calls
	s.texts = append(s.texts, req.Text)
	s.mu.Unlock()

	if s.cfg.AlwaysFail || calls <= s.cfg.FailFirst {
		return nil, errors.New("mock synthesis failure")
	}
	return []byte("audio:" + req.Text), nil
}

// Calls reports how many times Synthesize was invoked.
func (s *Synthesizer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// SpokenTexts returns every text passed to Synthesize, in order.
func (s *Synthesizer) SpokenTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.texts))
	copy(out, s.texts)
	return out
}

var _ synth.Synthesizer = (*Synthesizer)(nil)
