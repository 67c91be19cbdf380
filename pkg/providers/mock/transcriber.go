package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/transcribe"
)

// TranscriberConfig scripts a deterministic transcriber.
type TranscriberConfig struct {
	Transcript string
	Confidence float64
	Language   string
	// FailFirst makes the first N calls fail before succeeding.
	FailFirst int
	// AlwaysFail makes every call fail.
	AlwaysFail bool
}

// Transcriber is a scripted speech-to-text fake.
type Transcriber struct {
	cfg   TranscriberConfig
	mu    sync.Mutex
	calls int
}

func NewTranscriber(cfg TranscriberConfig) *Transcriber {
	if cfg.Transcript == "" {
		cfg.Transcript = "mock transcript"
	}
	if cfg.Confidence == 0 {
		cfg.Confidence = 0.95
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return &Transcriber{cfg: cfg}
}

func (t *Transcriber) Name() string { return "mock_transcriber" }

func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) (transcribe.Transcription, error) {
	t.mu.Lock()
	t.calls++
	calls := t.calls
	t.mu.Unlock()

	if t.cfg.AlwaysFail || calls <= t.cfg.FailFirst {
		return transcribe.Transcription{}, errors.New("mock transcription failure")
	}
	return transcribe.Transcription{
		Text:       t.cfg.Transcript,
		Confidence: t.cfg.Confidence,
		Language:   t.cfg.Language,
		DurationMS: 1200,
	}, nil
}

// Calls reports how many times Transcribe was invoked.
func (t *Transcriber) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

var _ transcribe.Transcriber = (*Transcriber)(nil)
