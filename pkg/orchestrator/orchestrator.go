package orchestrator

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/agent"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/search"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/synth"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/transcribe"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/cache"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/logging"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/metrics"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/ranker"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/resilience"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/session"
)

const (
	// DefaultConfidenceThreshold marks transcriptions below it as
	// degraded for observability; they are still accepted.
	DefaultConfidenceThreshold = 0.7
	// DefaultIdleThreshold is the silence gap that triggers the
	// "are you still there" prompt.
	DefaultIdleThreshold = 30 * time.Second
)

// Collaborators are the external services a turn composes.
type Collaborators struct {
	Transcriber transcribe.Transcriber
	Agent       agent.LanguageAgent
	Search      search.Provider
	Synthesizer synth.Synthesizer
}

// Options tune per-turn behavior. Zero values select spec defaults.
type Options struct {
	Voice               string
	Format              string
	ConfidenceThreshold float64
	MinMatchConfidence  float64
	IdleThreshold       time.Duration
	ExitPhrases         []string
	// Sleep overrides retry pauses; tests inject a no-op.
	Sleep func(time.Duration)
	Clock func() time.Time
}

// Orchestrator processes one user audio input per call for one session and
// produces one audio response. Callers must not invoke it concurrently for
// the same session id; distinct sessions are fully independent.
type Orchestrator struct {
	sessions *session.Manager
	collab   Collaborators
	cache    *cache.ResponseCache
	logger   *slog.Logger
	observer metrics.Observer

	voice               string
	format              string
	confidenceThreshold float64
	minMatchConfidence  float64
	idleThreshold       time.Duration
	exitRe              *regexp.Regexp

	transcribeRetry resilience.RetryPolicy
	synthRetry      resilience.RetryPolicy
	now             func() time.Time
}

// New wires an orchestrator. The cache may be nil to disable response
// caching; everything else is required.
func New(sessions *session.Manager, collab Collaborators, respCache *cache.ResponseCache, logger *slog.Logger, observer metrics.Observer, opts Options) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ConfidenceThreshold <= 0 {
		opts.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if opts.MinMatchConfidence <= 0 {
		opts.MinMatchConfidence = ranker.DefaultMinConfidence
	}
	if opts.IdleThreshold <= 0 {
		opts.IdleThreshold = DefaultIdleThreshold
	}
	if len(opts.ExitPhrases) == 0 {
		opts.ExitPhrases = DefaultExitPhrases
	}
	if opts.Format == "" {
		opts.Format = cache.DefaultFormat
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	o := &Orchestrator{
		sessions:            sessions,
		collab:              collab,
		cache:               respCache,
		logger:              logging.NewComponentLogger(logger, "turn_orchestrator"),
		observer:            observer,
		voice:               opts.Voice,
		format:              opts.Format,
		confidenceThreshold: opts.ConfidenceThreshold,
		minMatchConfidence:  opts.MinMatchConfidence,
		idleThreshold:       opts.IdleThreshold,
		exitRe:              compileExitPhrases(opts.ExitPhrases),
		transcribeRetry:     resilience.RetryPolicy{Schedule: resilience.ExponentialSchedule(time.Second, 3), Sleep: opts.Sleep},
		synthRetry:          resilience.RetryPolicy{Schedule: resilience.LinearSchedule(time.Second, 2), Sleep: opts.Sleep},
		now:                 opts.Clock,
	}
	return o
}

// compileExitPhrases builds a whole-phrase matcher over normalized text.
func compileExitPhrases(phrases []string) *regexp.Regexp {
	quoted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(p))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// containsExitPhrase reports whether the utterance asks to end the
// conversation.
func (o *Orchestrator) containsExitPhrase(text string) bool {
	return o.exitRe.MatchString(text)
}

// StartSession creates a fresh session and returns its id.
func (o *Orchestrator) StartSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if _, err := o.sessions.Create(ctx, id); err != nil {
		return "", err
	}
	o.logger.Info("session_started", slog.String("session_id", id))
	metrics.Record(o.observer, metrics.EventSessionStarted, 1, nil)
	return id, nil
}

// GetState returns a read-only snapshot of a live session.
func (o *Orchestrator) GetState(ctx context.Context, sessionID string) (session.Snapshot, error) {
	sess, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// EndSession deletes a session; idempotent.
func (o *Orchestrator) EndSession(ctx context.Context, sessionID string) error {
	if err := o.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	metrics.Record(o.observer, metrics.EventSessionEnded, 1, nil)
	return nil
}

// CheckIdle emits a single "are you still there" audio prompt when the
// session has been silent past the idle threshold, appending it to
// history. Advisory only: it changes neither conversation state nor
// status. Returns nil audio when the session is not idle.
func (o *Orchestrator) CheckIdle(ctx context.Context, sessionID string) ([]byte, error) {
	sess, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if o.now().Sub(sess.LastActivity) <= o.idleThreshold {
		return nil, nil
	}
	audio, err := o.synthesizeWithCache(ctx, idlePromptText)
	if err != nil {
		return nil, err
	}
	if err := o.sessions.AppendMessage(ctx, sessionID, "assistant", idlePromptText); err != nil {
		return nil, err
	}
	metrics.Record(o.observer, metrics.EventIdlePrompt, 1, nil)
	return audio, nil
}
