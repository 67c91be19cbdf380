package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/agent"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/synth"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/transcribe"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/conversation"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/errorsx"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/metrics"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/ranker"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/redact"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/session"
)

// transcribeOutcome is the explicit result of the transcription step:
// success, success-but-degraded, or exhausted. The degraded path is a
// visible branch rather than an exception handler side effect.
type transcribeOutcome struct {
	result   transcribe.Transcription
	degraded bool
	failed   bool
	err      error
}

// HandleTurn processes exactly one user audio input for one session and
// produces exactly one audio response, updating session state throughout.
// Transcription exhaustion degrades into a fixed apology; synthesis
// exhaustion propagates, combined with any pending transcription error.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID string, audio []byte) ([]byte, error) {
	started := o.now()

	sess, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Status = session.StatusActive

	if err := transcribe.ValidateAudio(audio); err != nil {
		return nil, err
	}

	outcome := o.transcribe(ctx, audio)
	if outcome.failed {
		metrics.Record(o.observer, metrics.EventTranscribeExhausted, 1, nil)
		return o.finishDegradedTurn(ctx, sess, outcome.err)
	}

	transcript := outcome.result.Text
	o.logger.Info("transcript_received",
		slog.String("session_id", sess.ID),
		slog.String("text", redact.Text(transcript)),
		slog.Float64("confidence", outcome.result.Confidence),
		slog.Bool("degraded", outcome.degraded))

	sess.Messages = append(sess.Messages, session.Message{
		Role:      "user",
		Content:   transcript,
		Timestamp: o.now(),
	})

	// Exit phrases short-circuit interpretation entirely.
	if o.containsExitPhrase(transcript) {
		metrics.Record(o.observer, metrics.EventExitPhraseDetected, 1, nil)
		return o.finishEndedTurn(ctx, sess, goodbyeText)
	}

	reply, requiresInput, endedTurn := o.interpretAndAct(ctx, sess, transcript)
	if endedTurn {
		return o.finishEndedTurn(ctx, sess, reply)
	}

	audioOut, err := o.synthesizeWithCache(ctx, reply)
	if err != nil {
		return nil, err
	}

	sess.Messages = append(sess.Messages, session.Message{
		Role:      "assistant",
		Content:   reply,
		Timestamp: o.now(),
	})
	if requiresInput {
		sess.Status = session.StatusWaiting
	}
	if err := o.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	metrics.Record(o.observer, metrics.EventTurnLatency,
		float64(o.now().Sub(started).Milliseconds()), nil)
	return audioOut, nil
}

// transcribe runs the speech-to-text step with retries. Low confidence is
// not distinguished from success for retry purposes, only for
// observability.
func (o *Orchestrator) transcribe(ctx context.Context, audio []byte) transcribeOutcome {
	var result transcribe.Transcription
	err := o.transcribeRetry.Do(ctx, func() error {
		var callErr error
		result, callErr = o.collab.Transcriber.Transcribe(ctx, audio)
		return callErr
	})
	if err != nil {
		return transcribeOutcome{
			failed: true,
			err:    errorsx.Wrap(err, errorsx.ReasonTranscriptionFailed),
		}
	}
	degraded := result.Confidence < o.confidenceThreshold
	if degraded {
		o.logger.Warn("transcription_degraded",
			slog.Float64("confidence", result.Confidence),
			slog.Float64("threshold", o.confidenceThreshold))
		metrics.Record(o.observer, metrics.EventTranscribeDegraded, result.Confidence, nil)
	}
	return transcribeOutcome{result: result, degraded: degraded}
}

// interpretAndAct runs the language-understanding step and dispatches the
// resulting action. It returns the reply text, whether further user input
// is required, and whether the turn ends the session.
func (o *Orchestrator) interpretAndAct(ctx context.Context, sess *session.Session, transcript string) (reply string, requiresInput bool, endedTurn bool) {
	history := make([]agent.Message, 0, len(sess.Messages))
	for _, msg := range sess.Messages {
		history = append(history, agent.Message{Role: msg.Role, Content: msg.Content})
	}

	interp, err := o.collab.Agent.Interpret(ctx, transcript, history, sess.CurrentProduct)
	if err != nil {
		o.logger.Warn("interpret_failed", slog.String("error", err.Error()))
		return interpretDegrade, true, false
	}

	if interp.Action == nil {
		// No recognized action degrades to a clarification.
		reply = interp.Reply
		if reply == "" {
			metrics.Record(o.observer, metrics.EventUnrecognizedAction, 1, nil)
			reply = clarifyText
		}
		if interp.NewState != nil {
			o.transition(sess, *interp.NewState, "agent state hint")
		}
		return reply, interp.RequiresUserInput, false
	}

	metrics.Record(o.observer, metrics.EventInterpretActionKind, 1,
		map[string]string{"kind": string(interp.Action.Kind())})

	switch action := interp.Action.(type) {
	case agent.SearchAction:
		return o.actSearch(ctx, sess, action), true, false
	case agent.ClarifyAction:
		reply = action.Question
		if reply == "" {
			reply = interp.Reply
		}
		if reply == "" {
			reply = clarifyText
		}
		if sess.State == conversation.StatePresentingResults {
			o.transition(sess, conversation.StateFollowUp, "clarifying after results")
		} else {
			o.transition(sess, conversation.StateGatheringSpecs, "clarification requested")
		}
		return reply, true, false
	case agent.CompareAction:
		// Comparison was folded into search summarization already.
		reply = interp.Reply
		if reply == "" {
			reply = clarifyText
		}
		if sess.State == conversation.StatePresentingResults {
			o.transition(sess, conversation.StateFollowUp, "comparison follow-up")
		}
		return reply, interp.RequiresUserInput, false
	case agent.EndAction:
		reply = action.Message
		if reply == "" {
			reply = closingText
		}
		return reply, false, true
	default:
		metrics.Record(o.observer, metrics.EventUnrecognizedAction, 1, nil)
		return clarifyText, true, false
	}
}

// actSearch persists the product query, runs the search collaborator and
// the ranker, and summarizes the ranked results. Summarization failure
// falls back to a deterministic summary instead of failing the turn.
func (o *Orchestrator) actSearch(ctx context.Context, sess *session.Session, action agent.SearchAction) string {
	query := action.Query
	if sess.CurrentProduct != nil && sess.CurrentProduct.ProductName == query.ProductName {
		merged := sess.CurrentProduct.Clone()
		product.MergeSpecs(&merged, query.Specifications)
		if query.PriceRange != nil {
			merged.PriceRange = query.PriceRange
		}
		query = merged
	}
	q := query.Clone()
	sess.CurrentProduct = &q

	o.transition(sess, conversation.StateSearching, "search action")

	raw, err := o.collab.Search.Search(ctx, query)
	if err != nil {
		// Not retried here; an empty result set is a valid outcome and
		// provider-level fallback is the provider's concern.
		o.logger.Warn("search_failed",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()))
		raw = nil
	}
	ranked := ranker.FilterAndRank(raw, query.Specifications, o.minMatchConfidence)
	metrics.Record(o.observer, metrics.EventSearchResults, float64(len(ranked)), nil)

	o.transition(sess, conversation.StatePresentingResults, "search complete")

	summary, err := o.collab.Agent.Summarize(ctx, query, ranked)
	if err != nil || summary == "" {
		if err != nil {
			o.logger.Warn("summarize_failed", slog.String("error", err.Error()))
		}
		metrics.Record(o.observer, metrics.EventFallbackSummary, 1, nil)
		summary = fallbackSummary(query.ProductName, ranked)
	}
	return summary
}

// transition applies a conversation state change, logging rejected moves
// without failing the turn.
func (o *Orchestrator) transition(sess *session.Session, to conversation.State, reason string) {
	sm := conversation.NewStateMachine(sess.State)
	sm.AddListener(conversation.LogListener{Logger: o.logger, SessionID: sess.ID})
	if err := sm.Transition(to, reason); err != nil {
		o.logger.Warn("state_transition_rejected",
			slog.String("session_id", sess.ID),
			slog.String("from", sess.State.String()),
			slog.String("to", to.String()))
		return
	}
	sess.State = sm.State()
	metrics.Record(o.observer, metrics.EventStateTransition, 1,
		map[string]string{"to": to.String()})
}

// finishEndedTurn speaks a closing message, records it, and retires the
// session: state ended, then deletion. A session in ended is never reused.
func (o *Orchestrator) finishEndedTurn(ctx context.Context, sess *session.Session, farewell string) ([]byte, error) {
	audioOut, err := o.synthesizeWithCache(ctx, farewell)
	if err != nil {
		return nil, err
	}
	sess.Messages = append(sess.Messages, session.Message{
		Role:      "assistant",
		Content:   farewell,
		Timestamp: o.now(),
	})
	o.transition(sess, conversation.StateEnded, "conversation over")
	sess.Status = session.StatusCompleted
	if err := o.sessions.Delete(ctx, sess.ID); err != nil {
		o.logger.Warn("ended_session_delete_failed",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()))
	}
	metrics.Record(o.observer, metrics.EventConversationEnded, 1, nil)
	return audioOut, nil
}

// finishDegradedTurn answers with the fixed apology after transcription
// retries are exhausted. If synthesis then also exhausts its retries, the
// combined error surfaces to the caller rather than looping.
func (o *Orchestrator) finishDegradedTurn(ctx context.Context, sess *session.Session, transcribeErr error) ([]byte, error) {
	audioOut, err := o.synthesizeWithCache(ctx, apologyText)
	if err != nil {
		return nil, fmt.Errorf("synthesis failed while handling transcription failure: %w",
			joinErrors(transcribeErr, err))
	}
	metrics.Record(o.observer, metrics.EventResponseFromApology, 1, nil)
	sess.Messages = append(sess.Messages, session.Message{
		Role:      "assistant",
		Content:   apologyText,
		Timestamp: o.now(),
	})
	sess.Status = session.StatusWaiting
	if err := o.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return audioOut, nil
}

// synthesizeWithCache serves the reply from the shared response cache when
// possible, otherwise synthesizes with bounded retries and caches the
// result.
func (o *Orchestrator) synthesizeWithCache(ctx context.Context, text string) ([]byte, error) {
	if o.cache != nil {
		if audio, ok := o.cache.Get(text, o.voice, o.format); ok {
			metrics.Record(o.observer, metrics.EventCacheHit, 1, nil)
			return audio, nil
		}
		metrics.Record(o.observer, metrics.EventCacheMiss, 1, nil)
	}

	var audio []byte
	err := o.synthRetry.Do(ctx, func() error {
		var callErr error
		audio, callErr = o.collab.Synthesizer.Synthesize(ctx, synth.Request{
			Text:   text,
			Voice:  o.voice,
			Format: o.format,
		})
		return callErr
	})
	if err != nil {
		metrics.Record(o.observer, metrics.EventSynthesizeExhausted, 1, nil)
		return nil, errorsx.Wrap(err, errorsx.ReasonSynthesisFailed)
	}
	if o.cache != nil {
		o.cache.Set(text, audio, o.voice, o.format)
	}
	return audio, nil
}

func joinErrors(a, b error) error {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		return fmt.Errorf("%w; %w", a, b)
	}
}
