package cache

import (
	"context"
	"log/slog"
)

// CommonPhrases is the fixed catalog of assistant utterances worth having
// synthesized before the first caller arrives.
var CommonPhrases = []string{
	"Hello! What product are you looking for today?",
	"Could you repeat that, please?",
	"I'm sorry, I didn't catch that. Could you say it again?",
	"Let me search for the best prices for you.",
	"Is there anything else you would like to compare?",
	"Are you still there?",
	"Goodbye! Happy shopping!",
	"Sorry, I couldn't find any matching offers.",
}

// SynthesizeFunc renders text as audio for pre-warming.
type SynthesizeFunc func(ctx context.Context, text string) ([]byte, error)

// Prewarm synthesizes and caches the common-phrase catalog, skipping any
// phrase that fails to synthesize. Returns the number successfully cached.
// Intended to run once at startup.
func (c *ResponseCache) Prewarm(ctx context.Context, synthesize SynthesizeFunc, voice, format string) int {
	warmed := 0
	for _, phrase := range CommonPhrases {
		if ctx.Err() != nil {
			break
		}
		audio, err := synthesize(ctx, phrase)
		if err != nil {
			slog.Warn("prewarm_phrase_failed",
				slog.String("phrase", phrase),
				slog.String("error", err.Error()))
			continue
		}
		c.Set(phrase, audio, voice, format)
		warmed++
	}
	return warmed
}
