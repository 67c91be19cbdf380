package orchestrator

import (
	"fmt"
	"strings"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/search"
)

// Fixed assistant utterances. These overlap with the cache pre-warm
// catalog so repeat traffic stays off the synthesizer.
const (
	apologyText      = "I'm sorry, I didn't catch that. Could you say it again?"
	goodbyeText      = "Goodbye! Happy shopping!"
	closingText      = "Thanks for shopping with me. Goodbye!"
	clarifyText      = "I need a bit more information. Could you tell me more about what you're looking for?"
	noMatchesText    = "Sorry, I couldn't find any matching offers."
	idlePromptText   = "Are you still there?"
	interpretDegrade = "Could you repeat that, please?"
)

// DefaultExitPhrases end a conversation when spoken anywhere in an
// utterance as a whole phrase.
var DefaultExitPhrases = []string{"goodbye", "exit", "stop", "quit", "bye", "end"}

// fallbackSummary builds a deterministic reply from the top two ranked
// results when the language agent's summarization is unavailable.
func fallbackSummary(productName string, ranked []search.Result) string {
	if len(ranked) == 0 {
		return noMatchesText
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The lowest price for %s is %.0f %s on %s.",
		productName, ranked[0].Price, ranked[0].Currency, ranked[0].Platform)
	if len(ranked) > 1 {
		fmt.Fprintf(&b, " The next best offer is %.0f %s on %s.",
			ranked[1].Price, ranked[1].Currency, ranked[1].Platform)
	}
	return b.String()
}
