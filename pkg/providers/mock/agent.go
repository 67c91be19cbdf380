package mock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/agent"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/search"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
)

// AgentConfig scripts a deterministic language agent.
type AgentConfig struct {
	Reply             string
	Action            agent.Action
	RequiresUserInput bool
	SummaryText       string
	FailInterpret     bool
	FailSummarize     bool
}

// Agent is a scripted language-understanding fake.
type Agent struct {
	cfg AgentConfig

	mu         sync.Mutex
	interprets int
	summaries  int
}

func NewAgent(cfg AgentConfig) *Agent {
	if cfg.Reply == "" {
		cfg.Reply = "mock reply"
	}
	return &Agent{cfg: cfg}
}

func (a *Agent) Name() string { return "mock_agent" }

func (a *Agent) Interpret(ctx context.Context, utterance string, history []agent.Message, current *product.Query) (agent.Interpretation, error) {
	a.mu.Lock()
	a.interprets++
	a.mu.Unlock()
	if a.cfg.FailInterpret {
		return agent.Interpretation{}, errors.New("mock interpret failure")
	}
	return agent.Interpretation{
		Reply:             a.cfg.Reply,
		Action:            a.cfg.Action,
		RequiresUserInput: a.cfg.RequiresUserInput,
	}, nil
}

func (a *Agent) ExtractProductInfo(ctx context.Context, text string) (agent.ProductInfo, error) {
	return agent.ProductInfo{ProductName: strings.TrimSpace(text)}, nil
}

func (a *Agent) ValidateSpecifications(ctx context.Context, query product.Query) (agent.SpecValidation, error) {
	missing := product.MissingSpecs(query)
	v := agent.SpecValidation{IsComplete: len(missing) == 0, MissingSpecs: missing}
	if !v.IsComplete {
		v.ClarifyingQuestion = "Could you tell me the " + strings.Join(missing, " and ") + "?"
	}
	return v, nil
}

func (a *Agent) Summarize(ctx context.Context, query product.Query, ranked []search.Result) (string, error) {
	a.mu.Lock()
	a.summaries++
	a.mu.Unlock()
	if a.cfg.FailSummarize {
		return "", errors.New("mock summarize failure")
	}
	if a.cfg.SummaryText != "" {
		return a.cfg.SummaryText, nil
	}
	if len(ranked) == 0 {
		return "Sorry, I couldn't find any matching offers.", nil
	}
	return fmt.Sprintf("The best price for %s is %.0f %s on %s.",
		query.ProductName, ranked[0].Price, ranked[0].Currency, ranked[0].Platform), nil
}

// Interprets reports how many times Interpret was invoked.
func (a *Agent) Interprets() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interprets
}

var _ agent.LanguageAgent = (*Agent)(nil)
