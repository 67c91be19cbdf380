package agent

import (
	"context"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/search"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/conversation"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
)

// Message is one entry of conversation history handed to the agent.
type Message struct {
	Role    string
	Content string
}

// Interpretation is the agent's reading of one user utterance.
type Interpretation struct {
	Reply             string
	Action            Action
	RequiresUserInput bool
	NewState          *conversation.State
}

// ProductInfo is the product detail extracted from free text.
type ProductInfo struct {
	ProductName    string            `mapstructure:"product_name"`
	Category       string            `mapstructure:"category"`
	Brand          string            `mapstructure:"brand"`
	Specifications map[string]string `mapstructure:"specifications"`
}

// SpecValidation reports whether a query carries enough specification
// detail to search, and what to ask for when it does not.
type SpecValidation struct {
	IsComplete         bool
	MissingSpecs       []string
	ClarifyingQuestion string
}

// LanguageAgent defines the contract for the language-understanding
// collaborator.
type LanguageAgent interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Interpret reads one utterance in the context of the conversation.
	Interpret(ctx context.Context, utterance string, history []Message, current *product.Query) (Interpretation, error)
	// ExtractProductInfo pulls product details out of free text.
	ExtractProductInfo(ctx context.Context, text string) (ProductInfo, error)
	// ValidateSpecifications checks search-readiness of a query.
	ValidateSpecifications(ctx context.Context, query product.Query) (SpecValidation, error)
	// Summarize renders ranked results as a spoken reply.
	Summarize(ctx context.Context, query product.Query, ranked []search.Result) (string, error)
}
