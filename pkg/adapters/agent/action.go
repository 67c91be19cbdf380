package agent

import (
	"strings"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/configutil"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
)

// ActionKind discriminates the action union.
type ActionKind string

const (
	ActionSearch  ActionKind = "search"
	ActionClarify ActionKind = "clarify"
	ActionCompare ActionKind = "compare"
	ActionEnd     ActionKind = "end"
)

// Action is the tagged union of things the agent can ask the orchestrator
// to do. Exactly one payload accessor is meaningful per kind.
type Action interface {
	Kind() ActionKind
}

// SearchAction requests a product search built from the given query fields.
type SearchAction struct {
	Query product.Query
}

func (SearchAction) Kind() ActionKind { return ActionSearch }

// ClarifyAction asks the user for more detail; Question is the clarifying
// question already produced by interpretation.
type ClarifyAction struct {
	Question string
}

func (ClarifyAction) Kind() ActionKind { return ActionClarify }

// CompareAction is a no-op at the action layer; comparison is folded into
// search summarization.
type CompareAction struct{}

func (CompareAction) Kind() ActionKind { return ActionCompare }

// EndAction closes the conversation.
type EndAction struct {
	Message string
}

func (EndAction) Kind() ActionKind { return ActionEnd }

// searchParams is the wire shape of a search action's loosely-typed
// parameter bag as emitted by language models.
type searchParams struct {
	ProductName    string            `mapstructure:"product_name"`
	Product        string            `mapstructure:"product"`
	Category       string            `mapstructure:"category"`
	Brand          string            `mapstructure:"brand"`
	Specifications map[string]string `mapstructure:"specifications"`
	MinPrice       float64           `mapstructure:"min_price"`
	MaxPrice       float64           `mapstructure:"max_price"`
}

// ParseAction validates a raw action name plus parameter bag into a typed
// Action. Unrecognized names yield nil; callers degrade those to a generic
// clarification rather than failing the turn.
func ParseAction(name string, params map[string]any) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case string(ActionSearch):
		var p searchParams
		if err := configutil.DecodeSettings(params, &p); err != nil {
			return nil, err
		}
		productName := p.ProductName
		if productName == "" {
			productName = p.Product
		}
		query := product.Query{
			ProductName:    strings.TrimSpace(productName),
			Category:       product.ParseCategory(p.Category),
			Brand:          strings.TrimSpace(p.Brand),
			Specifications: p.Specifications,
		}
		if p.MinPrice > 0 || p.MaxPrice > 0 {
			query.PriceRange = &product.PriceRange{Min: p.MinPrice, Max: p.MaxPrice}
		}
		if err := query.Validate(); err != nil {
			return nil, err
		}
		return SearchAction{Query: query}, nil
	case string(ActionClarify):
		var p struct {
			Question string `mapstructure:"question"`
		}
		if err := configutil.DecodeSettings(params, &p); err != nil {
			return nil, err
		}
		return ClarifyAction{Question: strings.TrimSpace(p.Question)}, nil
	case string(ActionCompare):
		return CompareAction{}, nil
	case string(ActionEnd):
		var p struct {
			Message string `mapstructure:"message"`
		}
		if err := configutil.DecodeSettings(params, &p); err != nil {
			return nil, err
		}
		return EndAction{Message: strings.TrimSpace(p.Message)}, nil
	default:
		return nil, nil
	}
}
