package product

import (
	"strings"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/errorsx"
)

// PriceRange bounds an acceptable price. Zero values mean unbounded.
type PriceRange struct {
	Min float64 `json:"min,omitempty" mapstructure:"min"`
	Max float64 `json:"max,omitempty" mapstructure:"max"`
}

// Query describes the product the user is shopping for. Specifications hold
// requested attribute/value pairs; keys are matched case-insensitively.
type Query struct {
	ProductName    string            `json:"product_name" mapstructure:"product_name"`
	Category       Category          `json:"category,omitempty" mapstructure:"category"`
	Brand          string            `json:"brand,omitempty" mapstructure:"brand"`
	Specifications map[string]string `json:"specifications,omitempty" mapstructure:"specifications"`
	PriceRange     *PriceRange       `json:"price_range,omitempty" mapstructure:"price_range"`
}

// Validate enforces the structural invariants of a query.
func (q Query) Validate() error {
	if strings.TrimSpace(q.ProductName) == "" {
		return errorsx.New(errorsx.ReasonValidation, "product name is required")
	}
	if q.PriceRange != nil {
		if q.PriceRange.Min < 0 || q.PriceRange.Max < 0 {
			return errorsx.New(errorsx.ReasonValidation, "price range must be non-negative")
		}
		if q.PriceRange.Min > 0 && q.PriceRange.Max > 0 && q.PriceRange.Min > q.PriceRange.Max {
			return errorsx.New(errorsx.ReasonValidation, "price range min exceeds max")
		}
	}
	return nil
}

// Clone returns a deep copy so a stored session never aliases caller maps.
func (q Query) Clone() Query {
	out := q
	if q.Specifications != nil {
		out.Specifications = make(map[string]string, len(q.Specifications))
		for k, v := range q.Specifications {
			out.Specifications[k] = v
		}
	}
	if q.PriceRange != nil {
		pr := *q.PriceRange
		out.PriceRange = &pr
	}
	return out
}

// SearchText renders the query as a flat search phrase.
func (q Query) SearchText() string {
	parts := []string{q.ProductName}
	if q.Brand != "" && !strings.Contains(strings.ToLower(q.ProductName), strings.ToLower(q.Brand)) {
		parts = append([]string{q.Brand}, parts...)
	}
	for k, v := range q.Specifications {
		parts = append(parts, k+" "+v)
	}
	parts = append(parts, "price")
	return strings.Join(parts, " ")
}
