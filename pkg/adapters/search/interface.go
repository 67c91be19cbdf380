package search

import (
	"context"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
)

// Availability is the stock state reported for a search result.
type Availability string

const (
	InStock      Availability = "in_stock"
	OutOfStock   Availability = "out_of_stock"
	UnknownStock Availability = "unknown"
)

// Result is one raw offer from a provider. Results are produced fresh per
// search and never mutated after ranking, only filtered and reordered.
type Result struct {
	Platform       string
	Title          string
	Price          float64
	Currency       string
	URL            string
	Availability   Availability
	Specifications map[string]string
	MatchScore     float64
}

// Provider defines the contract for any product search backend. A provider
// may return an empty slice but must not hang beyond its context.
type Provider interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Search returns raw, unranked, unfiltered offers for a query.
	Search(ctx context.Context, query product.Query) ([]Result, error)
}
