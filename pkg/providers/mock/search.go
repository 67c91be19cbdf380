package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/search"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
)

// SearchConfig scripts a deterministic search provider.
type SearchConfig struct {
	Results []search.Result
	Fail    bool
}

// Search is a scripted product search fake.
type Search struct {
	cfg   SearchConfig
	mu    sync.Mutex
	calls int
}

func NewSearch(cfg SearchConfig) *Search {
	return &Search{cfg: cfg}
}

func (s *Search) Name() string { return "mock_search" }

func (s *Search) Search(ctx context.Context, query product.Query) ([]search.Result, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.cfg.Fail {
		return nil, errors.New("mock search failure")
	}
	out := make([]search.Result, len(s.cfg.Results))
	copy(out, s.cfg.Results)
	return out, nil
}

// Calls reports how many times Search was invoked.
func (s *Search) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var _ search.Provider = (*Search)(nil)
