package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/search"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/errorsx"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/resilience"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*Provider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p, err := New(Config{APIKey: "test-key", BaseURL: srv.URL, Client: srv.Client()}, nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p, srv
}

func TestSearchMinesOffers(t *testing.T) {
	var gotAuth string
	var gotBody searchRequest
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(searchResponse{Results: []searchEntry{
			{
				Title:   "Apple MacBook Air M3 - Flipkart",
				URL:     "https://www.flipkart.com/apple-macbook-air-m3/p/itm123",
				Content: "Buy Apple MacBook Air M3 online at ₹1,14,990 with free delivery.",
				Score:   0.93,
			},
			{
				Title:   "MacBook Air M3 review",
				URL:     "https://example.com/reviews/macbook-air-m3",
				Content: "A great laptop at $1099.",
				Score:   0.88,
			},
			{
				Title:   "MacBook Air M3 - Amazon.in",
				URL:     "https://www.amazon.in/dp/B0CX23",
				Content: "Currently unavailable. Was Rs. 1,09,990.",
				Score:   0.81,
			},
			{
				Title:   "MacBook Air M3 - Croma",
				URL:     "https://www.croma.com/macbook-air-m3/p/300123",
				Content: "No price listed yet.",
				Score:   0.7,
			},
		}})
	})

	results, err := p.Search(context.Background(), product.Query{ProductName: "MacBook Air M3"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotBody.Query == "" || gotBody.MaxResults != 10 {
		t.Fatalf("unexpected request body %+v", gotBody)
	}

	// review site (no platform) and croma (no price) are dropped
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2: %+v", len(results), results)
	}
	flip := results[0]
	if flip.Platform != "flipkart" || flip.Price != 114990 || flip.Currency != "INR" {
		t.Fatalf("flipkart offer = %+v", flip)
	}
	if flip.Availability != search.InStock {
		t.Fatalf("flipkart availability = %s", flip.Availability)
	}
	amz := results[1]
	if amz.Platform != "amazon" || amz.Price != 109990 {
		t.Fatalf("amazon offer = %+v", amz)
	}
	if amz.Availability != search.OutOfStock {
		t.Fatalf("amazon availability = %s", amz.Availability)
	}
}

func TestSearchRateLimit(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	})

	_, err := p.Search(context.Background(), product.Query{ProductName: "anything"})
	if !resilience.IsRateLimit(err) {
		t.Fatalf("err = %v, want rate limit", err)
	}
}

func TestSearchCircuitOpensAfterRateLimitStorm(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	t.Cleanup(srv.Close)
	p, err := New(Config{
		APIKey:           "test-key",
		BaseURL:          srv.URL,
		Client:           srv.Client(),
		BreakerThreshold: 2,
		BreakerCooldown:  time.Minute,
	}, nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	ctx := context.Background()
	query := product.Query{ProductName: "anything"}
	for i := 0; i < 2; i++ {
		if _, err := p.Search(ctx, query); !resilience.IsRateLimit(err) {
			t.Fatalf("attempt %d: err = %v, want rate limit", i+1, err)
		}
	}
	if hits != 2 {
		t.Fatalf("hits = %d, want 2", hits)
	}

	// circuit is open, further calls fail without reaching the API
	_, err = p.Search(ctx, query)
	if !errorsx.HasReason(err, errorsx.ReasonProviderCircuitOpen) {
		t.Fatalf("err = %v, want circuit open", err)
	}
	if hits != 2 {
		t.Fatalf("open circuit hit the API: hits = %d", hits)
	}
}

func TestSearchSuccessResetsCircuit(t *testing.T) {
	var rateLimited bool
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if rateLimited {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(searchResponse{})
	})
	p.breaker = resilience.NewCircuitBreaker(2, time.Minute)

	ctx := context.Background()
	query := product.Query{ProductName: "anything"}
	rateLimited = true
	if _, err := p.Search(ctx, query); !resilience.IsRateLimit(err) {
		t.Fatalf("err = %v, want rate limit", err)
	}
	rateLimited = false
	if _, err := p.Search(ctx, query); err != nil {
		t.Fatalf("search after recovery: %v", err)
	}
	rateLimited = true
	if _, err := p.Search(ctx, query); !resilience.IsRateLimit(err) {
		t.Fatalf("err = %v, want rate limit after reset", err)
	}
}

func TestSearchAPIError(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := p.Search(context.Background(), product.Query{ProductName: "anything"}); err == nil {
		t.Fatal("bad gateway accepted")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Fatal("missing api key accepted")
	}
}

func TestExtractPrice(t *testing.T) {
	cases := []struct {
		content  string
		price    float64
		currency string
		ok       bool
	}{
		{"now at ₹84,990 only", 84990, "INR", true},
		{"price $1,299.99 today", 1299.99, "USD", true},
		{"costs Rs. 4999", 4999, "INR", true},
		{"INR 25,000 at checkout", 25000, "INR", true},
		{"no price here", 0, "", false},
	}
	for _, tc := range cases {
		price, currency, ok := extractPrice(tc.content)
		if ok != tc.ok || price != tc.price || (ok && currency != tc.currency) {
			t.Fatalf("extractPrice(%q) = %v %q %v, want %v %q %v",
				tc.content, price, currency, ok, tc.price, tc.currency, tc.ok)
		}
	}
}
