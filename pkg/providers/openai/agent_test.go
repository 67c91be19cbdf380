package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/agent"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/search"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/resilience"
)

func newTestAdapter(t *testing.T, content string, status int) *Adapter {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte("upstream error"))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	a := NewAdapter("sk-test", "gpt-4o-mini")
	a.BaseURL = srv.URL
	a.Client = srv.Client()
	return a
}

func TestInterpretSearchAction(t *testing.T) {
	payload := `{
		"reply": "Let me find the best price for that.",
		"requires_user_input": false,
		"action": {
			"name": "search",
			"params": {
				"product_name": "iPhone 15",
				"category": "phone",
				"brand": "Apple",
				"specifications": {"storage": "256GB", "color": "black"},
				"max_price": 80000
			}
		}
	}`
	a := newTestAdapter(t, payload, http.StatusOK)

	interp, err := a.Interpret(context.Background(), "iphone 15 256 gig in black under 80k", nil, nil)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	action, ok := interp.Action.(agent.SearchAction)
	if !ok {
		t.Fatalf("action = %T, want SearchAction", interp.Action)
	}
	if action.Query.ProductName != "iPhone 15" || action.Query.Category != product.CategoryPhone {
		t.Fatalf("query = %+v", action.Query)
	}
	if action.Query.PriceRange == nil || action.Query.PriceRange.Max != 80000 {
		t.Fatalf("price range = %+v", action.Query.PriceRange)
	}
	if interp.Reply != "Let me find the best price for that." {
		t.Fatalf("reply = %q", interp.Reply)
	}
}

func TestInterpretFencedJSON(t *testing.T) {
	payload := "```json\n{\"reply\": \"Hello!\", \"requires_user_input\": true}\n```"
	a := newTestAdapter(t, payload, http.StatusOK)

	interp, err := a.Interpret(context.Background(), "hi", nil, nil)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if interp.Reply != "Hello!" || !interp.RequiresUserInput {
		t.Fatalf("interpretation = %+v", interp)
	}
	if interp.Action != nil {
		t.Fatalf("action = %v, want nil", interp.Action)
	}
}

func TestInterpretUnknownActionIsNil(t *testing.T) {
	payload := `{"reply": "hmm", "action": {"name": "teleport", "params": {}}}`
	a := newTestAdapter(t, payload, http.StatusOK)

	interp, err := a.Interpret(context.Background(), "do something odd", nil, nil)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if interp.Action != nil {
		t.Fatalf("action = %v, want nil for unknown name", interp.Action)
	}
}

func TestInterpretRateLimit(t *testing.T) {
	a := newTestAdapter(t, "", http.StatusTooManyRequests)

	_, err := a.Interpret(context.Background(), "hello", nil, nil)
	if !resilience.IsRateLimit(err) {
		t.Fatalf("err = %v, want rate limit", err)
	}
}

func TestExtractProductInfo(t *testing.T) {
	payload := `{"product_name": "MacBook Air", "category": "laptop", "brand": "Apple",
		"specifications": {"ram": "16GB"}}`
	a := newTestAdapter(t, payload, http.StatusOK)

	info, err := a.ExtractProductInfo(context.Background(), "a macbook air with 16 gigs")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if info.ProductName != "MacBook Air" || info.Brand != "Apple" {
		t.Fatalf("info = %+v", info)
	}
	if info.Specifications["ram"] != "16GB" {
		t.Fatalf("specs = %+v", info.Specifications)
	}
}

func TestValidateSpecificationsComplete(t *testing.T) {
	// complete queries never reach the model
	a := NewAdapter("sk-test", "")
	a.BaseURL = "http://127.0.0.1:0"

	v, err := a.ValidateSpecifications(context.Background(), product.Query{
		ProductName: "iPhone 15",
		Category:    product.CategoryPhone,
		Specifications: map[string]string{
			"model": "15", "storage": "256GB", "ram": "8GB", "color": "black",
		},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !v.IsComplete || len(v.MissingSpecs) != 0 {
		t.Fatalf("validation = %+v", v)
	}
}

func TestValidateSpecificationsFallbackQuestion(t *testing.T) {
	a := newTestAdapter(t, "", http.StatusInternalServerError)

	v, err := a.ValidateSpecifications(context.Background(), product.Query{
		ProductName: "iPhone 15",
		Category:    product.CategoryPhone,
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if v.IsComplete {
		t.Fatal("empty specs reported complete")
	}
	if v.ClarifyingQuestion == "" {
		t.Fatal("no clarifying question on model failure")
	}
}

func TestSummarize(t *testing.T) {
	a := newTestAdapter(t, "The best price is 69999 INR on Flipkart.", http.StatusOK)

	got, err := a.Summarize(context.Background(), product.Query{ProductName: "iPhone 15"}, []search.Result{
		{Platform: "flipkart", Price: 69999, Currency: "INR"},
	})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "The best price is 69999 INR on Flipkart." {
		t.Fatalf("summary = %q", got)
	}
}

func TestSummarizeNothing(t *testing.T) {
	a := NewAdapter("sk-test", "")
	if _, err := a.Summarize(context.Background(), product.Query{}, nil); err == nil {
		t.Fatal("empty ranked list accepted")
	}
}
