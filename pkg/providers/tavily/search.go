// Package tavily adapts the Tavily Search API (https://tavily.com) into a
// product offer provider. Result pages from known shopping platforms are
// mined for prices; everything else is dropped.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/search"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/errorsx"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/logging"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/resilience"
)

const defaultBaseURL = "https://api.tavily.com"

// platformDomains maps shopping-site hosts onto platform names.
var platformDomains = map[string]string{
	"amazon.in":          "amazon",
	"amazon.com":         "amazon",
	"flipkart.com":       "flipkart",
	"croma.com":          "croma",
	"reliancedigital.in": "reliance_digital",
	"bestbuy.com":        "bestbuy",
	"walmart.com":        "walmart",
}

// priceRe finds the first currency-tagged amount in page content.
// Group 1 is the currency marker, group 2 the amount.
var priceRe = regexp.MustCompile(`(₹|Rs\.?|INR|\$|USD)\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

var outOfStockRe = regexp.MustCompile(`(?i)(out of stock|currently unavailable|sold out)`)

type Config struct {
	APIKey     string
	MaxResults int
	BaseURL    string
	Client     *http.Client

	// BreakerThreshold rate-limit errors in a row open the circuit for
	// BreakerCooldown. Zero values take the resilience defaults.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Provider implements product search over the Tavily Search API.
type Provider struct {
	cfg     Config
	breaker *resilience.CircuitBreaker
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("tavily: missing api key")
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:     cfg,
		breaker: resilience.NewCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown),
		logger:  logging.NewComponentLogger(logger, "tavily_search"),
	}, nil
}

func (p *Provider) Name() string { return "tavily_search" }

// searchRequest is the Tavily /search request body.
type searchRequest struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth,omitempty"`
	Topic          string   `json:"topic,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
}

// searchResponse is the Tavily /search response body.
type searchResponse struct {
	Results []searchEntry `json:"results"`
}

type searchEntry struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

func (p *Provider) Search(ctx context.Context, query product.Query) ([]search.Result, error) {
	if !p.breaker.Allow() {
		p.logger.Warn("circuit open, skipping search", slog.String("query", query.ProductName))
		return nil, errorsx.New(errorsx.ReasonProviderCircuitOpen, "tavily: circuit open")
	}

	domains := make([]string, 0, len(platformDomains))
	for d := range platformDomains {
		domains = append(domains, d)
	}
	reqBody := searchRequest{
		Query:          query.SearchText() + " price buy online",
		SearchDepth:    "basic",
		Topic:          "general",
		MaxResults:     p.cfg.MaxResults,
		IncludeDomains: domains,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("tavily: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tavily: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.cfg.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		respBody, _ := io.ReadAll(resp.Body)
		err := resilience.RateLimitError{Provider: "tavily", Message: string(respBody)}
		p.breaker.OnError(err)
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tavily: API error (status %d): %s", resp.StatusCode, respBody)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("tavily: decode response: %w", err)
	}
	p.breaker.OnSuccess()

	results := make([]search.Result, 0, len(payload.Results))
	for _, entry := range payload.Results {
		offer, ok := p.toOffer(entry)
		if !ok {
			continue
		}
		results = append(results, offer)
	}
	p.logger.Debug("search complete",
		slog.String("query", query.ProductName),
		slog.Int("raw", len(payload.Results)),
		slog.Int("offers", len(results)))
	return results, nil
}

// toOffer mines one search hit for a priced offer. Hits without a
// recognizable platform or price are not offers.
func (p *Provider) toOffer(entry searchEntry) (search.Result, bool) {
	platform, ok := platformFromURL(entry.URL)
	if !ok {
		return search.Result{}, false
	}
	price, currency, ok := extractPrice(entry.Content)
	if !ok {
		return search.Result{}, false
	}
	availability := search.InStock
	if outOfStockRe.MatchString(entry.Content) {
		availability = search.OutOfStock
	}
	return search.Result{
		Platform:     platform,
		Title:        strings.TrimSpace(entry.Title),
		Price:        price,
		Currency:     currency,
		URL:          entry.URL,
		Availability: availability,
		MatchScore:   entry.Score,
	}, true
}

func platformFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for domain, platform := range platformDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return platform, true
		}
	}
	return "", false
}

func extractPrice(content string) (float64, string, bool) {
	m := priceRe.FindStringSubmatch(content)
	if m == nil {
		return 0, "", false
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
	if err != nil || amount <= 0 {
		return 0, "", false
	}
	currency := "INR"
	if m[1] == "$" || m[1] == "USD" {
		currency = "USD"
	}
	return amount, currency, true
}

var _ search.Provider = (*Provider)(nil)
