package ranker

import (
	"sort"
	"strings"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/search"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
)

// DefaultMinConfidence is the score below which results are discarded.
const DefaultMinConfidence = 0.6

// Score rates how well a result's extracted specifications satisfy the
// requested ones. Each requested key contributes 1 for an exact value
// match, 0.5 for substring containment either direction, 0 otherwise; the
// final score is the average. With no requested specs the score is 0 and
// callers treat "no requirements" as an automatic full match.
func Score(result search.Result, required map[string]string) float64 {
	if len(required) == 0 {
		return 0
	}
	total := 0.0
	for key, wantRaw := range required {
		got, ok := product.LookupSpec(result.Specifications, key)
		if !ok {
			continue
		}
		want := product.NormalizeSpecValue(wantRaw)
		have := product.NormalizeSpecValue(got)
		switch {
		case want == "" || have == "":
		case want == have:
			total += 1
		case strings.Contains(have, want) || strings.Contains(want, have):
			total += 0.5
		}
	}
	return total / float64(len(required))
}

// FilterAndRank scores every result against the requested specifications,
// drops weak or out-of-stock offers, keeps only the cheapest offer per
// platform, and returns the rest cheapest-first. Price ties preserve
// encounter order. When no specifications were requested every result
// scores 1.0.
func FilterAndRank(results []search.Result, required map[string]string, minConfidence float64) []search.Result {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}

	cheapest := make(map[string]search.Result)
	platforms := make([]string, 0, len(results))
	for _, res := range results {
		if len(required) == 0 {
			res.MatchScore = 1.0
		} else {
			res.MatchScore = Score(res, required)
		}
		if res.MatchScore < minConfidence {
			continue
		}
		if res.Availability == search.OutOfStock {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(res.Platform))
		best, seen := cheapest[key]
		if !seen {
			cheapest[key] = res
			platforms = append(platforms, key)
			continue
		}
		if res.Price < best.Price {
			cheapest[key] = res
		}
	}

	out := make([]search.Result, 0, len(platforms))
	for _, key := range platforms {
		out = append(out, cheapest[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price < out[j].Price
	})
	return out
}
