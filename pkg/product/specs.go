package product

import "strings"

// NormalizeSpecKey makes specification keys comparable: lower-cased,
// trimmed, underscores and hyphens folded to spaces. "Screen_Size" and
// "screen size" normalize identically.
func NormalizeSpecKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, "_", " ")
	key = strings.ReplaceAll(key, "-", " ")
	return strings.Join(strings.Fields(key), " ")
}

// NormalizeSpecValue makes specification values comparable: lower-cased
// with all whitespace removed, so "18 GB" and "18gb" compare equal.
func NormalizeSpecValue(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.Join(strings.Fields(value), "")
}

// specKeyMatches reports whether a supplied key satisfies a required key.
// Matching is substring containment in either direction after
// normalization, so required "screen_size" accepts a supplied
// "laptop screen size".
func specKeyMatches(required, supplied string) bool {
	r := NormalizeSpecKey(required)
	s := NormalizeSpecKey(supplied)
	if r == "" || s == "" {
		return false
	}
	return strings.Contains(s, r) || strings.Contains(r, s)
}

// LookupSpec finds the value for a required key in a supplied specification
// map using fuzzy key matching.
func LookupSpec(specs map[string]string, required string) (string, bool) {
	for k, v := range specs {
		if specKeyMatches(required, k) {
			return v, true
		}
	}
	return "", false
}

// MissingSpecs returns the category's required keys that the query does not
// yet satisfy. An empty result means the query is complete enough to search.
func MissingSpecs(q Query) []string {
	var missing []string
	for _, req := range RequiredSpecs(q.Category) {
		if _, ok := LookupSpec(q.Specifications, req); !ok {
			missing = append(missing, req)
		}
	}
	return missing
}

// IsComplete reports whether every required specification for the query's
// category has been supplied.
func IsComplete(q Query) bool {
	return len(MissingSpecs(q)) == 0
}

// MergeSpecs folds newly supplied specifications into a query, replacing
// values whose keys fuzzily match an existing entry.
func MergeSpecs(q *Query, supplied map[string]string) {
	if len(supplied) == 0 {
		return
	}
	if q.Specifications == nil {
		q.Specifications = make(map[string]string, len(supplied))
	}
	for key, value := range supplied {
		replaced := false
		for existing := range q.Specifications {
			if specKeyMatches(existing, key) {
				q.Specifications[existing] = value
				replaced = true
				break
			}
		}
		if !replaced {
			q.Specifications[key] = value
		}
	}
}
