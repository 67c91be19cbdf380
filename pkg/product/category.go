package product

import "strings"

// Category is the closed set of product categories the assistant understands.
type Category string

const (
	CategoryLaptop     Category = "laptop"
	CategoryPhone      Category = "phone"
	CategoryTablet     Category = "tablet"
	CategoryDesktop    Category = "desktop"
	CategoryMonitor    Category = "monitor"
	CategoryHeadphones Category = "headphones"
	CategoryCamera     Category = "camera"
	CategoryOther      Category = "other"
)

// ParseCategory maps free text onto a known category, defaulting to other.
func ParseCategory(raw string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryLaptop, CategoryPhone, CategoryTablet, CategoryDesktop,
		CategoryMonitor, CategoryHeadphones, CategoryCamera:
		return Category(strings.ToLower(strings.TrimSpace(raw)))
	default:
		return CategoryOther
	}
}

// requiredSpecs lists the specification keys a category needs before a
// search is worth running. Keys are matched fuzzily, see MissingSpecs.
var requiredSpecs = map[Category][]string{
	CategoryLaptop:     {"processor", "ram", "storage", "screen_size"},
	CategoryPhone:      {"model", "storage", "ram", "color"},
	CategoryTablet:     {"model", "storage", "screen_size"},
	CategoryDesktop:    {"processor", "ram", "storage"},
	CategoryMonitor:    {"screen_size", "resolution"},
	CategoryHeadphones: {"type", "connectivity"},
	CategoryCamera:     {"type", "resolution"},
}

// RequiredSpecs returns the specification keys needed for a category.
// Categories outside the catalog (including other) require none.
func RequiredSpecs(c Category) []string {
	return requiredSpecs[c]
}
