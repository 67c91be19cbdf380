package product

import (
	"testing"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/errorsx"
)

func TestValidateRejectsEmptyName(t *testing.T) {
	err := Query{}.Validate()
	if !errorsx.HasReason(err, errorsx.ReasonValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateRejectsInvertedPriceRange(t *testing.T) {
	q := Query{ProductName: "laptop", PriceRange: &PriceRange{Min: 2000, Max: 1000}}
	if err := q.Validate(); !errorsx.HasReason(err, errorsx.ReasonValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateAcceptsOpenEndedRange(t *testing.T) {
	q := Query{ProductName: "laptop", PriceRange: &PriceRange{Max: 1500}}
	if err := q.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCloneDoesNotAliasMaps(t *testing.T) {
	q := Query{ProductName: "phone", Specifications: map[string]string{"ram": "8GB"}}
	c := q.Clone()
	c.Specifications["ram"] = "16GB"
	if q.Specifications["ram"] != "8GB" {
		t.Fatalf("clone aliased the specification map")
	}
}

func TestParseCategoryFallsBackToOther(t *testing.T) {
	if ParseCategory("Laptop") != CategoryLaptop {
		t.Fatalf("expected laptop")
	}
	if ParseCategory("fridge") != CategoryOther {
		t.Fatalf("expected other")
	}
}
