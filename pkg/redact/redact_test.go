package redact

import (
	"strings"
	"testing"
)

func TestTextRedactsWhenEnabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	out := Text("email me at buyer@example.com or call +62 812 3456 7890")
	if strings.Contains(out, "buyer@example.com") {
		t.Fatalf("email not redacted: %s", out)
	}
	if strings.Contains(out, "3456") {
		t.Fatalf("phone not redacted: %s", out)
	}
}

func TestTextPassThroughWhenDisabled(t *testing.T) {
	SetEnabled(false)
	in := "call me at +62 812 3456 7890"
	if out := Text(in); out != in {
		t.Fatalf("expected passthrough, got %s", out)
	}
}
