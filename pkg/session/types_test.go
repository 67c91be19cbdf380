package session

import (
	"testing"
	"time"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/conversation"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
)

func TestSnapshotCopiesHistory(t *testing.T) {
	sess := &Session{
		ID:           "s1",
		Status:       StatusActive,
		State:        conversation.StateGatheringSpecs,
		LastActivity: time.Now(),
		Messages: []Message{
			{Role: "user", Content: "find me a laptop"},
			{Role: "assistant", Content: "What brand are you looking for?"},
		},
		CurrentProduct: &product.Query{ProductName: "laptop"},
	}

	snap := sess.Snapshot()
	if snap.MessageCount != 2 || len(snap.Messages) != 2 {
		t.Fatalf("message count = %d/%d, want 2", snap.MessageCount, len(snap.Messages))
	}
	if snap.Messages[0].Role != "user" || snap.Messages[1].Role != "assistant" {
		t.Fatalf("unexpected roles in %+v", snap.Messages)
	}
	if snap.Product == nil || snap.Product.ProductName != "laptop" {
		t.Fatalf("product = %+v", snap.Product)
	}

	snap.Messages[0].Content = "mutated"
	snap.Product.ProductName = "mutated"
	if sess.Messages[0].Content != "find me a laptop" {
		t.Fatalf("snapshot aliases session history: %q", sess.Messages[0].Content)
	}
	if sess.CurrentProduct.ProductName != "laptop" {
		t.Fatalf("snapshot aliases session product: %q", sess.CurrentProduct.ProductName)
	}
}
