package session

import (
	"time"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/conversation"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
)

// Status is the lifecycle status of a session.
type Status string

const (
	StatusActive    Status = "active"
	StatusWaiting   Status = "waiting"
	StatusCompleted Status = "completed"
)

// Message represents a single conversation turn entry. Immutable once
// appended.
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is all serializable state for one conversation. A session whose
// status is completed, or whose idle time exceeds the store timeout, is
// treated as absent on the next read and purged.
type Session struct {
	ID             string             `json:"id"`
	CreatedAt      time.Time          `json:"created_at"`
	LastActivity   time.Time          `json:"last_activity"`
	Status         Status             `json:"status"`
	State          conversation.State `json:"state"`
	Messages       []Message          `json:"messages"`
	CurrentProduct *product.Query     `json:"current_product,omitempty"`
}

// Snapshot is the read-only view exposed to callers. Messages is a copy,
// so mutating it never touches the stored session.
type Snapshot struct {
	ID           string             `json:"id"`
	Status       Status             `json:"status"`
	State        conversation.State `json:"state"`
	Messages     []Message          `json:"messages"`
	MessageCount int                `json:"message_count"`
	LastActivity time.Time          `json:"last_activity"`
	Product      *product.Query     `json:"product,omitempty"`
}

// Snapshot renders the session for external consumption.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:           s.ID,
		Status:       s.Status,
		State:        s.State,
		Messages:     make([]Message, len(s.Messages)),
		MessageCount: len(s.Messages),
		LastActivity: s.LastActivity,
	}
	copy(snap.Messages, s.Messages)
	if s.CurrentProduct != nil {
		q := s.CurrentProduct.Clone()
		snap.Product = &q
	}
	return snap
}

// Clone deep-copies the session so stored records never alias caller state.
func (s *Session) Clone() *Session {
	out := *s
	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	if s.CurrentProduct != nil {
		q := s.CurrentProduct.Clone()
		out.CurrentProduct = &q
	}
	return &out
}
