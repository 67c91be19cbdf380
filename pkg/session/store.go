package session

import (
	"context"
	"time"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/errorsx"
)

// Common errors for session store operations.
var (
	ErrNotFound         = errorsx.New(errorsx.ReasonSessionNotFound, "session not found")
	ErrExists           = errorsx.New(errorsx.ReasonSessionExists, "session already exists")
	ErrInvalidStoreType = errorsx.New(errorsx.ReasonValidation, "invalid store type")
	ErrInvalidConfig    = errorsx.New(errorsx.ReasonValidation, "invalid store configuration")
)

// Store defines raw keyed access to session records. Drivers do not apply
// expiry policy; the Manager layers lazy TTL checks on top.
type Store interface {
	// Create inserts a fresh session. Returns ErrExists when the id is
	// already present.
	Create(ctx context.Context, sess *Session) error

	// Get retrieves a session by id. Returns nil if not found (not an
	// error).
	Get(ctx context.Context, id string) (*Session, error)

	// Put persists the full record, replacing any previous version.
	// Returns ErrNotFound if the session does not exist.
	Put(ctx context.Context, sess *Session) error

	// Delete removes a session by id; idempotent, no error when absent.
	Delete(ctx context.Context, id string) error

	// DeleteIdle removes every session idle longer than maxAge and
	// returns the count removed. Drivers with native key expiry may
	// report 0.
	DeleteIdle(ctx context.Context, maxAge time.Duration) (int, error)

	// Close releases store resources.
	Close() error
}
