package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/conversation"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/logging"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/metrics"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
)

const (
	// DefaultTimeout is how long a session may sit idle before it is
	// considered absent.
	DefaultTimeout = 30 * time.Minute
	// DefaultSweepInterval is how often the background sweep runs,
	// independent of per-read TTL checks.
	DefaultSweepInterval = 5 * time.Minute
)

// Manager layers expiry policy and conversation-context helpers over a raw
// Store. Loads never return a logically expired session; saves always
// refresh the activity timestamp with a full-record replace. Correctness
// assumes at most one in-flight turn per session id (caller-serialized).
type Manager struct {
	store    Store
	timeout  time.Duration
	now      func() time.Time
	logger   *slog.Logger
	observer metrics.Observer
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTimeout overrides the idle timeout.
func WithTimeout(timeout time.Duration) ManagerOption {
	return func(m *Manager) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// WithManagerClock overrides the time source.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithObserver attaches a metrics observer.
func WithObserver(obs metrics.Observer) ManagerOption {
	return func(m *Manager) {
		m.observer = obs
	}
}

// NewManager wraps a store with expiry policy.
func NewManager(store Store, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		store:   store,
		timeout: DefaultTimeout,
		now:     time.Now,
		logger:  logging.NewComponentLogger(logger, "session_manager"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Timeout returns the configured idle timeout.
func (m *Manager) Timeout() time.Duration { return m.timeout }

// Create inserts a fresh session in the initial state. The caller is
// responsible for generating a unique id.
func (m *Manager) Create(ctx context.Context, id string) (*Session, error) {
	now := m.now()
	sess := &Session{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
		Status:       StatusActive,
		State:        conversation.StateInitial,
	}
	if err := m.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Load returns the session only while it is logically alive. An expired or
// completed record is deleted as a side effect and reported as ErrNotFound,
// so no caller ever observes a stale session between sweeps.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotFound
	}
	if sess.Status == StatusCompleted || m.now().Sub(sess.LastActivity) > m.timeout {
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.Warn("expired_session_delete_failed",
				slog.String("session_id", id),
				slog.String("error", err.Error()))
		}
		return nil, ErrNotFound
	}
	return sess, nil
}

// Save refreshes the activity timestamp and persists the full record.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	sess.LastActivity = m.now()
	return m.store.Put(ctx, sess)
}

// Delete removes a session; idempotent.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// Sweep removes every session idle longer than maxAge, returning the count
// removed. Racing an active turn is benign: an in-flight turn refreshes
// LastActivity on save, so the sweep simply defers that session to the
// next cycle.
func (m *Manager) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = m.timeout
	}
	removed, err := m.store.DeleteIdle(ctx, maxAge)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		m.logger.Info("sessions_swept", slog.Int("removed", removed))
		metrics.Record(m.observer, metrics.EventSessionSwept, float64(removed), nil)
	}
	return removed, nil
}

// RunSweeper runs Sweep on a fixed interval until the context is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Sweep(ctx, m.timeout); err != nil {
				m.logger.Warn("sweep_failed", slog.String("error", err.Error()))
			}
		}
	}
}

// AppendMessage appends a message to history and saves; fails with
// ErrNotFound if the session is absent, never silently creates one.
func (m *Manager) AppendMessage(ctx context.Context, id, role, content string) error {
	return m.mutate(ctx, id, func(sess *Session) {
		sess.Messages = append(sess.Messages, Message{
			Role:      role,
			Content:   content,
			Timestamp: m.now(),
		})
	})
}

// SetProductQuery replaces the session's current product query.
func (m *Manager) SetProductQuery(ctx context.Context, id string, query product.Query) error {
	return m.mutate(ctx, id, func(sess *Session) {
		q := query.Clone()
		sess.CurrentProduct = &q
	})
}

// SetConversationState moves the session to a new conversation state.
func (m *Manager) SetConversationState(ctx context.Context, id string, state conversation.State) error {
	return m.mutate(ctx, id, func(sess *Session) {
		sess.State = state
	})
}

// SetStatus updates the lifecycle status.
func (m *Manager) SetStatus(ctx context.Context, id string, status Status) error {
	return m.mutate(ctx, id, func(sess *Session) {
		sess.Status = status
	})
}

// mutate is the shared load, mutate, save composition behind the
// conversation-context helpers.
func (m *Manager) mutate(ctx context.Context, id string, fn func(*Session)) error {
	sess, err := m.Load(ctx, id)
	if err != nil {
		return err
	}
	fn(sess)
	return m.Save(ctx, sess)
}

// Close releases the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
