package conversation

import "log/slog"

// LogListener logs every state transition through a component logger.
type LogListener struct {
	Logger    *slog.Logger
	SessionID string
}

func (l LogListener) OnStateChange(event StateChange) {
	if l.Logger == nil {
		return
	}
	l.Logger.Info("conversation_state_changed",
		slog.String("session_id", l.SessionID),
		slog.String("from", event.FromState.String()),
		slog.String("to", event.ToState.String()),
		slog.String("reason", event.Reason))
}
