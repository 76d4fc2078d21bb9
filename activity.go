package auth

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventSignup         ActivityEventType = "auth.signup"
	ActivityEventLoginSuccess   ActivityEventType = "auth.login.success"
	ActivityEventLoginFailure   ActivityEventType = "auth.login.failure"
	ActivityEventLogout         ActivityEventType = "auth.logout"
	ActivityEventUserUpdated    ActivityEventType = "user.updated"
	ActivityEventPasswordUpdate ActivityEventType = "user.password.updated"
	ActivityEventTokenRefresh   ActivityEventType = "auth.token.refresh"
)

// ActivityEvent captures audit-friendly information about an action.
type ActivityEvent struct {
	EventType  ActivityEventType
	UserID     int64
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
// Sinks run best effort, errors are logged and never fail the request.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}

func emitActivity(ctx context.Context, sink ActivitySink, logger Logger, eventType ActivityEventType, userID int64, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if err := normalizeActivitySink(sink).Record(ctx, event); err != nil {
		normalizeLogger(logger).Warn("activity sink record error", "event", eventType, "error", err)
	}
}
