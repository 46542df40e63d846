package core

import (
	"context"
	"time"
)

// EventType identifies a semantic event emitted during an orchestration step.
type EventType string

const (
	EventRoleSwitch  EventType = "step.role_switch"
	EventToolCall    EventType = "step.tool_call"
	EventToolResult  EventType = "step.tool_result"
	EventFinalAnswer EventType = "step.final_answer"
	EventStepError   EventType = "step.error"
)

// Event captures a single orchestrator step for observability. Events are
// transient: they are never returned to the end user and are not persisted
// beyond the current turn.
type Event struct {
	Type      EventType
	Role      string
	SessionID string
	Timestamp time.Time
	Payload   map[string]any
}

// EventEmitter receives step events.
type EventEmitter interface {
	Emit(ctx context.Context, event Event)
}

// NoopEventEmitter is a default no-op implementation.
type NoopEventEmitter struct{}

// Emit implements EventEmitter.
func (NoopEventEmitter) Emit(_ context.Context, _ Event) {}

// NewEvent builds a default event with timestamp.
func NewEvent(eventType EventType, role string, sessionID string, payload map[string]any) Event {
	return Event{
		Type:      eventType,
		Role:      role,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
