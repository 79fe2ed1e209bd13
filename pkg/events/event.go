package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	SessionCompletedEvent = "SESSION_COMPLETED"
	SessionFailedEvent    = "SESSION_FAILED"
)

// NewSessionCompleted announces a session that produced a syllabus.
func NewSessionCompleted(sessionId, projectId string, moduleCount, questionCount int) Event {
	return BaseEvent{
		Type: SessionCompletedEvent,
		Data: map[string]interface{}{
			"session_id":     sessionId,
			"project_id":     projectId,
			"module_count":   moduleCount,
			"question_count": questionCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionFailed announces a session that ended with an error frame.
func NewSessionFailed(sessionId, projectId, message string) Event {
	return BaseEvent{
		Type: SessionFailedEvent,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"project_id": projectId,
			"message":    message,
		},
		OccurredAt: time.Now(),
	}
}
