package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published by the service.
const (
	UserRegistered    = "user.registered"
	CourseCreated     = "course.created"
	EnrollmentCreated = "enrollment.created"
	EnrollmentDeleted = "enrollment.deleted"
)

// Event is the envelope written to the broker.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEvent wraps a payload in an envelope.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	}, nil
}

// EventPublisher publishes domain events. Publication is best effort: callers
// log failures and never fail the originating request.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
	Close() error
}
