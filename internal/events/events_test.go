package events

import (
	"context"
	"encoding/json"
	"testing"
)

func TestNewEvent(t *testing.T) {
	event, err := NewEvent(CourseCreated, map[string]uint{"course_id": 9})
	if err != nil {
		t.Fatalf("NewEvent() error = %v", err)
	}

	if event.ID == "" {
		t.Error("event ID is empty")
	}
	if event.Type != CourseCreated {
		t.Errorf("event type = %q, want %q", event.Type, CourseCreated)
	}
	if event.OccurredAt.IsZero() {
		t.Error("event timestamp is zero")
	}

	var payload map[string]uint
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("payload unmarshal error = %v", err)
	}
	if payload["course_id"] != 9 {
		t.Errorf("payload = %v", payload)
	}
}

func TestNewEvent_UnmarshalablePayload(t *testing.T) {
	if _, err := NewEvent(CourseCreated, make(chan int)); err == nil {
		t.Error("NewEvent() with channel payload should fail")
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher()
	ctx := context.Background()

	if err := mock.Publish(ctx, UserRegistered, map[string]uint{"user_id": 1}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := mock.Publish(ctx, EnrollmentCreated, map[string]uint{"enrollment_id": 2}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if got := len(mock.Events()); got != 2 {
		t.Errorf("Events() len = %d, want 2", got)
	}
	if got := len(mock.EventsOfType(UserRegistered)); got != 1 {
		t.Errorf("EventsOfType(UserRegistered) len = %d, want 1", got)
	}
	if got := len(mock.EventsOfType(EnrollmentDeleted)); got != 0 {
		t.Errorf("EventsOfType(EnrollmentDeleted) len = %d, want 0", got)
	}

	if err := mock.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
