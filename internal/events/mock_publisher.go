package events

import (
	"context"
	"sync"
)

// PublishedEvent records one Publish call on the mock.
type PublishedEvent struct {
	Type    string
	Payload interface{}
}

// MockEventPublisher collects events in memory. It doubles as the no-op
// publisher when no broker is configured.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(_ context.Context, eventType string, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{Type: eventType, Payload: payload})
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

// Events returns a copy of everything published so far.
func (m *MockEventPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.events))
	copy(out, m.events)
	return out
}

// EventsOfType returns published events matching the type.
func (m *MockEventPublisher) EventsOfType(eventType string) []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []PublishedEvent
	for _, e := range m.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
