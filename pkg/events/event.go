package events

import "time"

// Event names carried on the bus.
const (
	AssistantInteraction = "ASSISTANT_INTERACTION"
)

// Event is the contract every published record satisfies.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ASSISTANT_INTERACTION").
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

// NewAssistantInteraction records one resolved query: what the user asked and
// what the classifier decided.
func NewAssistantInteraction(query, intentType, category string, confidence float64) BaseEvent {
	return BaseEvent{
		Type: AssistantInteraction,
		Data: map[string]interface{}{
			"query":      query,
			"type":       intentType,
			"category":   category,
			"confidence": confidence,
		},
		OccurredAt: time.Now(),
	}
}
