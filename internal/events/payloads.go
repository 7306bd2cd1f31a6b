package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventPayload is the interface all typed payloads implement.
type EventPayload interface {
	EventType() EventType
}

// MessageReceivedPayload is published when a chat message arrives,
// before classification.
type MessageReceivedPayload struct {
	Text      string `json:"text"`
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
}

func (MessageReceivedPayload) EventType() EventType { return EventMessageReceived }

// TodoCreatedPayload is published after the pipeline commits a new
// record to the store.
type TodoCreatedPayload struct {
	Timestamp string `json:"timestamp"`
	Task      string `json:"task"`
}

func (TodoCreatedPayload) EventType() EventType { return EventTodoCreated }

// TodoUpdatedPayload is published after a viewer mutation is applied.
type TodoUpdatedPayload struct {
	Timestamp string `json:"timestamp"`
	Field     string `json:"field"` // "status" or "indentLevel"
}

func (TodoUpdatedPayload) EventType() EventType { return EventTodoUpdated }

// NewTypedEvent creates an event from a typed payload.
func NewTypedEvent(source EventSource, payload EventPayload) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      payload.EventType(),
		Timestamp: time.Now(),
		Source:    source,
		Payload:   toMap(payload),
	}
}

func toMap(v any) map[string]any {
	var result map[string]any
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}
