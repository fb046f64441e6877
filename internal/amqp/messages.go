package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventKind names the store mutation an event describes.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
	EventCleared EventKind = "cleared"
)

func (k EventKind) Valid() bool {
	switch k {
	case EventCreated, EventUpdated, EventDeleted, EventCleared:
		return true
	}
	return false
}

// EntryEventMessage is a lightweight notification that the entry store changed.
// Consumers read the store themselves; the message only carries the entry ID.
type EntryEventMessage struct {
	MessageID string    `json:"message_id"`
	Kind      EventKind `json:"kind"`
	EntryID   int64     `json:"entry_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntryEventMessage creates a message with a fresh ID. entryID is zero
// for EventCleared.
func NewEntryEventMessage(kind EventKind, entryID int64) *EntryEventMessage {
	return &EntryEventMessage{
		MessageID: uuid.NewString(),
		Kind:      kind,
		EntryID:   entryID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryEventMessageFromJSON decodes a message and rejects unknown kinds.
func EntryEventMessageFromJSON(data []byte) (*EntryEventMessage, error) {
	var msg EntryEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Kind.Valid() {
		return nil, fmt.Errorf("unknown event kind %q", msg.Kind)
	}
	return &msg, nil
}
