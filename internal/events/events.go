package events

import (
	"context"
	"encoding/json"
)

// SubjectWrites is the subject document lifecycle events are published to
const SubjectWrites = "chronidx.writes"

// Event types
const (
	TypeDocumentWritten = "document.written"
	TypeDocumentDeleted = "document.deleted"
)

// Event describes one document lifecycle change
type Event struct {
	Type       string `json:"type"`
	Collection string `json:"collection"`
	Index      string `json:"index"`
	ID         string `json:"id"`
	Routing    string `json:"routing,omitempty"`
	At         int64  `json:"at"` // Unix seconds
}

// Encode serializes the event for publishing
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode deserializes a published event
func Decode(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher publishes events to a subject/topic
type Publisher interface {
	// Publish publishes a message to a subject/topic
	Publish(ctx context.Context, subject string, data []byte) error

	// Close closes the connection
	Close() error
}

// Handler handles incoming messages on a subscribed subject
type Handler func(data []byte) error
