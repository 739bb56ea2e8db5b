package event

import (
	"time"

	"github.com/google/uuid"
)

// Payload keys
const (
	KeyAction      = "action"
	KeyStatus      = "status"
	KeySplit       = "split"
	KeyOrderNumber = "order_number"
	KeyEntity      = "entity"
	KeyLayoutURL   = "layout_url"
	KeyForm        = "form"
	KeyCounts      = "counts"
	KeyComplete    = "complete"
)

// Event represents a domain event about one procurement record
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	RecordID      string                 `json:"record_id,omitempty"`
	TempID        string                 `json:"temp_id"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// NewEvent creates an event that starts its own correlation chain
func NewEvent(eventType Type, recordID, tempID string, payload map[string]interface{}) *Event {
	id := uuid.NewString()
	return NewEventWithCorrelation(eventType, recordID, tempID, payload, id)
}

// NewEventWithCorrelation creates an event linked to a correlation chain,
// used to tie the saves of one action execution together
func NewEventWithCorrelation(eventType Type, recordID, tempID string, payload map[string]interface{}, correlationID string) *Event {
	if payload == nil {
		payload = make(map[string]interface{})
	}
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		RecordID:      recordID,
		TempID:        tempID,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: correlationID,
	}
}

// WithPayload returns a copy of the event with key set
func (e *Event) WithPayload(key string, value interface{}) *Event {
	c := *e
	c.Payload = make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		c.Payload[k] = v
	}
	c.Payload[key] = value
	return &c
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if s, ok := e.Payload[key].(string); ok {
		return s
	}
	return ""
}

// GetPayloadBool retrieves a bool value from the payload
func (e *Event) GetPayloadBool(key string) bool {
	b, _ := e.Payload[key].(bool)
	return b
}
