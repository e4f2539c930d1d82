package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID            string          `json:"id"`            // Unique per event, used as archive key
	Event         string          `json:"event"`         // e.g., "item.approved"
	Version       string          `json:"version"`       // e.g., "v1"
	Timestamp     time.Time       `json:"timestamp"`     // Event occurrence time
	Payload       any             `json:"payload"`       // The actual event data
	TraceID       string          `json:"traceId"`       // For distributed tracing
	CorrelationID string          `json:"correlationId"` // For request correlation
	RawPayload    json.RawMessage `json:"-"`
}

type Headers struct {
	TraceID       string
	CorrelationID string
	Service       string
}

func NewEvent(eventName, version string, payload any, headers Headers) *Event {
	return &Event{
		ID:            uuid.New().String(),
		Event:         eventName,
		Version:       version,
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
		TraceID:       headers.TraceID,
		CorrelationID: headers.CorrelationID,
	}
}

func NewHeaders(service string) Headers {
	return Headers{
		TraceID:       GenerateTraceID(),
		CorrelationID: GenerateCorrelationID(),
		Service:       service,
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event envelope, keeping the payload bytes untouched in
// RawPayload alongside the generic Payload.
func FromJSON(data []byte) (*Event, error) {
	var envelope struct {
		Event
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}

	event := envelope.Event
	event.RawPayload = envelope.Payload
	if len(envelope.Payload) > 0 {
		if err := json.Unmarshal(envelope.Payload, &event.Payload); err != nil {
			return nil, err
		}
	}
	return &event, nil
}

func (e *Event) GetRoutingKey() string {
	return e.Event + "." + e.Version
}

func GenerateTraceID() string {
	return uuid.New().String()
}

func GenerateCorrelationID() string {
	return uuid.New().String()
}
