package domain

import (
	"encoding/json"
	"time"
)

// AuditEntry is one archived item event. The archive is write-only and never
// feeds back into the item store.
type AuditEntry struct {
	EventID    string          `json:"eventId"`
	Event      string          `json:"event"`
	Version    string          `json:"version"`
	ItemID     string          `json:"itemId"`
	TraceID    string          `json:"traceId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}
