package consumers

import (
	"context"
	"encoding/json"
	"fmt"

	"lostfound/domain"
	"lostfound/pkg/events"

	"go.uber.org/zap"
)

// AuditSink stores archived item events.
type AuditSink interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
}

type AuditEventHandler struct {
	sink   AuditSink
	logger *zap.Logger
}

func NewAuditEventHandler(sink AuditSink, logger *zap.Logger) *AuditEventHandler {
	return &AuditEventHandler{
		sink:   sink,
		logger: logger,
	}
}

var archivedEvents = map[string]bool{
	events.ItemCreatedEvent:         true,
	events.ItemApprovedEvent:        true,
	events.ItemRejectedEvent:        true,
	events.ItemSightingCreatedEvent: true,
	events.ItemCommentCreatedEvent:  true,
	events.ItemReactionAddedEvent:   true,
}

// HandleEvent archives known item events. Unknown events are acknowledged
// and skipped; events without an item id are rejected as malformed.
func (h *AuditEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if !archivedEvents[event.Event] {
		h.logger.Warn("Unknown item event type", zap.String("event", event.Event))
		return nil
	}

	payload := event.RawPayload
	if len(payload) == 0 {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("malformed payload - marshal failed: %w", err)
		}
		payload = raw
	}

	itemID, err := itemIDOf(event.Event, payload)
	if err != nil {
		return err
	}

	entry := domain.AuditEntry{
		EventID:    event.ID,
		Event:      event.Event,
		Version:    event.Version,
		ItemID:     itemID,
		TraceID:    event.TraceID,
		OccurredAt: event.Timestamp.UTC(),
		Payload:    payload,
	}

	if err := h.sink.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to archive %s: %w", event.Event, err)
	}

	h.logger.Info("Item event archived",
		zap.String("event", event.Event),
		zap.String("itemId", itemID),
		zap.String("traceId", event.TraceID),
	)
	return nil
}

// itemIDOf reads the item id, which lives under "id" for item-level events
// and under "itemId" for engagement events.
func itemIDOf(eventName string, payload json.RawMessage) (string, error) {
	var fields struct {
		ID     string `json:"id"`
		ItemID string `json:"itemId"`
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return "", fmt.Errorf("malformed payload - unmarshal failed: %w", err)
	}

	switch eventName {
	case events.ItemCreatedEvent, events.ItemApprovedEvent, events.ItemRejectedEvent:
		if fields.ID == "" {
			return "", fmt.Errorf("malformed payload - id missing")
		}
		return fields.ID, nil
	default:
		if fields.ItemID == "" {
			return "", fmt.Errorf("malformed payload - itemId missing")
		}
		return fields.ItemID, nil
	}
}
