package consumers

import (
	"context"
	"errors"
	"testing"
	"time"

	"lostfound/domain"
	"lostfound/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memorySink struct {
	entries []domain.AuditEntry
	err     error
}

func (s *memorySink) Record(_ context.Context, entry domain.AuditEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func roundTrip(t *testing.T, name string, payload any) *events.Event {
	t.Helper()
	data, err := events.NewEvent(name, events.EventVersionV1, payload, events.NewHeaders("lostfound")).ToJSON()
	require.NoError(t, err)
	event, err := events.FromJSON(data)
	require.NoError(t, err)
	return event
}

func TestHandleEvent_ArchivesItemEvents(t *testing.T) {
	sink := &memorySink{}
	h := NewAuditEventHandler(sink, zap.NewNop())

	approved := roundTrip(t, events.ItemApprovedEvent, events.ItemModeratedPayload{
		ID:          "item-1",
		Status:      "approved",
		ModeratedBy: "mod@example.com",
		ModeratedAt: time.Now().UTC(),
	})
	reaction := roundTrip(t, events.ItemReactionAddedEvent, events.ItemReactionAddedPayload{
		ItemID: "item-1",
		Kind:   "heart",
		Count:  3,
	})

	require.NoError(t, h.HandleEvent(context.Background(), approved))
	require.NoError(t, h.HandleEvent(context.Background(), reaction))

	require.Len(t, sink.entries, 2)
	first := sink.entries[0]
	assert.Equal(t, approved.ID, first.EventID)
	assert.Equal(t, "item-1", first.ItemID)
	assert.Equal(t, "v1", first.Version)
	assert.Equal(t, approved.TraceID, first.TraceID)
	assert.Equal(t, string(approved.RawPayload), string(first.Payload))
	assert.Equal(t, "item-1", sink.entries[1].ItemID)
}

func TestHandleEvent_MarshalsInProcessPayload(t *testing.T) {
	sink := &memorySink{}
	h := NewAuditEventHandler(sink, zap.NewNop())

	event := events.NewEvent(events.ItemCommentCreatedEvent, events.EventVersionV1, events.ItemCommentCreatedPayload{
		ID:     "c-1",
		ItemID: "item-9",
	}, events.NewHeaders("lostfound"))

	require.NoError(t, h.HandleEvent(context.Background(), event))
	require.Len(t, sink.entries, 1)
	assert.Equal(t, "item-9", sink.entries[0].ItemID)
}

func TestHandleEvent_SkipsUnknownEvents(t *testing.T) {
	sink := &memorySink{}
	h := NewAuditEventHandler(sink, zap.NewNop())

	err := h.HandleEvent(context.Background(), roundTrip(t, "item.deleted", map[string]string{"id": "x"}))

	assert.NoError(t, err)
	assert.Empty(t, sink.entries)
}

func TestHandleEvent_RejectsMalformed(t *testing.T) {
	h := NewAuditEventHandler(&memorySink{}, zap.NewNop())

	err := h.HandleEvent(context.Background(), roundTrip(t, events.ItemCreatedEvent, map[string]string{"itemId": "wrong-key"}))
	assert.ErrorContains(t, err, "id missing")

	err = h.HandleEvent(context.Background(), roundTrip(t, events.ItemSightingCreatedEvent, []int{1, 2}))
	assert.ErrorContains(t, err, "unmarshal failed")
}

func TestHandleEvent_SinkFailure(t *testing.T) {
	h := NewAuditEventHandler(&memorySink{err: errors.New("db down")}, zap.NewNop())

	err := h.HandleEvent(context.Background(), roundTrip(t, events.ItemCreatedEvent, events.ItemCreatedPayload{ID: "item-1"}))
	assert.ErrorContains(t, err, "failed to archive item.created")
}
