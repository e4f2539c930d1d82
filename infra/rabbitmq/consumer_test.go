package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lostfound/pkg/events"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDelivery struct {
	body     []byte
	headers  map[string]string
	acked    bool
	rejected bool
}

func (d *fakeDelivery) Body() []byte             { return d.body }
func (d *fakeDelivery) RoutingKey() string       { return "item.created.v1" }
func (d *fakeDelivery) Header(key string) string { return d.headers[key] }
func (d *fakeDelivery) Ack() error               { d.acked = true; return nil }
func (d *fakeDelivery) Reject() error            { d.rejected = true; return nil }

func encodedEvent(t *testing.T) []byte {
	t.Helper()
	data, err := events.NewEvent(events.ItemCreatedEvent, events.EventVersionV1,
		events.ItemCreatedPayload{ID: "item-1"}, events.NewHeaders("lostfound")).ToJSON()
	require.NoError(t, err)
	return data
}

func TestHandleDelivery_AcksOnSuccess(t *testing.T) {
	d := &fakeDelivery{body: encodedEvent(t)}
	var got *events.Event

	handleDelivery(context.Background(), "q", d, func(_ context.Context, e *events.Event) error {
		got = e
		return nil
	})

	assert.True(t, d.acked)
	assert.False(t, d.rejected)
	require.NotNil(t, got)
	assert.Equal(t, events.ItemCreatedEvent, got.Event)
	assert.NotEmpty(t, got.RawPayload)
}

func TestHandleDelivery_RejectsHandlerError(t *testing.T) {
	d := &fakeDelivery{body: encodedEvent(t)}

	handleDelivery(context.Background(), "q", d, func(context.Context, *events.Event) error {
		return errors.New("sink down")
	})

	assert.False(t, d.acked)
	assert.True(t, d.rejected)
}

func TestHandleDelivery_RejectsUndecodableBody(t *testing.T) {
	d := &fakeDelivery{body: []byte("not json")}
	called := false

	handleDelivery(context.Background(), "q", d, func(context.Context, *events.Event) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.True(t, d.rejected)
}

func TestConsumeDeliveries_DrainsUntilClosed(t *testing.T) {
	msgs := make(chan amqp.Delivery, 5)
	for i := 0; i < 5; i++ {
		msgs <- amqp.Delivery{Body: []byte{byte(i)}}
	}
	close(msgs)

	var mu sync.Mutex
	seen := 0
	err := consumeDeliveries(context.Background(), msgs, 3, func(_ context.Context, d delivery) {
		mu.Lock()
		defer mu.Unlock()
		seen++
	})

	assert.EqualError(t, err, "message channel closed")
	assert.Equal(t, 5, seen)
}

func TestConsumeDeliveries_StopsOnCancel(t *testing.T) {
	msgs := make(chan amqp.Delivery)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := consumeDeliveries(ctx, msgs, 2, func(context.Context, delivery) {})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
