package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"

	"github.com/groupware-kr/calendar-service/internal/application/event"
)

func testConsumer(buf int) *Consumer {
	return &Consumer{notes: make(chan event.ChangeNote, buf)}
}

func delivery(t *testing.T, rk string, payload any) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	return amqp.Delivery{RoutingKey: rk, Body: body}
}

func TestHandleMessage_EmitsNote(t *testing.T) {
	c := testConsumer(1)
	env := event.ChangeEnvelope[event.EventChangedPayload]{
		Version:  event.ChangeVersion,
		Producer: event.ChangeProducer,
		Payload:  event.EventChangedPayload{EventID: "evt_1"},
	}

	c.handleMessage(context.Background(), delivery(t, "calendar.event.created", env))

	note := <-c.notes
	assert.Equal(t, "calendar.event.created", note.Action)
	assert.Equal(t, "evt_1", note.EventID)
}

func TestHandleMessage_MalformedBodyStillSignals(t *testing.T) {
	c := testConsumer(1)

	c.handleMessage(context.Background(), amqp.Delivery{
		RoutingKey: "calendar.event.updated",
		Body:       []byte("{not json"),
	})

	// a broken payload must not swallow the change signal
	note := <-c.notes
	assert.Equal(t, "calendar.event.updated", note.Action)
	assert.Empty(t, note.EventID)
}

func TestHandleMessage_CoalescesWhenFeedFull(t *testing.T) {
	c := testConsumer(1)
	env := event.ChangeEnvelope[event.EventChangedPayload]{Payload: event.EventChangedPayload{EventID: "a"}}

	c.handleMessage(context.Background(), delivery(t, "calendar.event.created", env))
	// feed already holds one pending note; this one collapses into it
	c.handleMessage(context.Background(), delivery(t, "calendar.event.created", env))

	assert.Len(t, c.notes, 1)
}
