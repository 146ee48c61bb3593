package event

import "time"

const (
	ChangeVersion  = 1
	ChangeProducer = "calendar-service"
)

// ChangeEnvelope is the stable contract for change notifications emitted
// on the calendar exchange. Consumers rely on version/producer/message_id/
// occurred_at plus the payload.
type ChangeEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

// EventChangedPayload is the business payload for routing keys
// calendar.event.created / calendar.event.updated / calendar.event.deleted.
type EventChangedPayload struct {
	EventID   string    `json:"event_id"`
	OwnerID   string    `json:"owner_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	Type      string    `json:"type,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
