package event

import (
	"context"
	"time"

	"github.com/groupware-kr/calendar-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

// EventRepo is the data collaborator for calendar_events rows. ListAll
// returns rows ordered start_time ascending; a nil from/to leaves that
// side of the window open.
type EventRepo interface {
	ListAll(ctx context.Context, from, to *time.Time) ([]domain.CalendarEvent, error)
	GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error)
	Insert(ctx context.Context, e *domain.CalendarEvent) error
	Update(ctx context.Context, e *domain.CalendarEvent) error
	Delete(ctx context.Context, id string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ChangePublisher emits calendar change notifications for other portal
// services (and other instances of this one). Best-effort: failures are
// logged, never surfaced to the caller.
type ChangePublisher interface {
	PublishChange(ctx context.Context, routingKey string, payload any) error
}

// ChangeNote is one message on the realtime feed. Whatever the change
// was, the store reacts the same way: re-fetch and replace the snapshot.
type ChangeNote struct {
	Action  string
	EventID string
}
