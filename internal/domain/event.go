package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CalendarEvent is an immutable value from the point of view of the view
// layer: mutation happens through the store and always produces a fresh
// snapshot, never an in-place edit of a shared event.
type CalendarEvent struct {
	ID          string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Type        EventType

	// OwnerID is empty for unowned (system-wide) events, which any signed-in
	// member may edit or remove.
	OwnerID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewEvent(ownerID, title, description, location, typ string, start, end, now time.Time) (*CalendarEvent, error) {
	ownerID = strings.TrimSpace(ownerID)
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	location = strings.TrimSpace(location)

	if title == "" || len(title) > 200 {
		return nil, ErrValidation("title is required and must be <= 200 chars")
	}
	if len(description) > 4000 {
		return nil, ErrValidation("description must be <= 4000 chars")
	}
	if len(location) > 200 {
		return nil, ErrValidation("location must be <= 200 chars")
	}
	if start.IsZero() || end.IsZero() {
		return nil, ErrValidation("start_time and end_time are required")
	}
	// Zero-length reminders are allowed; only end before start is rejected.
	if end.Before(start) {
		return nil, ErrValidation("end_time must not be before start_time")
	}

	return &CalendarEvent{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		StartTime:   start.UTC(),
		EndTime:     end.UTC(),
		Location:    location,
		Type:        NormalizeType(typ),
		OwnerID:     ownerID,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

// CanManage reports whether actor may edit or remove the event: unowned
// events are managed by anyone, owned events only by their owner.
func (e *CalendarEvent) CanManage(actor string) bool {
	if e.OwnerID == "" {
		return true
	}
	return strings.TrimSpace(actor) != "" && actor == e.OwnerID
}

// ApplyPatch merges the non-nil fields into a copy and re-validates the
// time invariant. The receiver is left untouched.
func (e CalendarEvent) ApplyPatch(title, description, location, typ *string, start, end *time.Time, now time.Time) (*CalendarEvent, error) {
	if title != nil {
		v := strings.TrimSpace(*title)
		if v == "" || len(v) > 200 {
			return nil, ErrValidation("title must be non-empty and <= 200 chars")
		}
		e.Title = v
	}
	if description != nil {
		v := strings.TrimSpace(*description)
		if len(v) > 4000 {
			return nil, ErrValidation("description must be <= 4000 chars")
		}
		e.Description = v
	}
	if location != nil {
		v := strings.TrimSpace(*location)
		if len(v) > 200 {
			return nil, ErrValidation("location must be <= 200 chars")
		}
		e.Location = v
	}
	if typ != nil {
		e.Type = NormalizeType(*typ)
	}
	if start != nil {
		e.StartTime = start.UTC()
	}
	if end != nil {
		e.EndTime = end.UTC()
	}
	if (start != nil || end != nil) && e.EndTime.Before(e.StartTime) {
		return nil, ErrValidation("end_time must not be before start_time")
	}
	e.UpdatedAt = now.UTC()
	return &e, nil
}

// DateKey returns the single calendar day the event is displayed under.
// Bucketing is by the local date of StartTime only: events spanning
// midnight are not split across cells. Known limitation, kept on purpose
// because changing it changes user-visible grouping.
func (e *CalendarEvent) DateKey(loc *time.Location) DateKey {
	return NewDateKey(e.StartTime, loc)
}

// ParseTimestampLenient parses a stored ISO-8601 timestamp, degrading
// through date-only (midnight) before giving up. Callers keep the row and
// log a diagnostic when ok is false; a malformed timestamp must never
// abort a whole listing.
func ParseTimestampLenient(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
