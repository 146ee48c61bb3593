package event

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/groupware-kr/calendar-service/internal/domain"
	"github.com/groupware-kr/calendar-service/internal/metrics"
)

// Store is the single source of truth for the event snapshot the view
// layer reads. All mutations go through it; readers only ever see a whole
// snapshot, never a half-applied one.
type Store struct {
	repo  EventRepo
	cache Cache
	pub   ChangePublisher
	clock Clock
	loc   *time.Location

	ttlDetails time.Duration

	mu       sync.RWMutex
	snapshot []domain.CalendarEvent
	loaded   bool

	// issued/applied fence late fetch results out: a refresh that started
	// before the latest snapshot write must not overwrite it.
	issued  uint64
	applied uint64
}

func NewStore(repo EventRepo, clock Clock, pub ChangePublisher, cache Cache, loc *time.Location, ttlDetails time.Duration) *Store {
	if ttlDetails == 0 {
		ttlDetails = 5 * time.Minute
	}
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		repo:       repo,
		cache:      cache,
		pub:        pub,
		clock:      clock,
		loc:        loc,
		ttlDetails: ttlDetails,
	}
}

func (s *Store) Location() *time.Location { return s.loc }

// Refresh re-fetches everything and atomically replaces the snapshot.
// A result that raced with a newer write (mutation or later refresh) is
// discarded instead of clobbering it.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	ticket := s.issued
	s.mu.Unlock()

	rows, err := s.repo.ListAll(ctx, nil, nil)
	if err != nil {
		metrics.RecordRefresh("error")
		return domain.ErrFetch("failed to load events", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket < s.applied {
		metrics.RecordRefresh("stale_discarded")
		zlog.Debug().Uint64("ticket", ticket).Uint64("applied", s.applied).Msg("stale refresh discarded")
		return nil
	}
	s.snapshot = rows
	s.loaded = true
	s.applied = ticket
	metrics.RecordRefresh("ok")
	return nil
}

// FetchAll refreshes and returns the new snapshot, ordered start_time
// ascending. Failure is a fetch_error the caller surfaces with a retry
// affordance.
func (s *Store) FetchAll(ctx context.Context) ([]domain.CalendarEvent, error) {
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// Snapshot returns an immutable copy of the current event list for the
// pure view layer. It never touches the network.
func (s *Store) Snapshot() []domain.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CalendarEvent, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// EnsureLoaded fetches once if nothing has been loaded yet; it does not
// refresh an existing snapshot.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Refresh(ctx)
}

type CreateCmd struct {
	Actor string

	Title       string
	Description string
	Location    string
	Type        string
	StartTime   time.Time
	EndTime     time.Time
}

func (s *Store) Create(ctx context.Context, cmd CreateCmd) (*domain.CalendarEvent, error) {
	e, err := domain.NewEvent(cmd.Actor, cmd.Title, cmd.Description, cmd.Location, cmd.Type, cmd.StartTime, cmd.EndTime, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return nil, err
	}
	s.applyLocal(func(snap []domain.CalendarEvent) []domain.CalendarEvent {
		return insertSorted(snap, *e)
	})
	s.publish(ctx, "calendar.event.created", e)
	return e, nil
}

type UpdateCmd struct {
	Actor   string
	EventID string

	Title       *string
	Description *string
	Location    *string
	Type        *string
	StartTime   *time.Time
	EndTime     *time.Time
}

func (s *Store) Update(ctx context.Context, cmd UpdateCmd) (*domain.CalendarEvent, error) {
	ev, err := s.repo.GetByID(ctx, cmd.EventID)
	if err != nil {
		return nil, err
	}
	if !ev.CanManage(cmd.Actor) {
		return nil, domain.ErrForbidden("not allowed")
	}

	patched, err := ev.ApplyPatch(cmd.Title, cmd.Description, cmd.Location, cmd.Type, cmd.StartTime, cmd.EndTime, s.clock.Now())
	if err != nil {
		return nil, err
	}
	// Last write wins on racing updates; there is no version stamp.
	if err := s.repo.Update(ctx, patched); err != nil {
		return nil, err
	}

	s.applyLocal(func(snap []domain.CalendarEvent) []domain.CalendarEvent {
		return insertSorted(removeByID(snap, patched.ID), *patched)
	})
	s.invalidateDetail(ctx, patched.ID)
	s.publish(ctx, "calendar.event.updated", patched)
	return patched, nil
}

func (s *Store) Remove(ctx context.Context, id, actor string) error {
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ev.CanManage(actor) {
		return domain.ErrForbidden("not allowed")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.applyLocal(func(snap []domain.CalendarEvent) []domain.CalendarEvent {
		return removeByID(snap, id)
	})
	s.invalidateDetail(ctx, id)
	s.publish(ctx, "calendar.event.deleted", ev)
	return nil
}

// GetDetail serves the detail panel, cache first.
func (s *Store) GetDetail(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	key := cacheKeyDetail(id)
	if s.cache != nil {
		var cached domain.CalendarEvent
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if found {
			metrics.RecordCacheLookup("detail", true)
			return &cached, nil
		}
		metrics.RecordCacheLookup("detail", false)
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, e, s.ttlDetails); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return e, nil
}

// Watch funnels the realtime feed into the same atomic-replace path as a
// manual fetch. It blocks until ctx is canceled or the feed closes, so it
// runs in its own goroutine; cancellation is the unsubscribe.
func (s *Store) Watch(ctx context.Context, feed <-chan ChangeNote) {
	for {
		select {
		case <-ctx.Done():
			return
		case note, ok := <-feed:
			if !ok {
				return
			}
			if err := s.Refresh(ctx); err != nil {
				zlog.Warn().Err(err).Str("action", note.Action).Msg("refresh after change note failed")
			}
		}
	}
}

// ---- internals ----

func (s *Store) applyLocal(mutate func([]domain.CalendarEvent) []domain.CalendarEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = mutate(s.snapshot)
	s.loaded = true
	// local writes outrank any fetch already in flight
	s.issued++
	s.applied = s.issued
}

func (s *Store) invalidateDetail(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	key := cacheKeyDetail(id)
	if err := s.cache.Delete(ctx, key); err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache invalidate failed")
	}
}

func (s *Store) publish(ctx context.Context, routingKey string, e *domain.CalendarEvent) {
	if s.pub == nil {
		return
	}
	env := ChangeEnvelope[EventChangedPayload]{
		Version:    ChangeVersion,
		Producer:   ChangeProducer,
		MessageID:  uuid.NewString(),
		OccurredAt: s.clock.Now().UTC(),
		Payload: EventChangedPayload{
			EventID:   e.ID,
			OwnerID:   e.OwnerID,
			Title:     e.Title,
			Type:      string(e.Type),
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		},
	}
	if err := s.pub.PublishChange(ctx, routingKey, env); err != nil {
		zlog.Error().Err(err).Str("rk", routingKey).Str("event_id", e.ID).Msg("publish change failed")
	}
}

func cacheKeyDetail(id string) string { return "calendar:event:" + id }

// insertSorted keeps the snapshot ordered start_time ascending; equal
// starts keep the existing elements first, matching the repo's
// (start_time, id) paging order closely enough for display.
func insertSorted(snap []domain.CalendarEvent, e domain.CalendarEvent) []domain.CalendarEvent {
	i := sort.Search(len(snap), func(i int) bool {
		if snap[i].StartTime.Equal(e.StartTime) {
			return snap[i].ID > e.ID
		}
		return snap[i].StartTime.After(e.StartTime)
	})
	snap = append(snap, domain.CalendarEvent{})
	copy(snap[i+1:], snap[i:])
	snap[i] = e
	return snap
}

func removeByID(snap []domain.CalendarEvent, id string) []domain.CalendarEvent {
	for i := range snap {
		if snap[i].ID == id {
			return append(snap[:i:i], snap[i+1:]...)
		}
	}
	return snap
}
