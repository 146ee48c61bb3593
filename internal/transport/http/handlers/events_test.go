package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupware-kr/calendar-service/internal/application/event"
	"github.com/groupware-kr/calendar-service/internal/domain"
)

type mockClock struct{ t time.Time }

func (m mockClock) Now() time.Time { return m.t }

// map-backed repo so handler tests run the real store
type memRepo struct {
	events map[string]domain.CalendarEvent
}

func newMemRepo() *memRepo {
	return &memRepo{events: map[string]domain.CalendarEvent{}}
}

func (m *memRepo) ListAll(ctx context.Context, from, to *time.Time) ([]domain.CalendarEvent, error) {
	out := make([]domain.CalendarEvent, 0, len(m.events))
	for _, e := range m.events {
		if from != nil && e.StartTime.Before(*from) {
			continue
		}
		if to != nil && !e.StartTime.Before(*to) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memRepo) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound("event not found")
	}
	return &e, nil
}

func (m *memRepo) Insert(ctx context.Context, e *domain.CalendarEvent) error {
	m.events[e.ID] = *e
	return nil
}

func (m *memRepo) Update(ctx context.Context, e *domain.CalendarEvent) error {
	if _, ok := m.events[e.ID]; !ok {
		return domain.ErrNotFound("event not found")
	}
	m.events[e.ID] = *e
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound("event not found")
	}
	delete(m.events, id)
	return nil
}

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return loc
}

func newTestStore(t *testing.T, repo *memRepo, now time.Time) *event.Store {
	t.Helper()
	return event.NewStore(repo, mockClock{t: now}, event.NoopPublisher{}, nil, seoul(t), time.Minute)
}

func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestEventsHandler_Get(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := newMemRepo()
	store := newTestStore(t, repo, now)
	h := NewEventsHandler(store)

	t.Run("return_400_on_invalid_uuid", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest("GET", "/events/invalid-uuid", nil), "event_id", "invalid-uuid")
		rr := httptest.NewRecorder()

		h.Get(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "validation_error")
	})

	t.Run("return_404_on_missing_event", func(t *testing.T) {
		id := "550e8400-e29b-41d4-a716-446655440000"
		req := withURLParam(httptest.NewRequest("GET", "/events/"+id, nil), "event_id", id)
		rr := httptest.NewRecorder()

		h.Get(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("returns_styled_event", func(t *testing.T) {
		id := "550e8400-e29b-41d4-a716-446655440001"
		repo.events[id] = domain.CalendarEvent{
			ID:        id,
			Title:     "전사 워크숍",
			Type:      domain.TypeEvent,
			StartTime: now,
			EndTime:   now.Add(2 * time.Hour),
		}

		req := withURLParam(httptest.NewRequest("GET", "/events/"+id, nil), "event_id", id)
		rr := httptest.NewRecorder()

		h.Get(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var body struct {
			Data struct {
				Title string `json:"title"`
				Label string `json:"label"`
				Color string `json:"color"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "전사 워크숍", body.Data.Title)
		assert.Equal(t, "행사", body.Data.Label)
		assert.Equal(t, "#10b981", body.Data.Color)
	})
}

func TestEventsHandler_List(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := newMemRepo()
	repo.events["a"] = domain.CalendarEvent{ID: "a", Title: "첫번째", StartTime: now, EndTime: now.Add(time.Hour)}
	repo.events["b"] = domain.CalendarEvent{ID: "b", Title: "두번째", StartTime: now.Add(48 * time.Hour), EndTime: now.Add(49 * time.Hour)}
	h := NewEventsHandler(newTestStore(t, repo, now))

	t.Run("lists_everything_sorted", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest("GET", "/events", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var body struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body.Data, 2)
		assert.Equal(t, "a", body.Data[0].ID)
		assert.Equal(t, "b", body.Data[1].ID)
	})

	t.Run("window_filters_by_start_time", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest("GET", "/events?to=2025-03-11T00:00:00Z", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var body struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "a", body.Data[0].ID)
	})

	t.Run("rejects_bad_window", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest("GET", "/events?from=yesterday", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestEventsHandler_Create(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := newMemRepo()
	h := NewEventsHandler(newTestStore(t, repo, now))

	t.Run("creates_event", func(t *testing.T) {
		body := `{"title":"분기 회의","type":"meeting","start_time":"2025-03-12T10:00:00+09:00","end_time":"2025-03-12T11:00:00+09:00"}`
		rr := httptest.NewRecorder()

		h.Create(rr, httptest.NewRequest("POST", "/events", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Len(t, repo.events, 1)
	})

	t.Run("rejects_missing_title", func(t *testing.T) {
		body := `{"type":"meeting","start_time":"2025-03-12T10:00:00+09:00","end_time":"2025-03-12T11:00:00+09:00"}`
		rr := httptest.NewRecorder()

		h.Create(rr, httptest.NewRequest("POST", "/events", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects_end_before_start", func(t *testing.T) {
		body := `{"title":"x","start_time":"2025-03-12T11:00:00+09:00","end_time":"2025-03-12T10:00:00+09:00"}`
		rr := httptest.NewRecorder()

		h.Create(rr, httptest.NewRequest("POST", "/events", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects_unknown_body_field", func(t *testing.T) {
		body := `{"title":"x","bogus":true,"start_time":"2025-03-12T10:00:00+09:00","end_time":"2025-03-12T11:00:00+09:00"}`
		rr := httptest.NewRecorder()

		h.Create(rr, httptest.NewRequest("POST", "/events", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestEventsHandler_Remove(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := newMemRepo()
	id := "550e8400-e29b-41d4-a716-446655440002"
	repo.events[id] = domain.CalendarEvent{
		ID:        id,
		Title:     "삭제 대상",
		OwnerID:   "user-1",
		StartTime: now,
		EndTime:   now.Add(time.Hour),
	}
	h := NewEventsHandler(newTestStore(t, repo, now))

	t.Run("owner_mismatch_is_forbidden", func(t *testing.T) {
		// anonymous actor cannot remove an owned event
		req := withURLParam(httptest.NewRequest("DELETE", "/events/"+id, nil), "event_id", id)
		rr := httptest.NewRecorder()

		h.Remove(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, repo.events, id)
	})
}
