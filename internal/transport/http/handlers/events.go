package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/groupware-kr/calendar-service/internal/application/event"
	"github.com/groupware-kr/calendar-service/internal/domain"
	"github.com/groupware-kr/calendar-service/internal/transport/http/dto"
	"github.com/groupware-kr/calendar-service/internal/transport/http/middleware"
	"github.com/groupware-kr/calendar-service/internal/transport/http/response"
	"github.com/groupware-kr/calendar-service/internal/transport/http/validate"
)

type EventsHandler struct {
	store *event.Store
}

func NewEventsHandler(store *event.Store) *EventsHandler {
	return &EventsHandler{store: store}
}

// List returns the snapshot, optionally windowed by from/to on start time.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var from, to *time.Time
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"from": "must be RFC3339 timestamp",
			}))
			return
		}
		from = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"to": "must be RFC3339 timestamp",
			}))
			return
		}
		to = &t
	}

	if err := h.store.EnsureLoaded(r.Context()); err != nil {
		response.Err(w, r, err)
		return
	}

	events := h.store.Snapshot()
	if from != nil || to != nil {
		filtered := events[:0:0]
		for _, e := range events {
			if from != nil && e.StartTime.Before(*from) {
				continue
			}
			if to != nil && !e.StartTime.Before(*to) {
				continue
			}
			filtered = append(filtered, e)
		}
		events = filtered
	}

	response.Data(w, http.StatusOK, dto.ToEventResps(events, middleware.UserID(r)))
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "event_id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrValidationMeta("invalid path param", map[string]string{
			"event_id": "must be uuid",
		}))
		return
	}

	ev, err := h.store.GetDetail(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToEventResp(*ev, middleware.UserID(r)))
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEventReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		response.Err(w, r, err)
		return
	}

	ev, err := h.store.Create(r.Context(), event.CreateCmd{
		Actor:       middleware.UserID(r),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Type:        req.Type,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.ToEventResp(*ev, middleware.UserID(r)))
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "event_id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrValidationMeta("invalid path param", map[string]string{
			"event_id": "must be uuid",
		}))
		return
	}

	var req dto.UpdateEventReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		response.Err(w, r, err)
		return
	}

	ev, err := h.store.Update(r.Context(), event.UpdateCmd{
		Actor:       middleware.UserID(r),
		EventID:     id,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Type:        req.Type,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToEventResp(*ev, middleware.UserID(r)))
}

func (h *EventsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "event_id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrValidationMeta("invalid path param", map[string]string{
			"event_id": "must be uuid",
		}))
		return
	}

	if err := h.store.Remove(r.Context(), id, middleware.UserID(r)); err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}
