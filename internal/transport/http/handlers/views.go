package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/groupware-kr/calendar-service/internal/application/event"
	"github.com/groupware-kr/calendar-service/internal/calendar"
	"github.com/groupware-kr/calendar-service/internal/domain"
	"github.com/groupware-kr/calendar-service/internal/metrics"
	"github.com/groupware-kr/calendar-service/internal/transport/http/dto"
	"github.com/groupware-kr/calendar-service/internal/transport/http/middleware"
	"github.com/groupware-kr/calendar-service/internal/transport/http/response"
)

type Clock interface{ Now() time.Time }

type ViewsHandler struct {
	store  *event.Store
	clock  Clock
	budget int
}

func NewViewsHandler(store *event.Store, clock Clock, budget int) *ViewsHandler {
	return &ViewsHandler{store: store, clock: clock, budget: budget}
}

// View composes the calendar grid for mode/focus/selected. Focus and
// selected default to today, matching what a fresh portal session shows.
func (h *ViewsHandler) View(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loc := h.store.Location()
	now := h.clock.Now().In(loc)

	mode, err := calendar.ParseViewMode(q.Get("mode"))
	if err != nil {
		response.Err(w, r, err)
		return
	}

	focus := now
	if v := q.Get("focus"); v != "" {
		key := domain.DateKey(v)
		if !key.Valid() {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"focus": "must be YYYY-MM-DD",
			}))
			return
		}
		focus = key.Time(loc)
	}

	selected := focus
	if v := q.Get("selected"); v != "" {
		key := domain.DateKey(v)
		if !key.Valid() {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"selected": "must be YYYY-MM-DD",
			}))
			return
		}
		selected = key.Time(loc)
	}

	budget := h.budget
	if v := q.Get("budget"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"budget": "must be a positive integer",
			}))
			return
		}
		budget = n
	}

	if err := h.store.EnsureLoaded(r.Context()); err != nil {
		response.Err(w, r, err)
		return
	}

	metrics.RecordViewRequest(string(mode))

	state := calendar.ViewState{Mode: mode, FocusDate: focus, SelectedDate: selected}
	view := calendar.Compose(mode, state, h.store.Snapshot(), now, loc)

	response.Data(w, http.StatusOK, dto.ToViewResp(view, state, budget, middleware.UserID(r), loc.String()))
}

// Day returns every event of one local date in full, never truncated.
func (h *ViewsHandler) Day(w http.ResponseWriter, r *http.Request) {
	loc := h.store.Location()

	key := domain.DateKey(chi.URLParam(r, "date"))
	if !key.Valid() {
		response.Err(w, r, domain.ErrValidationMeta("invalid path param", map[string]string{
			"date": "must be YYYY-MM-DD",
		}))
		return
	}

	if err := h.store.EnsureLoaded(r.Context()); err != nil {
		response.Err(w, r, err)
		return
	}

	metrics.RecordViewRequest("day")

	index := calendar.IndexByDate(h.store.Snapshot(), loc)
	response.Data(w, http.StatusOK, dto.DayResp{
		Date:   string(key),
		Events: dto.ToEventResps(index[key], middleware.UserID(r)),
	})
}
