package handlers

import (
	"net/http"

	ical "github.com/arran4/golang-ical"

	"github.com/groupware-kr/calendar-service/internal/application/event"
	"github.com/groupware-kr/calendar-service/internal/transport/http/response"
)

type FeedHandler struct {
	store *event.Store
	clock Clock
}

func NewFeedHandler(store *event.Store, clock Clock) *FeedHandler {
	return &FeedHandler{store: store, clock: clock}
}

// Feed serves the whole snapshot as an iCalendar file so desktop clients
// can subscribe to the portal calendar.
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if err := h.store.EnsureLoaded(r.Context()); err != nil {
		response.Err(w, r, err)
		return
	}

	now := h.clock.Now()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//groupware-kr//calendar-service//KO")
	cal.SetName("사내 일정")

	for _, e := range h.store.Snapshot() {
		ve := cal.AddEvent(e.ID + "@calendar-service")
		ve.SetDtStampTime(now)
		ve.SetStartAt(e.StartTime)
		ve.SetEndAt(e.EndTime)
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		ve.SetProperty(ical.ComponentPropertyCategories, e.Type.Style().Label)
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(cal.Serialize()))
}
