package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/groupware-kr/calendar-service/internal/config"
	"github.com/groupware-kr/calendar-service/internal/metrics"
	"github.com/groupware-kr/calendar-service/internal/transport/http/handlers"
	authmw "github.com/groupware-kr/calendar-service/internal/transport/http/middleware"
)

type Handlers struct {
	Events      *handlers.EventsHandler
	Views       *handlers.ViewsHandler
	Feed        *handlers.FeedHandler
	Attachments *handlers.AttachmentsHandler
	Health      *handlers.HealthHandler
}

func New(h Handlers, auth *authmw.AuthMiddleware, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(authmw.RequestID)
	r.Use(authmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(authmw.AccessLog)

	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
	}

	r.Get("/healthz", h.Health.Healthz)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/calendar/v1", func(r chi.Router) {
		// reads work without a session; identity, when present, only
		// drives the can_manage flags
		r.Group(func(r chi.Router) {
			r.Use(auth.Optional)
			r.Get("/events", h.Events.List)
			r.Get("/events/{event_id}", h.Events.Get)
			r.Get("/view", h.Views.View)
			r.Get("/view/day/{date}", h.Views.Day)
			r.Get("/feed.ics", h.Feed.Feed)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)
			r.Post("/events", h.Events.Create)
			r.Patch("/events/{event_id}", h.Events.Update)
			r.Delete("/events/{event_id}", h.Events.Remove)
			if h.Attachments != nil {
				r.Post("/events/{event_id}/attachments", h.Attachments.Presign)
			}
		})
	})

	return r
}
