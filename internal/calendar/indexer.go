// Package calendar holds the pure view logic of the portal calendar:
// grouping events by day, composing the month/week/day/list grids, and
// deciding what a crowded cell shows. Nothing here touches storage or the
// network; every function recomputes from the snapshot it is given.
package calendar

import (
	"time"

	"github.com/groupware-kr/calendar-service/internal/domain"
)

// IndexByDate groups a flat event list under the local calendar date of
// each event's start time. Bucket order preserves input order, so a list
// that arrives start-ascending stays start-ascending inside every bucket
// (stable grouping, ties keep discovery order).
func IndexByDate(events []domain.CalendarEvent, loc *time.Location) map[domain.DateKey][]domain.CalendarEvent {
	index := make(map[domain.DateKey][]domain.CalendarEvent, len(events))
	for _, e := range events {
		key := e.DateKey(loc)
		index[key] = append(index[key], e)
	}
	return index
}
