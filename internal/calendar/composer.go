package calendar

import (
	"time"

	"github.com/groupware-kr/calendar-service/internal/domain"
)

type ViewMode string

const (
	ModeMonth ViewMode = "month"
	ModeWeek  ViewMode = "week"
	ModeDay   ViewMode = "day"
	ModeList  ViewMode = "list"
)

func (m ViewMode) Valid() bool {
	switch m {
	case ModeMonth, ModeWeek, ModeDay, ModeList:
		return true
	}
	return false
}

func ParseViewMode(s string) (ViewMode, error) {
	if s == "" {
		return ModeMonth, nil
	}
	m := ViewMode(s)
	if !m.Valid() {
		return "", domain.ErrValidationMeta("invalid view mode", map[string]string{
			"mode": "must be one of: month, week, day, list",
		})
	}
	return m, nil
}

// ViewState is the ephemeral navigation state of one calendar session.
// Switching mode never resets focus or selection; only the grid shape
// changes.
type ViewState struct {
	Mode         ViewMode
	FocusDate    time.Time
	SelectedDate time.Time
}

func NewViewState(now time.Time) ViewState {
	return ViewState{Mode: ModeMonth, FocusDate: now, SelectedDate: now}
}

// Cell is one date slot of a composed grid.
type Cell struct {
	Date   time.Time
	Key    domain.DateKey
	Events []domain.CalendarEvent

	IsToday    bool
	IsSelected bool

	// IsCurrentMonth is meaningful in month mode only: leading and trailing
	// days from adjacent months are rendered de-emphasized but still carry
	// their events.
	IsCurrentMonth bool
}

// View is the full output of one composition: a grid of whole weeks for
// month mode, 7 cells for week, a single cell for day. List mode carries
// no grid; Events is the flat start-ascending list instead.
type View struct {
	Mode   ViewMode
	Cells  []Cell
	Events []domain.CalendarEvent
}

// Compose derives the exact set of cells for (mode, focus) and attaches
// each cell's events from the snapshot. mode and focus are the only
// determinants of the grid; now and selected only tag cells, so composing
// A -> B -> A with unchanged state yields an identical grid.
func Compose(mode ViewMode, state ViewState, events []domain.CalendarEvent, now time.Time, loc *time.Location) View {
	if loc == nil {
		loc = time.Local
	}
	index := IndexByDate(events, loc)

	switch mode {
	case ModeMonth:
		return View{Mode: mode, Cells: monthCells(state, index, now, loc)}
	case ModeWeek:
		start := weekStart(state.FocusDate.In(loc))
		return View{Mode: mode, Cells: cellRange(start, 7, state, index, now, loc, nil)}
	case ModeDay:
		day := dateOnly(state.FocusDate.In(loc))
		return View{Mode: mode, Cells: cellRange(day, 1, state, index, now, loc, nil)}
	default: // list
		return View{Mode: ModeList, Events: events}
	}
}

// monthCells builds whole weeks covering the focus month: from the Sunday
// on/before the 1st through the Saturday on/after the last day. Typically
// 35 or 42 cells, always a multiple of 7, contiguous.
func monthCells(state ViewState, index map[domain.DateKey][]domain.CalendarEvent, now time.Time, loc *time.Location) []Cell {
	focus := state.FocusDate.In(loc)
	monthStart := time.Date(focus.Year(), focus.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, -1)

	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, 6-int(monthEnd.Weekday()))

	days := int(gridEnd.Sub(gridStart).Hours()/24) + 1
	// DST can make the naive division land one short of a full week
	if days%7 != 0 {
		days += 7 - days%7
	}
	month := focus.Month()
	return cellRange(gridStart, days, state, index, now, loc, &month)
}

func cellRange(start time.Time, days int, state ViewState, index map[domain.DateKey][]domain.CalendarEvent, now time.Time, loc *time.Location, focusMonth *time.Month) []Cell {
	today := now.In(loc)
	selected := state.SelectedDate.In(loc)

	cells := make([]Cell, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		key := domain.DateKeyOf(date)
		cells = append(cells, Cell{
			Date:           date,
			Key:            key,
			Events:         index[key],
			IsToday:        sameDate(date, today),
			IsSelected:     !state.SelectedDate.IsZero() && sameDate(date, selected),
			IsCurrentMonth: focusMonth == nil || date.Month() == *focusMonth,
		})
	}
	return cells
}

func weekStart(t time.Time) time.Time {
	d := dateOnly(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
