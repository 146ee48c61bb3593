package calendar

import (
	"fmt"

	"github.com/groupware-kr/calendar-service/internal/domain"
)

// DefaultCellBudget is how many events a compact grid cell shows before
// collapsing the rest behind the "+N개 더보기" affordance.
const DefaultCellBudget = 2

// CellDisplay is what a single compact cell renders: the visible prefix of
// the cell's events in stable order, plus the overflow summary. All holds
// the complete list for the popover, edit/delete gating on each entry is
// the store's CanManage.
type CellDisplay struct {
	Visible []domain.CalendarEvent
	All     []domain.CalendarEvent

	HiddenCount int
	Summary     string
}

// Truncate applies the display budget to a cell's events. Order is kept
// exactly as indexed (start ascending, stable); the policy never re-sorts
// by type, title, or duration.
func Truncate(events []domain.CalendarEvent, budget int) CellDisplay {
	if budget <= 0 {
		budget = DefaultCellBudget
	}
	d := CellDisplay{Visible: events, All: events}
	if len(events) > budget {
		d.Visible = events[:budget]
		d.HiddenCount = len(events) - budget
		d.Summary = fmt.Sprintf("+%d개 더보기", d.HiddenCount)
	}
	return d
}

// AggregateCell decides what a cell shows for the given mode. Month and
// week grids are compact and truncate; day and list views always show
// everything in full. In month mode the overflow summary only activates
// for in-month cells, matching how trailing/leading days render today.
func AggregateCell(mode ViewMode, cell Cell, budget int) CellDisplay {
	switch mode {
	case ModeMonth:
		d := Truncate(cell.Events, budget)
		if !cell.IsCurrentMonth {
			d.Summary = ""
		}
		return d
	case ModeWeek:
		return Truncate(cell.Events, budget)
	default:
		return CellDisplay{Visible: cell.Events, All: cell.Events}
	}
}
