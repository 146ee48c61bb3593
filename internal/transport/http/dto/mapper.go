package dto

import (
	"github.com/groupware-kr/calendar-service/internal/calendar"
	"github.com/groupware-kr/calendar-service/internal/domain"
)

// ToEventResp shapes a domain event for the wire. actor drives the
// can_manage flag so clients never have to reimplement ownership rules.
func ToEventResp(e domain.CalendarEvent, actor string) EventResp {
	style := e.Type.Style()
	return EventResp{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Type:        string(e.Type),
		Color:       style.Color,
		Label:       style.Label,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		CanManage:   e.CanManage(actor),
	}
}

func ToEventResps(events []domain.CalendarEvent, actor string) []EventResp {
	out := make([]EventResp, 0, len(events))
	for _, e := range events {
		out = append(out, ToEventResp(e, actor))
	}
	return out
}

// ToCellResp applies the overflow policy for the mode, then maps. Hidden
// entries are dropped from the wire; the count and summary stand in for
// them.
func ToCellResp(mode calendar.ViewMode, cell calendar.Cell, budget int, actor string) CellResp {
	d := calendar.AggregateCell(mode, cell, budget)
	return CellResp{
		Date:           string(cell.Key),
		IsToday:        cell.IsToday,
		IsSelected:     cell.IsSelected,
		IsCurrentMonth: cell.IsCurrentMonth,
		Events:         ToEventResps(d.Visible, actor),
		HiddenCount:    d.HiddenCount,
		Overflow:       d.Summary,
	}
}

func ToViewResp(view calendar.View, state calendar.ViewState, budget int, actor string, timezone string) ViewResp {
	resp := ViewResp{
		Mode:     string(view.Mode),
		Focus:    string(domain.DateKeyOf(state.FocusDate)),
		Timezone: timezone,
	}
	if !state.SelectedDate.IsZero() {
		resp.Selected = string(domain.DateKeyOf(state.SelectedDate))
	}

	if view.Mode == calendar.ModeList {
		resp.Events = ToEventResps(view.Events, actor)
		return resp
	}

	resp.Cells = make([]CellResp, 0, len(view.Cells))
	for _, cell := range view.Cells {
		resp.Cells = append(resp.Cells, ToCellResp(view.Mode, cell, budget, actor))
	}
	return resp
}
