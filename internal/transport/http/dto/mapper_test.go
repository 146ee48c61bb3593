package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupware-kr/calendar-service/internal/calendar"
	"github.com/groupware-kr/calendar-service/internal/domain"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func sampleEvent(t *testing.T, id, title, typ, start string) domain.CalendarEvent {
	t.Helper()
	st := mustTime(t, start)
	return domain.CalendarEvent{
		ID:        id,
		Title:     title,
		Type:      domain.NormalizeType(typ),
		OwnerID:   "user_1",
		StartTime: st,
		EndTime:   st.Add(time.Hour),
		CreatedAt: st,
		UpdatedAt: st,
	}
}

func TestToEventResp(t *testing.T) {
	t.Run("maps_fields_and_style", func(t *testing.T) {
		e := sampleEvent(t, "evt_1", "주간 회의", "meeting", "2025-03-10T10:00:00+09:00")

		resp := ToEventResp(e, "user_1")

		assert.Equal(t, "evt_1", resp.ID)
		assert.Equal(t, "주간 회의", resp.Title)
		assert.Equal(t, "meeting", resp.Type)
		assert.Equal(t, "#3b82f6", resp.Color)
		assert.Equal(t, "회의", resp.Label)
		assert.True(t, resp.CanManage)
	})

	t.Run("can_manage_false_for_other_actor", func(t *testing.T) {
		e := sampleEvent(t, "evt_1", "주간 회의", "meeting", "2025-03-10T10:00:00+09:00")

		resp := ToEventResp(e, "user_2")

		assert.False(t, resp.CanManage)
	})

	t.Run("unknown_type_renders_as_other", func(t *testing.T) {
		e := sampleEvent(t, "evt_1", "x", "festival", "2025-03-10T10:00:00+09:00")

		resp := ToEventResp(e, "")

		assert.Equal(t, "other", resp.Type)
		assert.Equal(t, "기타", resp.Label)
	})
}

func TestToCellResp(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	events := []domain.CalendarEvent{
		sampleEvent(t, "evt_1", "아침 회의", "meeting", "2025-03-10T09:00:00+09:00"),
		sampleEvent(t, "evt_2", "오후 교육", "training", "2025-03-10T14:00:00+09:00"),
	}
	cell := calendar.Cell{
		Date:           time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
		Key:            domain.DateKey("2025-03-10"),
		Events:         events,
		IsCurrentMonth: true,
	}

	t.Run("month_mode_truncates_and_labels_overflow", func(t *testing.T) {
		resp := ToCellResp(calendar.ModeMonth, cell, 1, "")

		require.Len(t, resp.Events, 1)
		assert.Equal(t, "아침 회의", resp.Events[0].Title)
		assert.Equal(t, 1, resp.HiddenCount)
		assert.Equal(t, "+1개 더보기", resp.Overflow)
	})

	t.Run("day_mode_keeps_everything", func(t *testing.T) {
		resp := ToCellResp(calendar.ModeDay, cell, 1, "")

		assert.Len(t, resp.Events, 2)
		assert.Zero(t, resp.HiddenCount)
		assert.Empty(t, resp.Overflow)
	})

	t.Run("out_of_month_cell_has_no_overflow_label", func(t *testing.T) {
		outside := cell
		outside.IsCurrentMonth = false

		resp := ToCellResp(calendar.ModeMonth, outside, 1, "")

		assert.Len(t, resp.Events, 1)
		assert.Empty(t, resp.Overflow)
	})
}

func TestToViewResp(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	focus := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	state := calendar.ViewState{Mode: calendar.ModeMonth, FocusDate: focus, SelectedDate: focus}
	events := []domain.CalendarEvent{
		sampleEvent(t, "evt_1", "아침 회의", "meeting", "2025-03-10T09:00:00+09:00"),
	}

	t.Run("month_view_carries_cells", func(t *testing.T) {
		view := calendar.Compose(calendar.ModeMonth, state, events, focus, loc)

		resp := ToViewResp(view, state, 2, "", "Asia/Seoul")

		assert.Equal(t, "month", resp.Mode)
		assert.Equal(t, "2025-03-10", resp.Focus)
		assert.Equal(t, "2025-03-10", resp.Selected)
		assert.Len(t, resp.Cells, 42)
		assert.Empty(t, resp.Events)
	})

	t.Run("list_view_carries_flat_events", func(t *testing.T) {
		view := calendar.Compose(calendar.ModeList, state, events, focus, loc)

		resp := ToViewResp(view, state, 2, "", "Asia/Seoul")

		assert.Empty(t, resp.Cells)
		require.Len(t, resp.Events, 1)
		assert.Equal(t, "evt_1", resp.Events[0].ID)
	})
}
