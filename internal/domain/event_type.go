package domain

// EventType is the closed set of calendar categories the portal renders.
// Rows store the value as free text, so anything unrecognized degrades to
// TypeOther instead of erroring.
type EventType string

const (
	TypeMeeting   EventType = "meeting"
	TypeTraining  EventType = "training"
	TypeEvent     EventType = "event"
	TypeVolunteer EventType = "volunteer"
	TypeOther     EventType = "other"
)

func (t EventType) Valid() bool {
	switch t {
	case TypeMeeting, TypeTraining, TypeEvent, TypeVolunteer, TypeOther:
		return true
	}
	return false
}

// NormalizeType maps stored text onto the enum, falling back to TypeOther.
func NormalizeType(s string) EventType {
	t := EventType(s)
	if t.Valid() {
		return t
	}
	return TypeOther
}

// EventStyle is the single color/label mapping shared by every view.
// Month/week/day/list must render identical colors for the same event, so
// this table is the only place the mapping lives.
type EventStyle struct {
	Color string
	Label string
}

var eventStyles = map[EventType]EventStyle{
	TypeMeeting:   {Color: "#3b82f6", Label: "회의"},
	TypeTraining:  {Color: "#8b5cf6", Label: "교육"},
	TypeEvent:     {Color: "#10b981", Label: "행사"},
	TypeVolunteer: {Color: "#f59e0b", Label: "봉사"},
	TypeOther:     {Color: "#6b7280", Label: "기타"},
}

func (t EventType) Style() EventStyle {
	if s, ok := eventStyles[t]; ok {
		return s
	}
	return eventStyles[TypeOther]
}
