package dto

import "time"

// EventResp is the stable API response model. Color and label come from
// the shared type style table so every view renders identically.
type EventResp struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`

	Type  string `json:"type"`
	Color string `json:"color"`
	Label string `json:"label"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived per caller
	CanManage bool `json:"can_manage"`
}

// CellResp is one rendered grid slot.
type CellResp struct {
	Date           string `json:"date"`
	IsToday        bool   `json:"is_today"`
	IsSelected     bool   `json:"is_selected"`
	IsCurrentMonth bool   `json:"is_current_month"`

	Events      []EventResp `json:"events"`
	HiddenCount int         `json:"hidden_count,omitempty"`
	Overflow    string      `json:"overflow,omitempty"`
}

// ViewResp is the full composed calendar view. Cells is empty in list
// mode; Events carries the flat ordering instead.
type ViewResp struct {
	Mode     string `json:"mode"`
	Focus    string `json:"focus"`
	Selected string `json:"selected,omitempty"`
	Timezone string `json:"timezone"`

	Cells  []CellResp  `json:"cells,omitempty"`
	Events []EventResp `json:"events,omitempty"`
}

type DayResp struct {
	Date   string      `json:"date"`
	Events []EventResp `json:"events"`
}

type PresignAttachmentResp struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}
