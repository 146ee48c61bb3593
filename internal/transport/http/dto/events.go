package dto

import "time"

type CreateEventReq struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=4000"`
	Location    string    `json:"location" validate:"max=200"`
	Type        string    `json:"type" validate:"event_type"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
}

type UpdateEventReq struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=4000"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,max=200"`
	Type        *string    `json:"type,omitempty" validate:"omitempty,event_type"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

type PresignAttachmentReq struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"max=100"`
}
