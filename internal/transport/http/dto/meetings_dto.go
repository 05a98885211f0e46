package dto

import "time"

type ScheduleMeetingRequest struct {
	ConnectionID int64     `json:"connectionId"`
	StartsAt     time.Time `json:"startsAt"`
	DurationMin  int       `json:"durationMin"`
	WithZoom     bool      `json:"withZoom"`
	WithCalendar bool      `json:"withCalendar"`
}

type MeetingResponse struct {
	ID           int64     `json:"id"`
	ConnectionID int64     `json:"connectionId"`
	OrganizerID  int64     `json:"organizerId"`
	StartsAt     time.Time `json:"startsAt"`
	DurationMin  int       `json:"durationMin"`
	Status       string    `json:"status"`
	ZoomJoinURL  string    `json:"zoomJoinUrl,omitempty"`
}

type MeetingEnvelope struct {
	Success bool            `json:"success"`
	Data    MeetingResponse `json:"data"`
}

type MeetingsEnvelope struct {
	Success bool              `json:"success"`
	Data    []MeetingResponse `json:"data"`
}
