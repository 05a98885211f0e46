package model

import (
	"time"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/enums"
)

type Meeting struct {
	ID            int64               `json:"id"`
	ConnectionID  int64               `json:"connection_id"`
	OrganizerID   int64               `json:"organizer_id"`
	StartsAt      time.Time           `json:"starts_at"`
	DurationMin   int                 `json:"duration_min"`
	Status        enums.MeetingStatus `json:"status"`
	ZoomMeetingID string              `json:"zoom_meeting_id"`
	ZoomJoinURL   string              `json:"zoom_join_url"`
	CalendarEvent string              `json:"calendar_event_id"`
	CreatedAt     time.Time           `json:"created_at"`
}
