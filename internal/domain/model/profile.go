package model

import "time"

// AvailabilitySlot is a recurring weekly window. Start and End are raw
// "HH:MM" clock strings; they are compared as minutes since midnight with no
// timezone normalization.
type AvailabilitySlot struct {
	DayOfWeek int    `json:"dayOfWeek"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

type Profile struct {
	UserID       int64              `json:"user_id"`
	DisplayName  string             `json:"display_name"`
	Bio          string             `json:"bio"`
	Skills       []string           `json:"skills"`
	Interests    []string           `json:"interests"`
	Availability []AvailabilitySlot `json:"availability"`
	Timezone     string             `json:"timezone"`
	AvatarKey    string             `json:"avatar_key"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
