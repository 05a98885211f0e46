package dto

import (
	"time"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/model"
)

type ProfileCoreRequest struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Timezone    string `json:"timezone"`
}

type ProfileSkillsRequest struct {
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

type ProfileAvailabilityRequest struct {
	Availability []model.AvailabilitySlot `json:"availability"`
}

type ProfileResponse struct {
	UserID       int64                    `json:"userId"`
	DisplayName  string                   `json:"displayName"`
	Bio          string                   `json:"bio,omitempty"`
	Skills       []string                 `json:"skills"`
	Interests    []string                 `json:"interests"`
	Availability []model.AvailabilitySlot `json:"availability"`
	Timezone     string                   `json:"timezone,omitempty"`
	UpdatedAt    time.Time                `json:"updatedAt"`
}

type ProfileEnvelope struct {
	Success bool            `json:"success"`
	Data    ProfileResponse `json:"data"`
}
