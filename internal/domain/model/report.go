package model

import (
	"time"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/enums"
)

type Report struct {
	ID           int64              `json:"id"`
	ReporterID   int64              `json:"reporter_id"`
	TargetUserID int64              `json:"target_user_id"`
	Reason       enums.ReportReason `json:"reason"`
	Details      string             `json:"details"`
	Resolved     bool               `json:"resolved"`
	CreatedAt    time.Time          `json:"created_at"`
}
