package dto

import "time"

type AdminUserResponse struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	Banned      bool      `json:"banned"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AdminUsersEnvelope struct {
	Success bool                `json:"success"`
	Data    []AdminUserResponse `json:"data"`
}

type SubmitReportRequest struct {
	ReportedUserID int64  `json:"reportedUserId"`
	Reason         string `json:"reason"`
	Details        string `json:"details"`
}

type ReportResponse struct {
	ID             int64      `json:"id"`
	ReporterID     int64      `json:"reporterId"`
	ReportedUserID int64      `json:"reportedUserId"`
	Reason         string     `json:"reason"`
	Details        string     `json:"details,omitempty"`
	Resolved       bool       `json:"resolved"`
	CreatedAt      time.Time  `json:"createdAt"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
}

type ReportEnvelope struct {
	Success bool           `json:"success"`
	Data    ReportResponse `json:"data"`
}

type ReportsEnvelope struct {
	Success bool             `json:"success"`
	Data    []ReportResponse `json:"data"`
}
