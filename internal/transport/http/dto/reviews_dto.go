package dto

import "time"

type SubmitReviewRequest struct {
	ToUserID int64  `json:"toUserId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

type ReviewResponse struct {
	ID         int64     `json:"id"`
	FromUserID int64     `json:"fromUserId"`
	ToUserID   int64     `json:"toUserId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ReviewsEnvelope struct {
	Success bool             `json:"success"`
	Data    []ReviewResponse `json:"data"`
}
