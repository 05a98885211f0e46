package dto

import "time"

type SendMessageRequest struct {
	ConnectionID int64  `json:"connectionId"`
	Body         string `json:"body"`
}

type MessageResponse struct {
	ID           int64     `json:"id"`
	ConnectionID int64     `json:"connectionId"`
	SenderID     int64     `json:"senderId"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"createdAt"`
}

type MessageEnvelope struct {
	Success bool            `json:"success"`
	Data    MessageResponse `json:"data"`
}

type MessagesEnvelope struct {
	Success bool              `json:"success"`
	Data    []MessageResponse `json:"data"`
}
