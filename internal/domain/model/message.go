package model

import "time"

type Message struct {
	ID           int64     `json:"id"`
	ConnectionID int64     `json:"connection_id"`
	SenderID     int64     `json:"sender_id"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}
