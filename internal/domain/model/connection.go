package model

import (
	"time"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/enums"
)

// Connection records a (potential) skill swap between two users. User1 is
// the requester and teaches Skill1; User2 is the recipient and teaches
// Skill2. At most one connection exists per unordered user pair.
type Connection struct {
	ID        int64                  `json:"id"`
	User1ID   int64                  `json:"user1_id"`
	User2ID   int64                  `json:"user2_id"`
	Skill1    string                 `json:"skill1"`
	Skill2    string                 `json:"skill2"`
	Status    enums.ConnectionStatus `json:"status"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func (c Connection) HasParticipant(userID int64) bool {
	return c.User1ID == userID || c.User2ID == userID
}

func (c Connection) PartnerOf(userID int64) int64 {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}
