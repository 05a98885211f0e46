package model

import (
	"time"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/enums"
)

type User struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Role      enums.Role `json:"role"`
	Banned    bool       `json:"banned"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
