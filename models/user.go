package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Password holds the bcrypt hash and is never
// serialized outbound.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RegisterRequest binds JSON or form-encoded bodies.
type RegisterRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// UserStats are the per-user aggregate counts.
type UserStats struct {
	Hosted       int `json:"hosted"`
	Participated int `json:"participated"`
	Attended     int `json:"attended"`
}

// LeaderboardEntry is one ranked row. Score = attended*2 + hosted.
type LeaderboardEntry struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Score        int       `json:"score"`
	Attended     int       `json:"attended"`
	Participated int       `json:"participated"`
	Hosted       int       `json:"hosted"`
}
