package models

import (
	"time"

	"github.com/google/uuid"
)

// Participation records a user joining an event. Attended flips to true at
// most once, via the event token, inside the event's active window.
type Participation struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EventID   int64     `json:"event_id" db:"event_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Attended  bool      `json:"attended" db:"attended"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type JoinRequest struct {
	EventID int64 `json:"eventId" form:"eventId" binding:"required"`
}

type AttendRequest struct {
	EventToken string `json:"eventToken" form:"eventToken" binding:"required"`
}
