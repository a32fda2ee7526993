package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a geolocated event. EventToken is the per-event attendance secret,
// distinct from the auth token.
type Event struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	Latitude    float64   `json:"latitude" db:"latitude"`
	StartTime   time.Time `json:"start_time" db:"start_time"`
	EndTime     time.Time `json:"end_time" db:"end_time"`
	EventToken  string    `json:"event_token" db:"event_token"`
	HostID      uuid.UUID `json:"host_id" db:"host_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// EventWithHost joins an event with its host's public profile fields.
type EventWithHost struct {
	Event
	HostName  string `json:"host_name"`
	HostEmail string `json:"host_email"`
}

// NearbyEvent is a row from the nearby_events procedure, ordered by distance
// on the server side.
type NearbyEvent struct {
	Event
	DistanceMeters float64 `json:"distance_meters"`
}

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description *string   `json:"description"`
	Longitude   *float64  `json:"longitude" binding:"required"`
	Latitude    *float64  `json:"latitude" binding:"required"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required"`
}

// UpdateEventRequest carries a partial update; nil fields are left untouched.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Longitude   *float64   `json:"longitude"`
	Latitude    *float64   `json:"latitude"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
}
