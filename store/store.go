package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"checkpoint-backend/models"
)

var (
	// ErrNotFound reports a missing row, or a row the caller is not allowed
	// to touch (host-filtered updates report zero rows the same way).
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate reports a unique constraint violation.
	ErrDuplicate = errors.New("record already exists")
)

// EventUpdate carries the optional fields of a partial event update. Nil
// fields are left untouched.
type EventUpdate struct {
	Title       *string
	Description *string
	Longitude   *float64
	Latitude    *float64
	StartTime   *time.Time
	EndTime     *time.Time
}

// LeaderboardRow is one user's aggregate counts, scored and sorted by the
// caller. Row order follows account creation order.
type LeaderboardRow struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Hosted       int
	Participated int
	Attended     int
}

// Store is the data access gateway. It issues queries against the backing
// relational store and carries no business logic; handlers receive it as an
// injected dependency so tests can substitute an in-memory implementation.
type Store interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	NearbyEvents(ctx context.Context, longitude, latitude, radiusMeters float64) ([]models.NearbyEvent, error)
	GetEventByID(ctx context.Context, id int64) (*models.EventWithHost, error)
	GetEventByToken(ctx context.Context, token string) (*models.Event, error)
	UpdateEvent(ctx context.Context, id int64, hostID uuid.UUID, upd EventUpdate) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int64, hostID uuid.UUID) error

	CreateParticipation(ctx context.Context, eventID int64, userID uuid.UUID) (*models.Participation, error)
	MarkAttended(ctx context.Context, eventID int64, userID uuid.UUID) (*models.Participation, error)

	UserStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error)
	Leaderboard(ctx context.Context) ([]LeaderboardRow, error)
}
