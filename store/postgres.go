package store

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"checkpoint-backend/models"
)

// Postgres implements Store on a pgx connection pool. Geospatial search is
// delegated to the server-side nearby_events procedure.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func translateErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (p *Postgres) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (id, name, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, password, created_at
	`

	var user models.User
	err := p.db.QueryRow(ctx, query, uuid.New(), name, email, passwordHash).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}

	return &user, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password, created_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	err := p.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}

	return &user, nil
}

func (p *Postgres) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	query := `
		INSERT INTO events (title, description, longitude, latitude, start_time, end_time, event_token, host_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, title, description, longitude, latitude, start_time, end_time, event_token, host_id, created_at
	`

	var created models.Event
	err := p.db.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Longitude,
		event.Latitude,
		event.StartTime,
		event.EndTime,
		event.EventToken,
		event.HostID,
	).Scan(
		&created.ID,
		&created.Title,
		&created.Description,
		&created.Longitude,
		&created.Latitude,
		&created.StartTime,
		&created.EndTime,
		&created.EventToken,
		&created.HostID,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}

	return &created, nil
}

func (p *Postgres) ListEvents(ctx context.Context) ([]models.Event, error) {
	query := `
		SELECT id, title, description, longitude, latitude, start_time, end_time, event_token, host_id, created_at
		FROM events
		ORDER BY id
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Longitude,
			&event.Latitude,
			&event.StartTime,
			&event.EndTime,
			&event.EventToken,
			&event.HostID,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (p *Postgres) NearbyEvents(ctx context.Context, longitude, latitude, radiusMeters float64) ([]models.NearbyEvent, error) {
	// nearby_events returns events within the radius ordered by distance.
	query := `
		SELECT id, title, description, longitude, latitude, start_time, end_time, event_token, host_id, created_at, distance_meters
		FROM nearby_events($1, $2, $3)
	`

	rows, err := p.db.Query(ctx, query, longitude, latitude, radiusMeters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.NearbyEvent
	for rows.Next() {
		var event models.NearbyEvent
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Longitude,
			&event.Latitude,
			&event.StartTime,
			&event.EndTime,
			&event.EventToken,
			&event.HostID,
			&event.CreatedAt,
			&event.DistanceMeters,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (p *Postgres) GetEventByID(ctx context.Context, id int64) (*models.EventWithHost, error) {
	query := `
		SELECT e.id, e.title, e.description, e.longitude, e.latitude, e.start_time, e.end_time,
		       e.event_token, e.host_id, e.created_at, u.name, u.email
		FROM events e
		JOIN users u ON u.id = e.host_id
		WHERE e.id = $1
	`

	var event models.EventWithHost
	err := p.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Longitude,
		&event.Latitude,
		&event.StartTime,
		&event.EndTime,
		&event.EventToken,
		&event.HostID,
		&event.CreatedAt,
		&event.HostName,
		&event.HostEmail,
	)
	if err != nil {
		return nil, translateErr(err)
	}

	return &event, nil
}

func (p *Postgres) GetEventByToken(ctx context.Context, token string) (*models.Event, error) {
	query := `
		SELECT id, title, description, longitude, latitude, start_time, end_time, event_token, host_id, created_at
		FROM events
		WHERE event_token = $1
	`

	var event models.Event
	err := p.db.QueryRow(ctx, query, token).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Longitude,
		&event.Latitude,
		&event.StartTime,
		&event.EndTime,
		&event.EventToken,
		&event.HostID,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}

	return &event, nil
}

func (p *Postgres) UpdateEvent(ctx context.Context, id int64, hostID uuid.UUID, upd EventUpdate) (*models.Event, error) {
	// Build SET clause from the supplied fields only. The host_id filter
	// makes non-owned updates indistinguishable from missing events.
	query := "UPDATE events SET "
	args := []interface{}{}
	argIndex := 1

	set := func(column string, value interface{}) {
		if argIndex > 1 {
			query += ", "
		}
		query += column + " = $" + strconv.Itoa(argIndex)
		args = append(args, value)
		argIndex++
	}

	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.Longitude != nil {
		set("longitude", *upd.Longitude)
	}
	if upd.Latitude != nil {
		set("latitude", *upd.Latitude)
	}
	if upd.StartTime != nil {
		set("start_time", *upd.StartTime)
	}
	if upd.EndTime != nil {
		set("end_time", *upd.EndTime)
	}
	if len(args) == 0 {
		// Nothing to change; still verify ownership the same way.
		set("id", id)
	}

	query += " WHERE id = $" + strconv.Itoa(argIndex) + " AND host_id = $" + strconv.Itoa(argIndex+1)
	args = append(args, id, hostID)
	query += " RETURNING id, title, description, longitude, latitude, start_time, end_time, event_token, host_id, created_at"

	var event models.Event
	err := p.db.QueryRow(ctx, query, args...).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Longitude,
		&event.Latitude,
		&event.StartTime,
		&event.EndTime,
		&event.EventToken,
		&event.HostID,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}

	return &event, nil
}

func (p *Postgres) DeleteEvent(ctx context.Context, id int64, hostID uuid.UUID) error {
	result, err := p.db.Exec(ctx, "DELETE FROM events WHERE id = $1 AND host_id = $2", id, hostID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) CreateParticipation(ctx context.Context, eventID int64, userID uuid.UUID) (*models.Participation, error) {
	query := `
		INSERT INTO participations (id, event_id, user_id, attended)
		VALUES ($1, $2, $3, false)
		RETURNING id, event_id, user_id, attended, created_at
	`

	var participation models.Participation
	err := p.db.QueryRow(ctx, query, uuid.New(), eventID, userID).Scan(
		&participation.ID,
		&participation.EventID,
		&participation.UserID,
		&participation.Attended,
		&participation.CreatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}

	return &participation, nil
}

func (p *Postgres) MarkAttended(ctx context.Context, eventID int64, userID uuid.UUID) (*models.Participation, error) {
	query := `
		UPDATE participations
		SET attended = true
		WHERE event_id = $1 AND user_id = $2
		RETURNING id, event_id, user_id, attended, created_at
	`

	var participation models.Participation
	err := p.db.QueryRow(ctx, query, eventID, userID).Scan(
		&participation.ID,
		&participation.EventID,
		&participation.UserID,
		&participation.Attended,
		&participation.CreatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}

	return &participation, nil
}

func (p *Postgres) UserStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM events WHERE host_id = $1),
			(SELECT COUNT(*) FROM participations WHERE user_id = $1),
			(SELECT COUNT(*) FROM participations WHERE user_id = $1 AND attended)
	`

	var stats models.UserStats
	err := p.db.QueryRow(ctx, query, userID).Scan(&stats.Hosted, &stats.Participated, &stats.Attended)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (p *Postgres) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	// One grouped-count round trip for all users instead of three queries
	// per user. Row order is pinned so score ties stay deterministic.
	query := `
		SELECT u.id, u.name, u.email,
		       COALESCE(h.hosted, 0),
		       COALESCE(pt.participated, 0),
		       COALESCE(pt.attended, 0)
		FROM users u
		LEFT JOIN (
			SELECT host_id, COUNT(*) AS hosted
			FROM events
			GROUP BY host_id
		) h ON h.host_id = u.id
		LEFT JOIN (
			SELECT user_id,
			       COUNT(*) AS participated,
			       COUNT(*) FILTER (WHERE attended) AS attended
			FROM participations
			GROUP BY user_id
		) pt ON pt.user_id = u.id
		ORDER BY u.created_at, u.id
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		err := rows.Scan(&row.ID, &row.Name, &row.Email, &row.Hosted, &row.Participated, &row.Attended)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

var _ Store = (*Postgres)(nil)
