package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents one played round.
type Session struct {
	ID            string
	StartedAt     time.Time
	EndedAt       time.Time
	Score         int
	DurationTicks int64
}

// SessionRepository provides CRUD operations for game sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new in-progress session and returns its generated ID.
func (r *SessionRepository) Create(startedAt time.Time) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		StartedAt: startedAt,
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, score, duration_ticks)
		 VALUES (?, ?, 0, 0)`,
		session.ID, session.StartedAt,
	)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Finish records the final score and duration for a session.
func (r *SessionRepository) Finish(id string, endedAt time.Time, score int, durationTicks int64) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, score = ?, duration_ticks = ?
		 WHERE id = ?`,
		endedAt, score, durationTicks, id,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	session := &Session{}
	var endedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, started_at, ended_at, score, duration_ticks
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&session.ID, &session.StartedAt, &endedAt, &session.Score, &session.DurationTicks)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if endedAt.Valid {
		session.EndedAt = endedAt.Time
	}
	return session, nil
}

// List retrieves the most recent sessions, newest first.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, score, duration_ticks
		 FROM sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// Best retrieves the highest-scoring finished sessions, best first.
func (r *SessionRepository) Best(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, score, duration_ticks
		 FROM sessions WHERE ended_at IS NOT NULL
		 ORDER BY score DESC, started_at ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// BestScore returns the highest finished score, or 0 with no sessions.
func (r *SessionRepository) BestScore() (int, error) {
	var score sql.NullInt64
	err := r.db.QueryRow(
		`SELECT MAX(score) FROM sessions WHERE ended_at IS NOT NULL`,
	).Scan(&score)
	if err != nil {
		return 0, err
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

func scanSessions(rows *sql.Rows) ([]*Session, error) {
	var sessions []*Session
	for rows.Next() {
		session := &Session{}
		var endedAt sql.NullTime

		err := rows.Scan(&session.ID, &session.StartedAt, &endedAt, &session.Score, &session.DurationTicks)
		if err != nil {
			return nil, err
		}

		if endedAt.Valid {
			session.EndedAt = endedAt.Time
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
