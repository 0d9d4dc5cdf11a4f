package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session summarizes one period of continuous hand presence.
type Session struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Ticks     int        `json:"ticks"`
	Moves     int        `json:"moves"`
	Clicks    int        `json:"clicks"`
	Scrolls   int        `json:"scrolls"`
}

// SessionRepository records hand-presence sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start inserts an open session.
func (r *SessionRepository) Start(id string, at time.Time) error {
	_, err := r.db.Exec(`INSERT INTO sessions (id, started_at) VALUES (?, ?)`, id, at.UTC())
	return err
}

// End closes a session with its final counters.
func (r *SessionRepository) End(s *Session) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, ticks = ?, moves = ?, clicks = ?, scrolls = ?
		 WHERE id = ?`,
		s.EndedAt.UTC(), s.Ticks, s.Moves, s.Clicks, s.Scrolls, s.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, started_at, ended_at, ticks, moves, clicks, scrolls
		 FROM sessions WHERE id = ?`,
		id,
	)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// Recent returns up to limit sessions, newest first.
func (r *SessionRepository) Recent(limit int) ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, ticks, moves, clicks, scrolls
		 FROM sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	s := &Session{}
	var ended sql.NullTime
	err := row.Scan(&s.ID, &s.StartedAt, &ended, &s.Ticks, &s.Moves, &s.Clicks, &s.Scrolls)
	if err != nil {
		return nil, err
	}
	if ended.Valid {
		t := ended.Time
		s.EndedAt = &t
	}
	return s, nil
}
