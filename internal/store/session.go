package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoSession is returned when no one is signed in.
var ErrNoSession = errors.New("store: no session")

// Session is the single persisted login: the opaque bearer token and
// who it belongs to.
type Session struct {
	Token     string
	Login     string
	CreatedAt time.Time
}

// SaveSession replaces the stored session. There is at most one.
func (s *Store) SaveSession(token, login string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO session (id, token, login, created_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET token = excluded.token, login = excluded.login, created_at = excluded.created_at`,
		token, login, now,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetSession returns the stored session or ErrNoSession.
func (s *Store) GetSession() (*Session, error) {
	sess := &Session{}
	var createdAt string
	err := s.db.QueryRow(`SELECT token, login, created_at FROM session WHERE id = 1`).
		Scan(&sess.Token, &sess.Login, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	sess.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return sess, nil
}

// ClearSession deletes the stored session. Clearing an empty store is
// not an error.
func (s *Store) ClearSession() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
