package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/otienod/zonedash/internal/profile"
)

// ErrNoSnapshot is returned when no snapshot exists for a login.
var ErrNoSnapshot = errors.New("store: no snapshot")

// Snapshot is one computed ProfileStatistics, frozen at fetch time.
type Snapshot struct {
	ID      string
	Login   string
	TakenAt time.Time
	Stats   *profile.ProfileStatistics
}

// SaveSnapshot stores a freshly computed statistics value and returns
// the snapshot ID.
func (s *Store) SaveSnapshot(login string, stats *profile.ProfileStatistics) (string, error) {
	data, err := json.Marshal(stats)
	if err != nil {
		return "", fmt.Errorf("marshal stats: %w", err)
	}
	id := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`INSERT INTO snapshots (id, login, taken_at, stats) VALUES (?, ?, ?, ?)`,
		id, login, now, string(data),
	)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the most recent snapshot for a login, or
// ErrNoSnapshot.
func (s *Store) LatestSnapshot(login string) (*Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT id, login, taken_at, stats FROM snapshots
		 WHERE login = ? ORDER BY taken_at DESC, id DESC LIMIT 1`, login,
	)
	return scanSnapshot(row)
}

// ListSnapshots returns snapshots for a login, newest first.
func (s *Store) ListSnapshots(login string, limit int) ([]Snapshot, error) {
	query := `SELECT id, login, taken_at, stats FROM snapshots
	          WHERE login = ? ORDER BY taken_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}
	rows, err := s.db.Query(query, login)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var takenAt, stats string
		if err := rows.Scan(&snap.ID, &snap.Login, &takenAt, &stats); err != nil {
			return nil, err
		}
		snap.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
		if err := json.Unmarshal([]byte(stats), &snap.Stats); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// PruneSnapshots keeps the newest keep snapshots per login and deletes
// the rest.
func (s *Store) PruneSnapshots(login string, keep int) error {
	if keep <= 0 {
		return nil
	}
	_, err := s.db.Exec(
		`DELETE FROM snapshots WHERE login = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE login = ?
			ORDER BY taken_at DESC, id DESC LIMIT ?
		)`, login, login, keep,
	)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	snap := &Snapshot{}
	var takenAt, stats string
	err := row.Scan(&snap.ID, &snap.Login, &takenAt, &stats)
	if err == sql.ErrNoRows {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	snap.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	if err := json.Unmarshal([]byte(stats), &snap.Stats); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	return snap, nil
}
