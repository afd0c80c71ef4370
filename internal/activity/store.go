// Package activity persists per-member last-seen timestamps. The activity
// cog writes on every message; the lurkers cog reads on each heartbeat.
package activity

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS member_activity (
	member_id TEXT PRIMARY KEY,
	last_seen INTEGER NOT NULL
);
`

// Store tracks when members were last active.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the activity database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("creating activity db directory: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening activity db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing activity db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Touch records that the member was active now.
func (s *Store) Touch(memberID string) error {
	return s.touchAt(memberID, time.Now())
}

func (s *Store) touchAt(memberID string, at time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO member_activity (member_id, last_seen) VALUES (?, ?)
		ON CONFLICT(member_id) DO UPDATE SET last_seen = excluded.last_seen`,
		memberID, at.Unix())
	if err != nil {
		return fmt.Errorf("touching member %s: %w", memberID, err)
	}
	return nil
}

// LastSeen returns the member's last activity time. ok is false for
// members never seen.
func (s *Store) LastSeen(memberID string) (time.Time, bool, error) {
	var unix int64
	err := s.db.QueryRow(
		`SELECT last_seen FROM member_activity WHERE member_id = ?`, memberID,
	).Scan(&unix)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("looking up member %s: %w", memberID, err)
	}
	return time.Unix(unix, 0), true, nil
}

// IdleSince lists members whose last activity is before the cutoff.
func (s *Store) IdleSince(cutoff time.Time) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT member_id FROM member_activity WHERE last_seen < ? ORDER BY last_seen`,
		cutoff.Unix())
	if err != nil {
		return nil, fmt.Errorf("listing idle members: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("listing idle members: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
