package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/voiceprint/voiceprint/internal/db"
	"github.com/voiceprint/voiceprint/internal/session"
)

// SessionRecord is a completed session as stored.
type SessionRecord struct {
	ID           string                `json:"id"`
	UserID       string                `json:"user_id"`
	Source       string                `json:"source,omitempty"`
	VersionAfter int                   `json:"version_after"`
	Summary      session.Summary       `json:"summary"`
	Delta        session.LearningDelta `json:"delta"`
	CreatedAt    time.Time             `json:"created_at"`
}

// Sessions records completed sessions.
type Sessions struct {
	conn   *sql.DB
	vector bool
}

// NewSessions creates a Sessions backed by the given DB.
func NewSessions(database *db.DB) *Sessions {
	return &Sessions{conn: database.Conn(), vector: database.HasVector()}
}

// Record stores the outcome of a completed session. source names where the
// messages came from, such as a transcript path.
func (s *Sessions) Record(userID, source string, out *session.Outcome, at time.Time) error {
	summary, err := json.Marshal(out.Summary)
	if err != nil {
		return fmt.Errorf("store: record session: %w", err)
	}
	delta, err := json.Marshal(out.Delta)
	if err != nil {
		return fmt.Errorf("store: record session: %w", err)
	}
	_, err = s.conn.Exec(`
		INSERT INTO sessions (id, user_id, source, version_after, summary, delta, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		out.SessionID, userID, source, out.Delta.VersionAfter, string(summary), string(delta), timestamp(at),
	)
	if err != nil {
		return fmt.Errorf("store: record session: %w", err)
	}
	return nil
}

// List returns up to limit of userID's sessions, newest first.
func (s *Sessions) List(userID string, limit int) ([]SessionRecord, error) {
	rows, err := s.conn.Query(`
		SELECT id, user_id, COALESCE(source, ''), version_after, summary, delta, created_at
		FROM sessions WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var r SessionRecord
		var summary, delta, createdAt string
		if err := rows.Scan(&r.ID, &r.UserID, &r.Source, &r.VersionAfter, &summary, &delta, &createdAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(summary), &r.Summary)
		_ = json.Unmarshal([]byte(delta), &r.Delta)
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns one session by ID.
func (s *Sessions) Get(id string) (SessionRecord, error) {
	var r SessionRecord
	var summary, delta, createdAt string
	err := s.conn.QueryRow(`
		SELECT id, user_id, COALESCE(source, ''), version_after, summary, delta, created_at
		FROM sessions WHERE id = ?`, id,
	).Scan(&r.ID, &r.UserID, &r.Source, &r.VersionAfter, &summary, &delta, &createdAt)
	if err == sql.ErrNoRows {
		return r, fmt.Errorf("store: session %q not found", id)
	}
	if err != nil {
		return r, fmt.Errorf("store: get session: %w", err)
	}
	_ = json.Unmarshal([]byte(summary), &r.Summary)
	_ = json.Unmarshal([]byte(delta), &r.Delta)
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// Prune deletes sessions created before cutoff together with their messages
// and fingerprints. It returns the number of sessions removed.
func (s *Sessions) Prune(cutoff time.Time) (int, error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("store: prune sessions: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ts := timestamp(cutoff)
	if _, err := tx.Exec(`DELETE FROM messages WHERE session_id IN (SELECT id FROM sessions WHERE created_at < ?)`, ts); err != nil {
		return 0, fmt.Errorf("store: prune messages: %w", err)
	}
	if s.vector {
		if err := pruneIndex(tx, ts); err != nil {
			return 0, fmt.Errorf("store: prune fingerprint index: %w", err)
		}
	}
	if _, err := tx.Exec(`DELETE FROM fingerprints WHERE session_id IN (SELECT id FROM sessions WHERE created_at < ?)`, ts); err != nil {
		return 0, fmt.Errorf("store: prune fingerprints: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM sessions WHERE created_at < ?`, ts)
	if err != nil {
		return 0, fmt.Errorf("store: prune sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: prune sessions: %w", err)
	}
	return int(n), nil
}

func pruneIndex(tx *sql.Tx, ts string) error {
	rows, err := tx.Query(`SELECT id FROM sessions WHERE created_at < ?`, ts)
	if err != nil {
		return err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.Exec(`DELETE FROM vec_fingerprints WHERE id = ?`, id); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of stored sessions for userID, or for every
// user when userID is empty.
func (s *Sessions) Count(userID string) (int, error) {
	var n int
	err := s.conn.QueryRow(`SELECT COUNT(*) FROM sessions WHERE ? = '' OR user_id = ?`, userID, userID).Scan(&n)
	return n, err
}
