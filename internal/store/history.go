package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/voiceprint/voiceprint/internal/db"
	"github.com/voiceprint/voiceprint/internal/session"
)

// History is the raw message log profiles are learned from.
type History struct {
	conn *sql.DB
}

// NewHistory creates a History backed by the given DB.
func NewHistory(database *db.DB) *History {
	return &History{conn: database.Conn()}
}

// Append stores the messages of a session for userID.
func (h *History) Append(userID, sessionID string, msgs []session.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	tx, err := h.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: append history: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.Prepare(`INSERT INTO messages (user_id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: append history: %w", err)
	}
	defer stmt.Close()

	for _, m := range msgs {
		at := m.At
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := stmt.Exec(userID, sessionID, string(m.Role), m.Content, timestamp(at)); err != nil {
			return fmt.Errorf("store: append history: %w", err)
		}
	}
	return tx.Commit()
}

// UserMessages returns up to limit of the most recent user-authored
// messages, oldest first.
func (h *History) UserMessages(userID string, limit int) ([]string, error) {
	rows, err := h.conn.Query(`
		SELECT content FROM messages
		WHERE user_id = ? AND role = ?
		ORDER BY rowid DESC LIMIT ?`,
		userID, string(session.RoleUser), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: user messages: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Count returns the number of stored messages for userID.
func (h *History) Count(userID string) (int, error) {
	var n int
	err := h.conn.QueryRow(`SELECT COUNT(*) FROM messages WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}
