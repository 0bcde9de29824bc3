package store

import (
	"database/sql"
	"fmt"

	"github.com/voiceprint/voiceprint/internal/db"
)

// Transcripts remembers the content hash of every learned transcript file.
type Transcripts struct {
	conn *sql.DB
}

// NewTranscripts creates a Transcripts backed by the given DB.
func NewTranscripts(database *db.DB) *Transcripts {
	return &Transcripts{conn: database.Conn()}
}

// Hash returns the hash recorded for path, or "" when path was never learned.
func (t *Transcripts) Hash(path string) (string, error) {
	var h string
	err := t.conn.QueryRow(`SELECT content_hash FROM transcripts WHERE path = ?`, path).Scan(&h)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: transcript hash: %w", err)
	}
	return h, nil
}

// Mark records that path with the given content hash was learned for userID.
func (t *Transcripts) Mark(path, userID, hash string) error {
	_, err := t.conn.Exec(`
		INSERT INTO transcripts (path, user_id, content_hash, learned_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
		    user_id      = excluded.user_id,
		    content_hash = excluded.content_hash,
		    learned_at   = CURRENT_TIMESTAMP`,
		path, userID, hash,
	)
	if err != nil {
		return fmt.Errorf("store: mark transcript: %w", err)
	}
	return nil
}

// Count returns the number of learned transcripts.
func (t *Transcripts) Count() (int, error) {
	var n int
	err := t.conn.QueryRow(`SELECT COUNT(*) FROM transcripts`).Scan(&n)
	return n, err
}
