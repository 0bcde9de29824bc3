// Package store persists voice profiles and their learning history in the
// voiceprint SQLite database.
package store

import (
	"time"

	"github.com/voiceprint/voiceprint/internal/db"
)

// Store groups the tables of one database.
type Store struct {
	Profiles     *ProfileStore
	History      *History
	Sessions     *Sessions
	Transcripts  *Transcripts
	Fingerprints *Fingerprints
}

// New creates every table accessor over database. Profiles bootstraps new
// users from the stored History.
func New(database *db.DB, opts ...ProfileOption) *Store {
	history := NewHistory(database)
	return &Store{
		Profiles:     NewProfileStore(database, history, opts...),
		History:      history,
		Sessions:     NewSessions(database),
		Transcripts:  NewTranscripts(database),
		Fingerprints: NewFingerprints(database),
	}
}

// timestamp formats t the way rows are written, so text comparisons in SQL
// order by time.
func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05.000000")
}

func parseTime(s string) time.Time {
	layouts := []string{
		"2006-01-02 15:04:05.000000",
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
