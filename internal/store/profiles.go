package store

import (
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/voiceprint/voiceprint/internal/db"
	"github.com/voiceprint/voiceprint/internal/profile"
)

// bootstrapMessages is how much stored history seeds a profile for a user
// who has none.
const bootstrapMessages = 200

// ProfileStore implements profile.Store on the profiles table.
type ProfileStore struct {
	conn    *sql.DB
	history *History
	mgr     *profile.Manager
	log     *zap.Logger
}

var _ profile.Store = (*ProfileStore)(nil)

// ProfileOption configures a ProfileStore.
type ProfileOption func(*ProfileStore)

// WithManager sets the manager used to create and bootstrap profiles.
func WithManager(m *profile.Manager) ProfileOption {
	return func(s *ProfileStore) { s.mgr = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ProfileOption {
	return func(s *ProfileStore) { s.log = l }
}

// NewProfileStore creates a ProfileStore. history may be nil, which disables
// bootstrapping.
func NewProfileStore(database *db.DB, history *History, opts ...ProfileOption) *ProfileStore {
	s := &ProfileStore{conn: database.Conn(), history: history, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.mgr == nil {
		s.mgr = profile.NewManager(nil, nil, profile.WithLogger(s.log))
	}
	return s
}

// Load returns the stored profile for userID. Schema-1 documents are
// upgraded in memory; a user with no profile is bootstrapped from stored
// message history, or gets a new profile when there is none.
func (s *ProfileStore) Load(userID string) (*profile.MasterProfile, error) {
	var doc string
	var schema int
	err := s.conn.QueryRow(
		`SELECT document, schema_version FROM profiles WHERE user_id = ?`, userID,
	).Scan(&doc, &schema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.bootstrap(userID)
	case err != nil:
		return nil, fmt.Errorf("store: load profile: %w", err)
	}

	p, err := profile.Decode([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("store: load profile %q: %w", userID, err)
	}
	if p.UserID == "" {
		p.UserID = userID
	}
	if schema < profile.SchemaVersion {
		s.log.Info("migrated legacy profile",
			zap.String("user", userID),
			zap.Int("from_schema", schema),
			zap.Int("to_schema", p.SchemaVersion),
		)
	}
	return p, nil
}

func (s *ProfileStore) bootstrap(userID string) (*profile.MasterProfile, error) {
	p := s.mgr.NewProfile(userID)
	if s.history == nil {
		return p, nil
	}
	msgs, err := s.history.UserMessages(userID, bootstrapMessages)
	if err != nil {
		return nil, fmt.Errorf("store: bootstrap profile: %w", err)
	}
	if len(msgs) == 0 {
		return p, nil
	}
	p = s.mgr.UpdateFromConversation(p, profile.Update{UserMessages: msgs})
	s.log.Info("bootstrapped profile from history",
		zap.String("user", userID),
		zap.Int("messages", len(msgs)),
	)
	return p, nil
}

// Save writes p if the stored version is p.Version-1, or if nothing is
// stored for the user yet. Otherwise it returns profile.ErrVersionConflict.
func (s *ProfileStore) Save(p *profile.MasterProfile) error {
	if p == nil || p.UserID == "" {
		return fmt.Errorf("store: save profile: missing user id")
	}
	doc, err := profile.Encode(p)
	if err != nil {
		return fmt.Errorf("store: save profile: %w", err)
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: save profile: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	updated := timestamp(p.LastUpdated)
	res, err := tx.Exec(`
		UPDATE profiles
		SET version = ?, schema_version = ?, document = ?, updated_at = ?
		WHERE user_id = ? AND version = ?`,
		p.Version, p.SchemaVersion, string(doc), updated, p.UserID, p.Version-1,
	)
	if err != nil {
		return fmt.Errorf("store: save profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		res, err = tx.Exec(`
			INSERT INTO profiles (user_id, version, schema_version, document, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id) DO NOTHING`,
			p.UserID, p.Version, p.SchemaVersion, string(doc), timestamp(p.CreatedAt), updated,
		)
		if err != nil {
			return fmt.Errorf("store: save profile: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("store: save profile %q at version %d: %w", p.UserID, p.Version, profile.ErrVersionConflict)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: save profile: %w", err)
	}
	return nil
}

// Users lists every user with a stored profile.
func (s *ProfileStore) Users() ([]string, error) {
	rows, err := s.conn.Query(`SELECT user_id FROM profiles ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
