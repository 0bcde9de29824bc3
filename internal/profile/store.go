package profile

import "errors"

// ErrVersionConflict is returned by a Store when the stored profile has moved
// past the version the caller started from.
var ErrVersionConflict = errors.New("profile: version conflict")

// Store persists profiles. Load never returns a nil profile without an
// error: an unknown user gets a fresh or bootstrapped profile.
//
// Save must reject a profile whose Version is not exactly one more than the
// stored version with ErrVersionConflict. A user with nothing stored yet
// accepts any version.
type Store interface {
	Load(userID string) (*MasterProfile, error)
	Save(p *MasterProfile) error
}
