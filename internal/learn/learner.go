// Package learn folds conversations into stored profiles: one session per
// conversation, saved with a version check and recorded in history.
package learn

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/voiceprint/voiceprint/internal/ingest"
	"github.com/voiceprint/voiceprint/internal/profile"
	"github.com/voiceprint/voiceprint/internal/session"
	"github.com/voiceprint/voiceprint/internal/store"
	"github.com/voiceprint/voiceprint/internal/style"
)

// maxAttempts bounds retries after a version conflict.
const maxAttempts = 3

// Learner coordinates the session orchestrator and the store.
type Learner struct {
	store *store.Store
	orch  *session.Orchestrator
	locks *store.Locks
	now   func() time.Time
	log   *zap.Logger
}

// Option configures a Learner.
type Option func(*Learner)

// WithLocks shares a lock table with other writers in the process.
func WithLocks(l *store.Locks) Option {
	return func(ln *Learner) { ln.locks = l }
}

// WithClock sets the time recorded on sessions.
func WithClock(now func() time.Time) Option {
	return func(ln *Learner) { ln.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(ln *Learner) { ln.log = l }
}

// New creates a Learner.
func New(st *store.Store, orch *session.Orchestrator, opts ...Option) *Learner {
	ln := &Learner{store: st, orch: orch, locks: &store.Locks{}, now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(ln)
	}
	return ln
}

// Result is what one learned conversation produced.
type Result struct {
	Source  string           `json:"source"`
	Skipped bool             `json:"skipped,omitempty"`
	Outcome *session.Outcome `json:"outcome,omitempty"`
}

// Transcript learns t for userID unless the same content was learned
// before. Transcripts with no exchanges are recorded but produce no session.
func (ln *Learner) Transcript(userID string, t ingest.Transcript) (Result, error) {
	prev, err := ln.store.Transcripts.Hash(t.Path)
	if err != nil {
		return Result{}, err
	}
	if prev == t.Hash {
		return Result{Source: t.Path, Skipped: true}, nil
	}
	if len(t.Exchanges) == 0 {
		return Result{Source: t.Path, Skipped: true}, ln.store.Transcripts.Mark(t.Path, userID, t.Hash)
	}

	res, err := ln.Exchanges(userID, t.Path, t.Exchanges, nil)
	if err != nil {
		return res, err
	}
	if err := ln.store.Transcripts.Mark(t.Path, userID, t.Hash); err != nil {
		return res, err
	}
	return res, nil
}

// Exchanges runs one session over ex and saves the updated profile. A nil
// cc is derived from the session.
func (ln *Learner) Exchanges(userID, source string, ex []ingest.Exchange, cc *profile.ConversationContext) (Result, error) {
	unlock := ln.locks.Lock(userID)
	defer unlock()

	var (
		s   *session.Session
		out *session.Outcome
	)
	for attempt := 1; ; attempt++ {
		current, err := ln.store.Profiles.Load(userID)
		if err != nil {
			return Result{}, fmt.Errorf("learn: %w", err)
		}
		s, err = ln.run(userID, ex)
		if err != nil {
			return Result{}, fmt.Errorf("learn: %s: %w", source, err)
		}
		out, err = ln.orch.Complete(s, current, cc)
		if err != nil {
			return Result{}, fmt.Errorf("learn: %w", err)
		}
		err = ln.store.Profiles.Save(out.Profile)
		if err == nil {
			break
		}
		if !errors.Is(err, profile.ErrVersionConflict) || attempt == maxAttempts {
			return Result{}, fmt.Errorf("learn: %w", err)
		}
		ln.log.Warn("profile changed while learning, retrying",
			zap.String("user", userID),
			zap.Int("attempt", attempt),
		)
	}

	if err := ln.record(userID, source, s, out); err != nil {
		return Result{}, fmt.Errorf("learn: %w", err)
	}
	return Result{Source: source, Outcome: out}, nil
}

func (ln *Learner) run(userID string, ex []ingest.Exchange) (*session.Session, error) {
	s := ln.orch.Start(userID)
	for _, e := range ex {
		if _, err := ln.orch.AddMessage(s, e.User, e.AI); err != nil {
			return nil, err
		}
		if e.Feedback == "" {
			continue
		}
		target := s.Messages[len(s.Messages)-1].ID
		if err := ln.orch.AddFeedback(s, target, profile.Verdict(e.Feedback)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (ln *Learner) record(userID, source string, s *session.Session, out *session.Outcome) error {
	if err := ln.store.Sessions.Record(userID, source, out, ln.now()); err != nil {
		return err
	}
	if err := ln.store.History.Append(userID, s.ID, s.Messages); err != nil {
		return err
	}
	return ln.store.Fingerprints.Upsert(s.ID, userID, style.Fingerprint(out.Profile.Style))
}
