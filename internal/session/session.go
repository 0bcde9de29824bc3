// Package session groups messages into a learning unit and drives it
// through analysis, profile update and delta computation.
package session

import (
	"errors"
	"time"

	"github.com/voiceprint/voiceprint/internal/analyzer"
	"github.com/voiceprint/voiceprint/internal/profile"
)

var (
	// ErrSessionClosed is returned for any mutation of a completed session.
	ErrSessionClosed = errors.New("session: closed")
	// ErrUnknownMessage is returned for feedback on a message not in the session.
	ErrUnknownMessage = errors.New("session: unknown message")
	// ErrInvalidVerdict is returned for feedback with an unrecognised verdict.
	ErrInvalidVerdict = errors.New("session: invalid verdict")
)

// State is a session's lifecycle state.
type State int

const (
	Open State = iota
	Completed
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Role says who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a session.
type Message struct {
	ID      string    `json:"id"`
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Session is a transient container for one conversation. Analyses holds one
// entry per user message, in order.
type Session struct {
	ID          string                     `json:"id"`
	UserID      string                     `json:"user_id"`
	State       State                      `json:"state"`
	StartedAt   time.Time                  `json:"started_at"`
	CompletedAt time.Time                  `json:"completed_at"`
	Messages    []Message                  `json:"messages"`
	Analyses    []analyzer.MessageAnalysis `json:"-"`
	Feedback    []profile.Feedback         `json:"feedback"`
}

func (s *Session) hasMessage(id string) bool {
	for _, m := range s.Messages {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Contents returns the contents of the messages with role r, in order.
func (s *Session) Contents(r Role) []string {
	out := make([]string, 0, len(s.Messages))
	for _, m := range s.Messages {
		if m.Role == r {
			out = append(out, m.Content)
		}
	}
	return out
}

// Summary describes a completed session.
type Summary struct {
	UserMessages      int           `json:"user_messages"`
	AIResponses       int           `json:"ai_responses"`
	TopTopics         []string      `json:"top_topics"`
	AvgMessageLength  float64       `json:"avg_message_length"`
	QuestionFrequency float64       `json:"question_frequency"`
	Engagement        float64       `json:"engagement"`
	Satisfaction      float64       `json:"satisfaction"`
	Duration          time.Duration `json:"duration"`
}

// QualityDelta is the change in profile quality over a session.
type QualityDelta struct {
	DataRichness       float64 `json:"data_richness"`
	ConsistencyScore   float64 `json:"consistency_score"`
	PredictionAccuracy float64 `json:"prediction_accuracy"`
}

// LearningDelta is what a session changed in the profile.
type LearningDelta struct {
	VersionBefore int           `json:"version_before"`
	VersionAfter  int           `json:"version_after"`
	ToneDelta     analyzer.Tone `json:"tone_delta"`
	NewVocabulary []string      `json:"new_vocabulary"`
	NewPatterns   []string      `json:"new_patterns"`
	Quality       QualityDelta  `json:"quality"`
}

// Outcome is the result of completing a session.
type Outcome struct {
	SessionID string                 `json:"session_id"`
	Summary   Summary                `json:"summary"`
	Delta     LearningDelta          `json:"delta"`
	Profile   *profile.MasterProfile `json:"-"`
}
