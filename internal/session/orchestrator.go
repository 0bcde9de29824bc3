package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voiceprint/voiceprint/internal/analyzer"
	"github.com/voiceprint/voiceprint/internal/profile"
	"github.com/voiceprint/voiceprint/internal/score"
)

const (
	maxSummaryTopics = 5
	maxQualityDelta  = 10.0
)

// Orchestrator runs sessions end to end.
type Orchestrator struct {
	an    *analyzer.Analyzer
	mgr   *profile.Manager
	now   func() time.Time
	newID func() string
	log   *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDs sets the generator for session and message IDs.
func WithIDs(newID func() string) Option {
	return func(o *Orchestrator) { o.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// NewOrchestrator creates an Orchestrator. IDs default to random UUIDs.
func NewOrchestrator(an *analyzer.Analyzer, mgr *profile.Manager, opts ...Option) *Orchestrator {
	if an == nil {
		an = analyzer.New(nil)
	}
	if mgr == nil {
		mgr = profile.NewManager(an, an.Lexicon())
	}
	o := &Orchestrator{
		an:    an,
		mgr:   mgr,
		now:   time.Now,
		newID: uuid.NewString,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start opens a session for userID.
func (o *Orchestrator) Start(userID string) *Session {
	s := &Session{
		ID:        o.newID(),
		UserID:    userID,
		State:     Open,
		StartedAt: o.now(),
		Messages:  []Message{},
		Feedback:  []profile.Feedback{},
	}
	o.log.Debug("session started", zap.String("session", s.ID), zap.String("user", userID))
	return s
}

// AddMessage analyses a user message and appends it, followed by the AI's
// reply when aiResponse is non-empty. A blank content adds only the reply.
// It returns the user message, or the reply when there is no user message;
// the zero Message when both are blank.
func (o *Orchestrator) AddMessage(s *Session, content, aiResponse string) (Message, error) {
	if s == nil || s.State != Open {
		return Message{}, ErrSessionClosed
	}
	now := o.now()
	var first Message
	if strings.TrimSpace(content) != "" {
		first = Message{ID: o.newID(), Role: RoleUser, Content: content, At: now}
		s.Messages = append(s.Messages, first)
		s.Analyses = append(s.Analyses, o.an.Analyze(content))
	}
	if strings.TrimSpace(aiResponse) != "" {
		reply := Message{ID: o.newID(), Role: RoleAssistant, Content: aiResponse, At: now}
		s.Messages = append(s.Messages, reply)
		if first.ID == "" {
			first = reply
		}
	}
	return first, nil
}

// AddFeedback records a verdict on one of the session's messages.
func (o *Orchestrator) AddFeedback(s *Session, messageID string, v profile.Verdict) error {
	if s == nil || s.State != Open {
		return ErrSessionClosed
	}
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidVerdict, v)
	}
	if !s.hasMessage(messageID) {
		return fmt.Errorf("%w: %s", ErrUnknownMessage, messageID)
	}
	s.Feedback = append(s.Feedback, profile.Feedback{MessageID: messageID, Verdict: v})
	return nil
}

// Complete closes s, folds it into current and reports what changed. A nil
// current starts from a new profile; a nil cc is derived from the session.
// Completing a session twice returns ErrSessionClosed.
func (o *Orchestrator) Complete(s *Session, current *profile.MasterProfile, cc *profile.ConversationContext) (*Outcome, error) {
	if s == nil || s.State != Open {
		return nil, ErrSessionClosed
	}
	if current == nil {
		current = o.mgr.NewProfile(s.UserID)
	}
	now := o.now()
	summary := o.summarize(s, now)
	if cc == nil {
		cc = deriveContext(s, current, summary)
	}

	updated := o.mgr.UpdateFromConversation(current, profile.Update{
		UserMessages: s.Contents(RoleUser),
		AIResponses:  s.Contents(RoleAssistant),
		Context:      cc,
		Feedback:     s.Feedback,
	})

	s.State = Completed
	s.CompletedAt = now

	out := &Outcome{
		SessionID: s.ID,
		Summary:   summary,
		Delta:     Delta(current, updated),
		Profile:   updated,
	}
	o.log.Info("session completed",
		zap.String("session", s.ID),
		zap.String("user", s.UserID),
		zap.Int("messages", len(s.Messages)),
		zap.Int("version", updated.Version),
		zap.Float64("engagement", summary.Engagement),
	)
	return out, nil
}

func (o *Orchestrator) summarize(s *Session, now time.Time) Summary {
	n := len(s.Analyses)
	var length, questions float64
	topics := analyzer.NewCounter()
	for _, a := range s.Analyses {
		length += float64(a.Length)
		questions += float64(a.Patterns.Questions)
		for _, t := range a.Topics {
			topics.Add(t, 1)
		}
	}
	avgLen := score.Per(length, n)
	qfreq := score.Per(questions, n)

	positive := 0
	for _, fb := range s.Feedback {
		if fb.Verdict == profile.Positive {
			positive++
		}
	}

	return Summary{
		UserMessages:      n,
		AIResponses:       len(s.Messages) - n,
		TopTopics:         topics.Terms(maxSummaryTopics),
		AvgMessageLength:  avgLen,
		QuestionFrequency: qfreq,
		Engagement:        Engagement(avgLen, n, qfreq),
		Satisfaction:      profile.Satisfaction(positive, len(s.Feedback)),
		Duration:          now.Sub(s.StartedAt),
	}
}

// Engagement blends average length (30%), message count (40%) and question
// frequency (30%), each scaled to 0-100 first.
func Engagement(avgLen float64, messages int, questionFreq float64) float64 {
	lengthScore := score.Clamp(avgLen)
	countScore := score.Clamp(float64(messages) * 10)
	questionScore := score.Clamp(questionFreq * 100)
	return score.Clamp(0.3*lengthScore + 0.4*countScore + 0.3*questionScore)
}

func deriveContext(s *Session, current *profile.MasterProfile, sum Summary) *profile.ConversationContext {
	cc := &profile.ConversationContext{
		ConversationFlow:   sum.TopTopics,
		PreviousQuestions:  []string{},
		ConversationLength: len(s.Messages),
		IsFirstTime:        current.Conversation.TotalConversations == 0,
	}
	if len(sum.TopTopics) > 0 {
		cc.CurrentTopic = sum.TopTopics[0]
	}
	for i, m := range s.Contents(RoleUser) {
		if s.Analyses[i].Patterns.Questions > 0 {
			cc.PreviousQuestions = append(cc.PreviousQuestions, m)
		}
	}
	return cc
}

// Delta compares a profile before and after an update.
func Delta(before, after *profile.MasterProfile) LearningDelta {
	known := make(map[string]struct{}, len(before.Style.FrequentWords))
	for _, w := range before.Style.Words() {
		known[w] = struct{}{}
	}
	vocab := make([]string, 0)
	for _, w := range after.Style.Words() {
		if _, ok := known[w]; !ok {
			vocab = append(vocab, w)
		}
	}
	bq, aq := before.Quality, after.Quality
	return LearningDelta{
		VersionBefore: before.Version,
		VersionAfter:  after.Version,
		ToneDelta:     after.Style.Tone.Sub(before.Style.Tone),
		NewVocabulary: vocab,
		NewPatterns:   profile.PatternOnsets(before.Style.Flags, after.Style.Flags),
		Quality: QualityDelta{
			DataRichness:       score.Limit(aq.DataRichness-bq.DataRichness, maxQualityDelta),
			ConsistencyScore:   score.Limit(aq.ConsistencyScore-bq.ConsistencyScore, maxQualityDelta),
			PredictionAccuracy: score.Limit(aq.PredictionAccuracy-bq.PredictionAccuracy, maxQualityDelta),
		},
	}
}
