package profile

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/voiceprint/voiceprint/internal/analyzer"
	"github.com/voiceprint/voiceprint/internal/lexicon"
	"github.com/voiceprint/voiceprint/internal/style"
)

// Policy selects how a new batch's style combines with the stored one.
type Policy string

const (
	// PolicyReplace rebuilds the style from the latest batch only.
	PolicyReplace Policy = "replace"
	// PolicyBlend weights the stored style against the latest batch.
	PolicyBlend Policy = "blend"
)

// ParsePolicy maps a config value to a Policy. Empty selects PolicyReplace.
func ParsePolicy(s string) (Policy, bool) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyReplace:
		return PolicyReplace, true
	case PolicyBlend:
		return PolicyBlend, true
	}
	return "", false
}

const (
	evolutionInterval   = 7 * 24 * time.Hour
	neutralSatisfaction = 50.0
	preferredTopicCount = 3
	maxReferenceRunes   = 100
)

// Manager applies conversations to profiles. It performs no I/O and never
// mutates the profiles it is given.
type Manager struct {
	an     *analyzer.Analyzer
	lex    *lexicon.Lexicon
	agg    *style.Aggregator
	now    func() time.Time
	log    *zap.Logger
	policy Policy
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithWindow sets the style aggregation window.
func WithWindow(n int) Option {
	return func(m *Manager) { m.agg = style.NewAggregator(n) }
}

// WithPolicy sets the style aggregation policy.
func WithPolicy(p Policy) Option {
	return func(m *Manager) { m.policy = p }
}

// NewManager creates a Manager. A nil analyzer or lexicon falls back to the
// built-in Korean lexicon.
func NewManager(an *analyzer.Analyzer, lex *lexicon.Lexicon, opts ...Option) *Manager {
	if lex == nil {
		lex = lexicon.Korean()
	}
	if an == nil {
		an = analyzer.New(lex)
	}
	m := &Manager{
		an:     an,
		lex:    lex,
		agg:    style.NewAggregator(style.DefaultWindow),
		now:    time.Now,
		log:    zap.NewNop(),
		policy: PolicyReplace,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Now returns the manager's current time.
func (m *Manager) Now() time.Time { return m.now() }

// NewProfile returns a neutral profile at version 1.
func (m *Manager) NewProfile(userID string) *MasterProfile {
	now := m.now()
	p := &MasterProfile{
		UserID:        userID,
		Version:       1,
		SchemaVersion: SchemaVersion,
		CreatedAt:     now,
		LastUpdated:   now,
		Style:         style.Neutral(),
	}
	p.Normalize()
	p.Insights.FormalityPreference = p.Style.Tone.Formality
	p.Insights.EnthusiasmPreference = p.Style.Tone.Enthusiasm
	return p
}

// UpdateFromConversation folds one conversation into a copy of p and
// returns the copy at the next version. A nil p starts from a new profile.
func (m *Manager) UpdateFromConversation(p *MasterProfile, u Update) *MasterProfile {
	if p == nil {
		p = m.NewProfile("")
	}
	prev := p
	next := p.Clone()
	next.Normalize()
	now := m.now()
	cc := u.Context
	if cc == nil {
		cc = &ConversationContext{}
	}

	analyses := make([]analyzer.MessageAnalysis, 0, len(u.UserMessages))
	for _, msg := range u.UserMessages {
		if strings.TrimSpace(msg) == "" {
			continue
		}
		analyses = append(analyses, m.an.Analyze(msg))
	}

	// 1. style
	if len(analyses) > 0 {
		batch := m.agg.Aggregate(analyses)
		if m.policy == PolicyBlend {
			next.Style = style.Blend(prev.Style, batch)
		} else {
			next.Style = batch
		}
	}

	// 2. summary
	m.updateSummary(next, analyses, u, cc, now)

	// 3. learned patterns
	next.Patterns = classify(next.Style, next.Conversation)

	// 4. insights
	m.updateInsights(next, u)

	// 5. context memory
	m.updateContext(next, u.UserMessages, now)

	// 6. quality
	next.Quality.MessagesAnalyzed += len(analyses)
	recomputeQuality(next)

	// 7. evolution
	if last, ok := next.Evolution.Last(); !ok || now.Sub(last.At) >= evolutionInterval {
		next.Evolution.Push(evolutionPoint(prev.Style, next.Style, prev.Version+1, now))
	}

	// 8. version
	next.Version = prev.Version + 1
	next.LastUpdated = now

	m.log.Debug("profile updated",
		zap.String("user", next.UserID),
		zap.Int("version", next.Version),
		zap.Int("messages", len(analyses)),
		zap.Float64("data_richness", next.Quality.DataRichness),
	)
	return next
}

// UpdateBusinessInfo merges the non-empty fields of info into a copy of p.
func (m *Manager) UpdateBusinessInfo(p *MasterProfile, info BusinessInfo) *MasterProfile {
	if p == nil {
		p = m.NewProfile("")
	}
	next := p.Clone()
	next.Normalize()
	merge := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	b := &next.Business
	merge(&b.CompanyName, info.CompanyName)
	merge(&b.Industry, info.Industry)
	merge(&b.Role, info.Role)
	merge(&b.Products, info.Products)
	merge(&b.TargetCustomers, info.TargetCustomers)
	merge(&b.Goals, info.Goals)

	recomputeQuality(next)
	next.Version = p.Version + 1
	next.LastUpdated = m.now()
	return next
}

func (m *Manager) updateSummary(p *MasterProfile, analyses []analyzer.MessageAnalysis, u Update, cc *ConversationContext, now time.Time) {
	s := &p.Conversation

	length := float64(cc.ConversationLength)
	if length <= 0 {
		length = float64(len(u.UserMessages) + len(u.AIResponses))
	}
	if s.TotalConversations == 0 {
		s.AvgSessionLength = length
	} else {
		s.AvgSessionLength = (s.AvgSessionLength + length) / 2
	}

	s.TotalConversations++
	s.TotalMessages += len(u.UserMessages)
	s.TotalAIResponses += len(u.AIResponses)
	s.LastConversationAt = now

	topics := analyzer.NewCounter()
	topics.AddAll(s.TopicFrequency)
	for _, a := range analyses {
		for _, t := range a.Topics {
			topics.Add(t, 1)
		}
	}
	if t := strings.TrimSpace(cc.CurrentTopic); t != "" {
		topics.Add(t, 1)
		s.LastTopic = t
	} else if len(p.Style.Topics) > 0 && len(analyses) > 0 {
		s.LastTopic = p.Style.Topics[0].Topic
	}
	s.TopicFrequency = topics.Top(0)

	if intent := strings.TrimSpace(cc.UserIntent); intent != "" {
		intents := analyzer.NewCounter()
		intents.AddAll(s.IntentFrequency)
		intents.Add(intent, 1)
		s.IntentFrequency = intents.Top(0)
	}
}

func classify(st style.Profile, s ConversationSummary) LearnedPatterns {
	lp := LearnedPatterns{
		ResponseLength:    LengthMedium,
		InteractionStyle:  StyleProfessional,
		PreferredTopics:   make([]string, 0, preferredTopicCount),
		CommunicationTags: st.Flags.ActiveFlags(),
	}
	switch {
	case st.AvgMessageLength < 50:
		lp.ResponseLength = LengthShort
	case st.AvgMessageLength > 150:
		lp.ResponseLength = LengthLong
	}

	t := st.Tone
	switch {
	case t.Formality > 70 && t.Politeness > 70:
		lp.InteractionStyle = StyleFormal
	case t.Formality < 30:
		lp.InteractionStyle = StyleCasual
	case t.Politeness > 60:
		lp.InteractionStyle = StyleFriendly
	}

	for _, tc := range s.TopicFrequency {
		if len(lp.PreferredTopics) == preferredTopicCount {
			break
		}
		lp.PreferredTopics = append(lp.PreferredTopics, tc.Term)
	}
	return lp
}

func evolutionPoint(before, after style.Profile, version int, at time.Time) EvolutionPoint {
	old := make(map[string]struct{})
	for _, t := range before.TopTopics(preferredTopicCount) {
		old[t] = struct{}{}
	}
	shift := make([]string, 0)
	for _, t := range after.TopTopics(preferredTopicCount) {
		if _, ok := old[t]; !ok {
			shift = append(shift, t)
		}
	}
	return EvolutionPoint{
		At:          at,
		Version:     version,
		TopicShift:  shift,
		ToneDelta:   after.Tone.Sub(before.Tone),
		NewPatterns: PatternOnsets(before.Flags, after.Flags),
	}
}

// PatternOnsets names the flags set in after but not in before.
func PatternOnsets(before, after style.Flags) []string {
	had := make(map[string]struct{})
	for _, f := range before.ActiveFlags() {
		had[f] = struct{}{}
	}
	out := make([]string, 0)
	for _, f := range after.ActiveFlags() {
		if _, ok := had[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}
