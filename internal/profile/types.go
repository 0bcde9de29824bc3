// Package profile owns the per-user MasterProfile and the rule that folds a
// conversation into it.
package profile

import (
	"time"

	"github.com/voiceprint/voiceprint/internal/analyzer"
	"github.com/voiceprint/voiceprint/internal/bounded"
	"github.com/voiceprint/voiceprint/internal/style"
)

// SchemaVersion is the document layout written by this package. Layout 1
// predates context memory and quality metrics.
const SchemaVersion = 2

type projectLimit struct{}

func (projectLimit) Limit() int { return 10 }

type referenceLimit struct{}

func (referenceLimit) Limit() int { return 20 }

type evolutionLimit struct{}

func (evolutionLimit) Limit() int { return 20 }

type keywordLimit struct{}

func (keywordLimit) Limit() int { return 10 }

// Bounded list types used by the profile.
type (
	Projects   = bounded.List[Project, projectLimit]
	References = bounded.List[Reference, referenceLimit]
	Evolution  = bounded.List[EvolutionPoint, evolutionLimit]
	Keywords   = bounded.List[string, keywordLimit]
)

// BusinessInfo is what the user has told us about their work.
type BusinessInfo struct {
	CompanyName     string `json:"company_name,omitempty"`
	Industry        string `json:"industry,omitempty"`
	Role            string `json:"role,omitempty"`
	Products        string `json:"products,omitempty"`
	TargetCustomers string `json:"target_customers,omitempty"`
	Goals           string `json:"goals,omitempty"`
}

func (b BusinessInfo) fields() []string {
	return []string{b.CompanyName, b.Industry, b.Role, b.Products, b.TargetCustomers, b.Goals}
}

// ConversationSummary accumulates totals across every conversation.
type ConversationSummary struct {
	TotalConversations int                  `json:"total_conversations"`
	TotalMessages      int                  `json:"total_messages"`
	TotalAIResponses   int                  `json:"total_ai_responses"`
	TopicFrequency     []analyzer.TermCount `json:"topic_frequency"`
	IntentFrequency    []analyzer.TermCount `json:"intent_frequency"`
	LastTopic          string               `json:"last_topic,omitempty"`
	AvgSessionLength   float64              `json:"avg_session_length"`
	LastConversationAt time.Time            `json:"last_conversation_at"`
}

// ResponseLength is the preferred length of replies.
type ResponseLength string

const (
	LengthShort  ResponseLength = "short"
	LengthMedium ResponseLength = "medium"
	LengthLong   ResponseLength = "long"
)

// InteractionStyle classifies the user's register.
type InteractionStyle string

const (
	StyleFormal       InteractionStyle = "formal"
	StyleCasual       InteractionStyle = "casual"
	StyleFriendly     InteractionStyle = "friendly"
	StyleProfessional InteractionStyle = "professional"
)

// LearnedPatterns are threshold classifications of the current style.
type LearnedPatterns struct {
	ResponseLength    ResponseLength   `json:"response_length"`
	InteractionStyle  InteractionStyle `json:"interaction_style"`
	PreferredTopics   []string         `json:"preferred_topics"`
	CommunicationTags []string         `json:"communication_tags"`
}

// PersonalizationInsights hold preference scores and feedback tallies.
type PersonalizationInsights struct {
	DetailPreference     float64  `json:"detail_preference"`
	EmojiPreference      float64  `json:"emoji_preference"`
	FormalityPreference  float64  `json:"formality_preference"`
	EnthusiasmPreference float64  `json:"enthusiasm_preference"`
	QuestionPreference   float64  `json:"question_preference"`
	PositiveFeedback     int      `json:"positive_feedback"`
	NegativeFeedback     int      `json:"negative_feedback"`
	NeutralFeedback      int      `json:"neutral_feedback"`
	Satisfaction         float64  `json:"satisfaction"`
	Motivations          Keywords `json:"motivations"`
	PainPoints           Keywords `json:"pain_points"`
}

// Project is an ongoing effort the user has mentioned.
type Project struct {
	Name           string    `json:"name"`
	FirstMentioned time.Time `json:"first_mentioned"`
	LastMentioned  time.Time `json:"last_mentioned"`
	Mentions       int       `json:"mentions"`
}

// ReferenceKind distinguishes personal references.
type ReferenceKind string

const (
	RefPreference ReferenceKind = "preference"
	RefConstraint ReferenceKind = "constraint"
)

// Reference is a sentence in which the user stated a preference or a
// constraint.
type Reference struct {
	Kind          ReferenceKind `json:"kind"`
	Text          string        `json:"text"`
	LastMentioned time.Time     `json:"last_mentioned"`
}

// ContextMemory remembers facts mentioned in conversation.
type ContextMemory struct {
	OngoingProjects    Projects   `json:"ongoing_projects"`
	PersonalReferences References `json:"personal_references"`
}

// Quality describes how much the profile can be trusted.
type Quality struct {
	DataRichness       float64 `json:"data_richness"`
	ConsistencyScore   float64 `json:"consistency_score"`
	PredictionAccuracy float64 `json:"prediction_accuracy"`
	MessagesAnalyzed   int     `json:"messages_analyzed"`
}

// EvolutionPoint is a periodic snapshot of how the style moved.
type EvolutionPoint struct {
	At          time.Time     `json:"at"`
	Version     int           `json:"version"`
	TopicShift  []string      `json:"topic_shift"`
	ToneDelta   analyzer.Tone `json:"tone_delta"`
	NewPatterns []string      `json:"new_patterns"`
}

// MasterProfile is the durable, versioned aggregate for one user.
type MasterProfile struct {
	UserID        string                  `json:"user_id"`
	Version       int                     `json:"version"`
	SchemaVersion int                     `json:"schema_version"`
	CreatedAt     time.Time               `json:"created_at"`
	LastUpdated   time.Time               `json:"last_updated"`
	Business      BusinessInfo            `json:"business"`
	Style         style.Profile           `json:"style"`
	Conversation  ConversationSummary     `json:"conversation"`
	Patterns      LearnedPatterns         `json:"patterns"`
	Insights      PersonalizationInsights `json:"insights"`
	Context       ContextMemory           `json:"context"`
	Quality       Quality                 `json:"quality"`
	Evolution     Evolution               `json:"evolution"`
}

// ConversationContext is produced by an external context analyzer.
type ConversationContext struct {
	CurrentTopic       string   `json:"current_topic"`
	ConversationFlow   []string `json:"conversation_flow"`
	UserIntent         string   `json:"user_intent"`
	PreviousQuestions  []string `json:"previous_questions"`
	UserSentiment      string   `json:"user_sentiment"`
	ConversationLength int      `json:"conversation_length"`
	IsFirstTime        bool     `json:"is_first_time"`
}

// Verdict is a user's reaction to one message.
type Verdict string

const (
	Positive Verdict = "positive"
	Negative Verdict = "negative"
	Neutral  Verdict = "neutral"
)

// Valid reports whether v is a known verdict.
func (v Verdict) Valid() bool {
	switch v {
	case Positive, Negative, Neutral:
		return true
	}
	return false
}

// Feedback is a verdict on a message.
type Feedback struct {
	MessageID string  `json:"message_id"`
	Verdict   Verdict `json:"verdict"`
}

// Update is one conversation's worth of input.
type Update struct {
	UserMessages []string
	AIResponses  []string
	Context      *ConversationContext
	Feedback     []Feedback
}

// Normalize fills absent sub-fields with their neutral defaults. Decoded
// documents may lack fields added after they were written.
func (p *MasterProfile) Normalize() {
	if p.SchemaVersion == 0 {
		p.SchemaVersion = SchemaVersion
	}
	if p.Version < 1 {
		p.Version = 1
	}
	if p.Style.Complexity == "" {
		p.Style = style.Neutral()
	}
	s := &p.Style
	s.FrequentWords = nonNil(s.FrequentWords)
	s.FrequentPhrases = nonNil(s.FrequentPhrases)
	s.FrequentEmojis = nonNil(s.FrequentEmojis)
	s.Traits.Conjunctions = nonNil(s.Traits.Conjunctions)
	s.Traits.Interjections = nonNil(s.Traits.Interjections)
	s.Traits.Fillers = nonNil(s.Traits.Fillers)
	s.Traits.SentenceEndings = nonNil(s.Traits.SentenceEndings)
	s.Topics = nonNil(s.Topics)

	p.Conversation.TopicFrequency = nonNil(p.Conversation.TopicFrequency)
	p.Conversation.IntentFrequency = nonNil(p.Conversation.IntentFrequency)
	if p.Patterns.ResponseLength == "" {
		p.Patterns.ResponseLength = LengthMedium
	}
	if p.Patterns.InteractionStyle == "" {
		p.Patterns.InteractionStyle = StyleProfessional
	}
	p.Patterns.PreferredTopics = nonNil(p.Patterns.PreferredTopics)
	p.Patterns.CommunicationTags = nonNil(p.Patterns.CommunicationTags)
	if p.Insights.PositiveFeedback+p.Insights.NegativeFeedback+p.Insights.NeutralFeedback == 0 {
		p.Insights.Satisfaction = neutralSatisfaction
	}
}

// Clone returns a deep copy of p.
func (p *MasterProfile) Clone() *MasterProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.Style = p.Style.Clone()
	out.Conversation.TopicFrequency = append([]analyzer.TermCount{}, p.Conversation.TopicFrequency...)
	out.Conversation.IntentFrequency = append([]analyzer.TermCount{}, p.Conversation.IntentFrequency...)
	out.Patterns.PreferredTopics = append([]string{}, p.Patterns.PreferredTopics...)
	out.Patterns.CommunicationTags = append([]string{}, p.Patterns.CommunicationTags...)
	out.Insights.Motivations = p.Insights.Motivations.Clone()
	out.Insights.PainPoints = p.Insights.PainPoints.Clone()
	out.Context.OngoingProjects = p.Context.OngoingProjects.Clone()
	out.Context.PersonalReferences = p.Context.PersonalReferences.Clone()

	var evo Evolution
	for _, e := range p.Evolution.Items() {
		e.TopicShift = append([]string{}, e.TopicShift...)
		e.NewPatterns = append([]string{}, e.NewPatterns...)
		evo.Push(e)
	}
	out.Evolution = evo
	return &out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
