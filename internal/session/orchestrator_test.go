package session

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/voiceprint/voiceprint/internal/analyzer"
	"github.com/voiceprint/voiceprint/internal/lexicon"
	"github.com/voiceprint/voiceprint/internal/profile"
)

func newTestOrchestrator(opts ...Option) *Orchestrator {
	lex := lexicon.Korean()
	an := analyzer.New(lex)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	seq := 0
	ids := func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	mgr := profile.NewManager(an, lex, profile.WithClock(clock))
	opts = append([]Option{WithClock(clock), WithIDs(ids)}, opts...)
	return NewOrchestrator(an, mgr, opts...)
}

func TestSession_Lifecycle(t *testing.T) {
	o := newTestOrchestrator()
	s := o.Start("user-1")
	assert.Equal(t, Open, s.State)
	assert.Equal(t, "id-1", s.ID)

	msg, err := o.AddMessage(s, "오늘 마케팅 회의 어땠어요?", "좋았어요")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, msg.Role)
	require.Len(t, s.Messages, 2)
	assert.Equal(t, RoleAssistant, s.Messages[1].Role)
	assert.Len(t, s.Analyses, 1)

	_, err = o.AddMessage(s, "예산도 정리했어요", "")
	require.NoError(t, err)
	assert.Len(t, s.Messages, 3, "empty AI response is not recorded")

	out, err := o.Complete(s, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Completed, s.State)
	assert.Equal(t, s.ID, out.SessionID)
	assert.Equal(t, 2, out.Summary.UserMessages)
	assert.Equal(t, 1, out.Summary.AIResponses)
	assert.Equal(t, 50.0, out.Summary.Satisfaction)
	assert.Equal(t, 1, out.Delta.VersionBefore)
	assert.Equal(t, 2, out.Delta.VersionAfter)
	assert.Equal(t, 2, out.Profile.Version)
	assert.Equal(t, "marketing", out.Profile.Conversation.LastTopic)
}

func TestSession_AssistantOnlyTurn(t *testing.T) {
	o := newTestOrchestrator()
	s := o.Start("u")
	_, err := o.AddMessage(s, "안녕하세요 반가워요", "")
	require.NoError(t, err)

	reply, err := o.AddMessage(s, "  ", "무엇을 도와드릴까요?")
	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, reply.Role)
	require.Len(t, s.Messages, 2)
	assert.Len(t, s.Analyses, 1)
	require.NoError(t, o.AddFeedback(s, reply.ID, profile.Positive))

	empty, err := o.AddMessage(s, "", "")
	require.NoError(t, err)
	assert.Empty(t, empty.ID)
	assert.Len(t, s.Messages, 2)

	out, err := o.Complete(s, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Summary.UserMessages)
	assert.Equal(t, 1, out.Summary.AIResponses)
	assert.Equal(t, float64(s.Analyses[0].Length), out.Summary.AvgMessageLength)
	assert.Equal(t, 1, out.Profile.Quality.MessagesAnalyzed)
}

func TestSession_ClosedRejectsMutation(t *testing.T) {
	o := newTestOrchestrator()
	s := o.Start("u")
	msg, err := o.AddMessage(s, "안녕하세요", "")
	require.NoError(t, err)
	_, err = o.Complete(s, nil, nil)
	require.NoError(t, err)

	_, err = o.AddMessage(s, "또", "")
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, o.AddFeedback(s, msg.ID, profile.Positive), ErrSessionClosed)
	_, err = o.Complete(s, nil, nil)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Len(t, s.Messages, 1)
}

func TestSession_Satisfaction(t *testing.T) {
	o := newTestOrchestrator()
	s := o.Start("u")
	verdicts := []profile.Verdict{profile.Positive, profile.Positive, profile.Negative, profile.Positive}
	for i, v := range verdicts {
		msg, err := o.AddMessage(s, fmt.Sprintf("질문 %d 있어요", i), "답변")
		require.NoError(t, err)
		require.NoError(t, o.AddFeedback(s, msg.ID, v))
	}
	out, err := o.Complete(s, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 75.0, out.Summary.Satisfaction)
	assert.Equal(t, 3, out.Profile.Insights.PositiveFeedback)
}

func TestSession_FeedbackValidation(t *testing.T) {
	o := newTestOrchestrator()
	s := o.Start("u")
	msg, err := o.AddMessage(s, "안녕하세요", "네 안녕하세요")
	require.NoError(t, err)

	err = o.AddFeedback(s, "missing", profile.Positive)
	assert.True(t, errors.Is(err, ErrUnknownMessage), "got %v", err)

	err = o.AddFeedback(s, msg.ID, profile.Verdict("great"))
	assert.True(t, errors.Is(err, ErrInvalidVerdict), "got %v", err)

	assert.NoError(t, o.AddFeedback(s, s.Messages[1].ID, profile.Negative), "AI replies accept feedback")
	assert.Len(t, s.Feedback, 1)
}

func TestSession_ZeroMessages(t *testing.T) {
	o := newTestOrchestrator()
	s := o.Start("u")
	out, err := o.Complete(s, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, out.Summary.UserMessages)
	assert.Zero(t, out.Summary.AvgMessageLength)
	assert.Zero(t, out.Summary.Engagement)
	assert.Equal(t, 50.0, out.Summary.Satisfaction)
	assert.Empty(t, out.Summary.TopTopics)
	assert.Equal(t, analyzer.Tone{}, out.Delta.ToneDelta)
	assert.Empty(t, out.Delta.NewVocabulary)
	assert.Equal(t, 2, out.Profile.Version)
}

func TestEngagement(t *testing.T) {
	tests := []struct {
		name     string
		avgLen   float64
		messages int
		qfreq    float64
		want     float64
	}{
		{"empty", 0, 0, 0, 0},
		{"all capped", 500, 20, 2, 100},
		{"mixed", 50, 5, 0.5, 0.3*50 + 0.4*50 + 0.3*50},
		{"count only", 0, 3, 0, 12},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Engagement(tc.avgLen, tc.messages, tc.qfreq), 1e-9)
		})
	}
}

func TestSession_DeltaAgainstCurrentProfile(t *testing.T) {
	o := newTestOrchestrator()

	first := o.Start("u")
	_, _ = o.AddMessage(first, "마케팅 브랜드 광고", "")
	out1, err := o.Complete(first, nil, nil)
	require.NoError(t, err)

	second := o.Start("u")
	_, _ = o.AddMessage(second, "서버 개발 배포!! 😊😊", "")
	_, _ = o.AddMessage(second, "코드 리뷰 완료!! 👍", "")
	out2, err := o.Complete(second, out1.Profile, nil)
	require.NoError(t, err)

	d := out2.Delta
	assert.Equal(t, out1.Profile.Version, d.VersionBefore)
	assert.Equal(t, out1.Profile.Version+1, d.VersionAfter)
	assert.Contains(t, d.NewVocabulary, "서버")
	assert.NotContains(t, d.NewVocabulary, "마케팅")
	assert.Contains(t, d.NewPatterns, "emoji")
	assert.Contains(t, d.NewPatterns, "exclamation")
	assert.Greater(t, d.ToneDelta.Enthusiasm, 0.0)
	for _, v := range []float64{d.Quality.DataRichness, d.Quality.ConsistencyScore, d.Quality.PredictionAccuracy} {
		assert.LessOrEqual(t, v, 10.0)
		assert.GreaterOrEqual(t, v, -10.0)
	}
}

func TestDelta_QualityCapped(t *testing.T) {
	before := &profile.MasterProfile{Version: 3}
	after := &profile.MasterProfile{Version: 4, Quality: profile.Quality{DataRichness: 80, ConsistencyScore: 5, PredictionAccuracy: 80}}
	d := Delta(before, after)
	assert.Equal(t, 10.0, d.Quality.DataRichness)
	assert.Equal(t, 5.0, d.Quality.ConsistencyScore)

	d = Delta(after, before)
	assert.Equal(t, -10.0, d.Quality.DataRichness)
}

func TestSession_DerivedContext(t *testing.T) {
	o := newTestOrchestrator()
	s := o.Start("u")
	_, _ = o.AddMessage(s, "여행 계획 있어요?", "")
	_, _ = o.AddMessage(s, "호텔 예약했어요", "")

	cc := deriveContext(s, profile.NewManager(nil, nil).NewProfile("u"), o.summarize(s, time.Now()))
	assert.Equal(t, "travel", cc.CurrentTopic)
	assert.Equal(t, []string{"여행 계획 있어요?"}, cc.PreviousQuestions)
	assert.Equal(t, 2, cc.ConversationLength)
	assert.True(t, cc.IsFirstTime)
}

func TestSession_LogsCompletion(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	o := newTestOrchestrator(WithLogger(zap.New(core)))
	s := o.Start("u")
	_, _ = o.AddMessage(s, "안녕하세요", "")
	_, err := o.Complete(s, nil, nil)
	require.NoError(t, err)

	entries := logs.FilterMessage("session completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "u", entries[0].ContextMap()["user"])
}
