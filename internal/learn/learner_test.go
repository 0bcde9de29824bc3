package learn

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiceprint/voiceprint/internal/db"
	"github.com/voiceprint/voiceprint/internal/ingest"
	"github.com/voiceprint/voiceprint/internal/session"
	"github.com/voiceprint/voiceprint/internal/store"
)

func setup(t *testing.T) (*store.Store, *Learner) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	st := store.New(database)
	n := 0
	ids := func() string { n++; return fmt.Sprintf("id-%d", n) }
	orch := session.NewOrchestrator(nil, nil, session.WithIDs(ids))
	clock := func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return st, New(st, orch, WithClock(clock))
}

func transcript(path string, ex ...ingest.Exchange) ingest.Transcript {
	return ingest.Transcript{Path: path, Hash: fmt.Sprintf("hash-%d", len(ex)), Exchanges: ex}
}

func TestTranscript_LearnsOnceAndRecords(t *testing.T) {
	st, ln := setup(t)
	tr := transcript("/chats/a.txt",
		ingest.Exchange{User: "신규 앱 프로젝트 마케팅 예산이 고민이에요", AI: "어떤 채널을 생각하세요?", Feedback: "positive"},
		ingest.Exchange{User: "인스타그램 광고요!"},
	)

	res, err := ln.Transcript("u", tr)
	require.NoError(t, err)
	require.False(t, res.Skipped)
	require.NotNil(t, res.Outcome)
	assert.Equal(t, 1, res.Outcome.Delta.VersionBefore)
	assert.Equal(t, 2, res.Outcome.Delta.VersionAfter)

	p, err := st.Profiles.Load("u")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Version)
	assert.Equal(t, 2, p.Style.TotalAnalyzed)
	assert.Equal(t, 1, p.Insights.PositiveFeedback)

	n, err := st.Sessions.Count("u")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = st.History.Count("u")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	matches, err := st.Fingerprints.Nearest("u", make([]float32, 8), 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, res.Outcome.SessionID, matches[0].SessionID)

	again, err := ln.Transcript("u", tr)
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	p, err = st.Profiles.Load("u")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Version)
}

func TestTranscript_EmptyIsMarked(t *testing.T) {
	st, ln := setup(t)
	res, err := ln.Transcript("u", transcript("/chats/empty.txt"))
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	h, err := st.Transcripts.Hash("/chats/empty.txt")
	require.NoError(t, err)
	assert.Equal(t, "hash-0", h)
	n, err := st.Sessions.Count("u")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExchanges_SuccessiveVersions(t *testing.T) {
	st, ln := setup(t)
	for i := 0; i < 3; i++ {
		_, err := ln.Exchanges("u", "mcp", []ingest.Exchange{{User: fmt.Sprintf("메시지 %d 입니다", i)}}, nil)
		require.NoError(t, err)
	}
	p, err := st.Profiles.Load("u")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Version)

	list, err := st.Sessions.List("u", 10)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, "mcp", list[0].Source)
}

func TestExchanges_InvalidFeedback(t *testing.T) {
	st, ln := setup(t)
	_, err := ln.Exchanges("u", "x", []ingest.Exchange{{User: "안녕하세요", AI: "네", Feedback: "meh"}}, nil)
	assert.ErrorIs(t, err, session.ErrInvalidVerdict)

	users, err := st.Profiles.Users()
	require.NoError(t, err)
	assert.Empty(t, users)
}
