package profile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiceprint/voiceprint/internal/style"
)

func TestEncodeDecode_CurrentSchema(t *testing.T) {
	m, _ := newTestManager()
	p := m.UpdateFromConversation(m.NewProfile("u"), Update{UserMessages: []string{"신규 앱 프로젝트 마케팅 고민이에요"}})

	data, err := Encode(p)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, mustJSON(t, p), mustJSON(t, got))
}

func TestDecode_MigratesLegacy(t *testing.T) {
	created := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	st := style.Neutral()
	st.Tone.Formality = 80
	st.Tone.Enthusiasm = 20
	st.TotalAnalyzed = 12
	st.ConfidenceScore = 24

	data, err := json.Marshal(map[string]any{
		"user_id":        "legacy",
		"version":        7,
		"created_at":     created,
		"business":       BusinessInfo{CompanyName: "Acme", Role: "CEO"},
		"style":          st,
		"total_messages": 12,
		"projects":       []string{"신규 앱 프로젝트", "", "신규 앱 프로젝트"},
		"motivations":    []string{"성장"},
	})
	require.NoError(t, err)

	p, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "legacy", p.UserID)
	assert.Equal(t, 7, p.Version)
	assert.Equal(t, SchemaVersion, p.SchemaVersion)
	assert.Equal(t, created, p.LastUpdated)
	assert.Equal(t, "Acme", p.Business.CompanyName)
	assert.Equal(t, 80.0, p.Style.Tone.Formality)
	assert.Equal(t, 80.0, p.Insights.FormalityPreference)
	assert.Equal(t, 12, p.Quality.MessagesAnalyzed)
	assert.Equal(t, 50.0, p.Insights.Satisfaction)

	require.Equal(t, 1, p.Context.OngoingProjects.Len())
	proj, _ := p.Context.OngoingProjects.Last()
	assert.Equal(t, 2, proj.Mentions)
	m, ok := p.Insights.Motivations.Last()
	require.True(t, ok)
	assert.Equal(t, "성장", m)
	assert.Greater(t, p.Quality.DataRichness, 0.0)
	assert.Equal(t, StyleProfessional, p.Patterns.InteractionStyle)
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"schema_version": 99}`))
	assert.Error(t, err)
}
