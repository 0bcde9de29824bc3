package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/voiceprint/voiceprint/internal/analyzer"
	"github.com/voiceprint/voiceprint/internal/profile"
	"github.com/voiceprint/voiceprint/internal/session"
	"github.com/voiceprint/voiceprint/internal/store"
)

func sampleExportData() ExportData {
	p := profile.NewManager(nil, nil).NewProfile("alice")
	p.Version = 4
	p.Quality.MessagesAnalyzed = 12
	p.Style.Tone.Formality = 80
	p.Style.Flags.UsesEmoji = true
	p.Style.FrequentEmojis = []analyzer.TermCount{{Term: "🔥", Count: 4}}
	p.Style.FrequentWords = []analyzer.TermCount{{Term: "이슈", Count: 3}, {Term: "확인", Count: 2}}
	p.Style.Traits.SentenceEndings = []string{"요", "ㅋㅋ"}
	p.Patterns.PreferredTopics = []string{"marketing"}
	p.Patterns.ResponseLength = profile.LengthShort
	p.Business.Role = "CEO"
	p.Context.OngoingProjects.Push(profile.Project{Name: "신규 앱 프로젝트", Mentions: 2})
	p.Insights.Motivations.Push("성장")

	return ExportData{
		Profile: p,
		Sessions: []store.SessionRecord{{
			ID:           "s1",
			VersionAfter: 4,
			Summary:      session.Summary{UserMessages: 3, Engagement: 42},
			Delta:        session.LearningDelta{NewVocabulary: []string{"이슈"}},
			CreatedAt:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
}

func TestGet_ValidFormats(t *testing.T) {
	for _, name := range []string{"markdown", "json", "prompt", "JSON"} {
		exp, ok := Get(name)
		if !ok || exp == nil {
			t.Errorf("Get(%q) returned no exporter", name)
		}
	}
	if _, ok := Get("claude"); ok {
		t.Error("expected Get('claude') to return false")
	}
}

func TestValidFormats_Sorted(t *testing.T) {
	got := strings.Join(ValidFormats(), ",")
	if got != "json,markdown,prompt" {
		t.Errorf("formats: got %q", got)
	}
}

func TestMarkdownExporter(t *testing.T) {
	exp, _ := Get("markdown")
	result, err := exp.Export(sampleExportData())
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}

	checks := []string{
		"Voice profile: alice",
		"Version 4, 12 messages",
		"| Formality | 80 |",
		"이슈",
		"Sentence endings",
		"신규 앱 프로젝트 (2 mentions)",
		"Motivations",
		"Role: CEO",
		"Recent sessions",
		"2024-03-01 v4: 3 messages, engagement 42, new words: 이슈",
		"Generated by voiceprint",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("markdown export missing %q", check)
		}
	}
	if strings.Contains(result, "Pain points") {
		t.Error("empty sections should be omitted")
	}
}

func TestJSONExporter(t *testing.T) {
	exp, _ := Get("json")
	result, err := exp.Export(sampleExportData())
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}

	var parsed struct {
		Profile  profile.MasterProfile    `json:"profile"`
		Quality  profile.QualityBreakdown `json:"quality_breakdown"`
		Sessions []store.SessionRecord    `json:"sessions"`
	}
	if err := json.Unmarshal([]byte(result), &parsed); err != nil {
		t.Fatalf("JSON export is invalid JSON: %v", err)
	}
	if parsed.Profile.UserID != "alice" || parsed.Profile.Version != 4 {
		t.Errorf("profile: got %s v%d", parsed.Profile.UserID, parsed.Profile.Version)
	}
	if parsed.Profile.Context.OngoingProjects.Len() != 1 {
		t.Errorf("projects: got %d", parsed.Profile.Context.OngoingProjects.Len())
	}
	if len(parsed.Sessions) != 1 || parsed.Sessions[0].ID != "s1" {
		t.Errorf("sessions: got %+v", parsed.Sessions)
	}
	if parsed.Quality.BusinessCompletion == 0 {
		t.Error("expected non-zero business completion")
	}
}

func TestPromptExporter(t *testing.T) {
	exp, _ := Get("prompt")
	result, err := exp.Export(sampleExportData())
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	checks := []string{
		"High formality.",
		"Keep messages short",
		"especially 🔥",
		"Favourite words: 이슈, 확인.",
		"usually talks about marketing",
		"is working on 신규 앱 프로젝트",
		"cares about 성장",
		"works as CEO",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("prompt export missing %q\n%s", check, result)
		}
	}
}

func TestExport_NoProfile(t *testing.T) {
	for _, name := range ValidFormats() {
		exp, _ := Get(name)
		if _, err := exp.Export(ExportData{}); err == nil {
			t.Errorf("%s: expected error without profile", name)
		}
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	written, err := WriteAll(dir, []string{"markdown", "prompt"}, sampleExportData())
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("written: got %v", written)
	}
	for _, path := range written {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}
	if filepath.Base(written[0]) != "voice-profile.md" {
		t.Errorf("markdown filename: got %q", filepath.Base(written[0]))
	}

	if _, err := WriteAll(dir, []string{"bogus"}, sampleExportData()); err == nil {
		t.Error("expected error for unknown format")
	}
}
