package analyzer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/unicode/norm"

	"github.com/voiceprint/voiceprint/internal/lexicon"
)

func newTestAnalyzer() *Analyzer {
	return New(lexicon.Korean())
}

func TestAnalyze_ThankYouScenario(t *testing.T) {
	a := newTestAnalyzer()
	got := a.Analyze("정말 감사합니다! 도움이 많이 됐어요 😊")

	if diff := cmp.Diff([]string{"😊"}, got.Patterns.Emojis); diff != "" {
		t.Errorf("emojis mismatch (-want +got):\n%s", diff)
	}
	if got.Patterns.Exclamations != 1 {
		t.Errorf("exclamations: got %d, want 1", got.Patterns.Exclamations)
	}
	if got.Tone.Politeness <= 0 {
		t.Errorf("politeness should be positive, got %v", got.Tone.Politeness)
	}
	if got.Tone.Enthusiasm <= 0 {
		t.Errorf("enthusiasm should be positive, got %v", got.Tone.Enthusiasm)
	}
	if got.SentenceCount != 2 {
		t.Errorf("sentences: got %d, want 2", got.SentenceCount)
	}
	if diff := cmp.Diff([]string{"니다", "요", "다"}, got.Features.SentenceEndings); diff != "" {
		t.Errorf("endings mismatch (-want +got):\n%s", diff)
	}
	wantWords := []TermCount{{Term: "감사합니다", Count: 1}, {Term: "도움", Count: 1}}
	if diff := cmp.Diff(wantWords, got.Words); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := newTestAnalyzer()
	texts := []string{
		"",
		"그리고 오늘 회의에서 마케팅 예산 얘기를 했어요. 혹시 자료 있을까요?",
		"ㅋㅋㅋ 대박!!! 진짜 최고야 👍🏻👍🏻",
		"Dear team, please find the report attached. Regards.",
	}
	for _, text := range texts {
		first := a.Analyze(text)
		second := a.Analyze(text)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Analyze(%q) not deterministic (-first +second):\n%s", text, diff)
		}
	}
}

func TestAnalyze_EmptyTextFloorsCounts(t *testing.T) {
	got := newTestAnalyzer().Analyze("")
	if got.SentenceCount != 1 || got.WordCount != 1 {
		t.Errorf("sentence/word counts: got %d/%d, want 1/1", got.SentenceCount, got.WordCount)
	}
	if got.Length != 0 {
		t.Errorf("length: got %d", got.Length)
	}
	if got.VocabularyRichness != 0 {
		t.Errorf("richness: got %v", got.VocabularyRichness)
	}
	if got.Tone.Formality != 50 || got.Tone.Directness != 50 {
		t.Errorf("formality/directness should sit at baseline: %+v", got.Tone)
	}
	if got.Tone.Enthusiasm != 0 || got.Tone.Politeness != 0 {
		t.Errorf("enthusiasm/politeness should be 0: %+v", got.Tone)
	}
}

func TestAnalyze_ScoresStayInRange(t *testing.T) {
	a := newTestAnalyzer()
	texts := []string{
		strings.Repeat("ㅋㅋ", 200),
		strings.Repeat("감사합니다! ", 100),
		strings.Repeat("혹시 아마 maybe perhaps ", 50),
		strings.Repeat("반드시 당장 must ", 50),
		strings.Repeat("😊", 500),
		"\x00\xff invalid utf8 ‍",
	}
	for _, text := range texts {
		got := a.Analyze(text)
		for name, v := range map[string]float64{
			"formality":  got.Tone.Formality,
			"enthusiasm": got.Tone.Enthusiasm,
			"directness": got.Tone.Directness,
			"politeness": got.Tone.Politeness,
			"richness":   got.VocabularyRichness,
		} {
			if v < 0 || v > 100 {
				t.Errorf("%s out of range for %q: %v", name, text[:min(len(text), 20)], v)
			}
		}
	}

	if got := a.Analyze(strings.Repeat("ㅋㅋ", 200)); got.Tone.Formality != 0 {
		t.Errorf("heavy laughter should floor formality, got %v", got.Tone.Formality)
	}
	if got := a.Analyze(strings.Repeat("감사합니다! ", 100)); got.Tone.Politeness != 100 {
		t.Errorf("repeated thanks should cap politeness, got %v", got.Tone.Politeness)
	}
}

func TestAnalyze_Patterns(t *testing.T) {
	got := newTestAnalyzer().Analyze(`음... 그게 "정답"인가요? (아마도) 확인 부탁해요…`)
	p := got.Patterns
	if p.Ellipses != 2 {
		t.Errorf("ellipses: got %d, want 2", p.Ellipses)
	}
	if p.Questions != 1 {
		t.Errorf("questions: got %d, want 1", p.Questions)
	}
	if p.Brackets != 1 {
		t.Errorf("brackets: got %d, want 1", p.Brackets)
	}
	if p.Quotes != 1 {
		t.Errorf("quotes: got %d, want 1", p.Quotes)
	}
	if diff := cmp.Diff([]string{"음"}, got.Features.Interjections); diff != "" {
		t.Errorf("interjections mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_EmojiSequencesCountOnce(t *testing.T) {
	got := newTestAnalyzer().Analyze("좋아요 👍🏻 👨‍👩‍👧 🇰🇷")
	if len(got.Patterns.Emojis) != 3 {
		t.Errorf("expected 3 emoji clusters, got %d: %q", len(got.Patterns.Emojis), got.Patterns.Emojis)
	}
}

func TestAnalyze_NormalizesUnicode(t *testing.T) {
	a := newTestAnalyzer()
	composed := "감사합니다 프로젝트"
	decomposed := norm.NFD.String(composed)
	if composed == decomposed {
		t.Fatal("test input should differ between NFC and NFD")
	}
	if diff := cmp.Diff(a.Analyze(composed), a.Analyze(decomposed)); diff != "" {
		t.Errorf("NFD input analysed differently (-nfc +nfd):\n%s", diff)
	}
}

func TestAnalyze_TopicsAndFeatures(t *testing.T) {
	got := newTestAnalyzer().Analyze("그래서 오늘 회의에서 마케팅 예산을 정했어요. 근데 좀 어려워요.")

	wantTopics := []string{"marketing", "finance", "daily", "work"}
	if diff := cmp.Diff(wantTopics, got.Topics); diff != "" {
		t.Errorf("topics mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"그래서", "근데"}, got.Features.Conjunctions); diff != "" {
		t.Errorf("conjunctions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"좀"}, got.Features.Fillers); diff != "" {
		t.Errorf("fillers mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_WordsRankedByFrequencyThenFirstSeen(t *testing.T) {
	got := newTestAnalyzer().Analyze("마케팅 브랜드 마케팅 광고 브랜드 마케팅")
	want := []TermCount{
		{Term: "마케팅", Count: 3},
		{Term: "브랜드", Count: 2},
		{Term: "광고", Count: 1},
	}
	if diff := cmp.Diff(want, got.Words); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_CapsWordsAndPhrases(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("단어")
		b.WriteRune(rune('가' + i))
		b.WriteString(" ")
	}
	got := newTestAnalyzer().Analyze(b.String())
	if len(got.Words) != MaxWords {
		t.Errorf("words: got %d, want %d", len(got.Words), MaxWords)
	}
	if len(got.Phrases) != MaxPhrases {
		t.Errorf("phrases: got %d, want %d", len(got.Phrases), MaxPhrases)
	}
}

func TestAnalyze_PhrasesSkipStopWordEdges(t *testing.T) {
	got := newTestAnalyzer().Analyze("the marketing plan is ready")
	for _, p := range got.Phrases {
		if strings.HasPrefix(p.Term, "the ") || strings.HasSuffix(p.Term, " is") {
			t.Errorf("phrase %q starts or ends with a stop word", p.Term)
		}
	}
	found := false
	for _, p := range got.Phrases {
		if p.Term == "marketing plan" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected phrase 'marketing plan' in %v", got.Phrases)
	}
}

func TestSentences_DropsEmptySegments(t *testing.T) {
	got := Sentences("좋아요! 😊 ... 네.\n\n끝")
	want := []string{"좋아요", "네", "끝"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sentences mismatch (-want +got):\n%s", diff)
	}
}

func TestCounter_TopIsStable(t *testing.T) {
	c := NewCounter()
	c.Add("b", 1)
	c.Add("a", 2)
	c.Add("c", 1)
	c.Add("b", 1)
	want := []TermCount{{"b", 2}, {"a", 2}, {"c", 1}}
	if diff := cmp.Diff(want, c.Top(0)); diff != "" {
		t.Errorf("top mismatch (-want +got):\n%s", diff)
	}
	if got := c.Top(1); len(got) != 1 || got[0].Term != "b" {
		t.Errorf("Top(1) = %v", got)
	}
}
