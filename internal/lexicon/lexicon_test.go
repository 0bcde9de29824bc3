package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKorean_IsValid(t *testing.T) {
	l := Korean()
	if l.Version() != KoreanVersion {
		t.Errorf("version: got %q, want %q", l.Version(), KoreanVersion)
	}
	if l.Formality().Baseline != 50 || l.Directness().Baseline != 50 {
		t.Error("formality and directness should start from a neutral baseline of 50")
	}
	if l.Enthusiasm().Baseline != 0 || l.Politeness().Baseline != 0 {
		t.Error("enthusiasm and politeness should start from 0")
	}
}

func TestNew_RejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tables)
	}{
		{"missing version", func(t *Tables) { t.Version = "" }},
		{"baseline too high", func(t *Tables) { t.Formality.Baseline = 120 }},
		{"short synonym group", func(t *Tables) { t.SynonymGroups = [][]string{{"only"}} }},
		{"bad template", func(t *Tables) { t.Phrases.ProjectReference = "no placeholder" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := KoreanTables()
			tt.mutate(&tables)
			if _, err := New(tables); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNew_CopiesTables(t *testing.T) {
	tables := KoreanTables()
	l := MustNew(tables)

	tables.Conjunctions[0] = "changed"
	tables.Formality.Markers[0].Weight = 99

	if l.Conjunctions()[0] == "changed" {
		t.Error("lexicon shares conjunction slice with caller")
	}
	if l.Formality().Markers[0].Weight == 99 {
		t.Error("lexicon shares marker slice with caller")
	}
}

func TestAccessors(t *testing.T) {
	l := Korean()
	tables := KoreanTables()
	if l.Version() != KoreanVersion || l.Locale() != tables.Locale {
		t.Errorf("got version %q locale %q", l.Version(), l.Locale())
	}
	if len(l.Register()) != len(tables.Register) || len(l.SynonymGroups()) != len(tables.SynonymGroups) {
		t.Error("accessors should expose the built tables")
	}
	for _, s := range []string{"가", "에서", "를"} {
		if !l.IsParticle(s) {
			t.Errorf("IsParticle(%q) = false", s)
		}
	}
	for _, s := range []string{"", "들", "가가", "ful"} {
		if l.IsParticle(s) {
			t.Errorf("IsParticle(%q) = true", s)
		}
	}
}

func TestStripParticle(t *testing.T) {
	l := Korean()
	tests := []struct{ in, want string }{
		{"도움이", "도움"},
		{"프로젝트를", "프로젝트"},
		{"회사에서", "회사"},
		{"이", "이"},   // too short to strip
		{"책을", "책을"}, // stem would be one rune
		{"hello", "hello"},
	}
	for _, tt := range tests {
		if got := l.StripParticle(tt.in); got != tt.want {
			t.Errorf("StripParticle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsStopWord_CaseInsensitive(t *testing.T) {
	l := Korean()
	if !l.IsStopWord("The") {
		t.Error("expected 'The' to be a stop word")
	}
	if l.IsStopWord("마케팅") {
		t.Error("'마케팅' should not be a stop word")
	}
}

func TestEncodeLoad_RoundTripFormats(t *testing.T) {
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			data, err := Encode(Korean(), format)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			path := filepath.Join(t.TempDir(), "lexicon."+format)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(KoreanTables(), got.Tables()); diff != "" {
				t.Errorf("tables mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_UnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.ini")
	os.WriteFile(path, []byte("x"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestLoadOrDefault_EmptyPath(t *testing.T) {
	l, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if l.Version() != KoreanVersion {
		t.Errorf("expected built-in lexicon, got %q", l.Version())
	}
}
