package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points the home directory at an empty temp dir so the real global
// config is never read.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VOICEPRINT_USER", "")
	t.Setenv("VOICEPRINT_LOG_MODE", "")
	t.Setenv("VOICEPRINT_LOG_LEVEL", "")
	return home
}

func TestDefaultGlobal(t *testing.T) {
	cfg := DefaultGlobal()

	if cfg.User.ID != "default" {
		t.Errorf("user: got %q, want %q", cfg.User.ID, "default")
	}
	if cfg.Analysis.Window != 50 {
		t.Errorf("window: got %d, want 50", cfg.Analysis.Window)
	}
	if cfg.Analysis.Policy != "replace" {
		t.Errorf("policy: got %q, want replace", cfg.Analysis.Policy)
	}
	if len(cfg.Ingest.Extensions) != 2 {
		t.Errorf("extensions: got %v", cfg.Ingest.Extensions)
	}
	if cfg.Ingest.Workers != 4 {
		t.Errorf("workers: got %d, want 4", cfg.Ingest.Workers)
	}
	if cfg.Watch.DebounceMS != 500 {
		t.Errorf("debounce: got %d, want 500", cfg.Watch.DebounceMS)
	}
	if cfg.Watch.ExportSchedule != "@hourly" {
		t.Errorf("export schedule: got %q", cfg.Watch.ExportSchedule)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level: got %q", cfg.Logging.Level)
	}
	if cfg.Personalization.Seed != 0 {
		t.Errorf("seed should default to 0, got %d", cfg.Personalization.Seed)
	}
}

func TestProjectDBPath(t *testing.T) {
	got := ProjectDBPath("/home/user/notes")
	want := filepath.Join("/home/user/notes", ".voiceprint", "voiceprint.db")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolve(t *testing.T) {
	if got := Resolve("/w", "transcripts"); got != filepath.Join("/w", "transcripts") {
		t.Errorf("relative: got %q", got)
	}
	if got := Resolve("/w", "/abs/x"); got != "/abs/x" {
		t.Errorf("absolute: got %q", got)
	}
	if got := Resolve("/w", ""); got != "" {
		t.Errorf("empty: got %q", got)
	}
}

func TestLoadProject_NoFile(t *testing.T) {
	cfg, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.User.ID != "" {
		t.Errorf("expected empty user, got %q", cfg.User.ID)
	}
}

func TestSaveAndLoadProject(t *testing.T) {
	dir := t.TempDir()
	cfg := ProjectConfig{
		User:     UserConfig{ID: "alice"},
		Analysis: AnalysisConfig{Policy: "blend"},
		Ingest:   IngestConfig{Paths: []string{"chats"}},
	}

	if err := SaveProject(dir, cfg); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	loaded, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if loaded.User.ID != "alice" {
		t.Errorf("user: got %q, want alice", loaded.User.ID)
	}
	if loaded.Analysis.Policy != "blend" {
		t.Errorf("policy: got %q, want blend", loaded.Analysis.Policy)
	}
}

func TestLoad_MergesProjectOverrides(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	if err := SaveProject(dir, ProjectConfig{
		User:     UserConfig{ID: "alice"},
		Analysis: AnalysisConfig{Window: 20},
		Ingest:   IngestConfig{Exclude: []string{"*.bak"}},
	}); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.User.ID != "alice" {
		t.Errorf("expected project override 'alice', got %q", cfg.User.ID)
	}
	if cfg.Analysis.Window != 20 {
		t.Errorf("window: got %d, want 20", cfg.Analysis.Window)
	}
	if cfg.Analysis.Policy != "replace" {
		t.Errorf("unset policy should keep default, got %q", cfg.Analysis.Policy)
	}
	if len(cfg.Ingest.Exclude) != 1 || cfg.Ingest.Exclude[0] != "*.bak" {
		t.Errorf("exclude: got %v", cfg.Ingest.Exclude)
	}
}

func TestLoad_GlobalFileAndEnv(t *testing.T) {
	isolate(t)

	global := DefaultGlobal()
	global.User.ID = "from-file"
	global.Logging.Mode = "prod"
	if err := SaveGlobal(global); err != nil {
		t.Fatalf("SaveGlobal: %v", err)
	}

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.User.ID != "from-file" || cfg.Logging.Mode != "prod" {
		t.Errorf("global file not applied: %+v", cfg)
	}

	t.Setenv("VOICEPRINT_USER", "from-env")
	t.Setenv("VOICEPRINT_LOG_MODE", "off")
	cfg, err = Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.User.ID != "from-env" {
		t.Errorf("expected env override, got %q", cfg.User.ID)
	}
	if cfg.Logging.Mode != "off" {
		t.Errorf("expected env log mode, got %q", cfg.Logging.Mode)
	}
}

func TestLoad_BadProjectFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(ProjectConfigDirPath(dir), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("user = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestGlobalConfigPath(t *testing.T) {
	path, err := GlobalConfigPath()
	if err != nil {
		t.Fatalf("GlobalConfigPath: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %q", path)
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected config.toml, got %q", filepath.Base(path))
	}
}
