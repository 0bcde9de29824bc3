// Package config manages global (~/.config/voiceprint/config.toml) and
// per-workspace (.voiceprint/config.toml) configuration for voiceprint.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// WorkspaceDirName is the directory holding a workspace's database and config.
const WorkspaceDirName = ".voiceprint"

// GlobalConfig holds user-wide settings.
type GlobalConfig struct {
	User            UserConfig            `toml:"user"`
	Lexicon         LexiconConfig         `toml:"lexicon"`
	Analysis        AnalysisConfig        `toml:"analysis"`
	Personalization PersonalizationConfig `toml:"personalization"`
	Ingest          IngestConfig          `toml:"ingest"`
	Watch           WatchConfig           `toml:"watch"`
	Export          ExportConfig          `toml:"export"`
	Logging         LoggingConfig         `toml:"logging"`
}

// UserConfig names whose profile commands act on.
type UserConfig struct {
	ID string `toml:"id"`
}

// LexiconConfig points at a lexicon file. An empty path selects the built-in
// Korean lexicon.
type LexiconConfig struct {
	Path string `toml:"path"`
}

// AnalysisConfig controls how profiles are learned.
type AnalysisConfig struct {
	Window int    `toml:"window"`
	Policy string `toml:"policy"`
}

// PersonalizationConfig controls rewriting. A zero seed draws from the
// runtime's random source.
type PersonalizationConfig struct {
	Seed         uint64 `toml:"seed"`
	Alternatives bool   `toml:"alternatives"`
}

// IngestConfig controls transcript discovery and parsing.
type IngestConfig struct {
	Paths            []string `toml:"paths"`
	Extensions       []string `toml:"extensions"`
	Exclude          []string `toml:"exclude"`
	Workers          int      `toml:"workers"`
	MaxMessageTokens int      `toml:"max_message_tokens"`
}

// WatchConfig controls `voiceprint watch`. ExportSchedule is a cron spec;
// empty disables scheduled exports.
type WatchConfig struct {
	DebounceMS     int    `toml:"debounce_ms"`
	ExportSchedule string `toml:"export_schedule"`
}

// ExportConfig lists the formats written by scheduled exports.
type ExportConfig struct {
	Formats []string `toml:"formats"`
	Dir     string   `toml:"dir"`
}

// LoggingConfig selects the zap logger.
type LoggingConfig struct {
	Mode  string `toml:"mode"`
	Level string `toml:"level"`
}

// ProjectConfig holds per-workspace overrides stored in .voiceprint/config.toml.
type ProjectConfig struct {
	User     UserConfig     `toml:"user"`
	Lexicon  LexiconConfig  `toml:"lexicon"`
	Analysis AnalysisConfig `toml:"analysis"`
	Ingest   IngestConfig   `toml:"ingest"`
	Export   ExportConfig   `toml:"export"`
}

// DefaultGlobal returns sensible defaults.
func DefaultGlobal() GlobalConfig {
	return GlobalConfig{
		User: UserConfig{ID: "default"},
		Analysis: AnalysisConfig{
			Window: 50,
			Policy: "replace",
		},
		Ingest: IngestConfig{
			Paths:            []string{"transcripts"},
			Extensions:       []string{".txt", ".jsonl"},
			Workers:          4,
			MaxMessageTokens: 512,
		},
		Watch: WatchConfig{
			DebounceMS:     500,
			ExportSchedule: "@hourly",
		},
		Export: ExportConfig{
			Formats: []string{"markdown", "json"},
			Dir:     "exports",
		},
		Logging: LoggingConfig{
			Mode:  "dev",
			Level: "warn",
		},
	}
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "voiceprint", "config.toml"), nil
}

// LoadGlobal loads the global config, applying defaults for any missing values.
func LoadGlobal() (GlobalConfig, error) {
	cfg := DefaultGlobal()

	path, err := GlobalConfigPath()
	if err != nil {
		return cfg, nil // Return defaults if we can't determine home dir.
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config: load global: %w", err)
		}
	}
	return cfg, nil
}

// SaveGlobal writes the global config to disk.
func SaveGlobal(cfg GlobalConfig) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}
	return writeTOML(path, cfg)
}

// LoadProject loads .voiceprint/config.toml from the given workspace root.
func LoadProject(root string) (ProjectConfig, error) {
	var cfg ProjectConfig
	path := filepath.Join(ProjectConfigDirPath(root), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load project: %w", err)
	}
	return cfg, nil
}

// SaveProject writes the workspace config to .voiceprint/config.toml.
func SaveProject(root string, cfg ProjectConfig) error {
	return writeTOML(filepath.Join(ProjectConfigDirPath(root), "config.toml"), cfg)
}

// ProjectDBPath returns the path to the workspace's SQLite database.
func ProjectDBPath(root string) string {
	return filepath.Join(root, WorkspaceDirName, "voiceprint.db")
}

// ProjectConfigDirPath returns the path to the workspace's .voiceprint/ directory.
func ProjectConfigDirPath(root string) string {
	return filepath.Join(root, WorkspaceDirName)
}

// Resolve makes a configured path absolute against the workspace root.
func Resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// Load returns the effective config for a workspace root: defaults, then the
// global file, then the workspace file, then the environment.
func Load(root string) (GlobalConfig, error) {
	cfg, err := LoadGlobal()
	if err != nil {
		return cfg, err
	}

	project, err := LoadProject(root)
	if err != nil {
		return cfg, err
	}
	merge(&cfg, project)
	applyEnv(&cfg)
	return cfg, nil
}

func merge(cfg *GlobalConfig, p ProjectConfig) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.User.ID, p.User.ID)
	set(&cfg.Lexicon.Path, p.Lexicon.Path)
	set(&cfg.Analysis.Policy, p.Analysis.Policy)
	if p.Analysis.Window > 0 {
		cfg.Analysis.Window = p.Analysis.Window
	}
	if len(p.Ingest.Paths) > 0 {
		cfg.Ingest.Paths = p.Ingest.Paths
	}
	if len(p.Ingest.Extensions) > 0 {
		cfg.Ingest.Extensions = p.Ingest.Extensions
	}
	cfg.Ingest.Exclude = append(cfg.Ingest.Exclude, p.Ingest.Exclude...)
	if p.Ingest.Workers > 0 {
		cfg.Ingest.Workers = p.Ingest.Workers
	}
	if p.Ingest.MaxMessageTokens > 0 {
		cfg.Ingest.MaxMessageTokens = p.Ingest.MaxMessageTokens
	}
	if len(p.Export.Formats) > 0 {
		cfg.Export.Formats = p.Export.Formats
	}
	set(&cfg.Export.Dir, p.Export.Dir)
}

func applyEnv(cfg *GlobalConfig) {
	if v := strings.TrimSpace(os.Getenv("VOICEPRINT_USER")); v != "" {
		cfg.User.ID = v
	}
	if v := strings.TrimSpace(os.Getenv("VOICEPRINT_LOG_MODE")); v != "" {
		cfg.Logging.Mode = v
	}
	if v := strings.TrimSpace(os.Getenv("VOICEPRINT_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
}

func writeTOML(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(v)
}
