package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGlobalConfig = `
[ingest]
max_message_tokens = 0

[logging]
mode = "off"
`

const testTranscript = `# support chat
신규 앱 프로젝트 마케팅 예산이 고민이에요
AI: 어떤 채널을 생각하세요?
인스타그램 광고요!
`

// isolate points HOME at a temp dir holding a quiet global config and
// changes into a fresh workspace directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VOICEPRINT_USER", "")
	cfgPath := filepath.Join(home, ".config", "voiceprint", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(cfgPath), 0o755))
	require.NoError(t, os.WriteFile(cfgPath, []byte(testGlobalConfig), 0o644))

	root := t.TempDir()
	t.Chdir(root)
	return root
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	out, err := run(t, cmd, args...)
	require.NoError(t, err, "%s %v", cmd.Name(), args)
	return out
}

func TestWorkflow_InitLearnRewriteExport(t *testing.T) {
	root := isolate(t)

	out := mustRun(t, newInitCmd(), "--user", "alice")
	assert.Contains(t, out, "Voiceprint initialized")
	assert.Contains(t, out, "alice")
	require.DirExists(t, filepath.Join(root, "transcripts"))

	transcript := filepath.Join(root, "transcripts", "chat.txt")
	require.NoError(t, os.WriteFile(transcript, []byte(testTranscript), 0o644))

	var results []struct {
		Source  string `json:"source"`
		Skipped bool   `json:"skipped"`
		Outcome struct {
			Delta struct {
				VersionAfter int `json:"version_after"`
			} `json:"delta"`
		} `json:"outcome"`
	}
	out = mustRun(t, newLearnCmd(), "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.False(t, results[0].Skipped)
	assert.Equal(t, 2, results[0].Outcome.Delta.VersionAfter)

	out = mustRun(t, newLearnCmd())
	assert.Contains(t, out, "Learned 0 transcripts, skipped 1 unchanged")

	out = mustRun(t, newStatusCmd())
	assert.Contains(t, out, "alice (profile v2)")
	assert.Contains(t, out, "Sessions: 1 (3 messages, 1 transcripts)")

	var rewritten struct {
		Original string `json:"original_content"`
	}
	out = mustRun(t, newRewriteCmd(), "--json", "--seed", "7", "--purpose", "response", "내일 회의 가능할까요?")
	require.NoError(t, json.Unmarshal([]byte(out), &rewritten))
	assert.Equal(t, "내일 회의 가능할까요?", rewritten.Original)

	out = mustRun(t, newBusinessCmd(), "--company", "Acme", "--role", "CEO")
	assert.Contains(t, out, "profile v3")

	out = mustRun(t, newExportCmd(), "--format", "json")
	assert.Contains(t, out, `"company_name": "Acme"`)

	var matches []json.RawMessage
	out = mustRun(t, newDriftCmd(), "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	assert.Len(t, matches, 1)

	mustRun(t, newExportCmd(), "--write")
	assert.FileExists(t, filepath.Join(root, "exports", "voice-profile.md"))
	assert.FileExists(t, filepath.Join(root, "exports", "voice-profile.json"))

	out = mustRun(t, newPruneCmd(), "--dry-run")
	assert.Contains(t, out, "Current sessions: 1")
}

func TestInit_IsIdempotent(t *testing.T) {
	root := isolate(t)
	mustRun(t, newInitCmd())
	mustRun(t, newInitCmd())
	assert.FileExists(t, filepath.Join(root, ".voiceprint", "voiceprint.db"))
}

func TestInit_AddsGitignoreEntry(t *testing.T) {
	root := isolate(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("bin/"), 0o644))

	mustRun(t, newInitCmd())
	mustRun(t, newInitCmd())

	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "bin/\n.voiceprint/\n", string(data))
}

func TestCommands_RequireWorkspace(t *testing.T) {
	isolate(t)
	for _, cmd := range []*cobra.Command{newStatusCmd(), newLearnCmd(), newDriftCmd()} {
		_, err := run(t, cmd)
		assert.True(t, errors.Is(err, errNotInitialized), "%s: %v", cmd.Name(), err)
	}
}

func TestCommands_RejectInvalidFlags(t *testing.T) {
	isolate(t)
	mustRun(t, newInitCmd())

	tests := []struct {
		cmd  *cobra.Command
		args []string
	}{
		{newRewriteCmd(), []string{"--emoji", "maybe", "안녕"}},
		{newExportCmd(), []string{"--format", "pdf"}},
		{newBusinessCmd(), nil},
		{newDriftCmd(), []string{"--limit", "0"}},
		{newPruneCmd(), []string{"--older-than=-1"}},
		{newLexiconDumpCmd(), []string{"--format", "ini"}},
	}
	for _, tt := range tests {
		_, err := run(t, tt.cmd, tt.args...)
		assert.True(t, errors.Is(err, errInvalidFlag), "%s %v: %v", tt.cmd.Name(), tt.args, err)
	}
}

func TestAnalyze_WorksOutsideWorkspace(t *testing.T) {
	isolate(t)

	var got struct {
		Patterns struct {
			Questions int `json:"questions"`
		} `json:"patterns"`
	}
	out := mustRun(t, newAnalyzeCmd(), "내일 가능할까요?")
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Patterns.Questions)

	cmd := newAnalyzeCmd()
	cmd.SetIn(strings.NewReader("정말요?"))
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"-"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `"questions": 1`)
}

func TestLexicon_DumpThenCheck(t *testing.T) {
	root := isolate(t)

	for _, format := range []string{"toml", "yaml"} {
		out := mustRun(t, newLexiconDumpCmd(), "--format", format)
		path := filepath.Join(root, "lexicon."+format)
		require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

		out = mustRun(t, newLexiconCheckCmd(), path)
		assert.Contains(t, out, "is valid")
	}
}

func TestFindRootFrom(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".voiceprint"), 0o755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := findRootFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestParseEmoji(t *testing.T) {
	for _, s := range []string{"", "auto"} {
		v, err := parseEmoji(s)
		require.NoError(t, err)
		assert.Nil(t, v)
	}
	v, err := parseEmoji("on")
	require.NoError(t, err)
	assert.True(t, *v)
	v, err = parseEmoji("off")
	require.NoError(t, err)
	assert.False(t, *v)
	_, err = parseEmoji("sometimes")
	assert.ErrorIs(t, err, errInvalidFlag)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
