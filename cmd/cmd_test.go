package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/quizgen"
)

// execute runs the root command with args and returns its stdout. Flag
// values are reset first since commands are package globals.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	resetContext(rootCmd, t.Context())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env"), "--log-level", "error"))

	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// resetContext gives every command ctx. Cobra only hands the root context
// down to commands whose own context is still nil.
func resetContext(c *cobra.Command, ctx context.Context) {
	c.SetContext(ctx)
	for _, sub := range c.Commands() {
		resetContext(sub, ctx)
	}
}

func generateDataset(t *testing.T, dir string, extra ...string) string {
	t.Helper()
	out := filepath.Join(dir, "questions.json")
	args := append([]string{"generate", "--count", "25", "--seed", "42", "--out", out, "--db", filepath.Join(dir, "termquiz.db")}, extra...)
	_, err := execute(t, args...)
	require.NoError(t, err)
	return out
}

func TestGenerate_WritesDataset(t *testing.T) {
	dir := t.TempDir()
	path := generateDataset(t, dir)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, dataset.Validate(raw))

	qs, err := dataset.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, qs, 25)
	for i, q := range qs {
		assert.Equal(t, i+1, q.ID)
		assert.Len(t, q.Options, 4)
	}

	// Same seed, same dataset.
	again := filepath.Join(dir, "again.json")
	_, err = execute(t, "generate", "--count", "25", "--seed", "42", "--out", again)
	require.NoError(t, err)
	b, err := dataset.ReadFile(again)
	require.NoError(t, err)
	assert.Equal(t, qs, b)
}

func TestGenerate_PoolTooSmall(t *testing.T) {
	dir := t.TempDir()
	pool := filepath.Join(dir, "pool.json")
	require.NoError(t, os.WriteFile(pool, []byte(`{"terms":[{"term":"A","description":"a"},{"term":"B","description":"b"}]}`), 0o644))

	_, err := execute(t, "generate", "--pool", pool, "--out", filepath.Join(dir, "q.json"))
	assert.ErrorIs(t, err, quizgen.ErrPoolTooSmall)

	_, statErr := os.Stat(filepath.Join(dir, "q.json"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestGenerate_SaveAndRuns(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "termquiz.db")
	generateDataset(t, dir, "--save")

	out, err := execute(t, "runs", "list", "--db", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	runID := strings.Fields(lines[2])[0]

	out, err = execute(t, "runs", "show", runID, "--db", db, "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Seed:         42")
	assert.Contains(t, out, "#1 ")
	assert.Contains(t, out, "#2 ")
	assert.NotContains(t, out, "#3 ")

	exported := filepath.Join(dir, "exported.json")
	_, err = execute(t, "runs", "export", runID, "--db", db, "--out", exported)
	require.NoError(t, err)

	want, err := dataset.ReadFile(filepath.Join(dir, "questions.json"))
	require.NoError(t, err)
	got, err := dataset.ReadFile(exported)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = execute(t, "runs", "show", "missing", "--db", db)
	assert.ErrorContains(t, err, "not found")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	path := generateDataset(t, dir)

	out, err := execute(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[
  {"id": 1, "question": "q", "options": ["x", "x", "y", "z"], "correctIndex": 0, "explanation": "e"},
  {"id": 2, "question": "q", "options": ["a", "b", "c", "d"], "correctIndex": 3, "explanation": "e"}
]`), 0o644))

	report := filepath.Join(dir, "report.json")
	_, err = execute(t, "check", bad, "--report", report)
	assert.ErrorIs(t, err, errCheckFailed)

	raw, err := os.ReadFile(report)
	require.NoError(t, err)
	var r dataset.Report
	require.NoError(t, json.Unmarshal(raw, &r))
	assert.Equal(t, 2, r.Total)
	assert.Equal(t, []int{1}, r.DuplicateOptions)

	notSchema := filepath.Join(dir, "obj.json")
	require.NoError(t, os.WriteFile(notSchema, []byte(`{"id": 1}`), 0o644))
	_, err = execute(t, "check", notSchema)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errCheckFailed)
}

func TestCheck_DistractorsFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := generateDataset(t, dir)

	report := filepath.Join(dir, "report.json")
	t.Setenv("TERMQUIZ_GENERATION_DISTRACTORS", "4")
	_, err := execute(t, "check", path, "--report", report)
	assert.ErrorIs(t, err, errCheckFailed)

	raw, err := os.ReadFile(report)
	require.NoError(t, err)
	var r dataset.Report
	require.NoError(t, json.Unmarshal(raw, &r))
	assert.Len(t, r.WrongOptionCount, 25)

	// An explicit flag wins over the environment.
	_, err = execute(t, "check", path, "--distractors", "3")
	assert.NoError(t, err)
}

func TestPatch(t *testing.T) {
	dir := t.TempDir()
	path := generateDataset(t, dir)

	_, err := execute(t, "patch", path, "--id", "3", "--explanation", "【結論】\n新しい解説")
	require.NoError(t, err)

	from := filepath.Join(dir, "exp.txt")
	require.NoError(t, os.WriteFile(from, []byte("from file\n"), 0o644))
	_, err = execute(t, "patch", path, "--id", "4", "--from", from)
	require.NoError(t, err)

	qs, err := dataset.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "【結論】\n新しい解説", qs[2].Explanation)
	assert.Equal(t, "from file", qs[3].Explanation)

	_, err = execute(t, "patch", path, "--id", "999", "--explanation", "x")
	assert.ErrorIs(t, err, dataset.ErrQuestionNotFound)

	_, err = execute(t, "patch", path, "--id", "1")
	assert.ErrorContains(t, err, "explanation is empty")

	_, err = execute(t, "patch", path, "--id", "1", "--explanation", "x", "--from", from)
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestLLMList_Empty(t *testing.T) {
	out, err := execute(t, "llm", "list", "--db", filepath.Join(t.TempDir(), "termquiz.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM events found.")
}

func TestPublishTelegram_RequiresToken(t *testing.T) {
	t.Setenv("TERMQUIZ_TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_API_TOKEN", "")
	path := generateDataset(t, t.TempDir())

	_, err := execute(t, "publish", "telegram", path, "--chat-id", "1")
	assert.ErrorContains(t, err, "telegram.token")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "termquiz "))
}

func TestSelectQuestions(t *testing.T) {
	qs := []quizgen.Question{{ID: 1}, {ID: 2}, {ID: 3}}

	all, pos := selectQuestions(qs, nil)
	assert.Len(t, all, 3)
	assert.Equal(t, []int{0, 1, 2}, pos)

	some, pos := selectQuestions(qs, []int{3, 1})
	assert.Equal(t, []quizgen.Question{{ID: 1}, {ID: 3}}, some)
	assert.Equal(t, []int{0, 2}, pos)
}
