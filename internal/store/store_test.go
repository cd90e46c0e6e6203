package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/quizgen"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun(id string, created time.Time, n int) (dataset.Run, []quizgen.Question) {
	run := dataset.Run{
		ID:              id,
		Seed:            ^uint64(0) - 7, // high bit set
		Requested:       n,
		Generated:       n,
		DistractorCount: 3,
		PoolSource:      "builtin:itpassport",
		PoolSize:        32,
		CreatedAt:       created,
	}
	qs := make([]quizgen.Question, n)
	for i := range qs {
		qs[i] = quizgen.Question{
			ID:           i + 1,
			Text:         fmt.Sprintf("「T%d」の説明として、適切なものはどれか。", i),
			Options:      []string{"a", "b", "c", fmt.Sprintf("d%d", i)},
			CorrectIndex: i % 4,
			Explanation:  fmt.Sprintf("正解は「T%d」です。", i),
			Type:         quizgen.TypeTermToDesc,
			Term:         fmt.Sprintf("T%d", i),
			Category:     "Strategy",
		}
	}
	return run, qs
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	run, qs := testRun("r1", time.Now().UTC(), 3)
	if err := s.RunRepo().SaveRun(context.Background(), run, qs); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.RunRepo().GetRun(context.Background(), "r1")
	if err != nil || got == nil {
		t.Fatalf("get after reopen: %v, %v", got, err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	run, qs := testRun("run-a", created, 450)
	if err := repo.SaveRun(ctx, run, qs); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetRun(ctx, "run-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected run")
	}
	if got.Seed != run.Seed {
		t.Errorf("seed = %d, want %d", got.Seed, run.Seed)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created = %v, want %v", got.CreatedAt, created)
	}
	if got.PoolSource != run.PoolSource || got.Generated != 450 || got.DistractorCount != 3 {
		t.Errorf("unexpected run: %+v", got)
	}

	n, err := repo.CountQuestions(ctx, "run-a")
	if err != nil {
		t.Fatal(err)
	}
	if n != 450 {
		t.Errorf("count = %d, want 450", n)
	}

	missing, err := repo.GetRun(ctx, "nope")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing run")
	}
}

func TestSaveRun_DuplicateRollsBack(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	run, qs := testRun("dup", time.Now().UTC(), 2)
	qs[1].ID = qs[0].ID // violates the (run_id, question_id) index
	if err := repo.SaveRun(ctx, run, qs); err == nil {
		t.Fatal("expected duplicate question id to fail")
	}

	got, err := repo.GetRun(ctx, "dup")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("run row should have been rolled back")
	}
}

func TestQuestions(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	run, qs := testRun("run-q", time.Now().UTC(), 10)
	if err := repo.SaveRun(ctx, run, qs); err != nil {
		t.Fatal(err)
	}

	all, err := repo.Questions(ctx, "run-q", QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 10 {
		t.Fatalf("got %d questions, want 10", len(all))
	}
	for i, q := range all {
		want := qs[i]
		if q.ID != want.ID || q.Text != want.Text || q.CorrectIndex != want.CorrectIndex ||
			q.Explanation != want.Explanation || q.Type != want.Type || q.Term != want.Term ||
			q.Category != want.Category || fmt.Sprint(q.Options) != fmt.Sprint(want.Options) {
			t.Errorf("question %d = %+v, want %+v", i, q, want)
		}
	}

	page, err := repo.Questions(ctx, "run-q", QueryOpts{Limit: 3, Offset: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 3 || page[0].ID != 5 || page[2].ID != 7 {
		t.Errorf("unexpected page: %+v", page)
	}

	tail, err := repo.Questions(ctx, "run-q", QueryOpts{Offset: 8})
	if err != nil {
		t.Fatal(err)
	}
	if len(tail) != 2 || tail[0].ID != 9 {
		t.Errorf("unexpected tail: %+v", tail)
	}
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run, qs := testRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour), 1)
		if err := repo.SaveRun(ctx, run, qs); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := repo.ListRuns(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 || runs[0].ID != "run-2" || runs[2].ID != "run-0" {
		t.Fatalf("unexpected order: %+v", runs)
	}

	runs, err = repo.ListRuns(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "run-2" {
		t.Fatalf("unexpected limited list: %+v", runs)
	}

	runs, err = repo.ListRuns(ctx, QueryOpts{From: base.Add(30 * time.Minute)})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs after From, got %d", len(runs))
	}
}

func TestUpdateExplanation(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	run, qs := testRun("run-u", time.Now().UTC(), 3)
	if err := repo.SaveRun(ctx, run, qs); err != nil {
		t.Fatal(err)
	}

	if err := repo.UpdateExplanation(ctx, "run-u", 2, "【結論】\n更新"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.Questions(ctx, "run-u", QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if got[1].Explanation != "【結論】\n更新" {
		t.Errorf("explanation = %q", got[1].Explanation)
	}
	if got[0].Explanation != qs[0].Explanation {
		t.Errorf("unrelated question changed: %q", got[0].Explanation)
	}

	err = repo.UpdateExplanation(ctx, "run-u", 99, "x")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSink(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var sink dataset.Sink = NewSink(s)
	run, qs := testRun("sink-run", time.Now().UTC(), 4)
	if err := sink.Write(ctx, run, qs); err != nil {
		t.Fatal(err)
	}
	n, err := s.RunRepo().CountQuestions(ctx, "sink-run")
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("count = %d, want 4", n)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "explanation", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "[user]\nhi", ResponseBody: "{}"},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "explanation", InputTokens: 120, OutputTokens: 70, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "explanation", LatencyMs: 10, Success: false, ErrorMessage: "boom"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "check", InputTokens: 5, OutputTokens: 5, LatencyMs: 20, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d events, want 4", len(got))
	}
	if got[0].Purpose != "check" || got[3].RequestBody != "[user]\nhi" {
		t.Errorf("unexpected order or content: %+v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Sequence >= got[i-1].Sequence {
			t.Errorf("sequence not descending at %d", i)
		}
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: got[2].Sequence, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 1 || after[0].Sequence != got[0].Sequence {
		t.Errorf("unexpected After query: %+v", after)
	}

	one, err := repo.GetLLMEvent(ctx, got[1].ID)
	if err != nil || one == nil {
		t.Fatalf("get event: %v %v", one, err)
	}
	if one.ErrorMessage != "boom" || one.Success {
		t.Errorf("unexpected event: %+v", one)
	}
	none, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || none != nil {
		t.Errorf("expected nil for missing event, got %v %v", none, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	exp := byPurpose[1]
	if exp.Purpose != "explanation" || exp.Calls != 3 || exp.InputTokens != 220 || exp.OutputTokens != 120 {
		t.Errorf("unexpected explanation usage: %+v", exp)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byModel) != 2 || byModel[0].Model != "claude-haiku-4-5" || byModel[0].Calls != 2 || byModel[1].Calls != 1 {
		t.Errorf("unexpected model usage: %+v", byModel)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("TERMQUIZ_DB", filepath.Join(dir, "a", "custom.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join(dir, "a", "custom.db") {
		t.Errorf("path = %q", p)
	}

	t.Setenv("TERMQUIZ_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join(dir, "termquiz", "termquiz.db") {
		t.Errorf("path = %q", p)
	}
}
