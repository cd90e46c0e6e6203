package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/quizgen"
)

// builder renders SQL for the SQLite dialect.
var builder = entsql.Dialect(dialect.SQLite)

// insertBatch bounds the rows per INSERT so statements stay well under
// SQLite's bound parameter limit.
const insertBatch = 200

var runColumns = []string{
	"id", "seed", "requested", "generated", "distractor_count",
	"pool_source", "pool_size", "created_at",
}

var questionColumns = []string{
	"question_id", "question", "options", "correct_index",
	"explanation", "type", "term", "category",
}

// runRepo implements RunRepo with ent's SQL builder over database/sql.
type runRepo struct {
	db *sql.DB
}

func (r *runRepo) SaveRun(ctx context.Context, run dataset.Run, questions []quizgen.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args := builder.Insert(RunsTable.Name).
		Columns(runColumns...).
		Values(run.ID, int64(run.Seed), run.Requested, run.Generated, run.DistractorCount,
			run.PoolSource, run.PoolSize, run.CreatedAt).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for start := 0; start < len(questions); start += insertBatch {
		end := min(start+insertBatch, len(questions))
		ins := builder.Insert(QuestionsTable.Name).Columns(append([]string{"run_id"}, questionColumns...)...)
		for _, q := range questions[start:end] {
			opts, err := json.Marshal(q.Options)
			if err != nil {
				return fmt.Errorf("marshal options of question %d: %w", q.ID, err)
			}
			ins.Values(run.ID, q.ID, q.Text, string(opts), q.CorrectIndex,
				q.Explanation, string(q.Type), q.Term, q.Category)
		}
		query, args := ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert questions %d-%d: %w", start+1, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *runRepo) ListRuns(ctx context.Context, opts QueryOpts) ([]dataset.Run, error) {
	sel := builder.Select(runColumns...).From(entsql.Table(RunsTable.Name))
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("created_at", opts.From))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("created_at", opts.To))
	}
	sel.OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	paginate(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []dataset.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (r *runRepo) GetRun(ctx context.Context, id string) (*dataset.Run, error) {
	query, args := builder.Select(runColumns...).
		From(entsql.Table(RunsTable.Name)).
		Where(entsql.EQ("id", id)).
		Limit(1).
		Query()

	run, err := scanRun(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

func (r *runRepo) Questions(ctx context.Context, runID string, opts QueryOpts) ([]quizgen.Question, error) {
	sel := builder.Select(questionColumns...).
		From(entsql.Table(QuestionsTable.Name)).
		Where(entsql.EQ("run_id", runID)).
		OrderBy("question_id")
	paginate(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []quizgen.Question
	for rows.Next() {
		var (
			q       quizgen.Question
			options string
			qType   string
		)
		if err := rows.Scan(&q.ID, &q.Text, &options, &q.CorrectIndex,
			&q.Explanation, &qType, &q.Term, &q.Category); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options of question %d: %w", q.ID, err)
		}
		q.Type = quizgen.QuestionType(qType)
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *runRepo) CountQuestions(ctx context.Context, runID string) (int, error) {
	query, args := builder.Select(entsql.Count("*")).
		From(entsql.Table(QuestionsTable.Name)).
		Where(entsql.EQ("run_id", runID)).
		Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (r *runRepo) UpdateExplanation(ctx context.Context, runID string, questionID int, explanation string) error {
	query, args := builder.Update(QuestionsTable.Name).
		Set("explanation", explanation).
		Where(entsql.And(
			entsql.EQ("run_id", runID),
			entsql.EQ("question_id", questionID),
		)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update explanation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: run %s question %d", ErrNotFound, runID, questionID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*dataset.Run, error) {
	var (
		run  dataset.Run
		seed int64
	)
	err := row.Scan(&run.ID, &seed, &run.Requested, &run.Generated, &run.DistractorCount,
		&run.PoolSource, &run.PoolSize, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Seed = uint64(seed)
	run.CreatedAt = run.CreatedAt.UTC()
	return &run, nil
}

// paginate applies Limit and Offset. SQLite needs a LIMIT before OFFSET, so
// an offset alone gets LIMIT -1.
func paginate(sel *entsql.Selector, opts QueryOpts) {
	switch {
	case opts.Limit > 0:
		sel.Limit(opts.Limit)
	case opts.Offset > 0:
		sel.Limit(-1)
	}
	if opts.Offset > 0 {
		sel.Offset(opts.Offset)
	}
}
