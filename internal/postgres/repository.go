package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/quizgen"
)

var questionColumns = []string{
	"run_id", "question_id", "question", "options", "correct_index",
	"explanation", "question_type", "term", "category",
}

// InsertRunWithTx inserts the run row.
func InsertRunWithTx(ctx context.Context, tx pgx.Tx, run dataset.Run) error {
	query := `
		INSERT INTO quiz_runs (
			id, seed, requested, generated,
			distractor_count, pool_source, pool_size, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(
		ctx,
		query,
		run.ID,
		int64(run.Seed),
		run.Requested,
		run.Generated,
		run.DistractorCount,
		run.PoolSource,
		run.PoolSize,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// CopyQuestionsWithTx bulk-loads the run's questions with COPY.
func CopyQuestionsWithTx(ctx context.Context, tx pgx.Tx, runID string, qs []quizgen.Question) (int64, error) {
	rows := pgx.CopyFromSlice(len(qs), func(i int) ([]any, error) {
		q := qs[i]
		return []any{
			runID, q.ID, q.Text, q.Options, q.CorrectIndex,
			q.Explanation, string(q.Type), q.Term, q.Category,
		}, nil
	})

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"quiz_questions"}, questionColumns, rows)
	if err != nil {
		return n, fmt.Errorf("copy questions: %w", err)
	}
	if n != int64(len(qs)) {
		return n, fmt.Errorf("copy questions: wrote %d of %d rows", n, len(qs))
	}
	return n, nil
}
