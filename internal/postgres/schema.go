package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// schemaStatements create the export tables. Seeds are stored as the
// two's-complement bigint of the uint64 value.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS quiz_runs (
		id               TEXT PRIMARY KEY,
		seed             BIGINT NOT NULL,
		requested        INTEGER NOT NULL,
		generated        INTEGER NOT NULL,
		distractor_count INTEGER NOT NULL,
		pool_source      TEXT NOT NULL,
		pool_size        INTEGER NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_questions (
		run_id        TEXT NOT NULL REFERENCES quiz_runs(id) ON DELETE CASCADE,
		question_id   INTEGER NOT NULL,
		question      TEXT NOT NULL,
		options       TEXT[] NOT NULL,
		correct_index INTEGER NOT NULL,
		explanation   TEXT NOT NULL,
		question_type TEXT NOT NULL DEFAULT '',
		term          TEXT NOT NULL DEFAULT '',
		category      TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, question_id)
	)`,
	`CREATE INDEX IF NOT EXISTS quiz_questions_term_idx ON quiz_questions (term)`,
}

// EnsureSchema creates the export tables if they do not exist.
func EnsureSchema(ctx context.Context, tx TxRunner) error {
	return tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
		}
		return nil
	})
}
