package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/quizgen"
)

// Sink writes a run and its questions in one transaction.
type Sink struct {
	tx     TxRunner
	logger *zap.Logger
}

// NewSink returns a Sink running its writes through tx.
func NewSink(tx TxRunner, logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{tx: tx, logger: logger}
}

func (s *Sink) Write(ctx context.Context, run dataset.Run, questions []quizgen.Question) error {
	var copied int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := InsertRunWithTx(ctx, tx, run); err != nil {
			return err
		}
		n, err := CopyQuestionsWithTx(ctx, tx, run.ID, questions)
		copied = n
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("run exported to postgres",
		zap.String("run_id", run.ID),
		zap.Int64("questions", copied),
	)
	return nil
}

var _ dataset.Sink = (*Sink)(nil)
