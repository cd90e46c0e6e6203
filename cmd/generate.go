package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/postgres"
	"github.com/abhisek/termquiz/internal/quizgen"
	"github.com/abhisek/termquiz/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a quiz dataset from the term pool",
	Long: `Generate builds --count questions from the term pool and writes them to
--out as a JSON array. With --save the run is also recorded in the local
store, and with --postgres it is exported to PostgreSQL.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.IntP("count", "n", quizgen.DefaultTotalCount, "Number of questions to generate")
	f.Int("distractors", quizgen.DefaultDistractorCount, "Distractors per question")
	f.Uint64("seed", 0, "Random seed (0 picks one and logs it)")
	f.Int("max-draws", quizgen.DefaultMaxDraws, "Sampling draws allowed per question")
	f.Bool("same-category", false, "Prefer distractors from the correct term's category")
	f.Bool("tag-category", false, "Prefix question text with the category")
	f.String("pool", "", "Term pool file, JSON or YAML (default built-in pool)")
	f.StringP("out", "o", "questions.json", "Output file")
	f.Bool("save", false, "Record the run in the local store")
	f.Bool("postgres", false, "Export the run to PostgreSQL (postgres.url)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pool, source, err := loadPool()
	if err != nil {
		return err
	}

	seed := cfg.Generation.Seed
	if seed == 0 {
		seed = quizgen.RandomSeed()
	}

	qcfg := cfg.QuizConfig()
	qs, err := quizgen.New(qcfg, quizgen.NewRand(seed)).Generate(pool)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	run := dataset.NewRun(qcfg, seed, source, pool.Size(), len(qs))

	sinks := dataset.MultiSink{&dataset.FileSink{Path: cfg.Output.Path}}

	if cfg.Store.Save {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		sinks = append(sinks, store.NewSink(s))
	}

	if usePG, _ := cmd.Flags().GetBool("postgres"); usePG {
		dsn, err := cfg.Postgres.DSN()
		if err != nil {
			return err
		}
		pgPool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        cfg.Postgres.MaxConnections,
			MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
		})
		if err != nil {
			return err
		}
		defer pgPool.Close()

		tx := postgres.NewTransactor(pgPool)
		if err := postgres.EnsureSchema(ctx, tx); err != nil {
			return err
		}
		sinks = append(sinks, postgres.NewSink(tx, log))
	}

	if err := sinks.Write(ctx, run, qs); err != nil {
		return err
	}

	s := quizgen.Summarize(qs)
	log.Info("dataset generated",
		zap.String("run_id", run.ID),
		zap.Uint64("seed", seed),
		zap.String("pool", source),
		zap.Int("pool_size", pool.Size()),
		zap.Int("questions", s.Total),
		zap.Int("term_to_desc", s.ByType[quizgen.TypeTermToDesc]),
		zap.Int("desc_to_term", s.ByType[quizgen.TypeDescToTerm]),
		zap.String("out", cfg.Output.Path),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d questions to %s (seed %d)\n", len(qs), cfg.Output.Path, seed)
	return nil
}
