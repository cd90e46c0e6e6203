package cmd

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/enrich"
	"github.com/abhisek/termquiz/internal/llm"
	"github.com/abhisek/termquiz/internal/quizgen"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <file>",
	Short: "Rewrite explanations with an LLM",
	Long: `Enrich asks the configured LLM provider to rewrite each question's
explanation as a conclusion, a reason and key points. Questions whose request
fails keep their original explanation. Requests are recorded in the local
store and can be inspected with "termquiz llm".`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	f := enrichCmd.Flags()
	f.String("provider", "", "LLM provider: anthropic, openai, openrouter, gemini, mock")
	f.IntSlice("id", nil, "Only enrich these question IDs")
	f.Int("concurrency", enrich.DefaultConfig().Concurrency, "Parallel requests")
	f.StringP("out", "o", "", "Output file (default rewrite in place)")
	f.Bool("no-record", false, "Do not record LLM requests in the store")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	qs, err := dataset.ReadFile(path)
	if err != nil {
		return err
	}

	lcfg, ok := cfg.LLM.ProviderConfig()
	if !ok {
		return errors.New("no LLM provider configured: set llm.provider or an API key such as ANTHROPIC_API_KEY")
	}

	var recorder llm.EventRecorder
	if noRecord, _ := cmd.Flags().GetBool("no-record"); !noRecord {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		recorder = s.EventRepo()
	}

	provider, err := llm.NewProvider(ctx, lcfg, recorder, log)
	if err != nil {
		return err
	}

	ecfg := enrich.DefaultConfig()
	ecfg.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	if lcfg.Timeout > 0 {
		ecfg.Timeout = lcfg.Timeout
	}
	svc := enrich.New(provider, ecfg, log)

	ids, _ := cmd.Flags().GetIntSlice("id")
	targets, pos := selectQuestions(qs, ids)
	if len(targets) == 0 {
		return errors.New("no matching questions")
	}

	log.Info("enriching explanations",
		zap.String("provider", lcfg.Provider),
		zap.Int("questions", len(targets)),
		zap.Int("concurrency", ecfg.Concurrency),
	)
	results := svc.EnrichAll(ctx, targets)
	for i, p := range pos {
		qs[p] = targets[i]
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = path
	}
	if err := dataset.WriteFile(out, qs); err != nil {
		return err
	}

	failed := enrich.Failed(results)
	fmt.Fprintf(cmd.OutOrStdout(), "Enriched %d of %d questions, wrote %s\n", len(results)-failed, len(results), out)
	if failed > 0 {
		return fmt.Errorf("%d questions kept their original explanation", failed)
	}
	return nil
}

// selectQuestions copies the questions named by ids, or all of them when ids
// is empty, and returns their positions in qs.
func selectQuestions(qs []quizgen.Question, ids []int) ([]quizgen.Question, []int) {
	var (
		targets []quizgen.Question
		pos     []int
	)
	for i, q := range qs {
		if len(ids) > 0 && !slices.Contains(ids, q.ID) {
			continue
		}
		targets = append(targets, q)
		pos = append(pos, i)
	}
	return targets, pos
}
