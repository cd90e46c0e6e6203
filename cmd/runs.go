package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect generation runs recorded with --save",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.RunRepo().ListRuns(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return nil
		}

		fmt.Fprintf(w, "%-36s  %-19s  %8s  %8s  %-20s  %s\n",
			"ID", "Created", "Count", "Pool", "Seed", "Source")
		fmt.Fprintln(w, strings.Repeat("─", 110))
		for _, r := range runs {
			fmt.Fprintf(w, "%-36s  %-19s  %8d  %8d  %-20d  %s\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				r.Generated,
				r.PoolSize,
				r.Seed,
				r.PoolSource,
			)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run and its first questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		run, err := getRun(cmd, s, args[0])
		if err != nil {
			return err
		}
		qs, err := s.RunRepo().Questions(cmd.Context(), run.ID, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "ID:           %s\n", run.ID)
		fmt.Fprintf(w, "Created:      %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Seed:         %d\n", run.Seed)
		fmt.Fprintf(w, "Questions:    %d of %d requested\n", run.Generated, run.Requested)
		fmt.Fprintf(w, "Distractors:  %d\n", run.DistractorCount)
		fmt.Fprintf(w, "Pool:         %s (%d terms)\n", run.PoolSource, run.PoolSize)

		for _, q := range qs {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "#%d [%s] %s\n", q.ID, q.Type, q.Text)
			for i, opt := range q.Options {
				mark := " "
				if i == q.CorrectIndex {
					mark = "*"
				}
				fmt.Fprintf(w, "  %s %c. %s\n", mark, 'a'+i, opt)
			}
		}
		return nil
	},
}

var runsExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Write a recorded run back out as a dataset file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		run, err := getRun(cmd, s, args[0])
		if err != nil {
			return err
		}
		qs, err := s.RunRepo().Questions(cmd.Context(), run.ID, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		if err := dataset.WriteFile(out, qs); err != nil {
			return err
		}

		log.Info("run exported", zap.String("run_id", run.ID), zap.Int("questions", len(qs)), zap.String("out", out))
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d questions to %s\n", len(qs), out)
		return nil
	},
}

func getRun(cmd *cobra.Command, s *store.Store, id string) (*dataset.Run, error) {
	run, err := s.RunRepo().GetRun(cmd.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("run %s not found", id)
	}
	return run, nil
}

func init() {
	runsListCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	runsShowCmd.Flags().IntP("limit", "n", 5, "Number of questions to show")
	runsExportCmd.Flags().StringP("out", "o", "", "Output file")
	_ = runsExportCmd.MarkFlagRequired("out")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)
}
