package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/quizgen"
)

// errCheckFailed marks a dataset that loaded but has defects.
var errCheckFailed = errors.New("dataset has defects")

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a dataset and report corrupted questions",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("report", "", "Write the defect report as JSON to this file")
	checkCmd.Flags().Int("distractors", quizgen.DefaultDistractorCount, "Expected distractors per question")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := dataset.Validate(raw); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	qs, err := dataset.ReadFile(path)
	if err != nil {
		return err
	}
	report := dataset.Analyze(qs, cfg.Generation.Distractors+1)

	if out, _ := cmd.Flags().GetString("report"); out != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Questions:           %d\n", report.Total)
	fmt.Fprintf(w, "Empty options:       %d\n", len(report.EmptyOptions))
	fmt.Fprintf(w, "Wrong option count:  %d\n", len(report.WrongOptionCount))
	fmt.Fprintf(w, "Index out of range:  %d\n", len(report.IndexOutOfRange))
	fmt.Fprintf(w, "Duplicate options:   %d\n", len(report.DuplicateOptions))
	fmt.Fprintf(w, "Merged labels:       %d\n", len(report.MergedLabels))
	fmt.Fprintf(w, "Duplicate IDs:       %d\n", len(report.DuplicateIDs))

	bad := report.Problematic()
	if len(bad) == 0 {
		fmt.Fprintln(w, "OK")
		return nil
	}
	log.Warn("dataset has defects", zap.String("path", path), zap.Ints("ids", bad))
	return fmt.Errorf("%w: %d of %d questions", errCheckFailed, len(bad), report.Total)
}
