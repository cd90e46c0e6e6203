package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/termquiz/internal/dataset"
)

var patchCmd = &cobra.Command{
	Use:   "patch <file>",
	Short: "Replace one question's explanation in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetInt("id")
		text, _ := cmd.Flags().GetString("explanation")
		from, _ := cmd.Flags().GetString("from")

		switch {
		case text != "" && from != "":
			return errors.New("--explanation and --from are mutually exclusive")
		case from != "":
			data, err := os.ReadFile(from)
			if err != nil {
				return err
			}
			text = strings.TrimRight(string(data), "\n")
		}
		if strings.TrimSpace(text) == "" {
			return errors.New("explanation is empty: set --explanation or --from")
		}

		if err := dataset.PatchFile(args[0], id, text); err != nil {
			return err
		}
		log.Info("explanation patched", zap.String("path", args[0]), zap.Int("id", id))
		fmt.Fprintf(cmd.OutOrStdout(), "Patched question %d in %s\n", id, args[0])
		return nil
	},
}

func init() {
	patchCmd.Flags().Int("id", 0, "Question ID to patch")
	patchCmd.Flags().String("explanation", "", "New explanation text")
	patchCmd.Flags().String("from", "", "Read the new explanation from a file")
	_ = patchCmd.MarkFlagRequired("id")
}
