package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Walk through a dataset in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qs, err := dataset.ReadFile(args[0])
		if err != nil {
			return err
		}
		correct, answered, err := preview.Run(qs)
		if err != nil {
			return err
		}
		if answered > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Score: %d/%d\n", correct, answered)
		}
		return nil
	},
}
