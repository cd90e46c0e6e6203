package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/telegram"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a dataset to a messaging channel",
}

var publishTelegramCmd = &cobra.Command{
	Use:   "telegram <file>",
	Short: "Send questions to a Telegram chat as quiz polls",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qs, err := dataset.ReadFile(args[0])
		if err != nil {
			return err
		}
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && limit < len(qs) {
			qs = qs[:limit]
		}

		token, err := cfg.Telegram.APIToken()
		if err != nil {
			return err
		}
		if cfg.Telegram.ChatID == 0 {
			return errors.New("telegram chat ID is not set: use --chat-id or TERMQUIZ_TELEGRAM_CHAT_ID")
		}

		bot, err := telegram.NewBot(token)
		if err != nil {
			return err
		}

		sent, err := telegram.NewPublisher(bot, cfg.Telegram.Interval, log).
			Publish(cmd.Context(), cfg.Telegram.ChatID, qs)
		fmt.Fprintf(cmd.OutOrStdout(), "Sent %d of %d questions\n", sent, len(qs))
		return err
	},
}

func init() {
	f := publishTelegramCmd.Flags()
	f.Int64("chat-id", 0, "Target chat ID")
	f.Duration("interval", 3*time.Second, "Delay between polls")
	f.IntP("limit", "n", 0, "Send at most this many questions (0 = all)")

	publishCmd.AddCommand(publishTelegramCmd)
}
