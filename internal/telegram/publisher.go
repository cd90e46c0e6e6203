package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/abhisek/termquiz/internal/quizgen"
)

// Sender sends one Telegram request. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NewBot authorizes token against the Bot API.
func NewBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: authorize bot: %w", err)
	}
	return bot, nil
}

// Publisher sends questions to a chat one poll at a time.
type Publisher struct {
	bot      Sender
	interval time.Duration
	logger   *zap.Logger
}

// NewPublisher waits interval between polls.
func NewPublisher(bot Sender, interval time.Duration, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{bot: bot, interval: interval, logger: logger}
}

// Publish sends qs to chatID in order and returns how many were sent. It
// stops at the first failure or when ctx is done.
func (p *Publisher) Publish(ctx context.Context, chatID int64, qs []quizgen.Question) (int, error) {
	sent := 0
	for i, q := range qs {
		if i > 0 && p.interval > 0 {
			select {
			case <-ctx.Done():
				return sent, ctx.Err()
			case <-time.After(p.interval):
			}
		}
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		poll, err := PollFromQuestion(chatID, q)
		if err != nil {
			return sent, err
		}
		if _, err := p.bot.Send(poll); err != nil {
			p.logger.Error("failed to send telegram poll",
				zap.Int("question_id", q.ID),
				zap.Error(err),
			)
			return sent, fmt.Errorf("send question %d: %w", q.ID, err)
		}
		sent++
		p.logger.Debug("poll sent", zap.Int("question_id", q.ID), zap.Int64("chat_id", chatID))
	}

	p.logger.Info("questions published", zap.Int("count", sent), zap.Int64("chat_id", chatID))
	return sent, nil
}
