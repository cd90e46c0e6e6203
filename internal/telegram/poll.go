// Package telegram publishes questions as Telegram quiz polls.
package telegram

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/termquiz/internal/quizgen"
)

// Telegram's limits for quiz polls, in characters.
const (
	MaxQuestionLen    = 300
	MaxOptionLen      = 100
	MaxExplanationLen = 200
	MaxOptions        = 10
)

const ellipsis = "…"

// ErrUnpostable means a question cannot be sent as a poll at all.
var ErrUnpostable = errors.New("question cannot be posted as a poll")

// PollFromQuestion builds an anonymous quiz poll for q. Texts over
// Telegram's limits are cut and end in "…".
func PollFromQuestion(chatID int64, q quizgen.Question) (tgbotapi.SendPollConfig, error) {
	if len(q.Options) < 2 || len(q.Options) > MaxOptions {
		return tgbotapi.SendPollConfig{}, fmt.Errorf("%w: question %d has %d options", ErrUnpostable, q.ID, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return tgbotapi.SendPollConfig{}, fmt.Errorf("%w: question %d has correct index %d", ErrUnpostable, q.ID, q.CorrectIndex)
	}

	options := pollOptions(q.Options)

	poll := tgbotapi.NewPoll(chatID, truncate(q.Text, MaxQuestionLen), options...)
	poll.Type = "quiz"
	poll.IsAnonymous = true
	poll.CorrectOptionID = int64(q.CorrectIndex)
	poll.Explanation = truncate(q.Explanation, MaxExplanationLen)
	return poll, nil
}

// pollOptions cuts options to MaxOptionLen. Options that become identical
// once cut end in their label instead, e.g. "… (b)".
func pollOptions(opts []string) []string {
	out := make([]string, len(opts))
	seen := make(map[string]int, len(opts))
	for i, opt := range opts {
		out[i] = truncate(opt, MaxOptionLen)
		seen[out[i]]++
	}
	for i, opt := range opts {
		if seen[out[i]] > 1 && out[i] != opt {
			out[i] = truncateWithSuffix(opt, MaxOptionLen, fmt.Sprintf("%s (%c)", ellipsis, 'a'+i))
		}
	}
	return out
}

// truncateWithSuffix cuts s so that s plus suffix fits in limit runes.
func truncateWithSuffix(s string, limit int, suffix string) string {
	keep := max(limit-len([]rune(suffix)), 0)
	r := []rune(s)
	if len(r) > keep {
		r = r[:keep]
	}
	return string(r) + suffix
}

// truncate cuts s to at most limit runes, the last being "…" when cut.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + ellipsis
}
