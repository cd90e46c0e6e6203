package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/termquiz/internal/quizgen"
)

type fakeSender struct {
	mu     sync.Mutex
	polls  []tgbotapi.SendPollConfig
	failAt int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAt > 0 && len(f.polls)+1 == f.failAt {
		return tgbotapi.Message{}, errors.New("Bad Request: poll options are too long")
	}
	f.polls = append(f.polls, c.(tgbotapi.SendPollConfig))
	return tgbotapi.Message{MessageID: len(f.polls)}, nil
}

func question(id int) quizgen.Question {
	return quizgen.Question{
		ID:           id,
		Text:         "「SLA」の説明として、適切なものはどれか。",
		Options:      []string{"定型業務の自動化。", "サービスレベルの合意。", "モノのインターネット。", "強み・弱み・機会・脅威の分析。"},
		CorrectIndex: 1,
		Explanation:  "正解は「SLA」です。",
	}
}

func TestPollFromQuestion(t *testing.T) {
	poll, err := PollFromQuestion(42, question(1))
	require.NoError(t, err)

	assert.Equal(t, int64(42), poll.ChatID)
	assert.Equal(t, "quiz", poll.Type)
	assert.True(t, poll.IsAnonymous)
	assert.Equal(t, int64(1), poll.CorrectOptionID)
	assert.Equal(t, "「SLA」の説明として、適切なものはどれか。", poll.Question)
	assert.Equal(t, question(1).Options, poll.Options)
	assert.Equal(t, "正解は「SLA」です。", poll.Explanation)
}

func TestPollFromQuestion_Truncates(t *testing.T) {
	q := question(1)
	q.Text = strings.Repeat("問", 400)
	q.Options[2] = strings.Repeat("選", 150)
	q.Explanation = strings.Repeat("解", MaxExplanationLen)

	poll, err := PollFromQuestion(1, q)
	require.NoError(t, err)

	assert.Equal(t, MaxQuestionLen, utf8.RuneCountInString(poll.Question))
	assert.True(t, strings.HasSuffix(poll.Question, "…"))
	assert.Equal(t, MaxOptionLen, utf8.RuneCountInString(poll.Options[2]))
	assert.True(t, strings.HasSuffix(poll.Options[2], "…"))
	assert.Equal(t, q.Options[0], poll.Options[0])
	// Exactly at the limit is left alone.
	assert.Equal(t, q.Explanation, poll.Explanation)
}

func TestPollFromQuestion_TruncatedOptionsStayDistinct(t *testing.T) {
	prefix := strings.Repeat("あ", 120)
	q := quizgen.Question{
		ID:           9,
		Text:         "q",
		Options:      []string{prefix + "一", prefix + "二", "短い", prefix + "三"},
		CorrectIndex: 1,
		Explanation:  "e",
	}

	poll, err := PollFromQuestion(1, q)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, opt := range poll.Options {
		assert.LessOrEqual(t, utf8.RuneCountInString(opt), MaxOptionLen)
		assert.False(t, seen[opt], "duplicate option %q", opt)
		seen[opt] = true
	}
	assert.True(t, strings.HasSuffix(poll.Options[0], "… (a)"))
	assert.True(t, strings.HasSuffix(poll.Options[1], "… (b)"))
	assert.Equal(t, "短い", poll.Options[2])
	assert.True(t, strings.HasSuffix(poll.Options[3], "… (d)"))
}

func TestPollFromQuestion_Unpostable(t *testing.T) {
	tests := map[string]func(*quizgen.Question){
		"one option":   func(q *quizgen.Question) { q.Options = q.Options[:1]; q.CorrectIndex = 0 },
		"many options": func(q *quizgen.Question) { q.Options = make([]string, 11) },
		"bad index":    func(q *quizgen.Question) { q.CorrectIndex = 4 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			q := question(3)
			mutate(&q)
			_, err := PollFromQuestion(1, q)
			assert.ErrorIs(t, err, ErrUnpostable)
		})
	}
}

func TestPublish_SendsInOrder(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, time.Millisecond, nil)

	qs := []quizgen.Question{question(1), question(2), question(3)}
	qs[2].CorrectIndex = 3

	n, err := p.Publish(context.Background(), 7, qs)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, sender.polls, 3)
	assert.Equal(t, int64(3), sender.polls[2].CorrectOptionID)
	assert.Equal(t, int64(7), sender.polls[0].ChatID)
}

func TestPublish_StopsOnSendFailure(t *testing.T) {
	sender := &fakeSender{failAt: 2}
	p := NewPublisher(sender, 0, nil)

	n, err := p.Publish(context.Background(), 7, []quizgen.Question{question(1), question(2), question(3)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send question 2")
	assert.Equal(t, 1, n)
}

func TestPublish_CanceledDuringInterval(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	n, err := p.Publish(ctx, 7, []quizgen.Question{question(1), question(2)})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, n)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "日本…", truncate("日本語です", 3))
}
