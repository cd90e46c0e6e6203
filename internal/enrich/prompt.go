package enrich

import (
	"fmt"
	"strings"

	"github.com/abhisek/termquiz/internal/quizgen"
)

const systemPrompt = `あなたはITパスポート試験の講師です。四択問題の解説を書き直します。

Rules:
- 日本語で書くこと。
- conclusion: 正解の選択肢を一文で示す。
- reason: なぜその選択肢が正しいかを、問題文の言葉に触れながら説明する。
- points: 他の選択肢との違いや覚え方を短い箇条書きにする。
- 問題文や選択肢にない用語を正解として持ち出さないこと。
- Markdown や見出し記号は使わないこと。`

// buildUserMessage shows the model the question, its options with the
// correct one marked, and the current explanation.
func buildUserMessage(q *quizgen.Question) string {
	var b strings.Builder

	fmt.Fprintf(&b, "問題: %s\n\n選択肢:\n", q.Text)
	for i, opt := range q.Options {
		mark := " "
		if i == q.CorrectIndex {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %c. %s\n", mark, 'a'+rune(i), opt)
	}

	b.WriteString("\n現在の解説:\n")
	if strings.TrimSpace(q.Explanation) == "" {
		b.WriteString("なし")
	} else {
		b.WriteString(q.Explanation)
	}

	return b.String()
}
