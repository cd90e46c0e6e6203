// Package preview walks through a question dataset in the terminal.
package preview

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/termquiz/internal/quizgen"
	"github.com/abhisek/termquiz/internal/ui/components"
	"github.com/abhisek/termquiz/internal/ui/layout"
	"github.com/abhisek/termquiz/internal/ui/theme"
)

// Model is the preview's Bubble Tea model.
type Model struct {
	questions []quizgen.Question
	index     int
	choice    components.MultiChoice

	correct  int
	answered int
	finished bool

	keys   keyMap
	help   help.Model
	width  int
	height int
}

// New starts the preview at the first question.
func New(qs []quizgen.Question) Model {
	m := Model{
		questions: qs,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
	if len(qs) == 0 {
		m.finished = true
		return m
	}
	m.load(0)
	return m
}

func (m *Model) load(i int) {
	q := m.questions[i]
	m.index = i
	m.choice = components.NewMultiChoice(fmt.Sprintf("Q%d. %s", q.ID, q.Text), q.Options, q.CorrectIndex)
	m.choice.Keys = m.keys.ChoiceKeys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.finished {
			return m, tea.Quit
		}

		if !m.choice.Submitted {
			var cmd tea.Cmd
			m.choice, cmd = m.choice.Update(msg)
			if m.choice.Submitted {
				m.answered++
				if m.choice.IsCorrect() {
					m.correct++
				}
			}
			return m, cmd
		}

		if key.Matches(msg, m.keys.Next) {
			if m.index+1 >= len(m.questions) {
				m.finished = true
			} else {
				m.load(m.index + 1)
			}
		}
	}
	return m, nil
}

// Score returns correct and answered counts so far.
func (m Model) Score() (correct, answered int) {
	return m.correct, m.answered
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full screen for the current size.
func (m Model) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	header := layout.RenderHeader("preview", fmt.Sprintf("score %d/%d  ", m.correct, m.answered), m.width)

	bindings := m.keys.answering()
	if m.choice.Submitted || m.finished {
		bindings = m.keys.reviewing()
	}
	footer := layout.RenderFooter(m.help.ShortHelpView(bindings), m.width)

	return layout.RenderFrame(header, m.content(), footer, m.width, m.height)
}

func (m Model) content() string {
	cardWidth := max(m.width-4, 20)

	if m.finished {
		return theme.Card.Width(cardWidth).Render(m.summary())
	}

	var b strings.Builder
	b.WriteString(components.ProgressBar{Current: m.index + 1, Total: len(m.questions), Width: cardWidth - 6}.View())
	b.WriteString("\n\n")
	b.WriteString(m.choice.View())

	if m.choice.Submitted {
		verdict := theme.Correct.Render("Correct!")
		if !m.choice.IsCorrect() {
			verdict = theme.Incorrect.Render("Wrong. Answer: " + components.Label(m.choice.CorrectIndex))
		}
		b.WriteString("\n")
		b.WriteString(verdict)
		b.WriteString("\n\n")
		b.WriteString(theme.Explanation.Width(cardWidth - 6).Render(m.questions[m.index].Explanation))
	}

	return theme.Card.Width(cardWidth).Render(b.String())
}

func (m Model) summary() string {
	if len(m.questions) == 0 {
		return theme.Hint.Render("The dataset has no questions.")
	}
	pct := 0
	if m.answered > 0 {
		pct = m.correct * 100 / m.answered
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("Preview finished"),
		"",
		theme.Body.Render(fmt.Sprintf("Answered %d of %d questions", m.answered, len(m.questions))),
		theme.Body.Render(fmt.Sprintf("Correct: %d (%d%%)", m.correct, pct)),
		"",
		theme.Hint.Render("Press any key to exit."),
	)
}

// Run shows qs in an interactive program and returns the final score.
func Run(qs []quizgen.Question) (correct, answered int, err error) {
	final, err := tea.NewProgram(New(qs)).Run()
	if err != nil {
		return 0, 0, fmt.Errorf("preview: %w", err)
	}
	correct, answered = final.(Model).Score()
	return correct, answered, nil
}
