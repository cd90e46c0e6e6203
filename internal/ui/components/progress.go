package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/termquiz/internal/ui/theme"
)

// ProgressBar shows how far through the dataset the preview is.
type ProgressBar struct {
	Current int
	Total   int
	Width   int
}

func (p ProgressBar) percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(float64(p.Current)/float64(p.Total), 1)
}

// View renders "[████····] 12/1000".
func (p ProgressBar) View() string {
	counter := fmt.Sprintf("  %d/%d", p.Current, p.Total)
	barWidth := max(p.Width-lipgloss.Width(counter), 4)

	filled := int(float64(barWidth) * p.percent())
	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		theme.Dimmed.Render(counter)
}
