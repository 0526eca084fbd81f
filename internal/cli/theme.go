package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	funcplotter "github.com/Zaituny/FuncPlotter"
)

// Theme holds the lipgloss styles used for terminal output.
type Theme struct {
	Title lipgloss.Style
	Error lipgloss.Style
	Info  lipgloss.Style
	Faint lipgloss.Style
	Card  lipgloss.Style
}

// DefaultTheme returns the standard colour scheme.
func DefaultTheme() Theme {
	return Theme{
		Title: lipgloss.NewStyle().Bold(true),
		Error: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Info:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Faint: lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
	}
}

// Dialog renders a diagnostic as a modal-style card:
// a titled card, red for errors and blue for information.
func (t Theme) Dialog(d funcplotter.Diagnostic) string {
	title := t.Error
	if d.Severity == funcplotter.SeverityInfo {
		title = t.Info
	}
	body := strings.TrimRight(d.Text, "\n")
	return t.Card.Render(title.Render(d.Title) + "\n" + body)
}
