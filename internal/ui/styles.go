package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mdayat/artics-communication/internal/notice"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Underline(true)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	badgeCanceledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("124")).
				Padding(0, 1)

	badgeActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("28")).
				Padding(0, 1)
)

// formatDate mirrors the web front-end's "MMM d, yyyy 'at' h:mm a".
func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006 at 3:04 PM")
}

func (a *App) viewNotices() string {
	if len(a.notices) == 0 {
		return ""
	}

	out := ""
	for _, n := range a.notices {
		line := n.Text
		if n.Level == notice.LevelError {
			line = errorStyle.Render(line)
		} else {
			line = successStyle.Render(line)
		}
		out += line + "\n"
	}
	return out
}

func cancellationBadge(canceled bool) string {
	if canceled {
		return badgeCanceledStyle.Render("Canceled")
	}
	return badgeActiveStyle.Render("Not Canceled")
}
