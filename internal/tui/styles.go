package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/taskbarn/internal/flash"
	"github.com/idilsaglam/taskbarn/internal/model"
)

// ------- styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	barStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	overdueStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#b00020"))
	flashAStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#ff0000")).
			Background(lipgloss.Color("#ffffff"))
	flashBStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#ff0000"))

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// cardStyles are derived from a group's background on every render.
type cardStyles struct {
	base    lipgloss.Style
	checked lipgloss.Style
	muted   lipgloss.Style
}

func stylesFor(g *model.TaskGroup) cardStyles {
	base := lipgloss.NewStyle().
		Background(lipgloss.Color(g.Color)).
		Foreground(lipgloss.Color(g.TextColor()))
	return cardStyles{
		base:    base,
		checked: base.Faint(true).Strikethrough(true),
		muted:   base.Faint(true),
	}
}

// dueStyle resolves the style of a due text: flashing elements alternate
// by phase, overdue ones use the fixed overdue style.
func dueStyle(st model.DueStatus, phase flash.Phase, base lipgloss.Style) lipgloss.Style {
	switch {
	case st.Flashing() && phase == flash.PhaseB:
		return flashBStyle
	case st.Flashing():
		return flashAStyle
	case st.Overdue():
		return overdueStyle
	default:
		return base
	}
}
