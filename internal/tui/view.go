package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/idilsaglam/taskbarn/internal/flash"
	"github.com/idilsaglam/taskbarn/internal/model"
)

const (
	defaultCardWidth = 36
	cardGap          = 1
)

func (m *Model) cardWidth() int {
	if w := m.opts.Settings.CardWidth; w > 0 {
		return w
	}
	return defaultCardWidth
}

// applySize recomputes the grid for a new terminal size.
func (m *Model) applySize(w, h int) {
	m.width, m.height = w, h
	// card outer width = content + 2 border cells
	m.columns = w / (m.cardWidth() + 2 + cardGap)
	if m.columns < 1 {
		m.columns = 1
	}
	m.vp.Width = w
	m.help.Width = w
}

func truncate(s string, w int) string {
	if w <= 1 {
		return s
	}
	return runewidth.Truncate(s, w, "…")
}

func (m *Model) View() string {
	header := m.headerView()
	footer := m.footerView()
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 3 {
		bodyH = 3
	}
	m.vp.Width = m.width
	m.vp.Height = bodyH

	content, top, bottom := m.gridView()
	m.vp.SetContent(content)
	switch {
	case top < m.vp.YOffset:
		m.vp.SetYOffset(top)
	case bottom > m.vp.YOffset+m.vp.Height:
		m.vp.SetYOffset(bottom - m.vp.Height)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.vp.View(), footer)
}

func (m *Model) headerView() string {
	name := "[untitled]"
	if p := m.doc.FilePath(); p != "" {
		name = filepath.Base(p)
	}
	if m.doc.Dirty() {
		name += " " + pendingStyle.Render("●")
	}
	done, total := 0, 0
	for _, g := range m.doc.Groups() {
		done += g.Checked()
		total += len(g.Items)
	}
	parts := []string{
		titleStyle.Render("TaskBarn"),
		name,
		accentStyle.Render("sort: " + m.doc.SortMethod().Label()),
		fmt.Sprintf("%s %d/%d", successStyle.Render("✔"), done, total),
		fmt.Sprintf("%d tasks", m.doc.Len()),
	}
	if m.filter != "" {
		parts = append(parts, pendingStyle.Render("/"+m.filter))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) footerView() string {
	var lines []string
	switch m.mode {
	case modeInput:
		title := m.promptTitle()
		if m.inputErr != "" {
			title += " — " + errorStyle.Render(m.inputErr)
		}
		lines = append(lines, barStyle.Render(title+"\n"+m.input.View()))
	case modeConfirm:
		body := errorStyle.Render("Unsaved changes.") + "  " +
			accentStyle.Render("s") + " save  " +
			accentStyle.Render("d") + " discard  " +
			accentStyle.Render("c") + " cancel"
		lines = append(lines, barStyle.Render(body))
	}
	if m.status != "" {
		if m.statusErr {
			lines = append(lines, errorStyle.Render("✖ "+m.status))
		} else {
			lines = append(lines, mutedStyle.Render(m.status))
		}
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

// gridView lays cards out in rows of m.columns and returns the line span
// of the row holding the focused card.
func (m *Model) gridView() (string, int, int) {
	gs := m.visibleGroups()
	if len(gs) == 0 {
		if m.filter != "" {
			return mutedStyle.Render("No tasks match the filter."), 0, 0
		}
		return mutedStyle.Render("No tasks yet. Press A to add one."), 0, 0
	}
	today := m.doc.Today()
	var rows []string
	top, bottom, line := 0, 0, 0
	for start := 0; start < len(gs); start += m.columns {
		end := start + m.columns
		if end > len(gs) {
			end = len(gs)
		}
		cards := make([]string, 0, 2*(end-start))
		hasFocus := false
		for i := start; i < end; i++ {
			focused := gs[i].ID == m.focusGroup
			hasFocus = hasFocus || focused
			if i > start {
				cards = append(cards, strings.Repeat(" ", cardGap))
			}
			cards = append(cards, m.renderCard(gs[i], focused, today))
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
		h := lipgloss.Height(row)
		if hasFocus {
			top, bottom = line, line+h
		}
		line += h
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n"), top, bottom
}

func (m *Model) renderCard(g *model.TaskGroup, focused bool, today time.Time) string {
	st := stylesFor(g)
	inner := m.cardWidth() - 2

	head := g.Tier().Glyph() + " " + g.Title
	if focused && m.cursorItem < 0 {
		head = "> " + head
	}
	lines := []string{st.base.Bold(true).Render(truncate(head, inner))}
	if focused && m.guard.Armed() {
		lines = append(lines, errorStyle.Render("🗑 press D again to delete"))
	}
	if due := g.Due(today); due.Text != "" {
		phase, _ := m.flashes.Phase(flash.GroupKey(g.ID))
		lines = append(lines, dueStyle(due, phase, st.base).Render(truncate("Due: "+due.Text, inner)))
	}
	if len(g.Items) == 0 {
		lines = append(lines, st.muted.Render("(empty)"))
	}
	for i, it := range g.Items {
		cursor := "  "
		if focused && i == m.cursorItem {
			cursor = "> "
		}
		box, style := boxUnchecked, st.base
		if it.Checked {
			box, style = boxChecked, st.checked
		}
		label := it.Label
		if label == "" {
			label = "…"
		}
		lines = append(lines, st.base.Render(cursor+box+" ")+style.Render(truncate(label, inner-4)))
		if dl := it.Due(today); dl.Text != "" {
			phase, _ := m.flashes.Phase(flash.ItemKey(it.ID))
			lines = append(lines, st.base.Render("    ")+dueStyle(dl, phase, st.muted).Render(truncate(dl.Text, inner-4)))
		}
	}

	border := lipgloss.Color("8")
	if focused {
		border = lipgloss.Color("12")
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(lipgloss.Color(g.Color)).
		Foreground(lipgloss.Color(g.TextColor())).
		Width(m.cardWidth()).
		Padding(0, 1)
	return card.Render(strings.Join(lines, "\n"))
}
