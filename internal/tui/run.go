package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskbarn/internal/document"
)

// Run starts the board and blocks until the user quits. The app state
// file is written on exit.
func Run(doc *document.Document, opts Options) error {
	m := New(doc, opts)
	defer m.Close()

	var progOpts []tea.ProgramOption
	if opts.App.Maximized {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, progOpts...)
	if _, err := p.Run(); err != nil {
		return err
	}
	m.persistAppConfig()
	return nil
}
