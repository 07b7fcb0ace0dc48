// Package tui is the interactive TaskBarn board built on Bubble Tea.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"

	"github.com/idilsaglam/taskbarn/internal/config"
	"github.com/idilsaglam/taskbarn/internal/document"
	"github.com/idilsaglam/taskbarn/internal/export"
	"github.com/idilsaglam/taskbarn/internal/flash"
	"github.com/idilsaglam/taskbarn/internal/logging"
	"github.com/idilsaglam/taskbarn/internal/model"
)

// Options wires the board to its environment.
type Options struct {
	Settings      config.Settings
	App           config.AppConfig
	AppConfigPath string // "" disables writing the app state file
	Logger        *log.Logger
	StartupErr    error // shown in the status line on the first frame
}

type mode int

const (
	modeBrowse mode = iota
	modeInput
	modeConfirm
)

type inputKind int

const (
	inputNewGroup inputKind = iota
	inputNewItem
	inputRenameGroup
	inputEditItem
	inputGroupDue
	inputItemDue
	inputColor
	inputOpen
	inputSaveAs
	inputFilter
)

type action int

const (
	actionNone action = iota
	actionQuit
	actionOpen
	actionNew
)

type statusMsg struct {
	text string
	err  bool
}

type clockMsg time.Time

const clockInterval = time.Minute

// Model is the board state. It is used through a pointer so that the
// document subscription can reach it.
type Model struct {
	doc    *document.Document
	opts   Options
	logger *log.Logger

	keys    keyMap
	help    help.Model
	input   textinput.Model
	vp      viewport.Model
	flashes *flash.Registry
	resize  *flash.Debouncer
	guard   model.RemoveGuard

	mode      mode
	inputKind inputKind
	inputErr  string

	pending     action
	pendingPath string
	// set when "save then proceed" needs a path first
	afterSave action

	focusGroup string // ID of the focused group
	cursorItem int    // -1 selects the group header

	filter string

	width, height      int
	pendingW, pendingH int
	sized              bool
	columns            int

	status    string
	statusErr bool

	cmds        []tea.Cmd
	unsubscribe func()
}

// New builds a board over doc.
func New(doc *document.Document, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	w, h, err := config.ParseSize(opts.App.WindowSize)
	if err != nil {
		w, h = config.DefaultWidth, config.DefaultHeight
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := &Model{
		doc:        doc,
		opts:       opts,
		logger:     opts.Logger,
		keys:       defaultKeys(),
		help:       help.New(),
		input:      ti,
		vp:         viewport.New(w, h),
		flashes:    flash.NewRegistry(flash.Interval),
		resize:     flash.NewDebouncer("resize", flash.ResizeQuiet),
		cursorItem: -1,
	}
	m.applySize(w, h)
	if gs := doc.Groups(); len(gs) > 0 {
		m.focusGroup = gs[0].ID
	}
	if opts.StartupErr != nil {
		m.setError(opts.StartupErr.Error())
	}
	m.unsubscribe = doc.Subscribe(m.onChange)
	return m
}

// Close detaches the board from the document and stops all timers.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.flashes.StopAll()
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.syncFlashes(), clockTick())
}

func clockTick() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg { return clockMsg(t) })
}

// onChange is the single document subscription: every mutation lands
// here, timers are re-synced and focus is repaired.
func (m *Model) onChange(c document.Change) {
	switch c.Kind {
	case document.GroupRemoved:
		m.flashes.Stop(flash.GroupKey(c.GroupID))
	case document.ItemRemoved:
		m.flashes.Stop(flash.ItemKey(c.ItemID))
	case document.Loaded, document.Cleared:
		m.flashes.StopAll()
		m.focusGroup = ""
		m.cursorItem = -1
	}
	m.cmds = append(m.cmds, m.syncFlashes())
	m.repairFocus()
}

// syncFlashes arms exactly the elements whose due text asks for flashing.
func (m *Model) syncFlashes() tea.Cmd {
	today := m.doc.Today()
	want := make(map[string]bool)
	for _, g := range m.doc.Groups() {
		if g.Due(today).Flashing() {
			want[flash.GroupKey(g.ID)] = true
		}
		for _, it := range g.Items {
			if it.Due(today).Flashing() {
				want[flash.ItemKey(it.ID)] = true
			}
		}
	}
	return m.flashes.Sync(want)
}

func (m *Model) drain(cmd tea.Cmd) tea.Cmd {
	cmds := append(m.cmds, cmd)
	m.cmds = nil
	return tea.Batch(cmds...)
}

// ---------------------------------------------------
// focus
// ---------------------------------------------------

// visibleGroups applies the fuzzy filter while keeping display order.
func (m *Model) visibleGroups() []*model.TaskGroup {
	gs := m.doc.Groups()
	if m.filter == "" {
		return gs
	}
	titles := make([]string, len(gs))
	for i, g := range gs {
		titles[i] = g.Title
	}
	keep := make(map[int]bool)
	for _, match := range fuzzy.Find(m.filter, titles) {
		keep[match.Index] = true
	}
	out := make([]*model.TaskGroup, 0, len(keep))
	for i, g := range gs {
		if keep[i] {
			out = append(out, g)
		}
	}
	return out
}

func (m *Model) focusIndex(gs []*model.TaskGroup) int {
	for i, g := range gs {
		if g.ID == m.focusGroup {
			return i
		}
	}
	return -1
}

func (m *Model) focused() *model.TaskGroup {
	gs := m.visibleGroups()
	if i := m.focusIndex(gs); i >= 0 {
		return gs[i]
	}
	return nil
}

func (m *Model) focusedItem() (*model.TaskGroup, *model.ChecklistItem) {
	g := m.focused()
	if g == nil || m.cursorItem < 0 || m.cursorItem >= len(g.Items) {
		return g, nil
	}
	return g, g.Items[m.cursorItem]
}

func (m *Model) repairFocus() {
	gs := m.visibleGroups()
	if len(gs) == 0 {
		m.focusGroup = ""
		m.cursorItem = -1
		return
	}
	if m.focusIndex(gs) < 0 {
		m.focusGroup = gs[0].ID
		m.cursorItem = -1
	}
	g := m.focused()
	if m.cursorItem >= len(g.Items) {
		m.cursorItem = len(g.Items) - 1
	}
}

func (m *Model) moveGroup(delta int) {
	gs := m.visibleGroups()
	if len(gs) == 0 {
		return
	}
	i := m.focusIndex(gs)
	if i < 0 {
		i = 0
	} else {
		n := len(gs)
		i = ((i+delta)%n + n) % n
	}
	if gs[i].ID != m.focusGroup {
		m.guard.Reset()
	}
	m.focusGroup = gs[i].ID
	m.cursorItem = -1
}

func (m *Model) moveItem(delta int) {
	g := m.focused()
	if g == nil {
		return
	}
	next := m.cursorItem + delta
	switch {
	case next < -1:
		// wrap to the row above in the grid
		m.moveGroup(-m.columns)
		return
	case next >= len(g.Items):
		m.moveGroup(m.columns)
		return
	}
	m.cursorItem = next
}

// ---------------------------------------------------
// status
// ---------------------------------------------------

func (m *Model) setStatus(s string) { m.status, m.statusErr = s, false }
func (m *Model) setError(s string)  { m.status, m.statusErr = s, true }

func (m *Model) reportErr(prefix string, err error) {
	if errors.Is(err, document.ErrInvalidFormat) {
		m.setError(prefix + ": " + err.Error() + "; document unchanged")
		return
	}
	m.setError(prefix + ": " + err.Error())
}

// ---------------------------------------------------
// Update
// ---------------------------------------------------

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.sized {
			m.sized = true
			m.applySize(msg.Width, msg.Height)
			return m, nil
		}
		m.pendingW, m.pendingH = msg.Width, msg.Height
		return m, m.resize.Trigger()

	case flash.DebounceMsg:
		if m.resize.Ready(msg) {
			m.applySize(m.pendingW, m.pendingH)
		}
		return m, nil

	case flash.TickMsg:
		cmd, _ := m.flashes.Handle(msg)
		return m, cmd

	case clockMsg:
		m.doc.Resort()
		return m, tea.Batch(m.syncFlashes(), clockTick())

	case statusMsg:
		if msg.err {
			m.setError(msg.text)
		} else {
			m.setStatus(msg.text)
		}
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch m.mode {
		case modeInput:
			cmd = m.updateInput(msg)
		case modeConfirm:
			cmd = m.updateConfirm(msg)
		default:
			cmd = m.updateBrowse(msg)
		}
		return m, m.drain(cmd)
	}

	if m.mode == modeInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	if !key.Matches(msg, m.keys.RemoveGroup) {
		m.guard.Reset()
	}
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m.request(actionQuit, "")
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Left):
		m.moveGroup(-1)
	case key.Matches(msg, k.Right):
		m.moveGroup(1)
	case key.Matches(msg, k.Up):
		m.moveItem(-1)
	case key.Matches(msg, k.Down):
		m.moveItem(1)

	case key.Matches(msg, k.Toggle):
		if g, it := m.focusedItem(); it != nil {
			if _, err := m.doc.ToggleItem(g.ID, it.ID); err != nil {
				m.reportErr("check", err)
			}
		}

	case key.Matches(msg, k.AddGroup):
		return m.prompt(inputNewGroup, "New task title...", "")
	case key.Matches(msg, k.AddItem):
		if m.focused() != nil {
			return m.prompt(inputNewItem, "New checkbox...", "")
		}
	case key.Matches(msg, k.Rename):
		if g := m.focused(); g != nil {
			return m.prompt(inputRenameGroup, "Task title...", g.Title)
		}
	case key.Matches(msg, k.EditItem):
		if _, it := m.focusedItem(); it != nil {
			return m.prompt(inputEditItem, "Checkbox label...", it.Label)
		}
	case key.Matches(msg, k.GroupDue):
		if g := m.focused(); g != nil {
			return m.prompt(inputGroupDue, "MM/DD/YY, empty clears", g.DueDate)
		}
	case key.Matches(msg, k.ItemDue):
		if _, it := m.focusedItem(); it != nil {
			return m.prompt(inputItemDue, "MM/DD/YY, empty clears", it.Deadline)
		}
	case key.Matches(msg, k.Color):
		if g := m.focused(); g != nil {
			return m.prompt(inputColor, "#rrggbb", g.Color)
		}

	case key.Matches(msg, k.RemoveItem):
		if g, it := m.focusedItem(); it != nil {
			if err := m.doc.RemoveItem(g.ID, it.ID); err != nil {
				m.reportErr("remove", err)
			}
		}
	case key.Matches(msg, k.RemoveGroup):
		g := m.focused()
		if g == nil {
			m.guard.Reset()
			break
		}
		if !m.guard.Trigger() {
			m.setStatus(fmt.Sprintf("press D again to remove %q", g.Title))
			break
		}
		if err := m.doc.RemoveGroup(g.ID); err != nil {
			m.reportErr("remove", err)
			break
		}
		m.setStatus(fmt.Sprintf("removed %q", g.Title))

	case key.Matches(msg, k.Sort):
		next := m.doc.SortMethod().Next()
		m.doc.SetSortMethod(next)
		m.setStatus("sorted by " + next.Label())
	case key.Matches(msg, k.Filter):
		return m.prompt(inputFilter, "filter tasks", m.filter)
	case key.Matches(msg, k.Copy):
		if g := m.focused(); g != nil {
			return copyCmd(export.Markdown(g, m.doc.Today()), g.Title)
		}

	case key.Matches(msg, k.Save):
		if m.doc.FilePath() == "" {
			return m.prompt(inputSaveAs, "path to save", "")
		}
		m.save("")
	case key.Matches(msg, k.SaveAs):
		return m.prompt(inputSaveAs, "path to save", m.doc.FilePath())
	case key.Matches(msg, k.Open):
		return m.prompt(inputOpen, "path to open", m.doc.FilePath())
	case key.Matches(msg, k.New):
		return m.request(actionNew, "")
	}
	return nil
}

func copyCmd(text, title string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{text: "clipboard unavailable: " + err.Error(), err: true}
		}
		return statusMsg{text: fmt.Sprintf("copied %q", title)}
	}
}

// ---------------------------------------------------
// prompts
// ---------------------------------------------------

func (m *Model) prompt(kind inputKind, placeholder, value string) tea.Cmd {
	m.mode = modeInput
	m.inputKind = kind
	m.inputErr = ""
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.mode = modeBrowse
	m.inputErr = ""
	m.input.SetValue("")
	m.input.Blur()
}

func (m *Model) promptTitle() string {
	switch m.inputKind {
	case inputNewGroup:
		return "Add task"
	case inputNewItem:
		return "Add checkbox"
	case inputRenameGroup:
		return "Rename task"
	case inputEditItem:
		return "Edit checkbox"
	case inputGroupDue:
		return "Task due date"
	case inputItemDue:
		return "Checkbox deadline"
	case inputColor:
		return "Task color"
	case inputOpen:
		return "Open file"
	case inputSaveAs:
		return "Save as"
	default:
		return "Filter"
	}
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.submit(strings.TrimSpace(m.input.Value()))
		return nil
	case "esc":
		if m.inputKind == inputFilter {
			m.filter = ""
			m.repairFocus()
		}
		if m.inputKind == inputSaveAs {
			m.afterSave = actionNone
		}
		m.closePrompt()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.inputKind == inputFilter {
		m.filter = strings.TrimSpace(m.input.Value())
		m.repairFocus()
	}
	return cmd
}

// submit applies a prompt value. Validation failures keep the prompt open.
func (m *Model) submit(v string) {
	g, it := m.focusedItem()
	switch m.inputKind {
	case inputNewGroup:
		ng, err := m.doc.AddGroup(v)
		if err != nil {
			m.inputErr = "Title cannot be empty"
			return
		}
		m.focusGroup, m.cursorItem = ng.ID, -1
	case inputNewItem:
		if g == nil {
			break
		}
		ni, err := m.doc.AddItem(g.ID, v)
		if err != nil {
			m.reportErr("add", err)
			break
		}
		_, m.cursorItem = g.Item(ni.ID)
	case inputRenameGroup:
		if g != nil {
			// empty or unchanged titles silently keep the old one
			_, _ = m.doc.RenameGroup(g.ID, v)
		}
	case inputEditItem:
		if it != nil {
			if err := m.doc.SetItemLabel(g.ID, it.ID, v); err != nil {
				m.reportErr("edit", err)
			}
		}
	case inputGroupDue, inputItemDue:
		date, ok := normalizeDate(v)
		if !ok {
			m.inputErr = "Use MM/DD/YY"
			return
		}
		var err error
		if m.inputKind == inputGroupDue && g != nil {
			err = m.doc.SetGroupDueDate(g.ID, date)
		} else if it != nil {
			err = m.doc.SetItemDeadline(g.ID, it.ID, date)
		}
		if err != nil {
			m.reportErr("due date", err)
		}
	case inputColor:
		if g == nil {
			break
		}
		if err := m.doc.SetGroupColor(g.ID, v); err != nil {
			m.inputErr = "Use #rrggbb"
			return
		}
	case inputOpen:
		m.closePrompt()
		if v != "" {
			m.cmds = append(m.cmds, m.request(actionOpen, v))
		}
		return
	case inputSaveAs:
		if v == "" {
			m.inputErr = "Path cannot be empty"
			return
		}
		m.closePrompt()
		if !m.save(v) {
			m.afterSave = actionNone
			return
		}
		m.persistAppConfig()
		if next := m.afterSave; next != actionNone {
			m.afterSave = actionNone
			m.cmds = append(m.cmds, m.perform(next, m.pendingPath))
		}
		return
	case inputFilter:
		m.filter = v
		m.repairFocus()
	}
	m.closePrompt()
}

func normalizeDate(v string) (string, bool) {
	if v == "" {
		return "", true
	}
	t, err := model.ParseDate(v)
	if err != nil {
		return "", false
	}
	return model.FormatDate(t), true
}

// ---------------------------------------------------
// destructive actions and unsaved changes
// ---------------------------------------------------

// request runs a destructive action, asking first when there are unsaved
// changes.
func (m *Model) request(a action, path string) tea.Cmd {
	if !m.doc.Dirty() {
		return m.perform(a, path)
	}
	m.mode = modeConfirm
	m.pending = a
	m.pendingPath = path
	return nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	a, path := m.pending, m.pendingPath
	switch msg.String() {
	case "s", "y", "enter":
		m.mode = modeBrowse
		m.pending = actionNone
		if m.doc.FilePath() == "" {
			m.afterSave = a
			m.pendingPath = path
			return m.prompt(inputSaveAs, "path to save", "")
		}
		if !m.save("") {
			return nil
		}
		return m.perform(a, path)
	case "d", "n":
		m.mode = modeBrowse
		m.pending = actionNone
		return m.perform(a, path)
	case "c", "esc", "q":
		m.mode = modeBrowse
		m.pending = actionNone
		m.pendingPath = ""
		m.setStatus("cancelled")
	}
	return nil
}

func (m *Model) perform(a action, path string) tea.Cmd {
	switch a {
	case actionQuit:
		return tea.Quit
	case actionOpen:
		if err := m.doc.Load(path); err != nil {
			m.reportErr("open", err)
			return nil
		}
		m.filter = ""
		m.repairFocus()
		m.persistAppConfig()
		m.setStatus("opened " + path)
	case actionNew:
		m.doc.Reset()
		m.filter = ""
		m.setStatus("new document")
	}
	return nil
}

// save writes the document and reports the outcome in the status line.
func (m *Model) save(path string) bool {
	if err := m.doc.Save(path); err != nil {
		m.reportErr("save failed", err)
		return false
	}
	m.setStatus("saved " + m.doc.FilePath())
	return true
}

// persistAppConfig records the current file and geometry.
func (m *Model) persistAppConfig() {
	if m.opts.AppConfigPath == "" {
		return
	}
	cfg := m.opts.App
	if p := m.doc.FilePath(); p != "" {
		cfg.LastFile = p
	}
	cfg.WindowSize = config.FormatSize(m.width, m.height)
	m.opts.App = cfg
	if err := config.SaveAppConfig(m.opts.AppConfigPath, cfg); err != nil {
		m.logger.Warn("app config not saved", "path", m.opts.AppConfigPath, "err", err)
	}
}

// AppConfig is the state that will be persisted on exit.
func (m *Model) AppConfig() config.AppConfig { return m.opts.App }
