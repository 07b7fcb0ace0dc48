package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskbarn/internal/config"
	"github.com/idilsaglam/taskbarn/internal/document"
	"github.com/idilsaglam/taskbarn/internal/flash"
	"github.com/idilsaglam/taskbarn/internal/model"
)

var today = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.Local)

func newBoard(t *testing.T) (*Model, *document.Document) {
	t.Helper()
	doc := document.New(document.WithClock(func() time.Time { return today }))
	m := New(doc, Options{App: config.DefaultAppConfig()})
	t.Cleanup(m.Close)
	return m, doc
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typeText(m *Model, s string) {
	for _, r := range s {
		press(m, runes(string(r)))
	}
}

// quits runs cmd and reports whether it (or a batch member) quits.
func quits(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, c := range msg {
			if quits(c) {
				return true
			}
		}
	}
	return false
}

func TestAddGroupThroughPrompt(t *testing.T) {
	m, doc := newBoard(t)
	press(m, runes("A"))
	if m.mode != modeInput {
		t.Fatalf("mode = %d, want input", m.mode)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.inputErr == "" || doc.Len() != 0 {
		t.Fatalf("empty title accepted: err=%q len=%d", m.inputErr, doc.Len())
	}
	typeText(m, "Groceries")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if doc.Len() != 1 || doc.Groups()[0].Title != "Groceries" {
		t.Fatalf("groups = %v", doc.Groups())
	}
	if m.focused() == nil || m.focused().Title != "Groceries" {
		t.Error("new group not focused")
	}
	if !strings.Contains(m.View(), "🥚 Groceries") {
		t.Error("empty tier glyph not rendered")
	}
}

func TestTwoStepGroupRemoval(t *testing.T) {
	m, doc := newBoard(t)
	if _, err := doc.AddGroup("Keep?"); err != nil {
		t.Fatal(err)
	}

	press(m, runes("D"))
	if doc.Len() != 1 || !m.guard.Armed() {
		t.Fatalf("first D: len=%d armed=%v", doc.Len(), m.guard.Armed())
	}
	press(m, runes("?")) // any other key disarms
	if m.guard.Armed() {
		t.Fatal("guard still armed after another key")
	}
	press(m, runes("D"))
	if doc.Len() != 1 {
		t.Fatal("group removed after reset plus one D")
	}
	press(m, runes("D"))
	if doc.Len() != 0 {
		t.Fatal("group not removed by second D")
	}
}

func TestRemovedGroupStopsFlashing(t *testing.T) {
	m, doc := newBoard(t)
	g, _ := doc.AddGroup("Due today")
	if err := doc.SetGroupDueDate(g.ID, model.FormatDate(today)); err != nil {
		t.Fatal(err)
	}
	it, _ := doc.AddItem(g.ID, "tomorrow")
	if err := doc.SetItemDeadline(g.ID, it.ID, model.FormatDate(today.AddDate(0, 0, 1))); err != nil {
		t.Fatal(err)
	}
	if _, on := m.flashes.Phase(flash.GroupKey(g.ID)); !on {
		t.Fatal("group due today is not flashing")
	}
	if _, on := m.flashes.Phase(flash.ItemKey(it.ID)); !on {
		t.Fatal("item due tomorrow is not flashing")
	}

	if err := doc.RemoveGroup(g.ID); err != nil {
		t.Fatal(err)
	}
	if m.flashes.Active() != 0 {
		t.Errorf("active flashers after removal = %d", m.flashes.Active())
	}
	for gen := uint64(0); gen < 10; gen++ {
		for _, key := range []string{flash.GroupKey(g.ID), flash.ItemKey(it.ID)} {
			if cmd := press(m, flash.TickMsg{Key: key, Gen: gen}); cmd != nil {
				t.Fatalf("tick for removed %s scheduled another update", key)
			}
		}
	}
}

func TestClearingDateStopsFlashing(t *testing.T) {
	m, doc := newBoard(t)
	g, _ := doc.AddGroup("G")
	_ = doc.SetGroupDueDate(g.ID, model.FormatDate(today))
	_ = doc.SetGroupDueDate(g.ID, "")
	if _, on := m.flashes.Phase(flash.GroupKey(g.ID)); on {
		t.Error("cleared date still flashing")
	}
	_ = doc.SetGroupDueDate(g.ID, model.FormatDate(today.AddDate(0, 0, -3)))
	if _, on := m.flashes.Phase(flash.GroupKey(g.ID)); on {
		t.Error("overdue date flashing")
	}
}

func TestDueDatePromptValidates(t *testing.T) {
	m, doc := newBoard(t)
	g, _ := doc.AddGroup("G")
	press(m, runes("g"))
	typeText(m, "soon")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeInput || m.inputErr == "" {
		t.Fatalf("bad date accepted: mode=%d err=%q", m.mode, m.inputErr)
	}
	m.input.SetValue("")
	typeText(m, "3/5/24")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if g.DueDate != "03/05/24" {
		t.Errorf("due date = %q, want 03/05/24", g.DueDate)
	}
	if m.mode != modeBrowse {
		t.Error("prompt still open")
	}
}

func TestRenameEmptyKeepsTitle(t *testing.T) {
	m, doc := newBoard(t)
	g, _ := doc.AddGroup("Original")
	press(m, runes("r"))
	m.input.SetValue("   ")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if g.Title != "Original" {
		t.Errorf("title = %q", g.Title)
	}
	if m.mode != modeBrowse || m.inputErr != "" {
		t.Error("empty rename should revert silently")
	}
}

func TestItemToggleAndRemove(t *testing.T) {
	m, doc := newBoard(t)
	g, _ := doc.AddGroup("G")
	press(m, runes("a"))
	typeText(m, "milk")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(g.Items) != 1 || m.cursorItem != 0 {
		t.Fatalf("items=%d cursor=%d", len(g.Items), m.cursorItem)
	}
	press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if !g.Items[0].Checked {
		t.Error("space did not check the item")
	}
	press(m, runes("x"))
	if len(g.Items) != 0 || m.cursorItem != -1 {
		t.Errorf("after remove: items=%d cursor=%d", len(g.Items), m.cursorItem)
	}
}

func TestUnsavedChangesPrompt(t *testing.T) {
	m, doc := newBoard(t)
	if _, err := doc.AddGroup("dirty"); err != nil {
		t.Fatal(err)
	}

	if quits(press(m, runes("q"))) || m.mode != modeConfirm {
		t.Fatal("quit with unsaved changes did not ask")
	}
	if quits(press(m, runes("c"))) {
		t.Fatal("cancel quit anyway")
	}
	if m.mode != modeBrowse || doc.Len() != 1 || !doc.Dirty() {
		t.Fatal("cancel had side effects")
	}

	press(m, runes("n"))
	press(m, runes("d"))
	if doc.Len() != 0 || doc.Dirty() {
		t.Errorf("discard then new: len=%d dirty=%v", doc.Len(), doc.Dirty())
	}
}

func TestSaveThenQuit(t *testing.T) {
	m, doc := newBoard(t)
	path := filepath.Join(t.TempDir(), "tasks.brn")
	if err := doc.Save(path); err != nil {
		t.Fatal(err)
	}
	if _, err := doc.AddGroup("unsaved"); err != nil {
		t.Fatal(err)
	}
	press(m, runes("q"))
	if !quits(press(m, runes("s"))) {
		t.Fatal("save then proceed did not quit")
	}
	if doc.Dirty() {
		t.Error("document still dirty after save")
	}
	reloaded := document.New()
	if err := reloaded.Load(path); err != nil || reloaded.Len() != 1 {
		t.Errorf("reload: len=%d err=%v", reloaded.Len(), err)
	}
}

func TestSaveThenProceedWithoutPathAsksForOne(t *testing.T) {
	m, doc := newBoard(t)
	if _, err := doc.AddGroup("unsaved"); err != nil {
		t.Fatal(err)
	}
	press(m, runes("n"))
	press(m, runes("s"))
	if m.mode != modeInput || m.inputKind != inputSaveAs {
		t.Fatalf("mode=%d kind=%d, want save-as prompt", m.mode, m.inputKind)
	}
	path := filepath.Join(t.TempDir(), "new.brn")
	m.input.SetValue(path)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if doc.Len() != 0 || doc.FilePath() != "" {
		t.Errorf("new document not started after save-as: len=%d path=%q", doc.Len(), doc.FilePath())
	}
	reloaded := document.New()
	if err := reloaded.Load(path); err != nil || reloaded.Len() != 1 {
		t.Errorf("saved file: len=%d err=%v", reloaded.Len(), err)
	}
}

func TestResizeIsDebounced(t *testing.T) {
	m, _ := newBoard(t)
	press(m, tea.WindowSizeMsg{Width: 200, Height: 50})
	if m.width != 200 || m.columns != 200/(defaultCardWidth+3) {
		t.Fatalf("first size not applied: width=%d columns=%d", m.width, m.columns)
	}
	if cmd := press(m, tea.WindowSizeMsg{Width: 60, Height: 20}); cmd == nil {
		t.Fatal("resize did not schedule a debounce")
	}
	if m.width != 200 {
		t.Fatal("resize applied before the quiet period")
	}
	press(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	press(m, flash.DebounceMsg{Tag: "resize", Seq: 1}) // superseded
	if m.width != 200 {
		t.Fatal("superseded debounce applied")
	}
	press(m, flash.DebounceMsg{Tag: "resize", Seq: 2})
	if m.width != 80 || m.columns != 2 {
		t.Errorf("width=%d columns=%d, want 80 and 2", m.width, m.columns)
	}
}

func TestFilterNarrowsGroups(t *testing.T) {
	m, doc := newBoard(t)
	for _, title := range []string{"Garden", "Groceries", "Taxes"} {
		if _, err := doc.AddGroup(title); err != nil {
			t.Fatal(err)
		}
	}
	press(m, runes("/"))
	typeText(m, "tax")
	if got := m.visibleGroups(); len(got) != 1 || got[0].Title != "Taxes" {
		t.Fatalf("visible = %v", got)
	}
	if m.focused() == nil || m.focused().Title != "Taxes" {
		t.Error("focus not moved into the filtered set")
	}
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.visibleGroups()) != 3 {
		t.Error("esc did not clear the filter")
	}
}

func TestSortKeyCycles(t *testing.T) {
	m, doc := newBoard(t)
	before := doc.SortMethod()
	press(m, runes("s"))
	if doc.SortMethod() != before.Next() {
		t.Errorf("sort = %s, want %s", doc.SortMethod(), before.Next())
	}
	if doc.Dirty() {
		t.Error("sorting dirtied the document")
	}
}
