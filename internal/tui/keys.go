package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left, Right, Up, Down key.Binding
	Toggle                key.Binding
	AddGroup, AddItem     key.Binding
	Rename, EditItem      key.Binding
	RemoveItem            key.Binding
	RemoveGroup           key.Binding
	GroupDue, ItemDue     key.Binding
	Color                 key.Binding
	Sort                  key.Binding
	Filter                key.Binding
	Copy                  key.Binding
	Save, SaveAs          key.Binding
	Open, New             key.Binding
	Help, Quit            key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Left:        key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "prev group")),
		Right:       key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next group")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "check")),
		AddGroup:    key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add task")),
		AddItem:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add checkbox")),
		Rename:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename task")),
		EditItem:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit checkbox")),
		RemoveItem:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove checkbox")),
		RemoveGroup: key.NewBinding(key.WithKeys("D"), key.WithHelp("D D", "remove task")),
		GroupDue:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "task due date")),
		ItemDue:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "checkbox deadline")),
		Color:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "color")),
		Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		SaveAs:      key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "save as")),
		Open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		New:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddGroup, k.AddItem, k.Toggle, k.RemoveGroup, k.Sort, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Toggle},
		{k.AddGroup, k.AddItem, k.Rename, k.EditItem, k.RemoveItem, k.RemoveGroup},
		{k.GroupDue, k.ItemDue, k.Color, k.Sort, k.Filter, k.Copy},
		{k.Save, k.SaveAs, k.Open, k.New, k.Help, k.Quit},
	}
}
