// Package document holds the set of task groups of the open file.
//
// Every mutating method re-sorts the groups, marks the document dirty and
// notifies subscribers with a Change. A Document is not safe for
// concurrent use; the UI drives it from its single update loop.
package document

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/taskbarn/internal/model"
)

// ChangeKind names what a mutation touched.
type ChangeKind int

const (
	GroupAdded ChangeKind = iota
	GroupRemoved
	GroupUpdated
	ItemAdded
	ItemRemoved
	ItemUpdated
	SortChanged
	Loaded
	Saved
	Cleared
)

// Change is emitted once per mutation.
type Change struct {
	Kind    ChangeKind
	GroupID string
	ItemID  string
}

// Structural reports whether the change altered document content.
func (c Change) Structural() bool {
	return c.Kind <= ItemUpdated
}

type subscription struct {
	id int
	fn func(Change)
}

// Document is the in-memory model of one task file.
type Document struct {
	groups     []*model.TaskGroup
	seq        map[string]int
	nextSeq    int
	sortMethod SortMethod
	filePath   string
	dirty      bool

	now    func() time.Time
	logger *log.Logger

	subs    []subscription
	nextSub int
}

// Option configures a Document.
type Option func(*Document)

// WithClock replaces time.Now, used for creation stamps and time_left sorting.
func WithClock(now func() time.Time) Option {
	return func(d *Document) { d.now = now }
}

// WithLogger routes load warnings and save errors.
func WithLogger(l *log.Logger) Option {
	return func(d *Document) { d.logger = l }
}

// WithSortMethod sets the initial sort method.
func WithSortMethod(m SortMethod) Option {
	return func(d *Document) { d.sortMethod = m }
}

// New returns an empty, clean document.
func New(opts ...Option) *Document {
	d := &Document{
		seq:        make(map[string]int),
		sortMethod: SortTimeLeft,
		now:        time.Now,
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Subscribe registers fn for every Change. The returned func removes it.
func (d *Document) Subscribe(fn func(Change)) func() {
	id := d.nextSub
	d.nextSub++
	d.subs = append(d.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range d.subs {
			if s.id == id {
				d.subs = append(d.subs[:i], d.subs[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) emit(c Change) {
	for _, s := range append([]subscription(nil), d.subs...) {
		s.fn(c)
	}
}

// mutated is the common tail of every content mutation.
func (d *Document) mutated(c Change) {
	d.dirty = true
	d.resort()
	d.emit(c)
}

func (d *Document) resort() {
	sortGroups(d.groups, d.sortMethod, d.seq, d.now())
}

// Groups returns the groups in display order. The slice is a copy; the
// groups are shared.
func (d *Document) Groups() []*model.TaskGroup {
	return append([]*model.TaskGroup(nil), d.groups...)
}

// Len is the number of groups.
func (d *Document) Len() int { return len(d.groups) }

// Group finds a group by ID.
func (d *Document) Group(id string) (*model.TaskGroup, error) {
	for _, g := range d.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, fmt.Errorf("group %s: %w", id, model.ErrNotFound)
}

// Index returns the display position of a group, or -1.
func (d *Document) Index(id string) int {
	for i, g := range d.groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (d *Document) item(groupID, itemID string) (*model.TaskGroup, *model.ChecklistItem, error) {
	g, err := d.Group(groupID)
	if err != nil {
		return nil, nil, err
	}
	it, _ := g.Item(itemID)
	if it == nil {
		return nil, nil, fmt.Errorf("item %s: %w", itemID, model.ErrNotFound)
	}
	return g, it, nil
}

func (d *Document) SortMethod() SortMethod { return d.sortMethod }
func (d *Document) FilePath() string       { return d.filePath }
func (d *Document) Dirty() bool            { return d.dirty }

// Today is the document clock truncated to the local date.
func (d *Document) Today() time.Time {
	t := d.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// SetSortMethod re-sorts the groups. It does not mark the document dirty.
func (d *Document) SetSortMethod(m SortMethod) {
	d.sortMethod = m
	d.resort()
	d.emit(Change{Kind: SortChanged})
}

// Resort recomputes the order without changing anything else, e.g. when
// the date rolls over.
func (d *Document) Resort() { d.resort() }

// AddGroup creates an empty group.
func (d *Document) AddGroup(title string) (*model.TaskGroup, error) {
	g, err := model.NewGroup(title, d.now())
	if err != nil {
		return nil, err
	}
	d.insert(g)
	d.mutated(Change{Kind: GroupAdded, GroupID: g.ID})
	return g, nil
}

func (d *Document) insert(g *model.TaskGroup) {
	d.seq[g.ID] = d.nextSeq
	d.nextSeq++
	d.groups = append(d.groups, g)
}

// RemoveGroup deletes a group and all of its items.
func (d *Document) RemoveGroup(id string) error {
	i := d.Index(id)
	if i < 0 {
		return fmt.Errorf("group %s: %w", id, model.ErrNotFound)
	}
	d.groups = append(d.groups[:i], d.groups[i+1:]...)
	delete(d.seq, id)
	d.mutated(Change{Kind: GroupRemoved, GroupID: id})
	return nil
}

// RenameGroup applies a title edit. Empty or unchanged titles are ignored
// and report false.
func (d *Document) RenameGroup(id, title string) (bool, error) {
	g, err := d.Group(id)
	if err != nil {
		return false, err
	}
	if !g.Rename(title) {
		return false, nil
	}
	d.mutated(Change{Kind: GroupUpdated, GroupID: id})
	return true, nil
}

// SetGroupColor validates and stores a background color.
func (d *Document) SetGroupColor(id, hex string) error {
	g, err := d.Group(id)
	if err != nil {
		return err
	}
	prev := g.Color
	if err := g.SetColor(hex); err != nil {
		return err
	}
	if g.Color != prev {
		d.mutated(Change{Kind: GroupUpdated, GroupID: id})
	}
	return nil
}

// SetGroupDueDate stores date verbatim; "" clears it.
func (d *Document) SetGroupDueDate(id, date string) error {
	g, err := d.Group(id)
	if err != nil {
		return err
	}
	date = strings.TrimSpace(date)
	if g.DueDate == date {
		return nil
	}
	g.DueDate = date
	d.mutated(Change{Kind: GroupUpdated, GroupID: id})
	return nil
}

// AddItem appends an unchecked item to a group.
func (d *Document) AddItem(groupID, label string) (*model.ChecklistItem, error) {
	g, err := d.Group(groupID)
	if err != nil {
		return nil, err
	}
	it := g.AddItem(label)
	d.mutated(Change{Kind: ItemAdded, GroupID: groupID, ItemID: it.ID})
	return it, nil
}

// RemoveItem deletes an item from its group.
func (d *Document) RemoveItem(groupID, itemID string) error {
	g, err := d.Group(groupID)
	if err != nil {
		return err
	}
	if _, err := g.RemoveItem(itemID); err != nil {
		return fmt.Errorf("item %s: %w", itemID, err)
	}
	d.mutated(Change{Kind: ItemRemoved, GroupID: groupID, ItemID: itemID})
	return nil
}

// ToggleItem flips the checked state and returns the new value.
func (d *Document) ToggleItem(groupID, itemID string) (bool, error) {
	_, it, err := d.item(groupID, itemID)
	if err != nil {
		return false, err
	}
	it.Checked = !it.Checked
	d.mutated(Change{Kind: ItemUpdated, GroupID: groupID, ItemID: itemID})
	return it.Checked, nil
}

// SetItemLabel replaces an item's label.
func (d *Document) SetItemLabel(groupID, itemID, label string) error {
	_, it, err := d.item(groupID, itemID)
	if err != nil {
		return err
	}
	label = strings.TrimSpace(label)
	if it.Label == label {
		return nil
	}
	it.Label = label
	d.mutated(Change{Kind: ItemUpdated, GroupID: groupID, ItemID: itemID})
	return nil
}

// SetItemDeadline stores date verbatim; "" clears it.
func (d *Document) SetItemDeadline(groupID, itemID, date string) error {
	_, it, err := d.item(groupID, itemID)
	if err != nil {
		return err
	}
	date = strings.TrimSpace(date)
	if it.Deadline == date {
		return nil
	}
	it.Deadline = date
	d.mutated(Change{Kind: ItemUpdated, GroupID: groupID, ItemID: itemID})
	return nil
}

// Reset empties the document and detaches it from its file.
func (d *Document) Reset() {
	d.groups = nil
	d.seq = make(map[string]int)
	d.nextSeq = 0
	d.filePath = ""
	d.dirty = false
	d.emit(Change{Kind: Cleared})
}
