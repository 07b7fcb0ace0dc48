package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreatedLayout is the ISO-8601 layout used for creation timestamps.
// Strings in this layout sort chronologically.
const CreatedLayout = "2006-01-02T15:04:05.000000"

var (
	ErrEmptyTitle = errors.New("empty title")
	ErrNotFound   = errors.New("not found")
)

// TaskGroup is a named, ordered collection of checklist items.
type TaskGroup struct {
	ID      string
	Title   string
	Items   []*ChecklistItem
	DueDate string // MM/DD/YY, "" for none
	Color   string
	Created string
}

// NewGroup creates an empty group stamped with now.
func NewGroup(title string, now time.Time) (*TaskGroup, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	return &TaskGroup{
		ID:      uuid.NewString(),
		Title:   title,
		Color:   DefaultColor,
		Created: now.Format(CreatedLayout),
	}, nil
}

// Tier is the size tier of the group.
func (g *TaskGroup) Tier() SizeTier { return TierFor(len(g.Items)) }

// Due derives the group due text for the given day.
func (g *TaskGroup) Due(today time.Time) DueStatus { return Due(g.DueDate, today) }

// TextColor is the contrast color for the group's background.
func (g *TaskGroup) TextColor() string { return TextColor(g.Color) }

// Rename commits a title edit. Empty or unchanged input keeps the old
// title and reports false.
func (g *TaskGroup) Rename(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" || title == g.Title {
		return false
	}
	g.Title = title
	return true
}

// AddItem appends an item with the given label.
func (g *TaskGroup) AddItem(label string) *ChecklistItem {
	it := NewItem(strings.TrimSpace(label))
	g.Items = append(g.Items, it)
	return it
}

// Item looks an item up by ID.
func (g *TaskGroup) Item(id string) (*ChecklistItem, int) {
	for i, it := range g.Items {
		if it.ID == id {
			return it, i
		}
	}
	return nil, -1
}

// RemoveItem deletes the item with the given ID.
func (g *TaskGroup) RemoveItem(id string) (*ChecklistItem, error) {
	it, i := g.Item(id)
	if it == nil {
		return nil, ErrNotFound
	}
	g.Items = append(g.Items[:i], g.Items[i+1:]...)
	return it, nil
}

// SetColor validates and stores a background color.
func (g *TaskGroup) SetColor(hex string) error {
	c, err := NormalizeColor(hex)
	if err != nil {
		return err
	}
	g.Color = c
	return nil
}

// Checked counts checked items.
func (g *TaskGroup) Checked() int {
	n := 0
	for _, it := range g.Items {
		if it.Checked {
			n++
		}
	}
	return n
}
