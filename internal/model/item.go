package model

import (
	"time"

	"github.com/google/uuid"
)

// ChecklistItem is a single checkable entry inside a TaskGroup.
// ID is runtime-only; it keys flash timers and is never persisted.
type ChecklistItem struct {
	ID       string
	Label    string
	Checked  bool
	Deadline string // MM/DD/YY, "" for none
}

// NewItem returns an unchecked item with a fresh ID.
func NewItem(label string) *ChecklistItem {
	return &ChecklistItem{ID: uuid.NewString(), Label: label}
}

// Due derives the deadline text for the given day.
func (it *ChecklistItem) Due(today time.Time) DueStatus {
	return Due(it.Deadline, today)
}
