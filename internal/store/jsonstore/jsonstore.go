// Package jsonstore reads and writes TaskBarn documents.
//
// The file is a flat JSON array of groups. Checkbox entries are stored as
// [label, checked, deadline] tuples; older files carry only the first two
// fields. Decoding is tolerant per entry: bad entries are skipped and
// reported as warnings, the rest of the file still loads.
package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/idilsaglam/taskbarn/internal/model"
)

// DefaultFileName is the document created when no other file is chosen.
const DefaultFileName = "tasks.brn"

// ErrInvalidFormat marks files that exist but are not a TaskBarn document.
var ErrInvalidFormat = errors.New("invalid format")

type groupRecord struct {
	Title      string            `json:"title"`
	Checkboxes []json.RawMessage `json:"checkboxes"`
	DueDate    string            `json:"due_date"`
	Color      string            `json:"color"`
	Created    string            `json:"created"`
}

// Warning describes a checkbox entry that was skipped while decoding.
type Warning struct {
	Group int // 0-based group index in the file
	Entry int // 0-based entry index in the group
	Title string
	Msg   string
}

func (w Warning) String() string {
	return fmt.Sprintf("group %d (%q) entry %d: %s", w.Group, w.Title, w.Entry, w.Msg)
}

// Snapshot is the decoded content of a document file.
type Snapshot struct {
	Groups   []*model.TaskGroup
	Warnings []Warning
	Missing  bool // the file did not exist
}

// Load reads path. A missing file yields an empty snapshot, not an error.
func Load(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Snapshot{Missing: true}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Decode(b)
}

// Decode parses document bytes.
func Decode(b []byte) (*Snapshot, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidFormat)
	}
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var recs []groupRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	snap := &Snapshot{Groups: make([]*model.TaskGroup, 0, len(recs))}
	for gi, rec := range recs {
		g := &model.TaskGroup{
			ID:      uuid.NewString(),
			Title:   rec.Title,
			DueDate: rec.DueDate,
			Color:   rec.Color,
			Created: rec.Created,
		}
		if g.Color == "" {
			g.Color = model.DefaultColor
		}
		for ei, entry := range rec.Checkboxes {
			it, err := decodeEntry(entry)
			if err != nil {
				snap.Warnings = append(snap.Warnings, Warning{Group: gi, Entry: ei, Title: rec.Title, Msg: err.Error()})
				continue
			}
			g.Items = append(g.Items, it)
		}
		snap.Groups = append(snap.Groups, g)
	}
	return snap, nil
}

func decodeEntry(entry json.RawMessage) (*model.ChecklistItem, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return nil, fmt.Errorf("not a list: %s", string(entry))
	}
	if len(fields) < 2 {
		return nil, fmt.Errorf("need at least 2 fields, got %d", len(fields))
	}
	it := model.NewItem("")
	if err := json.Unmarshal(fields[0], &it.Label); err != nil {
		return nil, fmt.Errorf("label: %w", err)
	}
	if err := json.Unmarshal(fields[1], &it.Checked); err != nil {
		return nil, fmt.Errorf("checked: %w", err)
	}
	if len(fields) > 2 {
		var dl *string
		if err := json.Unmarshal(fields[2], &dl); err != nil {
			return nil, fmt.Errorf("deadline: %w", err)
		}
		if dl != nil {
			it.Deadline = *dl
		}
	}
	return it, nil
}

// Encode renders groups in the given order.
func Encode(groups []*model.TaskGroup) ([]byte, error) {
	recs := make([]encodedGroup, 0, len(groups))
	for _, g := range groups {
		boxes := make([][3]interface{}, 0, len(g.Items))
		for _, it := range g.Items {
			boxes = append(boxes, [3]interface{}{it.Label, it.Checked, it.Deadline})
		}
		recs = append(recs, encodedGroup{
			Title:      g.Title,
			Checkboxes: boxes,
			DueDate:    g.DueDate,
			Color:      g.Color,
			Created:    g.Created,
		})
	}
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return append(b, '\n'), nil
}

type encodedGroup struct {
	Title      string           `json:"title"`
	Checkboxes [][3]interface{} `json:"checkboxes"`
	DueDate    string           `json:"due_date"`
	Color      string           `json:"color"`
	Created    string           `json:"created"`
}

// Save writes groups to path. The file is written to a temporary sibling
// first and renamed into place, so a failed write leaves the old file intact.
func Save(path string, groups []*model.TaskGroup) error {
	b, err := Encode(groups)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
