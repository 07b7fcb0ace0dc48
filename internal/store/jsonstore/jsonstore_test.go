package jsonstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/idilsaglam/taskbarn/internal/model"
)

func sampleGroups() []*model.TaskGroup {
	empty := &model.TaskGroup{ID: "a", Title: "Empty", Color: "#ffffff", Created: "2024-01-01T10:00:00.000000"}
	full := &model.TaskGroup{
		ID:      "b",
		Title:   "Full",
		DueDate: "03/15/24",
		Color:   "#336699",
		Created: "2024-01-02T10:00:00.000000",
		Items: []*model.ChecklistItem{
			{ID: "1", Label: "with deadline", Checked: true, Deadline: "03/10/24"},
			{ID: "2", Label: "without deadline"},
		},
	}
	return []*model.TaskGroup{full, empty}
}

func equalGroups(t *testing.T, got, want []*model.TaskGroup) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("groups: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Title != w.Title || g.DueDate != w.DueDate || g.Color != w.Color || g.Created != w.Created {
			t.Errorf("group %d: got %+v, want %+v", i, *g, *w)
		}
		if len(g.Items) != len(w.Items) {
			t.Fatalf("group %d items: got %d, want %d", i, len(g.Items), len(w.Items))
		}
		for j := range w.Items {
			gi, wi := g.Items[j], w.Items[j]
			if gi.Label != wi.Label || gi.Checked != wi.Checked || gi.Deadline != wi.Deadline {
				t.Errorf("group %d item %d: got %+v, want %+v", i, j, *gi, *wi)
			}
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	want := sampleGroups()
	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Missing {
		t.Fatal("snapshot marked missing")
	}
	if len(snap.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", snap.Warnings)
	}
	equalGroups(t, snap.Groups, want)
	for _, g := range snap.Groups {
		if g.ID == "" {
			t.Errorf("group %q has no runtime id", g.Title)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	snap, err := Load(filepath.Join(t.TempDir(), "nope.brn"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !snap.Missing || len(snap.Groups) != 0 {
		t.Errorf("got %+v, want empty missing snapshot", snap)
	}
}

func TestDecodeInvalidFormat(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{{{"},
		{"empty", "   "},
		{"object root", `{"title": "x"}`},
		{"missing title", `[{"checkboxes": []}]`},
		{"title not string", `[{"title": 3}]`},
		{"checkboxes not list", `[{"title": "x", "checkboxes": "nope"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("err = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestDecodeTolerantEntries(t *testing.T) {
	data := `[
  {
    "title": "Mixed",
    "checkboxes": [["ok", false, "01/02/24"], ["label"], ["legacy", true], "junk", [1, true], ["null deadline", false, null]],
    "due_date": "",
    "color": "#000000",
    "created": "2024-01-01T00:00:00.000000"
  },
  {"title": "Other", "checkboxes": [["fine", true]]}
]`
	snap, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(snap.Warnings) != 3 {
		t.Errorf("warnings: got %d (%v), want 3", len(snap.Warnings), snap.Warnings)
	}
	mixed := snap.Groups[0]
	if len(mixed.Items) != 3 {
		t.Fatalf("items: got %d, want 3", len(mixed.Items))
	}
	if mixed.Items[0].Deadline != "01/02/24" {
		t.Errorf("deadline = %q", mixed.Items[0].Deadline)
	}
	if mixed.Items[1].Label != "legacy" || !mixed.Items[1].Checked || mixed.Items[1].Deadline != "" {
		t.Errorf("legacy entry decoded as %+v", *mixed.Items[1])
	}
	if mixed.Items[2].Deadline != "" {
		t.Errorf("null deadline = %q, want empty", mixed.Items[2].Deadline)
	}
	other := snap.Groups[1]
	if len(other.Items) != 1 || other.Color != model.DefaultColor {
		t.Errorf("other group decoded as %+v", *other)
	}
}

func TestSaveFailureKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.brn")
	if err := Save(path, sampleGroups()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// A directory squatting on the temp name makes the write fail.
	if err := os.Mkdir(path+".tmp", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := Save(path, nil); err == nil {
		t.Fatal("Save succeeded, want error")
	}
	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Groups) != 2 {
		t.Errorf("groups after failed save: got %d, want 2", len(snap.Groups))
	}
}

func TestEncodeWritesThreeFieldEntries(t *testing.T) {
	b, err := Encode([]*model.TaskGroup{{Title: "T", Color: "#ffffff", Items: []*model.ChecklistItem{{Label: "a"}}}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	snap, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(snap.Groups[0].Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(snap.Groups[0].Items))
	}
	var raw []struct {
		Checkboxes [][]interface{} `json:"checkboxes"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := len(raw[0].Checkboxes[0]); got != 3 {
		t.Errorf("entry fields: got %d, want 3", got)
	}
}
