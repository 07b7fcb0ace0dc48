// Package export renders task groups for other tools: YAML, iCalendar
// and Markdown checklists.
package export

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/taskbarn/internal/model"
)

type yamlItem struct {
	Label    string `yaml:"label"`
	Checked  bool   `yaml:"checked"`
	Deadline string `yaml:"deadline,omitempty"`
}

type yamlGroup struct {
	Title   string     `yaml:"title"`
	Size    string     `yaml:"size"`
	DueDate string     `yaml:"due_date,omitempty"`
	Due     string     `yaml:"due,omitempty"`
	Color   string     `yaml:"color"`
	Created string     `yaml:"created,omitempty"`
	Items   []yamlItem `yaml:"items"`
}

// YAML renders groups with their derived due text as of today.
func YAML(groups []*model.TaskGroup, today time.Time) ([]byte, error) {
	out := make([]yamlGroup, 0, len(groups))
	for _, g := range groups {
		yg := yamlGroup{
			Title:   g.Title,
			Size:    g.Tier().String(),
			DueDate: g.DueDate,
			Due:     g.Due(today).Text,
			Color:   g.Color,
			Created: g.Created,
			Items:   make([]yamlItem, 0, len(g.Items)),
		}
		for _, it := range g.Items {
			yg.Items = append(yg.Items, yamlItem{Label: it.Label, Checked: it.Checked, Deadline: it.Deadline})
		}
		out = append(out, yg)
	}
	b, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return b, nil
}

// ICS renders one all-day event per group due date and per item deadline.
// Unparseable dates are skipped; the count of skipped dates is returned.
func ICS(groups []*model.TaskGroup, stamp time.Time) (string, int) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//taskbarn//EN")

	skipped := 0
	add := func(uid, summary, date string) {
		if strings.TrimSpace(date) == "" {
			return
		}
		t, err := model.ParseDate(date)
		if err != nil {
			skipped++
			return
		}
		ev := cal.AddEvent(uid)
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(t)
		ev.SetAllDayEndAt(t.AddDate(0, 0, 1))
		ev.SetSummary(summary)
	}
	for gi, g := range groups {
		add(fmt.Sprintf("group-%d@taskbarn", gi), g.Title, g.DueDate)
		for ii, it := range g.Items {
			done := ""
			if it.Checked {
				done = " (done)"
			}
			add(fmt.Sprintf("group-%d-item-%d@taskbarn", gi, ii), fmt.Sprintf("[%s] %s%s", g.Title, it.Label, done), it.Deadline)
		}
	}
	return cal.Serialize(), skipped
}

// Markdown renders one group as a GitHub-style checklist.
func Markdown(g *model.TaskGroup, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", g.Title)
	if due := g.Due(today); due.Text != "" {
		fmt.Fprintf(&b, "Due: %s\n", due.Text)
	}
	b.WriteString("\n")
	for _, it := range g.Items {
		box := " "
		if it.Checked {
			box = "x"
		}
		line := fmt.Sprintf("- [%s] %s", box, it.Label)
		if dl := it.Due(today); dl.Text != "" {
			line += " — " + dl.Text
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// MarkdownAll renders every group, separated by blank lines.
func MarkdownAll(groups []*model.TaskGroup, today time.Time) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, Markdown(g, today))
	}
	return strings.Join(parts, "\n")
}
