package cli

import (
	"fmt"
	"time"

	"github.com/idilsaglam/taskbarn/internal/document"
	"github.com/idilsaglam/taskbarn/internal/model"
	"github.com/idilsaglam/taskbarn/internal/ui"
)

// -------------- rendering helpers --------------

func stats(groups []*model.TaskGroup) (done, total int) {
	for _, g := range groups {
		done += g.Checked()
		total += len(g.Items)
	}
	return
}

func listLines(doc *document.Document) []string {
	t := ui.Current()
	gs := doc.Groups()
	d, total := stats(gs)
	header := fmt.Sprintf("%s  %s %d/%d  %s %d  %s",
		ui.C(t.Title, "TaskBarn"),
		ui.C(t.Success, "✔"), d, total,
		ui.C(t.Accent, "Tasks"), len(gs),
		ui.C(t.Muted, "sort: "+doc.SortMethod().Label()),
	)

	lines := []string{header, ui.C(t.Muted, ui.ProgressBar(d, total, 28)), ""}
	if len(gs) == 0 {
		lines = append(lines, ui.C(t.Muted, "no tasks"))
	}
	today := doc.Today()
	for i, g := range gs {
		lines = append(lines, groupLines(i+1, g, today)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `taskbarn add \"Groceries\"`"))
	return lines
}

func groupLines(n int, g *model.TaskGroup, today time.Time) []string {
	t := ui.Current()
	head := fmt.Sprintf("%s %s %s", ui.C("\033[2m", fmt.Sprintf("%2d.", n)), g.Tier().Glyph(), ui.C(t.Title, clip(g.Title, 60)))
	if due := g.Due(today); due.Text != "" {
		head += "  " + ui.C(ui.DueColor(due), due.Text)
	}
	lines := []string{head}
	for j, it := range g.Items {
		box, label := t.BoxUnchecked, clip(it.Label, 70)
		if it.Checked {
			box = t.BoxChecked
			label = ui.C(t.Checked, label)
		}
		ln := fmt.Sprintf("     %s %s %s", ui.C("\033[2m", fmt.Sprintf("%d.", j+1)), box, label)
		if dl := it.Due(today); dl.Text != "" {
			ln += "  " + ui.C(ui.DueColor(dl), dl.Text)
		}
		lines = append(lines, ln)
	}
	return lines
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}
