package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Makepad-fr/tada/internal/duedate"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// -------------- rendering helpers --------------

// numbered keeps a todo's 1-based position in the full list,
// so grouped output still shows indexes valid for done/rm.
type numbered struct {
	n    int
	todo model.Todo
}

func panelLines(items []model.Todo, group bool, now time.Time) []string {
	t := ui.Current()
	d, p := model.Stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), d,
		ui.C(t.Pending, t.SymPending), p,
		ui.C(t.Accent, "Total"), len(items),
	)

	lines := []string{
		header,
		ui.C(t.Muted, ui.ProgressBar(d, d+p, 28)),
		"",
	}

	all := make([]numbered, len(items))
	for i, it := range items {
		all[i] = numbered{n: i + 1, todo: it}
	}
	if group {
		lines = append(lines, groupLines(all, now)...)
	} else {
		lines = append(lines, flatLines(all, now)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
	return lines
}

func flatLines(items []numbered, now time.Time) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{ui.C(t.Muted, "No tasks available")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		idx := fmt.Sprintf("%2d.", it.n)
		box, color := t.BoxUnchecked, t.Muted
		name := truncate(it.todo.Name, 60)
		if it.todo.Status {
			box, color = t.BoxChecked, t.Success
			name = ui.Strike(name)
		}
		line := fmt.Sprintf("%s %s %s", ui.Dim(idx), ui.C(color, box), name)
		if desc := truncate(it.todo.Description, 40); desc != "" {
			line += "  " + ui.C(t.Muted, desc)
		}
		if due := duedate.Format(it.todo); due != "" {
			dueColor := t.Due
			if duedate.Overdue(it.todo, now) {
				dueColor = t.Error
			}
			line += "  " + ui.C(dueColor, "due "+due)
		}
		out = append(out, line)
	}
	return out
}

func groupLines(items []numbered, now time.Time) []string {
	t := ui.Current()
	var pend, done []numbered
	for _, it := range items {
		if it.todo.Status {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, ui.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend, now)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done, now)...)
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// resolveTarget finds the todo an argument refers to: an exact id first,
// then a 1-based index into items.
func resolveTarget(items []model.Todo, arg string) (model.Todo, error) {
	arg = strings.TrimSpace(arg)
	for _, it := range items {
		if it.ID == arg {
			return it, nil
		}
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return model.Todo{}, usagef("no todo with id %q (run `todo ls` to see valid indexes)", arg)
	}
	if n < 1 || n > len(items) {
		return model.Todo{}, usagef("index out of range: have %d, got %d (run `todo ls` to see valid indexes)", len(items), n)
	}
	return items[n-1], nil
}
