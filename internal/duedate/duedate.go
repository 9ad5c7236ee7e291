// Package duedate turns user input such as "2024-01-01", "tomorrow" or
// "next friday" into the calendar date string sent to the server, and
// formats stored due dates for display.
package duedate

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/Makepad-fr/tada/internal/model"
)

var parser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// Parse resolves input relative to now. Empty input yields an empty date.
func Parse(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	if ts, ok := model.ParseDate(input); ok {
		return ts.Format(model.DateLayout), nil
	}

	r, err := parser.Parse(input, now)
	if err != nil {
		return "", fmt.Errorf("parse due date %q: %w", input, err)
	}
	if r == nil {
		return "", fmt.Errorf("unrecognised due date %q", input)
	}
	return r.Time.Format(model.DateLayout), nil
}

// Format renders the due date of td for display, or "" when unset or unparseable.
func Format(td model.Todo) string {
	ts, ok := td.Due()
	if !ok {
		return ""
	}
	return ts.Format("Jan 2, 2006")
}

// Overdue reports whether a pending td was due strictly before the day of now.
func Overdue(td model.Todo, now time.Time) bool {
	if td.Status {
		return false
	}
	ts, ok := td.Due()
	if !ok {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ty, tm, tdd := ts.Date()
	return time.Date(ty, tm, tdd, 0, 0, 0, 0, time.UTC).Before(today)
}
