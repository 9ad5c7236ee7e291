package model

import (
	"strings"
	"time"
)

// Todo is the domain model for a todo entry as the remote collection
// stores it. ID is assigned server side and never changes.
type Todo struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      bool   `json:"status"`
	DueDate     string `json:"duedate"`
}

// Draft is an unsaved todo. It has no id and no status; new todos start pending.
type Draft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"duedate"`
}

// DateLayout is the calendar date format used on the wire for due dates.
const DateLayout = "2006-01-02"

// IsEmpty reports whether every field of the draft is blank.
func (d Draft) IsEmpty() bool {
	return strings.TrimSpace(d.Name) == "" &&
		strings.TrimSpace(d.Description) == "" &&
		strings.TrimSpace(d.DueDate) == ""
}

// Due parses DueDate. Backends send either a bare date or a full timestamp.
func (t Todo) Due() (time.Time, bool) {
	return ParseDate(t.DueDate)
}

// ParseDate accepts a YYYY-MM-DD date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(DateLayout, s); err == nil {
		return ts, true
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

// Stats counts completed and pending todos.
func Stats(items []Todo) (done, pending int) {
	for _, it := range items {
		if it.Status {
			done++
		} else {
			pending++
		}
	}
	return
}
