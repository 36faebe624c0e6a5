package tasklist

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"vtodo/internal/remote"
	"vtodo/internal/todo"
)

// UnsetDueDate is what Vikunja reports for a task without a due date.
const UnsetDueDate = "0001-01-01T00:00:00Z"

// ItemFromTask converts a remote task into a to-do item.
func ItemFromTask(t remote.Task) todo.Item {
	return todo.Item{
		UID:         t.ID,
		Summary:     t.Title,
		Status:      StatusFromDone(t.Done),
		Due:         ParseDue(t.DueDate),
		Description: t.Description,
	}
}

// ItemsFromTasks converts tasks one to one, keeping their order.
func ItemsFromTasks(tasks []remote.Task) []todo.Item {
	items := make([]todo.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, ItemFromTask(t))
	}
	return items
}

// StatusFromDone maps the remote done flag to an item status.
func StatusFromDone(done bool) todo.Status {
	if done {
		return todo.StatusCompleted
	}
	return todo.StatusNeedsAction
}

// ParseDue parses a remote due date in ISO 8601 form; the date and time may
// be separated by "T" or a space. Empty, the unset sentinel and anything
// unparseable yield nil. Other timestamps at the zero instant are kept.
func ParseDue(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || s == UnsetDueDate {
		return nil
	}
	if len(s) > len(time.DateOnly) && s[len(time.DateOnly)] == ' ' {
		s = s[:len(time.DateOnly)] + "T" + s[len(time.DateOnly)+1:]
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
