// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"vtodo/internal/todo"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"

	// MaxSummaryWidth is the display width summaries are truncated to.
	MaxSummaryWidth = 72
)

var (
	doneColor    = color.New(color.FgGreen)
	overdueColor = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
	headerColor  = color.New(color.Bold)
)

// FormatListHeader formats a list section header. Unavailable lists are
// marked as stale since their items may be outdated.
func FormatListHeader(w io.Writer, letter rune, name string, available bool) {
	title := fmt.Sprintf("%c  %s", letter, normalize(name))
	if !available {
		title += " " + dimColor.Sprint("[stale]")
	}
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, headerColor.Sprint(title))
	fmt.Fprintln(w, ListSeparator)
}

// FormatItem formats an item line in a list section.
// Format: "    {N:>4}  [x] {SUMMARY}  due {DATE}\n"
func FormatItem(w io.Writer, num int, item todo.Item, now time.Time) {
	box := "[ ]"
	if item.Status == todo.StatusCompleted {
		box = doneColor.Sprint("[x]")
	}
	line := fmt.Sprintf("    %4d  %s %s", num, box, runewidth.Truncate(normalize(item.Summary), MaxSummaryWidth, "…"))
	if item.Due != nil {
		due := "due " + item.Due.Local().Format(time.DateOnly)
		if item.Status != todo.StatusCompleted && item.Due.Before(now) {
			due = overdueColor.Sprint(due)
		} else {
			due = dimColor.Sprint(due)
		}
		line += "  " + due
	}
	fmt.Fprintln(w, line)
}

// ListSummary is one row of the lists command.
type ListSummary struct {
	Letter    rune
	Name      string
	Open      int
	Done      int
	Known     bool
	Available bool
}

// FormatListSummaries prints one aligned row per list.
func FormatListSummaries(w io.Writer, rows []ListSummary) {
	width := 0
	for _, r := range rows {
		width = max(width, runewidth.StringWidth(normalize(r.Name)))
	}
	for _, r := range rows {
		name := runewidth.FillRight(normalize(r.Name), width)
		counts := "unknown"
		if r.Known {
			counts = fmt.Sprintf("%d open, %d done", r.Open, r.Done)
		}
		if !r.Available {
			counts += " " + dimColor.Sprint("[stale]")
		}
		fmt.Fprintf(w, "%c  %s  %s\n", r.Letter, name, counts)
	}
}

// normalize makes a title printable on one line.
// Empty or whitespace-only titles become "(untitled)".
func normalize(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
