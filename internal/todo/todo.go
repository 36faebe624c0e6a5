// Package todo defines the generic to-do list surface the bridge exposes and
// the registry lists are hosted in.
package todo

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Status is the completion state of an item.
type Status int

const (
	StatusNeedsAction Status = iota
	StatusCompleted
)

func (s Status) String() string {
	if s == StatusCompleted {
		return "completed"
	}
	return "needs_action"
}

// ParseStatus accepts "completed" and "needs_action" (also "needsAction").
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "completed":
		return StatusCompleted, nil
	case "needs_action", "needsaction":
		return StatusNeedsAction, nil
	default:
		return 0, fmt.Errorf("invalid status: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Item is a generic to-do item. It is derived on every read and never stored.
type Item struct {
	UID         string     `json:"uid"`
	Summary     string     `json:"summary"`
	Status      Status     `json:"status"`
	Due         *time.Time `json:"due"`
	Description string     `json:"description"`
}

// Feature is a capability a list declares.
type Feature uint

const (
	FeatureCreateItem Feature = 1 << iota
	FeatureDeleteItem
	FeatureUpdateItem
	FeatureMoveItem
	FeatureSetDueDate
	FeatureSetDescription
)

// Has reports whether all of want are set in f.
func (f Feature) Has(want Feature) bool {
	return f&want == want
}

// List is a to-do list hosted by a Registry.
type List interface {
	// Name is the display name.
	Name() string

	// UniqueID identifies the list across restarts.
	UniqueID() string

	// SupportedFeatures declares which mutations the list accepts.
	SupportedFeatures() Feature

	// Items returns the current items. ok is false while the list has
	// no data yet.
	Items() (items []Item, ok bool)

	// UpdateItem writes an item back. Only lists declaring
	// FeatureUpdateItem accept it.
	UpdateItem(ctx context.Context, item Item) error

	// Available reports whether the last refresh of the list succeeded.
	Available() bool
}
