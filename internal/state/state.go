// Package state owns the calendar selection shared by every client.
package state

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/starford/tempus/internal/apperr"
	"github.com/starford/tempus/internal/dateops"
)

// SelectionChanged is the event type published on every change.
const SelectionChanged = "selection.changed"

// Unit is the granularity the selection is viewed at.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
	UnitYear  Unit = "year"
)

// ParseUnit parses a unit name. An empty string is UnitDay.
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(strings.ToLower(strings.TrimSpace(s))); u {
	case "":
		return UnitDay, nil
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return u, nil
	}
	return "", fmt.Errorf("state: unknown unit %q: %w", s, apperr.ErrInvalidInput)
}

// Selection is the currently selected date and view unit.
type Selection struct {
	Date time.Time `json:"date"`
	Unit Unit      `json:"unit"`
}

// PublishFunc receives selection changes.
type PublishFunc func(eventType string, data any)

// Store holds the selection. It is safe for concurrent use.
type Store struct {
	clock   func() time.Time
	publish PublishFunc

	mu  sync.Mutex
	sel Selection
}

// New creates a Store selecting today by day. publish may be nil.
func New(clock func() time.Time, publish PublishFunc) *Store {
	if clock == nil {
		clock = time.Now
	}
	s := &Store{clock: clock, publish: publish}
	s.sel = Selection{Date: dateops.StartOfDay(clock()), Unit: UnitDay}
	return s
}

// Current returns the current selection.
func (s *Store) Current() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// Select sets the selected date and unit. The date is truncated to the start
// of its day.
func (s *Store) Select(date time.Time, unit Unit) (Selection, error) {
	if date.IsZero() {
		return Selection{}, fmt.Errorf("state: empty date: %w", apperr.ErrInvalidInput)
	}
	if _, err := ParseUnit(string(unit)); err != nil {
		return Selection{}, err
	}
	if unit == "" {
		unit = UnitDay
	}
	return s.set(Selection{Date: dateops.StartOfDay(date), Unit: unit}), nil
}

// Step moves the selection by delta units. Month steps clamp to the last day
// of the target month.
func (s *Store) Step(delta int) Selection {
	return s.update(func(cur Selection) Selection {
		cur.Date = step(cur.Date, cur.Unit, delta)
		return cur
	})
}

// Today selects the current day, keeping the unit.
func (s *Store) Today() Selection {
	return s.update(func(cur Selection) Selection {
		cur.Date = dateops.StartOfDay(s.clock())
		return cur
	})
}

func (s *Store) set(sel Selection) Selection {
	return s.update(func(Selection) Selection { return sel })
}

// update applies fn to the selection under the lock and publishes the
// result once the lock is released.
func (s *Store) update(fn func(Selection) Selection) Selection {
	s.mu.Lock()
	sel := fn(s.sel)
	s.sel = sel
	s.mu.Unlock()

	if s.publish != nil {
		s.publish(SelectionChanged, sel)
	}
	return sel
}

func step(d time.Time, unit Unit, delta int) time.Time {
	switch unit {
	case UnitWeek:
		return d.AddDate(0, 0, 7*delta)
	case UnitMonth:
		return addMonths(d, delta)
	case UnitYear:
		return addMonths(d, 12*delta)
	default:
		return d.AddDate(0, 0, delta)
	}
}

func addMonths(d time.Time, delta int) time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location()).AddDate(0, delta, 0)
	day := min(d.Day(), dateops.DaysInMonth(first.Year(), first.Month()))
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, d.Location())
}
