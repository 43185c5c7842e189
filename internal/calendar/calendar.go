// Package calendar models days, weeks, months and years of checkings.
//
// Months are owned by a Window, which keeps every day of a contiguous run of
// months in one flat slice. Day and month neighbours are index lookups into
// that slice, so a session crossing midnight on the last day of a month (or
// year) is seen from both sides as long as both months share a window.
//
// The model is single-writer: callers must serialise mutation.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/tempus/internal/apperr"
)

var (
	// ErrOutOfRange is returned when a checking does not belong to the day it
	// is added to.
	ErrOutOfRange = fmt.Errorf("calendar: checking outside day: %w", apperr.ErrInvalidInput)
	// ErrNotContiguous is returned when linking months that do not follow
	// each other chronologically.
	ErrNotContiguous = fmt.Errorf("calendar: months are not contiguous: %w", apperr.ErrInvalidInput)
)

// MonthStore persists months.
type MonthStore interface {
	// SaveMonth writes the month's checkings and day infos.
	SaveMonth(ctx context.Context, m *Month) error
	// GetMonth loads a month, returning an empty one when nothing is stored.
	GetMonth(ctx context.Context, year int, month time.Month) (*Month, error)
}

// Clock returns the current time.
type Clock func() time.Time

// Option configures a Month.
type Option func(*Month)

// WithClock sets the clock used by IsToday predicates.
func WithClock(c Clock) Option {
	return func(m *Month) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithLocation sets the location whose wall clock the month's days follow.
func WithLocation(loc *time.Location) Option {
	return func(m *Month) {
		if loc != nil {
			m.loc = loc
		}
	}
}

// DayInfo is optional free-form data attached to a day.
type DayInfo struct {
	Absence string `json:"absence"`
	Tag     string `json:"tag"`
}

// IsZero reports whether the info carries no data.
func (i DayInfo) IsZero() bool {
	return i.Absence == "" && i.Tag == ""
}
