package calendar

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/starford/tempus/internal/apperr"
	"github.com/starford/tempus/internal/checking"
	"github.com/starford/tempus/internal/dateops"
	"github.com/starford/tempus/internal/timecalc"
)

// Day holds the checkings of a single calendar date.
type Day struct {
	month     *Month
	number    int
	date      time.Time
	checkings []*checking.Checking
	info      *DayInfo
}

var _ timecalc.Day = (*Day)(nil)

func newDay(m *Month, number int, checkings []*checking.Checking, info *DayInfo) *Day {
	return &Day{
		month:     m,
		number:    number,
		date:      time.Date(m.year, m.month, number, 0, 0, 0, 0, m.loc),
		checkings: checkings,
		info:      info,
	}
}

// Year returns the day's year.
func (d *Day) Year() int { return d.month.year }

// Month returns the day's month.
func (d *Day) Month() time.Month { return d.month.month }

// Number returns the day of the month, starting at 1.
func (d *Day) Number() int { return d.number }

// Date returns midnight of the day.
func (d *Day) Date() time.Time { return d.date }

// Owner returns the month the day belongs to.
func (d *Day) Owner() *Month { return d.month }

// Checkings returns the raw checkings in insertion order.
func (d *Day) Checkings() []*checking.Checking { return d.checkings }

// Ordered returns the checkings sorted by time.
func (d *Day) Ordered() []*checking.Checking {
	return timecalc.OrderAscending(d.checkings)
}

// Adjusted returns the checkings after boundary reconciliation.
func (d *Day) Adjusted() []*checking.Checking {
	return timecalc.AdjustCheckings(d)
}

// Duration returns the worked time of the day.
func (d *Day) Duration() time.Duration {
	return timecalc.SumWorkingTime(d)
}

// RestDuration returns the time between sessions of the day.
func (d *Day) RestDuration() time.Duration {
	return timecalc.SumRestTime(d)
}

// Adjustment reports which boundary of the day was reconciled.
func (d *Day) Adjustment() timecalc.Adjustment {
	return timecalc.CheckIfTimeAdjusted(d, d.Adjusted())
}

// Status classifies the day's checkings.
func (d *Day) Status() timecalc.Status {
	return timecalc.Classify(d)
}

// IsSaturday reports whether the day is a Saturday.
func (d *Day) IsSaturday() bool { return d.date.Weekday() == time.Saturday }

// IsSunday reports whether the day is a Sunday.
func (d *Day) IsSunday() bool { return d.date.Weekday() == time.Sunday }

// IsWorked reports whether the day has a positive worked duration.
func (d *Day) IsWorked() bool { return d.Duration() > 0 }

// IsToday reports whether the day is the current date of the month's clock.
func (d *Day) IsToday() bool {
	return dateops.SameDay(d.month.clock().In(d.month.loc), d.date)
}

// MostRecent returns the latest checking, or nil.
func (d *Day) MostRecent() *checking.Checking {
	ordered := d.Ordered()
	if len(ordered) == 0 {
		return nil
	}
	return ordered[len(ordered)-1]
}

// Oldest returns the earliest checking, or nil.
func (d *Day) Oldest() *checking.Checking {
	ordered := d.Ordered()
	if len(ordered) == 0 {
		return nil
	}
	return ordered[0]
}

// Previous returns the chronologically preceding day, or nil when it lies
// outside the day's window.
func (d *Day) Previous() *Day {
	return d.month.window.day(d.index() - 1)
}

// Next returns the chronologically following day, or nil when it lies
// outside the day's window.
func (d *Day) Next() *Day {
	return d.month.window.day(d.index() + 1)
}

// PreviousDay satisfies timecalc.Day.
func (d *Day) PreviousDay() (timecalc.Day, bool) {
	if p := d.Previous(); p != nil {
		return p, true
	}
	return nil, false
}

// NextDay satisfies timecalc.Day.
func (d *Day) NextDay() (timecalc.Day, bool) {
	if n := d.Next(); n != nil {
		return n, true
	}
	return nil, false
}

func (d *Day) index() int {
	return d.month.offset + d.number - 1
}

// Checking looks up a checking by id.
func (d *Day) Checking(id uuid.UUID) (*checking.Checking, bool) {
	for _, c := range d.checkings {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// AddChecking appends c to the day. The checking must fall on the day's date.
func (d *Day) AddChecking(c *checking.Checking) error {
	if c == nil {
		return fmt.Errorf("calendar: nil checking: %w", apperr.ErrInvalidInput)
	}
	if !d.Contains(c.Time()) {
		return fmt.Errorf("%w: %s not on %s", ErrOutOfRange, c.Time().Format(time.RFC3339), d.date.Format(time.DateOnly))
	}
	d.checkings = append(d.checkings, c)
	return nil
}

// RemoveChecking deletes the checking with the given id and returns it.
func (d *Day) RemoveChecking(id uuid.UUID) (*checking.Checking, error) {
	i := slices.IndexFunc(d.checkings, func(c *checking.Checking) bool { return c.ID() == id })
	if i < 0 {
		return nil, fmt.Errorf("calendar: checking %s: %w", id, apperr.ErrNotFound)
	}
	removed := d.checkings[i]
	d.checkings = slices.Delete(d.checkings, i, i+1)
	return removed, nil
}

// Contains reports whether t falls on the day in the month's location.
func (d *Day) Contains(t time.Time) bool {
	return dateops.SameDay(t.In(d.month.loc), d.date)
}

// Info returns a copy of the day's info, or nil.
func (d *Day) Info() *DayInfo {
	if d.info == nil {
		return nil
	}
	cp := *d.info
	return &cp
}

// SetInfo replaces the day's info. Nil or empty info clears it.
func (d *Day) SetInfo(info *DayInfo) {
	if info == nil || info.IsZero() {
		d.info = nil
		return
	}
	cp := *info
	d.info = &cp
}

// Save persists the month that owns the day.
func (d *Day) Save(ctx context.Context, store MonthStore) error {
	return d.month.Save(ctx, store)
}
