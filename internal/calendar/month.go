package calendar

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/starford/tempus/internal/checking"
	"github.com/starford/tempus/internal/dateops"
	"github.com/starford/tempus/internal/timecalc"
)

// Month owns one Day per calendar date and lays them out in weeks.
type Month struct {
	year           int
	month          time.Month
	firstDayOfWeek time.Weekday
	loc            *time.Location
	clock          Clock
	days           []*Day

	window *Window
	index  int // position in window.months
	offset int // position of days[0] in window.days

	weeks      []*Week
	weeksDirty bool
}

// NewMonth builds a month from its checkings and day infos.
//
// Checkings are bucketed by date in the month's location; those that fall
// outside the month are dropped. infos is keyed by day number. The month
// starts in a window of its own; use Link to join it with its neighbours.
func NewMonth(year int, month time.Month, firstDayOfWeek time.Weekday, checkings []*checking.Checking, infos map[int]DayInfo, opts ...Option) *Month {
	m := &Month{
		year:           year,
		month:          month,
		firstDayOfWeek: firstDayOfWeek,
		loc:            time.Local,
		clock:          time.Now,
		weeksDirty:     true,
	}
	for _, opt := range opts {
		opt(m)
	}

	n := dateops.DaysInMonth(year, month)
	buckets := make([][]*checking.Checking, n)
	for _, c := range checkings {
		if c == nil {
			continue
		}
		t := c.Time().In(m.loc)
		if t.Year() != year || t.Month() != month {
			continue
		}
		buckets[t.Day()-1] = append(buckets[t.Day()-1], c)
	}

	m.days = make([]*Day, n)
	for i := range m.days {
		var info *DayInfo
		if di, ok := infos[i+1]; ok && !di.IsZero() {
			info = &di
		}
		m.days[i] = newDay(m, i+1, buckets[i], info)
	}

	m.window = &Window{months: []*Month{m}, days: slices.Clone(m.days)}
	return m
}

// Year returns the month's year.
func (m *Month) Year() int { return m.year }

// Month returns the calendar month.
func (m *Month) Month() time.Month { return m.month }

// Location returns the location the month's days follow.
func (m *Month) Location() *time.Location { return m.loc }

// FirstDayOfWeek returns the weekday weeks start on.
func (m *Month) FirstDayOfWeek() time.Weekday { return m.firstDayOfWeek }

// SetFirstDayOfWeek changes the week alignment.
func (m *Month) SetFirstDayOfWeek(d time.Weekday) {
	if d == m.firstDayOfWeek {
		return
	}
	m.firstDayOfWeek = d
	m.invalidateWeeks()
}

// Days returns the month's days, first to last.
func (m *Month) Days() []*Day {
	return slices.Clone(m.days)
}

// Day returns the day with the given number, or nil.
func (m *Month) Day(number int) *Day {
	if number < 1 || number > len(m.days) {
		return nil
	}
	return m.days[number-1]
}

// DayOf returns the day t falls on, or nil when t is outside the month.
func (m *Month) DayOf(t time.Time) *Day {
	t = t.In(m.loc)
	if t.Year() != m.year || t.Month() != m.month {
		return nil
	}
	return m.days[t.Day()-1]
}

// Window returns the window the month belongs to.
func (m *Month) Window() *Window { return m.window }

// Previous returns the preceding month in the window, or nil.
func (m *Month) Previous() *Month {
	return m.window.month(m.index - 1)
}

// Next returns the following month in the window, or nil.
func (m *Month) Next() *Month {
	return m.window.month(m.index + 1)
}

// Checkings returns all checkings of the month in day order.
func (m *Month) Checkings() []*checking.Checking {
	var out []*checking.Checking
	for _, d := range m.days {
		out = append(out, d.checkings...)
	}
	return out
}

// Infos returns the day infos keyed by day number.
func (m *Month) Infos() map[int]DayInfo {
	out := make(map[int]DayInfo)
	for _, d := range m.days {
		if d.info != nil {
			out[d.number] = *d.info
		}
	}
	return out
}

// Duration returns the worked time over the whole month.
func (m *Month) Duration() time.Duration {
	days := make([]timecalc.Day, len(m.days))
	for i, d := range m.days {
		days[i] = d
	}
	return timecalc.SumDaysDuration(days)
}

// WorkedDays counts the days of the month with a positive worked duration.
func (m *Month) WorkedDays() int {
	n := 0
	for _, d := range m.days {
		if d.IsWorked() {
			n++
		}
	}
	return n
}

// Average returns the worked time per worked day, rounded down, or zero.
func (m *Month) Average() time.Duration {
	worked := m.WorkedDays()
	if worked == 0 {
		return 0
	}
	return m.Duration() / time.Duration(worked)
}

// IsCurrent reports whether the month's clock falls within the month.
func (m *Month) IsCurrent() bool {
	today := m.clock().In(m.loc)
	return today.Year() == m.year && today.Month() == m.month
}

// Weeks returns the weeks the month spans. Boundary weeks borrow days from
// the neighbouring months; slots are nil when a neighbour is not linked.
func (m *Month) Weeks() []*Week {
	if m.weeksDirty || m.weeks == nil {
		m.weeks = m.buildWeeks()
		m.weeksDirty = false
	}
	return m.weeks
}

// WeekOf returns the week that contains d, or nil.
func (m *Month) WeekOf(d *Day) *Week {
	for _, w := range m.Weeks() {
		if slices.Contains(w.days[:], d) {
			return w
		}
	}
	return nil
}

func (m *Month) buildWeeks() []*Week {
	var all []*Day
	begin := -dateops.WeekOffset(m.year, m.month, 1, m.firstDayOfWeek)
	if prev := m.Previous(); prev != nil {
		all = append(all, prev.days...)
		begin += len(prev.days)
	}
	all = append(all, m.days...)
	if next := m.Next(); next != nil {
		all = append(all, next.days...)
	}

	span := dateops.WeeksInMonth(m.year, m.month, m.firstDayOfWeek)
	weeks := make([]*Week, span.WeekCount)
	for k := range weeks {
		w := &Week{year: m.year, month: m.month, number: k}
		for i := range w.days {
			if idx := begin + 7*k + i; idx >= 0 && idx < len(all) {
				w.days[i] = all[idx]
			}
		}
		weeks[k] = w
	}
	return weeks
}

func (m *Month) invalidateWeeks() {
	m.weeksDirty = true
}

// Save drops the cached week layout and persists the month.
func (m *Month) Save(ctx context.Context, store MonthStore) error {
	m.invalidateWeeks()
	if err := store.SaveMonth(ctx, m); err != nil {
		return fmt.Errorf("calendar: save %d-%02d: %w", m.year, m.month, err)
	}
	return nil
}
