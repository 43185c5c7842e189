package calendar

import (
	"time"

	"github.com/starford/tempus/internal/timecalc"
)

// Week is a read-only view over seven consecutive days of a month layout.
type Week struct {
	year   int
	month  time.Month
	number int
	days   [7]*Day
}

// Year returns the year of the month that produced the week.
func (w *Week) Year() int { return w.year }

// Month returns the month that produced the week.
func (w *Week) Month() time.Month { return w.month }

// Number returns the week's position within its month, starting at 0.
func (w *Week) Number() int { return w.number }

// Days returns the seven slots of the week. A slot is nil when the day
// belongs to a month that is not linked.
func (w *Week) Days() [7]*Day { return w.days }

// FirstDay returns the first filled slot, or nil.
func (w *Week) FirstDay() *Day {
	for _, d := range w.days {
		if d != nil {
			return d
		}
	}
	return nil
}

// LastDay returns the last filled slot, or nil.
func (w *Week) LastDay() *Day {
	for i := len(w.days) - 1; i >= 0; i-- {
		if w.days[i] != nil {
			return w.days[i]
		}
	}
	return nil
}

// Label names the month or months the week spans, e.g. "January - February".
func (w *Week) Label() string {
	first, last := w.FirstDay(), w.LastDay()
	if first == nil {
		return w.month.String()
	}
	if first.Month() == last.Month() {
		return first.Month().String()
	}
	return first.Month().String() + " - " + last.Month().String()
}

// Duration returns the worked time over the week.
func (w *Week) Duration() time.Duration {
	return timecalc.SumDaysDuration(w.timecalcDays())
}

// WorkedDays counts the days with a positive worked duration.
func (w *Week) WorkedDays() int {
	n := 0
	for _, d := range w.days {
		if d != nil && d.IsWorked() {
			n++
		}
	}
	return n
}

// Average returns the mean worked time per worked day, or zero.
func (w *Week) Average() time.Duration {
	worked := w.WorkedDays()
	if worked == 0 {
		return 0
	}
	return w.Duration() / time.Duration(worked)
}

// IsCurrent reports whether today falls within the week.
func (w *Week) IsCurrent() bool {
	for _, d := range w.days {
		if d != nil && d.IsToday() {
			return true
		}
	}
	return false
}

func (w *Week) timecalcDays() []timecalc.Day {
	out := make([]timecalc.Day, 0, len(w.days))
	for _, d := range w.days {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}
