package calendar

import (
	"fmt"
	"slices"

	"github.com/starford/tempus/internal/dateops"
)

// Window owns a contiguous run of months and a flat, chronological slice of
// all their days.
type Window struct {
	months []*Month
	days   []*Day
}

// Link places months into a single window so that days and months see each
// other as neighbours. Months must be given in chronological order without
// gaps. Every linked month has its week layout recomputed on next access.
func Link(months ...*Month) (*Window, error) {
	if len(months) == 0 {
		return nil, fmt.Errorf("%w: nothing to link", ErrNotContiguous)
	}
	for i := 1; i < len(months); i++ {
		prev, cur := months[i-1], months[i]
		y, m := dateops.NextMonth(prev.year, prev.month)
		if cur.year != y || cur.month != m {
			return nil, fmt.Errorf("%w: %d-%02d followed by %d-%02d",
				ErrNotContiguous, prev.year, prev.month, cur.year, cur.month)
		}
	}

	w := &Window{months: make([]*Month, 0, len(months))}
	for i, m := range months {
		m.window = w
		m.index = i
		m.offset = len(w.days)
		w.months = append(w.months, m)
		w.days = append(w.days, m.days...)
		m.invalidateWeeks()
	}
	return w, nil
}

// Months returns the months of the window in chronological order.
func (w *Window) Months() []*Month {
	return slices.Clone(w.months)
}

// Days returns every day of the window in chronological order.
func (w *Window) Days() []*Day {
	return slices.Clone(w.days)
}

func (w *Window) day(i int) *Day {
	if i < 0 || i >= len(w.days) {
		return nil
	}
	return w.days[i]
}

func (w *Window) month(i int) *Month {
	if i < 0 || i >= len(w.months) {
		return nil
	}
	return w.months[i]
}
