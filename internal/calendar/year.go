package calendar

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/tempus/internal/dateops"
)

// Year holds the twelve months of a calendar year. Its months are linked
// with December of the previous year and January of the next, so boundary
// days and weeks resolve across years.
type Year struct {
	year   int
	months []*Month
	window *Window
}

// GetYear loads the year's months together with both boundary months and
// links them. If any fetch fails no Year is returned.
func GetYear(ctx context.Context, store MonthStore, year int) (*Year, error) {
	months, err := fetchMonths(ctx, store, year-1, time.December, 14)
	if err != nil {
		return nil, err
	}
	w, err := Link(months...)
	if err != nil {
		return nil, err
	}
	return &Year{
		year:   year,
		months: months[1:13],
		window: w,
	}, nil
}

// GetLinkedMonth loads a month together with its previous and next months
// and links the three.
func GetLinkedMonth(ctx context.Context, store MonthStore, year int, month time.Month) (*Month, error) {
	py, pm := dateops.PreviousMonth(year, month)
	months, err := fetchMonths(ctx, store, py, pm, 3)
	if err != nil {
		return nil, err
	}
	if _, err := Link(months...); err != nil {
		return nil, err
	}
	return months[1], nil
}

// fetchMonths loads count consecutive months starting at year/month
// concurrently. The first failure cancels the others.
func fetchMonths(ctx context.Context, store MonthStore, year int, month time.Month, count int) ([]*Month, error) {
	months := make([]*Month, count)
	g, gCtx := errgroup.WithContext(ctx)

	y, m := year, month
	for i := range count {
		fy, fm := y, m
		g.Go(func() error {
			mo, err := store.GetMonth(gCtx, fy, fm)
			if err != nil {
				return fmt.Errorf("calendar: fetch %d-%02d: %w", fy, fm, err)
			}
			months[i] = mo
			return nil
		})
		y, m = dateops.NextMonth(y, m)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return months, nil
}

// Number returns the calendar year.
func (y *Year) Number() int { return y.year }

// Months returns January through December.
func (y *Year) Months() []*Month {
	return slices.Clone(y.months)
}

// Month returns the given month of the year.
func (y *Year) Month(m time.Month) *Month {
	if m < time.January || m > time.December {
		return nil
	}
	return y.months[m-1]
}

// Window returns the window holding the year and its boundary months.
func (y *Year) Window() *Window { return y.window }

// Days returns every day of the year in order.
func (y *Year) Days() []*Day {
	var out []*Day
	for _, m := range y.months {
		out = append(out, m.days...)
	}
	return out
}

// Duration returns the worked time over the whole year.
func (y *Year) Duration() time.Duration {
	var total time.Duration
	for _, m := range y.months {
		total += m.Duration()
	}
	return total
}
