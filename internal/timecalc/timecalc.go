// Package timecalc reconciles a day's checkings into worked and rest durations.
//
// Raw checkings are rarely perfect: marks get duplicated, sessions cross
// midnight, and a day may start with a departure whose arrival was recorded
// the day before. AdjustCheckings repairs a day's sequence using its
// neighbouring days, and SumCheckings pairs arrivals with departures.
//
// Every function returns a new slice and leaves its input untouched.
package timecalc

import (
	"slices"
	"time"

	"github.com/starford/tempus/internal/checking"
	"github.com/starford/tempus/internal/dateops"
)

// Day is the view of a calendar day the calculations operate on.
type Day interface {
	// Date returns midnight of the day.
	Date() time.Time
	// Checkings returns the day's raw checkings in insertion order.
	Checkings() []*checking.Checking
	IsToday() bool
	PreviousDay() (Day, bool)
	NextDay() (Day, bool)
}

// Adjustment tells which boundary of a day was altered by AdjustCheckings.
type Adjustment int

const (
	None Adjustment = iota
	Start
	End
	Both
)

func (a Adjustment) String() string {
	switch a {
	case Start:
		return "start"
	case End:
		return "end"
	case Both:
		return "both"
	default:
		return "none"
	}
}

// OrderAscending returns the checkings sorted by timestamp. Equal timestamps
// keep their relative order.
func OrderAscending(cs []*checking.Checking) []*checking.Checking {
	out := slices.Clone(cs)
	slices.SortStableFunc(out, func(a, b *checking.Checking) int {
		return a.Time().Compare(b.Time())
	})
	return out
}

// RemoveDuplicates keeps only the first checking of every run sharing the
// same direction.
func RemoveDuplicates(cs []*checking.Checking) []*checking.Checking {
	out := make([]*checking.Checking, 0, len(cs))
	for _, c := range cs {
		if n := len(out); n > 0 && out[n-1].Direction() == c.Direction() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// AdjustBeginningOfDay prepends a synthetic arrival at midnight when the day
// opens with a departure and the previous day ended inside a session.
//
// An empty today also gets the synthetic arrival when the previous day's
// session is still open.
func AdjustBeginningOfDay(day Day, cs []*checking.Checking) []*checking.Checking {
	out := slices.Clone(cs)

	prev, ok := day.PreviousDay()
	if !ok || GetFromEndWithDirection(OrderAscending(prev.Checkings()), checking.In) == nil {
		return out
	}

	startsWithOut := len(out) > 0 && out[0].Direction() == checking.Out
	carriedIntoToday := len(out) == 0 && day.IsToday()
	if !startsWithOut && !carriedIntoToday {
		return out
	}

	synthetic := checking.New(dateops.StartOfDay(day.Date()), checking.In)
	return append([]*checking.Checking{synthetic}, out...)
}

// AdjustEndOfDay appends a synthetic departure at 23:59:59.999 when the day
// closes inside a session that the next day ends with a departure.
func AdjustEndOfDay(day Day, cs []*checking.Checking) []*checking.Checking {
	out := slices.Clone(cs)
	if len(out) == 0 || out[len(out)-1].Direction() != checking.In {
		return out
	}

	next, ok := day.NextDay()
	if !ok {
		return out
	}
	following := OrderAscending(next.Checkings())
	if len(following) == 0 || following[0].Direction() != checking.Out {
		return out
	}

	return append(out, checking.New(dateops.EndOfDay(day.Date()), checking.Out))
}

// RemoveOrphans drops a leading departure that has no arrival to pair with.
func RemoveOrphans(cs []*checking.Checking) []*checking.Checking {
	if len(cs) > 0 && cs[0].Direction() == checking.Out {
		return slices.Clone(cs[1:])
	}
	return slices.Clone(cs)
}

// AdjustCheckings returns the day's checkings ordered, deduplicated and
// corrected at both day boundaries, ready to be summed.
func AdjustCheckings(day Day) []*checking.Checking {
	cs := OrderAscending(day.Checkings())
	cs = RemoveDuplicates(cs)
	cs = AdjustBeginningOfDay(day, cs)
	cs = AdjustEndOfDay(day, cs)
	return RemoveOrphans(cs)
}

// SumCheckings adds up the time between every arrival and the departure
// that follows it. Unpaired marks contribute nothing.
func SumCheckings(cs []*checking.Checking) time.Duration {
	var (
		total  time.Duration
		lastIn *checking.Checking
	)
	for _, c := range cs {
		switch c.Direction() {
		case checking.In:
			lastIn = c
		case checking.Out:
			if lastIn == nil {
				continue
			}
			total += c.Time().Sub(lastIn.Time())
			lastIn = nil
		}
	}
	return total
}

// Invert returns deep copies of the checkings with every direction flipped.
func Invert(cs []*checking.Checking) []*checking.Checking {
	out := make([]*checking.Checking, len(cs))
	for i, c := range cs {
		cp := c.Clone()
		cp.SetDirection(c.Direction().Invert())
		out[i] = cp
	}
	return out
}

// SumWorkingTime returns the worked duration of the day.
func SumWorkingTime(day Day) time.Duration {
	return SumCheckings(AdjustCheckings(day))
}

// SumRestTime returns the time spent between sessions of the day.
func SumRestTime(day Day) time.Duration {
	return SumCheckings(Invert(AdjustCheckings(day)))
}

// SumDaysDuration returns the worked duration over all days. Nil entries are
// skipped.
func SumDaysDuration(days []Day) time.Duration {
	var total time.Duration
	for _, d := range days {
		if d == nil {
			continue
		}
		total += SumWorkingTime(d)
	}
	return total
}

// CheckIfTimeAdjusted reports which boundary of the day differs between its
// raw checkings and the adjusted sequence.
func CheckIfTimeAdjusted(day Day, adjusted []*checking.Checking) Adjustment {
	raw := OrderAscending(day.Checkings())
	if len(adjusted) == 0 {
		return None
	}
	if len(raw) == 0 {
		return Start
	}

	start := !raw[0].Time().Equal(adjusted[0].Time())
	end := !raw[len(raw)-1].Time().Equal(adjusted[len(adjusted)-1].Time())

	switch {
	case start && end:
		return Both
	case start:
		return Start
	case end:
		return End
	default:
		return None
	}
}

// GetFromEndWithDirection walks back from the tail while checkings share
// direction and returns the earliest checking of that trailing run. It
// returns nil when the sequence does not end with direction.
func GetFromEndWithDirection(cs []*checking.Checking, direction checking.Direction) *checking.Checking {
	var found *checking.Checking
	for i := len(cs) - 1; i >= 0; i-- {
		if cs[i].Direction() != direction {
			break
		}
		found = cs[i]
	}
	return found
}
