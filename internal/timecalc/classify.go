package timecalc

import "github.com/starford/tempus/internal/checking"

// Status summarises the shape of a day's checkings for display.
type Status int

const (
	// Empty means the day has no checkings at all.
	Empty Status = iota
	// Complete means every arrival is paired and nothing was adjusted.
	Complete
	// Adjusted means marks were synthesised or dropped to make the day summable.
	Adjusted
	// Open means the day ends inside a session.
	Open
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case Adjusted:
		return "adjusted"
	case Open:
		return "open"
	default:
		return "empty"
	}
}

// Classify reports the status of the day after adjustment.
func Classify(day Day) Status {
	raw := day.Checkings()
	adjusted := AdjustCheckings(day)

	switch {
	case len(raw) == 0 && len(adjusted) == 0:
		return Empty
	case len(adjusted) > 0 && adjusted[len(adjusted)-1].Direction() == checking.In:
		return Open
	case len(adjusted) != len(raw) || CheckIfTimeAdjusted(day, adjusted) != None:
		return Adjusted
	default:
		return Complete
	}
}
