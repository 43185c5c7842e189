package tracker

import (
	"time"

	"github.com/starford/tempus/internal/calendar"
	"github.com/starford/tempus/internal/checking"
	"github.com/starford/tempus/internal/timecalc"
)

// CheckingView is the outward representation of a checking.
type CheckingView struct {
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	Direction string    `json:"direction"`
}

// DaySummary describes one day.
type DaySummary struct {
	Date       string            `json:"date"`
	Weekday    string            `json:"weekday"`
	Checkings  []CheckingView    `json:"checkings"`
	Adjusted   []CheckingView    `json:"adjusted"`
	DurationMS int64             `json:"duration_ms"`
	RestMS     int64             `json:"rest_ms"`
	Adjustment string            `json:"adjustment"`
	Status     string            `json:"status"`
	Info       *calendar.DayInfo `json:"info,omitempty"`
	IsToday    bool              `json:"is_today"`
	IsWeekend  bool              `json:"is_weekend"`
	OpenSince  *time.Time        `json:"open_since,omitempty"`
}

// WeekSummary describes one week of a month layout. Dates holds an empty
// string for slots outside the loaded range.
type WeekSummary struct {
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	Number     int           `json:"number"`
	Label      string        `json:"label"`
	Dates      []string      `json:"dates"`
	Days       []*DaySummary `json:"days,omitempty"`
	DurationMS int64         `json:"duration_ms"`
	AverageMS  int64         `json:"average_ms"`
	WorkedDays int           `json:"worked_days"`
	IsCurrent  bool          `json:"is_current"`
}

// MonthSummary describes a month with its week layout.
type MonthSummary struct {
	Year           int           `json:"year"`
	Month          int           `json:"month"`
	Name           string        `json:"name"`
	FirstDayOfWeek int           `json:"first_day_of_week"`
	DurationMS     int64         `json:"duration_ms"`
	AverageMS      int64         `json:"average_ms"`
	WorkedDays     int           `json:"worked_days"`
	IsCurrent      bool          `json:"is_current"`
	Days           []DaySummary  `json:"days"`
	Weeks          []WeekSummary `json:"weeks"`
}

// MonthTotal is a month line in a year summary.
type MonthTotal struct {
	Month      int    `json:"month"`
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
	AverageMS  int64  `json:"average_ms"`
	WorkedDays int    `json:"worked_days"`
}

// YearSummary describes a year.
type YearSummary struct {
	Year       int          `json:"year"`
	DurationMS int64        `json:"duration_ms"`
	WorkedDays int          `json:"worked_days"`
	Months     []MonthTotal `json:"months"`
}

func toCheckingViews(cs []*checking.Checking) []CheckingView {
	out := make([]CheckingView, len(cs))
	for i, c := range cs {
		out[i] = CheckingView{
			ID:        c.ID().String(),
			Time:      c.Time(),
			Direction: c.Direction().String(),
		}
	}
	return out
}

func summarizeDay(d *calendar.Day) DaySummary {
	adjusted := d.Adjusted()
	status := d.Status()

	s := DaySummary{
		Date:       d.Date().Format(time.DateOnly),
		Weekday:    d.Date().Weekday().String(),
		Checkings:  toCheckingViews(d.Ordered()),
		Adjusted:   toCheckingViews(adjusted),
		DurationMS: d.Duration().Milliseconds(),
		RestMS:     d.RestDuration().Milliseconds(),
		Adjustment: d.Adjustment().String(),
		Status:     status.String(),
		Info:       d.Info(),
		IsToday:    d.IsToday(),
		IsWeekend:  d.IsSaturday() || d.IsSunday(),
	}
	if status == timecalc.Open && s.IsToday {
		if t, ok := openSince(d, adjusted); ok {
			s.OpenSince = &t
		}
	}
	return s
}

// openSince returns when the running session of d started. A session carried
// over midnight reports the previous day's arrival.
func openSince(d *calendar.Day, adjusted []*checking.Checking) (time.Time, bool) {
	in := timecalc.GetFromEndWithDirection(adjusted, checking.In)
	if in == nil {
		return time.Time{}, false
	}
	if _, recorded := d.Checking(in.ID()); !recorded {
		if prev := d.Previous(); prev != nil {
			if p := timecalc.GetFromEndWithDirection(prev.Ordered(), checking.In); p != nil {
				return p.Time(), true
			}
		}
	}
	return in.Time(), true
}

func summarizeWeek(w *calendar.Week, withDays bool) WeekSummary {
	s := WeekSummary{
		Year:       w.Year(),
		Month:      int(w.Month()),
		Number:     w.Number(),
		Label:      w.Label(),
		Dates:      make([]string, 7),
		DurationMS: w.Duration().Milliseconds(),
		AverageMS:  w.Average().Milliseconds(),
		WorkedDays: w.WorkedDays(),
		IsCurrent:  w.IsCurrent(),
	}
	days := w.Days()
	if withDays {
		s.Days = make([]*DaySummary, 7)
	}
	for i, d := range days {
		if d == nil {
			continue
		}
		s.Dates[i] = d.Date().Format(time.DateOnly)
		if withDays {
			ds := summarizeDay(d)
			s.Days[i] = &ds
		}
	}
	return s
}

func summarizeMonth(m *calendar.Month) MonthSummary {
	s := MonthSummary{
		Year:           m.Year(),
		Month:          int(m.Month()),
		Name:           m.Month().String(),
		FirstDayOfWeek: int(m.FirstDayOfWeek()),
		DurationMS:     m.Duration().Milliseconds(),
		AverageMS:      m.Average().Milliseconds(),
		WorkedDays:     m.WorkedDays(),
		IsCurrent:      m.IsCurrent(),
	}
	for _, d := range m.Days() {
		s.Days = append(s.Days, summarizeDay(d))
	}
	for _, w := range m.Weeks() {
		s.Weeks = append(s.Weeks, summarizeWeek(w, false))
	}
	return s
}

func summarizeYear(y *calendar.Year) YearSummary {
	s := YearSummary{
		Year:       y.Number(),
		DurationMS: y.Duration().Milliseconds(),
	}
	for _, m := range y.Months() {
		mt := MonthTotal{
			Month:      int(m.Month()),
			Name:       m.Month().String(),
			DurationMS: m.Duration().Milliseconds(),
			AverageMS:  m.Average().Milliseconds(),
			WorkedDays: m.WorkedDays(),
		}
		s.WorkedDays += mt.WorkedDays
		s.Months = append(s.Months, mt)
	}
	return s
}
