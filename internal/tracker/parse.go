package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/tempus/internal/apperr"
)

// ParseDate parses a YYYY-MM-DD date in the service location.
func (s *Service) ParseDate(v string) (time.Time, error) {
	d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(v), s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("tracker: date %q: %w", v, apperr.ErrInvalidInput)
	}
	return d, nil
}

// ParseTimeOn parses v as a time on date. v is either a clock time
// ("HH:MM" or "HH:MM:SS") or an RFC 3339 timestamp.
func (s *Service) ParseTimeOn(date time.Time, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.In(s.loc), nil
	}
	for _, layout := range []string{time.TimeOnly, "15:04"} {
		if c, err := time.Parse(layout, v); err == nil {
			d := date.In(s.loc)
			return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, s.loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("tracker: time %q: %w", v, apperr.ErrInvalidInput)
}
