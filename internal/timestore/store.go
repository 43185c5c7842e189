// Package timestore persists calendar months in a key-value provider.
//
// Each month is stored under "{year}/{monthIndex}" where monthIndex is
// zero-based (January is 0). A missing key reads as an empty month.
package timestore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/starford/tempus/internal/apperr"
	"github.com/starford/tempus/internal/calendar"
	"github.com/starford/tempus/internal/settings"
	"github.com/starford/tempus/internal/storage"
)

// SettingsSource provides the settings months are built with.
type SettingsSource interface {
	GetSettings(ctx context.Context) (settings.Settings, error)
}

// Store reads and writes months. It implements calendar.MonthStore.
type Store struct {
	kv       storage.Provider
	settings SettingsSource
	loc      *time.Location
	clock    calendar.Clock
}

var _ calendar.MonthStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLocation sets the location months are built in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock sets the clock passed to loaded months.
func WithClock(c calendar.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// New creates a Store.
func New(kv storage.Provider, src SettingsSource, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		settings: src,
		loc:      time.Local,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the location months are built in.
func (s *Store) Location() *time.Location { return s.loc }

// Now returns the store clock's current time in its location.
func (s *Store) Now() time.Time { return s.clock().In(s.loc) }

// MonthKey returns the storage key of a month.
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%d/%d", year, int(month)-1)
}

// ParseMonthKey is the inverse of MonthKey.
func ParseMonthKey(key string) (int, time.Month, bool) {
	ys, ms, ok := strings.Cut(key, "/")
	if !ok {
		return 0, 0, false
	}
	year, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, false
	}
	idx, err := strconv.Atoi(ms)
	if err != nil || idx < 0 || idx > 11 {
		return 0, 0, false
	}
	return year, time.Month(idx + 1), true
}

// SaveMonth writes the month under its key.
func (s *Store) SaveMonth(ctx context.Context, m *calendar.Month) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := MonthKey(m.Year(), m.Month())
	data, err := encodeMonth(m)
	if err != nil {
		return fmt.Errorf("timestore: save %s: %w", key, err)
	}
	if err := s.kv.Set(key, data); err != nil {
		return fmt.Errorf("timestore: save %s: %w", key, err)
	}
	return nil
}

// GetMonth loads a month, returning an empty one when nothing is stored.
func (s *Store) GetMonth(ctx context.Context, year int, month time.Month) (*calendar.Month, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("timestore: settings: %w", err)
	}

	key := MonthKey(year, month)
	opts := []calendar.Option{calendar.WithLocation(s.loc), calendar.WithClock(s.clock)}

	data, err := s.kv.Get(key)
	if errors.Is(err, apperr.ErrNotFound) {
		return calendar.NewMonth(year, month, st.FirstDayOfWeek, nil, nil, opts...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("timestore: get %s: %w", key, err)
	}

	checkings, infos, err := decodeMonth(data, s.loc)
	if err != nil {
		return nil, fmt.Errorf("timestore: get %s: %w", key, err)
	}
	return calendar.NewMonth(year, month, st.FirstDayOfWeek, checkings, infos, opts...), nil
}

// Years returns the distinct years that have at least one stored month,
// in ascending order.
func (s *Store) Years(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys, err := s.kv.Keys("")
	if err != nil {
		return nil, fmt.Errorf("timestore: list: %w", err)
	}
	var years []int
	for _, k := range keys {
		y, _, ok := ParseMonthKey(k)
		if ok && !slices.Contains(years, y) {
			years = append(years, y)
		}
	}
	slices.Sort(years)
	return years, nil
}
