// Package tracker exposes the calendar as load, mutate and save operations
// used by the HTTP API, the MCP server and the CLI.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/tempus/internal/apperr"
	"github.com/starford/tempus/internal/calendar"
	"github.com/starford/tempus/internal/checking"
	"github.com/starford/tempus/internal/dateops"
	"github.com/starford/tempus/internal/settings"
)

// Event types published after a successful mutation.
const (
	EventCheckingCreated = "checking.created"
	EventCheckingUpdated = "checking.updated"
	EventCheckingDeleted = "checking.deleted"
	EventDayUpdated      = "day.updated"
	EventSettingsUpdated = "settings.updated"
)

// MonthStore persists months and lists the years that hold data.
type MonthStore interface {
	calendar.MonthStore
	Years(ctx context.Context) ([]int, error)
}

// SettingsStore reads and writes settings.
type SettingsStore interface {
	GetSettings(ctx context.Context) (settings.Settings, error)
	SaveSettings(ctx context.Context, s settings.Settings) error
}

// Publisher receives change notifications.
type Publisher interface {
	PublishChange(eventType string, data any)
}

// ChangeEvent is the payload of checking and day events.
type ChangeEvent struct {
	Date string `json:"date"`
	ID   string `json:"id,omitempty"`
}

type nopPublisher struct{}

func (nopPublisher) PublishChange(string, any) {}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets where change events go.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.pub = p
		}
	}
}

// WithClock sets the clock used for punches and today lookups.
func WithClock(c func() time.Time) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocation sets the location dates are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service coordinates month storage, settings and change notifications.
//
// Every operation loads a fresh window of months, so the calendar model is
// never shared between calls. mu serialises load, mutate and save cycles.
type Service struct {
	store    MonthStore
	settings SettingsStore
	pub      Publisher
	clock    func() time.Time
	loc      *time.Location
	logger   *slog.Logger

	mu sync.Mutex
}

// New creates a tracker service.
func New(store MonthStore, st SettingsStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		settings: st,
		pub:      nopPublisher{},
		clock:    time.Now,
		loc:      time.Local,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current time in the service location.
func (s *Service) Now() time.Time { return s.clock().In(s.loc) }

// Location returns the location dates are interpreted in.
func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) loadDay(ctx context.Context, date time.Time) (*calendar.Day, error) {
	date = date.In(s.loc)
	m, err := calendar.GetLinkedMonth(ctx, s.store, date.Year(), date.Month())
	if err != nil {
		return nil, fmt.Errorf("tracker: load %s: %w", date.Format(time.DateOnly), err)
	}
	return m.Day(date.Day()), nil
}

// storedID returns the id the stored copy of a checking was given.
func storedID(day *calendar.Day, t time.Time, dir checking.Direction) string {
	var id string
	for _, c := range day.Checkings() {
		if c.Time().Equal(t) && c.Direction() == dir {
			id = c.ID().String()
		}
	}
	return id
}

// Day returns the summary of the day containing date.
func (s *Service) Day(ctx context.Context, date time.Time) (DaySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, err := s.loadDay(ctx, date)
	if err != nil {
		return DaySummary{}, err
	}
	return summarizeDay(day), nil
}

// Week returns the week of the month layout that contains date.
func (s *Service) Week(ctx context.Context, date time.Time) (WeekSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, err := s.loadDay(ctx, date)
	if err != nil {
		return WeekSummary{}, err
	}
	w := day.Owner().WeekOf(day)
	if w == nil {
		return WeekSummary{}, fmt.Errorf("tracker: no week for %s: %w", day.Date().Format(time.DateOnly), apperr.ErrNotFound)
	}
	return summarizeWeek(w, true), nil
}

// Month returns the summary of a month with its week layout.
func (s *Service) Month(ctx context.Context, year int, month time.Month) (MonthSummary, error) {
	if month < time.January || month > time.December {
		return MonthSummary{}, fmt.Errorf("tracker: month %d: %w", month, apperr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := calendar.GetLinkedMonth(ctx, s.store, year, month)
	if err != nil {
		return MonthSummary{}, fmt.Errorf("tracker: load %d-%02d: %w", year, month, err)
	}
	return summarizeMonth(m), nil
}

// Year returns the monthly totals of a year.
func (s *Service) Year(ctx context.Context, year int) (YearSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	y, err := calendar.GetYear(ctx, s.store, year)
	if err != nil {
		return YearSummary{}, fmt.Errorf("tracker: load %d: %w", year, err)
	}
	return summarizeYear(y), nil
}

// Years lists the years that hold stored data.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	years, err := s.store.Years(ctx)
	if err != nil {
		return nil, fmt.Errorf("tracker: years: %w", err)
	}
	if years == nil {
		years = []int{}
	}
	return years, nil
}

// AddChecking records a checking at t.
func (s *Service) AddChecking(ctx context.Context, t time.Time, dir checking.Direction) (DaySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addChecking(ctx, t, dir)
}

// AddCheckingOn records a checking at t, which must fall on date.
func (s *Service) AddCheckingOn(ctx context.Context, date, t time.Time, dir checking.Direction) (DaySummary, error) {
	if !t.IsZero() && !dateops.SameDay(date.In(s.loc), t.In(s.loc)) {
		return DaySummary{}, fmt.Errorf("tracker: checking must be on %s: %w", date.In(s.loc).Format(time.DateOnly), apperr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addChecking(ctx, t, dir)
}

func (s *Service) addChecking(ctx context.Context, t time.Time, dir checking.Direction) (DaySummary, error) {
	if t.IsZero() {
		return DaySummary{}, fmt.Errorf("tracker: empty time: %w", apperr.ErrInvalidInput)
	}
	if !dir.Valid() {
		return DaySummary{}, fmt.Errorf("tracker: direction %d: %w", dir, apperr.ErrInvalidInput)
	}

	day, err := s.loadDay(ctx, t)
	if err != nil {
		return DaySummary{}, err
	}
	// Stored timestamps keep millisecond precision.
	c := checking.New(t.In(s.loc).Truncate(time.Millisecond), dir)
	if err := day.AddChecking(c); err != nil {
		return DaySummary{}, err
	}
	if err := day.Save(ctx, s.store); err != nil {
		return DaySummary{}, err
	}
	// Read back so ids in the result match storage.
	if day, err = s.loadDay(ctx, day.Date()); err != nil {
		return DaySummary{}, err
	}

	s.logger.Info("tracker: checking added",
		slog.String("date", day.Date().Format(time.DateOnly)),
		slog.String("direction", dir.String()))
	s.pub.PublishChange(EventCheckingCreated, ChangeEvent{
		Date: day.Date().Format(time.DateOnly),
		ID:   storedID(day, c.Time(), dir),
	})
	return summarizeDay(day), nil
}

// Punch records a checking now. NotSet toggles: it records a departure when
// today's adjusted sequence ends with an arrival, an arrival otherwise.
func (s *Service) Punch(ctx context.Context, dir checking.Direction) (DaySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	if dir == checking.NotSet {
		day, err := s.loadDay(ctx, now)
		if err != nil {
			return DaySummary{}, err
		}
		dir = checking.In
		if adjusted := day.Adjusted(); len(adjusted) > 0 && adjusted[len(adjusted)-1].Direction() == checking.In {
			dir = checking.Out
		}
	}
	return s.addChecking(ctx, now, dir)
}

// UpdateChecking changes the time and direction of a checking. A zero t
// keeps the current time; a new time must stay on the same day. Ids derive
// from stored content, so the returned day carries the checking's new id.
func (s *Service) UpdateChecking(ctx context.Context, date time.Time, id uuid.UUID, t time.Time, dir checking.Direction) (DaySummary, error) {
	if !dir.Valid() {
		return DaySummary{}, fmt.Errorf("tracker: direction %d: %w", dir, apperr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	day, err := s.loadDay(ctx, date)
	if err != nil {
		return DaySummary{}, err
	}
	c, ok := day.Checking(id)
	if !ok {
		return DaySummary{}, fmt.Errorf("tracker: checking %s: %w", id, apperr.ErrNotFound)
	}
	if !t.IsZero() && !day.Contains(t) {
		return DaySummary{}, fmt.Errorf("tracker: checking must stay on %s: %w", day.Date().Format(time.DateOnly), apperr.ErrInvalidInput)
	}

	if !t.IsZero() {
		c.SetTime(t.In(s.loc).Truncate(time.Millisecond))
	}
	c.SetDirection(dir)
	if err := day.Save(ctx, s.store); err != nil {
		return DaySummary{}, err
	}
	updated := c.Time()
	if day, err = s.loadDay(ctx, day.Date()); err != nil {
		return DaySummary{}, err
	}

	s.logger.Info("tracker: checking updated",
		slog.String("date", day.Date().Format(time.DateOnly)),
		slog.String("id", id.String()))
	s.pub.PublishChange(EventCheckingUpdated, ChangeEvent{
		Date: day.Date().Format(time.DateOnly),
		ID:   storedID(day, updated, dir),
	})
	return summarizeDay(day), nil
}

// RemoveChecking deletes a checking from the day containing date.
func (s *Service) RemoveChecking(ctx context.Context, date time.Time, id uuid.UUID) (DaySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, err := s.loadDay(ctx, date)
	if err != nil {
		return DaySummary{}, err
	}
	if _, err := day.RemoveChecking(id); err != nil {
		return DaySummary{}, err
	}
	if err := day.Save(ctx, s.store); err != nil {
		return DaySummary{}, err
	}
	if day, err = s.loadDay(ctx, day.Date()); err != nil {
		return DaySummary{}, err
	}

	s.logger.Info("tracker: checking removed",
		slog.String("date", day.Date().Format(time.DateOnly)),
		slog.String("id", id.String()))
	s.pub.PublishChange(EventCheckingDeleted, ChangeEvent{Date: day.Date().Format(time.DateOnly), ID: id.String()})
	return summarizeDay(day), nil
}

// SetDayInfo replaces the info attached to a day. Nil clears it.
func (s *Service) SetDayInfo(ctx context.Context, date time.Time, info *calendar.DayInfo) (DaySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, err := s.loadDay(ctx, date)
	if err != nil {
		return DaySummary{}, err
	}
	day.SetInfo(info)
	if err := day.Save(ctx, s.store); err != nil {
		return DaySummary{}, err
	}
	if day, err = s.loadDay(ctx, day.Date()); err != nil {
		return DaySummary{}, err
	}

	s.pub.PublishChange(EventDayUpdated, ChangeEvent{Date: day.Date().Format(time.DateOnly)})
	return summarizeDay(day), nil
}

// Settings returns the current settings.
func (s *Service) Settings(ctx context.Context) (settings.Settings, error) {
	return s.settings.GetSettings(ctx)
}

// UpdateSettings validates and saves settings.
func (s *Service) UpdateSettings(ctx context.Context, st settings.Settings) (settings.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.settings.SaveSettings(ctx, st); err != nil {
		return settings.Settings{}, err
	}
	s.logger.Info("tracker: settings updated", slog.Int("first_day_of_week", int(st.FirstDayOfWeek)))
	s.pub.PublishChange(EventSettingsUpdated, st)
	return st, nil
}
