package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/tempus/internal/apperr"
)

type published struct {
	types []string
	last  Selection
}

func (p *published) fn(eventType string, data any) {
	p.types = append(p.types, eventType)
	p.last = data.(Selection)
}

func newStore(now time.Time) (*Store, *published) {
	p := &published{}
	return New(func() time.Time { return now }, p.fn), p
}

func TestNew_SelectsToday(t *testing.T) {
	now := time.Date(2018, time.March, 14, 15, 4, 5, 0, time.UTC)
	s, p := newStore(now)

	cur := s.Current()
	assert.Equal(t, time.Date(2018, time.March, 14, 0, 0, 0, 0, time.UTC), cur.Date)
	assert.Equal(t, UnitDay, cur.Unit)
	assert.Empty(t, p.types)
}

func TestSelect(t *testing.T) {
	s, p := newStore(time.Date(2018, time.March, 14, 0, 0, 0, 0, time.UTC))

	sel, err := s.Select(time.Date(2018, time.January, 31, 9, 30, 0, 0, time.UTC), UnitMonth)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, time.January, 31, 0, 0, 0, 0, time.UTC), sel.Date)
	assert.Equal(t, []string{SelectionChanged}, p.types)
	assert.Equal(t, sel, p.last)

	_, err = s.Select(time.Time{}, UnitDay)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = s.Select(sel.Date, Unit("decade"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Len(t, p.types, 1)
}

func TestStep(t *testing.T) {
	base := time.Date(2018, time.January, 31, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		unit  Unit
		delta int
		want  time.Time
	}{
		{UnitDay, 1, time.Date(2018, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{UnitDay, -31, time.Date(2017, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{UnitWeek, 2, time.Date(2018, time.February, 14, 0, 0, 0, 0, time.UTC)},
		{UnitMonth, 1, time.Date(2018, time.February, 28, 0, 0, 0, 0, time.UTC)},
		{UnitMonth, -2, time.Date(2017, time.November, 30, 0, 0, 0, 0, time.UTC)},
		{UnitMonth, 3, time.Date(2018, time.April, 30, 0, 0, 0, 0, time.UTC)},
		{UnitYear, 2, time.Date(2020, time.January, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		s, _ := newStore(base)
		_, err := s.Select(base, tc.unit)
		require.NoError(t, err)
		got := s.Step(tc.delta)
		assert.Equal(t, tc.want, got.Date, "%s %+d", tc.unit, tc.delta)
		assert.Equal(t, tc.unit, got.Unit)
	}
}

func TestStep_LeapYear(t *testing.T) {
	leap := time.Date(2020, time.February, 29, 0, 0, 0, 0, time.UTC)
	s, _ := newStore(leap)
	_, err := s.Select(leap, UnitYear)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.February, 28, 0, 0, 0, 0, time.UTC), s.Step(1).Date)
}

func TestToday_KeepsUnit(t *testing.T) {
	now := time.Date(2018, time.March, 14, 8, 0, 0, 0, time.UTC)
	s, p := newStore(now)
	_, err := s.Select(time.Date(2016, time.June, 1, 0, 0, 0, 0, time.UTC), UnitWeek)
	require.NoError(t, err)

	got := s.Today()
	assert.Equal(t, time.Date(2018, time.March, 14, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, UnitWeek, got.Unit)
	assert.Len(t, p.types, 2)
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit(" Week ")
	require.NoError(t, err)
	assert.Equal(t, UnitWeek, u)

	u, err = ParseUnit("")
	require.NoError(t, err)
	assert.Equal(t, UnitDay, u)
}

func TestStep_ConcurrentStepsAllApply(t *testing.T) {
	start := time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)
	s := New(func() time.Time { return start }, nil)

	const workers, steps = 8, 50
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range steps {
				s.Step(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, start.AddDate(0, 0, workers*steps), s.Current().Date)
}
