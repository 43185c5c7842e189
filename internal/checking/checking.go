// Package checking defines the clock-in/clock-out mark recorded by users.
package checking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/tempus/internal/apperr"
)

// Direction tells whether a checking marks an arrival or a departure.
// The numeric values are part of the storage format.
type Direction int

const (
	NotSet Direction = iota
	In
	Out
)

// String returns the lower-case name of the direction.
func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return "notset"
	}
}

// Invert swaps In and Out. NotSet is returned unchanged.
func (d Direction) Invert() Direction {
	switch d {
	case In:
		return Out
	case Out:
		return In
	default:
		return d
	}
}

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d >= NotSet && d <= Out
}

// ParseDirection parses a direction from its name or numeric form.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "notset", "0":
		return NotSet, nil
	case "in", "1":
		return In, nil
	case "out", "2":
		return Out, nil
	}
	return NotSet, fmt.Errorf("checking: unknown direction %q: %w", s, apperr.ErrInvalidInput)
}

// Checking is a single timestamped mark.
type Checking struct {
	id        uuid.UUID
	timestamp time.Time
	direction Direction
}

// New creates a checking with a fresh identity.
func New(t time.Time, d Direction) *Checking {
	return &Checking{
		id:        uuid.New(),
		timestamp: t,
		direction: d,
	}
}

// NewWithID creates a checking with a known identity, e.g. one derived
// from stored data.
func NewWithID(id uuid.UUID, t time.Time, d Direction) *Checking {
	return &Checking{
		id:        id,
		timestamp: t,
		direction: d,
	}
}

// ID returns the checking identity.
func (c *Checking) ID() uuid.UUID { return c.id }

// Time returns the checking timestamp.
func (c *Checking) Time() time.Time { return c.timestamp }

// Direction returns the checking direction.
func (c *Checking) Direction() Direction { return c.direction }

// SetTime replaces the timestamp. A zero time is ignored.
func (c *Checking) SetTime(t time.Time) {
	if t.IsZero() {
		return
	}
	c.timestamp = t
}

// SetDirection replaces the direction.
func (c *Checking) SetDirection(d Direction) {
	c.direction = d
}

// Clone returns a copy sharing the same identity.
func (c *Checking) Clone() *Checking {
	cp := *c
	return &cp
}

func (c *Checking) String() string {
	return fmt.Sprintf("%s@%s", c.direction, c.timestamp.Format("2006-01-02T15:04:05.000"))
}
