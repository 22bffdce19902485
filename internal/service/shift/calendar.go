package shift

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
)

// DefaultDefinitions is the built-in shift table.
var DefaultDefinitions = []shift.Definition{
	{ID: shift.Morning, StartMinuteOfDay: 6 * 60, AllowEarlyMinutes: 60, MaxOpenMinutes: 720},
	{ID: shift.Middle, StartMinuteOfDay: 14 * 60, AllowEarlyMinutes: 60, MaxOpenMinutes: 720},
	{ID: shift.Night, StartMinuteOfDay: 22 * 60, AllowEarlyMinutes: 60, MaxOpenMinutes: 720},
}

// Calendar maps shift identifiers to their definitions and answers
// time-of-day questions in the business time zone.
type Calendar struct {
	loc         *time.Location
	definitions map[shift.ID]shift.Definition
}

// NewCalendar builds a calendar from defs. Every recognized shift must be defined exactly once.
func NewCalendar(loc *time.Location, defs []shift.Definition) (*Calendar, error) {
	if loc == nil {
		loc = time.Local
	}

	table := make(map[shift.ID]shift.Definition, len(defs))
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := table[d.ID]; dup {
			return nil, fmt.Errorf("%w: %s defined twice", shift.ErrInvalidDefinition, d.ID)
		}
		table[d.ID] = d
	}
	for _, id := range shift.IDs {
		if _, ok := table[id]; !ok {
			return nil, fmt.Errorf("%w: %s is not defined", shift.ErrInvalidDefinition, id)
		}
	}

	return &Calendar{loc: loc, definitions: table}, nil
}

// NewDefaultCalendar returns the built-in table in loc.
func NewDefaultCalendar(loc *time.Location) *Calendar {
	c, err := NewCalendar(loc, DefaultDefinitions)
	if err != nil {
		panic(err)
	}
	return c
}

// Location returns the business time zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Lookup returns the definition for id.
func (c *Calendar) Lookup(id shift.ID) (shift.Definition, error) {
	d, ok := c.definitions[id]
	if !ok {
		return shift.Definition{}, fmt.Errorf("%w: %q", shift.ErrUnknownShift, id)
	}
	return d, nil
}

// Definitions returns every definition in display order.
func (c *Calendar) Definitions() []shift.Definition {
	defs := make([]shift.Definition, 0, len(shift.IDs))
	for _, id := range shift.IDs {
		defs = append(defs, c.definitions[id])
	}
	return defs
}

// MinuteOfDay converts at to minutes since local midnight.
func (c *Calendar) MinuteOfDay(at time.Time) int {
	local := at.In(c.loc)
	return local.Hour()*60 + local.Minute()
}

// Window returns the inclusive clock-in bounds as minutes of day. earliest may be
// greater than start when the window crosses midnight.
func (c *Calendar) Window(d shift.Definition) (earliest, start int) {
	earliest = ((d.StartMinuteOfDay-d.AllowEarlyMinutes)%shift.MinutesPerDay + shift.MinutesPerDay) % shift.MinutesPerDay
	return earliest, d.StartMinuteOfDay
}

// IsWithinClockInWindow reports whether a clock-in at the given instant is allowed for d.
// The upper bound is the nominal start; late clock-ins are rejected here.
func (c *Calendar) IsWithinClockInWindow(d shift.Definition, at time.Time) bool {
	m := c.MinuteOfDay(at)
	earliest, start := c.Window(d)

	if earliest <= start {
		return earliest <= m && m <= start
	}
	return m >= earliest || m <= start
}
