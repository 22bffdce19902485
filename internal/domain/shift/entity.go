package shift

import (
	"fmt"
	"time"
)

// ID identifies a recurring work schedule assigned to an employee.
type ID string

const (
	Morning ID = "morning"
	Middle  ID = "middle"
	Night   ID = "night"
)

// MinutesPerDay is the modulus used by every minute-of-day computation.
const MinutesPerDay = 24 * 60

// IDs lists the recognized shifts in display order.
var IDs = []ID{Morning, Middle, Night}

// Label returns the human readable name used in exports.
func (id ID) Label() string {
	switch id {
	case Morning:
		return "Morning"
	case Middle:
		return "Middle"
	case Night:
		return "Night"
	default:
		return "Unassigned"
	}
}

// IsKnown reports whether id is one of the recognized shifts.
func (id ID) IsKnown() bool {
	for _, known := range IDs {
		if id == known {
			return true
		}
	}
	return false
}

// Definition is the static configuration of one shift.
type Definition struct {
	ID                ID
	StartMinuteOfDay  int
	AllowEarlyMinutes int
	MaxOpenMinutes    int
}

// Validate checks the invariants of a shift definition.
func (d Definition) Validate() error {
	if !d.ID.IsKnown() {
		return fmt.Errorf("%w: %q", ErrUnknownShift, d.ID)
	}
	if d.StartMinuteOfDay < 0 || d.StartMinuteOfDay >= MinutesPerDay {
		return fmt.Errorf("%w: %s start minute %d out of range", ErrInvalidDefinition, d.ID, d.StartMinuteOfDay)
	}
	if d.AllowEarlyMinutes < 0 {
		return fmt.Errorf("%w: %s allow-early minutes must not be negative", ErrInvalidDefinition, d.ID)
	}
	if d.MaxOpenMinutes <= 0 {
		return fmt.Errorf("%w: %s max-open minutes must be positive", ErrInvalidDefinition, d.ID)
	}
	return nil
}

// StartClock formats the canonical start time as HH:MM.
func (d Definition) StartClock() string {
	return FormatClock(d.StartMinuteOfDay)
}

// FormatClock renders a minute-of-day as HH:MM.
func FormatClock(minuteOfDay int) string {
	m := ((minuteOfDay % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseClock parses HH:MM into a minute-of-day.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
