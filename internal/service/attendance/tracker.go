package attendance

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
)

// NextLegalKind returns the only kind an employee may submit after last.
func NextLegalKind(last *attendance.Event) attendance.Kind {
	if last == nil || last.Kind.IsClosing() {
		return attendance.KindClockIn
	}
	return attendance.KindClockOut
}

// CheckSequence rejects a requested kind that does not follow last.
func CheckSequence(last *attendance.Event, requested attendance.Kind) error {
	if requested == NextLegalKind(last) {
		return nil
	}
	if requested == attendance.KindClockIn {
		return attendance.ErrAlreadyClockedIn
	}
	return attendance.ErrNotClockedIn
}

// IsStale reports whether last is a clock-in that has stayed open for at least
// the shift's maximum open duration.
func IsStale(last *attendance.Event, now time.Time, def shift.Definition) bool {
	if last == nil || last.Kind != attendance.KindClockIn {
		return false
	}
	return now.Sub(last.OccurredAt) >= time.Duration(def.MaxOpenMinutes)*time.Minute
}

// OpenMinutes returns how long the clock-in last has been open, in whole minutes.
func OpenMinutes(last *attendance.Event, now time.Time) (int, bool) {
	if last == nil || last.Kind != attendance.KindClockIn {
		return 0, false
	}
	return int(now.Sub(last.OccurredAt) / time.Minute), true
}
