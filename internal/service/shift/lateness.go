package shift

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
)

// LateMinutes returns the whole minutes between the shift start and clockInAt
// on the same local day, floored at zero. No midnight adjustment is applied.
func (c *Calendar) LateMinutes(d shift.Definition, clockInAt time.Time) int {
	m := c.MinuteOfDay(clockInAt)
	if m > d.StartMinuteOfDay {
		return m - d.StartMinuteOfDay
	}
	return 0
}
