package attendance

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
)

// Kind is the type of an attendance event.
type Kind string

const (
	KindClockIn      Kind = "clockIn"
	KindClockOut     Kind = "clockOut"
	KindAutoClockOut Kind = "autoClockOut"
)

// Notes attached to events that were not punched by the employee.
const (
	MissedClockOutNote = "missed clock-out"
	ManualClockInNote  = "manual clock-in"
	ManualClockOutNote = "manual clock-out"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	return k == KindClockIn || k == KindClockOut || k == KindAutoClockOut
}

// IsClosing reports whether k ends an open work session.
func (k Kind) IsClosing() bool {
	return k == KindClockOut || k == KindAutoClockOut
}

// Label returns the human readable name used in exports.
func (k Kind) Label() string {
	switch k {
	case KindClockIn:
		return "Clock in"
	case KindClockOut:
		return "Clock out"
	case KindAutoClockOut:
		return "Auto clock out"
	default:
		return string(k)
	}
}

type Location struct {
	Latitude  float64
	Longitude float64
}

// Event is one immutable clock action. Seq is the per-employee position in the
// event log, starting at 1.
type Event struct {
	ID          string
	EmployeeID  string
	Seq         int64
	Kind        Kind
	OccurredAt  time.Time
	Location    *Location
	LateMinutes int
	Note        *string
	CreatedAt   time.Time

	// DTO
	EmployeeName  *string
	EmployeeShift *shift.ID
}
