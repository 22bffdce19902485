package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
)

// AttendanceService defines business logic for clock actions and record review
type AttendanceService interface {
	// Clock validates and records a clock request of the authenticated employee at the current time
	Clock(ctx context.Context, employeeID string, req ClockRequest) (EventResponse, error)

	// SubmitClock validates kind against the employee's last event and shift window and appends the event
	SubmitClock(ctx context.Context, emp employee.Employee, kind Kind, now time.Time, loc *Location) (Event, error)

	// RecoverMissedClockOut appends an AutoClockOut when the employee's open clock-in is stale.
	// It returns nil when nothing had to be closed.
	RecoverMissedClockOut(ctx context.Context, emp employee.Employee, now time.Time) (*Event, error)

	// RecoverEmployee runs RecoverMissedClockOut for an employee by ID at the current time
	RecoverEmployee(ctx context.Context, employeeID string) (*EventResponse, error)

	// RecoverAll closes every stale open clock-in; failures are logged and skipped
	RecoverAll(ctx context.Context, now time.Time) (int, error)

	// ManualClock records a clock-in or clock-out on behalf of an employee without the window check
	ManualClock(ctx context.Context, req ManualClockRequest) (EventResponse, error)

	// GetStatus reports the last event and what the employee may do next
	GetStatus(ctx context.Context, employeeID string) (StatusResponse, error)

	// GetMyEvents lists the authenticated employee's own records
	GetMyEvents(ctx context.Context, employeeID string, filter EventFilter) (ListEventResponse, error)

	// ListEvents lists records of all employees (admin)
	ListEvents(ctx context.Context, filter EventFilter) (ListEventResponse, error)

	// Export renders every record matching filter as a downloadable file (admin)
	Export(ctx context.Context, filter EventFilter, format ExportFormat) (ExportFile, error)

	// DeleteAllEvents removes every record (admin)
	DeleteAllEvents(ctx context.Context) (int64, error)
}
