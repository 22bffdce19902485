package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/sse"
	shiftService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/shift"
	"github.com/google/uuid"
)

// EventRecorded is the SSE event name published for every stored event.
const EventRecorded = "attendance.recorded"

// maxAppendAttempts bounds how often a decision is re-made after losing the
// sequence slot to a concurrent writer for the same employee.
const maxAppendAttempts = 3

type AttendanceServiceImpl struct {
	events    attendance.EventRepository
	employees employee.EmployeeRepository
	calendar  *shiftService.Calendar
	hub       *sse.Hub
	now       func() time.Time
}

func NewAttendanceService(
	eventRepo attendance.EventRepository,
	employeeRepo employee.EmployeeRepository,
	calendar *shiftService.Calendar,
	hub *sse.Hub,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		events:    eventRepo,
		employees: employeeRepo,
		calendar:  calendar,
		hub:       hub,
		now:       time.Now,
	}
}

// SubmitClock implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SubmitClock(ctx context.Context, emp employee.Employee, kind attendance.Kind, now time.Time, loc *attendance.Location) (attendance.Event, error) {
	def, err := s.calendar.Lookup(emp.Shift)
	if err != nil {
		return attendance.Event{}, err
	}
	if kind != attendance.KindClockIn && kind != attendance.KindClockOut {
		return attendance.Event{}, attendance.ErrInvalidKind
	}

	saved, err := s.appendWithRetry(ctx, emp.ID, func(last *attendance.Event) (*attendance.Event, error) {
		if err := CheckSequence(last, kind); err != nil {
			return nil, err
		}

		ev := &attendance.Event{
			Kind:       kind,
			OccurredAt: now,
			Location:   loc,
		}
		if kind == attendance.KindClockIn {
			if !s.calendar.IsWithinClockInWindow(def, now) {
				return nil, fmt.Errorf("%w: %s shift accepts clock-in from %s until %s",
					attendance.ErrOutOfWindow, def.ID, shift.FormatClock(def.StartMinuteOfDay-def.AllowEarlyMinutes), def.StartClock())
			}
			ev.LateMinutes = s.calendar.LateMinutes(def, now)
		}
		return ev, nil
	})
	if err != nil {
		return attendance.Event{}, err
	}
	return *saved, nil
}

// RecoverMissedClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecoverMissedClockOut(ctx context.Context, emp employee.Employee, now time.Time) (*attendance.Event, error) {
	def, err := s.calendar.Lookup(emp.Shift)
	if err != nil {
		return nil, err
	}

	return s.appendWithRetry(ctx, emp.ID, func(last *attendance.Event) (*attendance.Event, error) {
		if !IsStale(last, now, def) {
			return nil, nil
		}
		note := attendance.MissedClockOutNote
		return &attendance.Event{
			Kind:       attendance.KindAutoClockOut,
			OccurredAt: now,
			Note:       &note,
		}, nil
	})
}

// RecoverAll implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecoverAll(ctx context.Context, now time.Time) (int, error) {
	// Anything opened after the shortest maximum cannot be stale yet.
	shortest := math.MaxInt
	for _, def := range s.calendar.Definitions() {
		shortest = min(shortest, def.MaxOpenMinutes)
	}
	cutoff := now.Add(-time.Duration(shortest) * time.Minute)

	open, err := s.events.ListOpenSince(ctx, cutoff)
	if err != nil {
		return 0, attendance.NewStorageError("list open clock-ins", err)
	}

	recovered := 0
	for _, last := range open {
		if err := ctx.Err(); err != nil {
			return recovered, err
		}

		emp, err := s.getEmployee(ctx, last.EmployeeID)
		if err != nil {
			slog.Error("Failed to load employee for clock-out recovery", "employee_id", last.EmployeeID, "error", err)
			continue
		}

		ev, err := s.RecoverMissedClockOut(ctx, emp, now)
		if err != nil {
			slog.Error("Failed to recover missed clock-out", "employee_id", emp.ID, "error", err)
			continue
		}
		if ev != nil {
			recovered++
			slog.Info("Recovered missed clock-out",
				"employee_id", emp.ID,
				"clock_in_at", last.OccurredAt,
				"event_id", ev.ID,
			)
		}
	}

	return recovered, nil
}

// RecoverEmployee implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecoverEmployee(ctx context.Context, employeeID string) (*attendance.EventResponse, error) {
	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	ev, err := s.RecoverMissedClockOut(ctx, emp, s.now())
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, nil
	}

	withEmployee(ev, emp)
	resp := attendance.NewEventResponse(*ev, s.calendar.Location())
	return &resp, nil
}

// Clock implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Clock(ctx context.Context, employeeID string, req attendance.ClockRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	ev, err := s.SubmitClock(ctx, emp, attendance.Kind(req.Type), s.now(), req.Location.ToLocation())
	if err != nil {
		return attendance.EventResponse{}, err
	}

	withEmployee(&ev, emp)
	return attendance.NewEventResponse(ev, s.calendar.Location()), nil
}

// ManualClock implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ManualClock(ctx context.Context, req attendance.ManualClockRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	emp, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	def, err := s.calendar.Lookup(emp.Shift)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	now := s.now()
	at := req.OccurredAt(now)
	if at.After(now) {
		return attendance.EventResponse{}, attendance.ErrTimestampInFuture
	}

	kind := attendance.Kind(req.Type)
	saved, err := s.appendWithRetry(ctx, emp.ID, func(last *attendance.Event) (*attendance.Event, error) {
		if err := CheckSequence(last, kind); err != nil {
			return nil, err
		}
		if last != nil && at.Before(last.OccurredAt) {
			return nil, attendance.ErrTimestampBeforeLast
		}

		ev := &attendance.Event{
			Kind:       kind,
			OccurredAt: at,
			Location:   req.Location.ToLocation(),
		}
		note := attendance.ManualClockOutNote
		if kind == attendance.KindClockIn {
			note = attendance.ManualClockInNote
			ev.LateMinutes = s.calendar.LateMinutes(def, at)
		}
		ev.Note = &note
		return ev, nil
	})
	if err != nil {
		return attendance.EventResponse{}, err
	}

	withEmployee(saved, emp)
	return attendance.NewEventResponse(*saved, s.calendar.Location()), nil
}

// GetStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStatus(ctx context.Context, employeeID string) (attendance.StatusResponse, error) {
	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	def, err := s.calendar.Lookup(emp.Shift)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	last, err := s.events.GetLastByEmployee(ctx, emp.ID)
	if err != nil {
		return attendance.StatusResponse{}, attendance.NewStorageError("get last event", err)
	}

	now := s.now()
	next := NextLegalKind(last)
	resp := attendance.StatusResponse{
		EmployeeID:        emp.ID,
		Shift:             shift.NewShiftResponse(def),
		NextType:          next,
		ClockInWindowOpen: next == attendance.KindClockIn && s.calendar.IsWithinClockInWindow(def, now),
	}
	if last != nil {
		withEmployee(last, emp)
		lastResp := attendance.NewEventResponse(*last, s.calendar.Location())
		resp.LastEvent = &lastResp
	}
	if minutes, ok := OpenMinutes(last, now); ok {
		resp.OpenMinutes = &minutes
	}

	return resp, nil
}

// GetMyEvents implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyEvents(ctx context.Context, employeeID string, filter attendance.EventFilter) (attendance.ListEventResponse, error) {
	filter.EmployeeID = &employeeID
	return s.ListEvents(ctx, filter)
}

// ListEvents implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListEvents(ctx context.Context, filter attendance.EventFilter) (attendance.ListEventResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListEventResponse{}, err
	}
	filter.Resolve(s.calendar.Location())

	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return attendance.ListEventResponse{}, attendance.NewStorageError("list events", err)
	}

	records := make([]attendance.EventResponse, 0, len(events))
	for _, ev := range events {
		records = append(records, attendance.NewEventResponse(ev, s.calendar.Location()))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	offset := (filter.Page - 1) * filter.Limit
	showing := fmt.Sprintf("0 of %d", total)
	if int64(offset) < total {
		showing = fmt.Sprintf("%d-%d of %d", offset+1, min(int64(offset+filter.Limit), total), total)
	}

	return attendance.ListEventResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Records:    records,
	}, nil
}

// Export implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Export(ctx context.Context, filter attendance.EventFilter, format attendance.ExportFormat) (attendance.ExportFile, error) {
	if !format.IsValid() {
		return attendance.ExportFile{}, attendance.ErrInvalidFormat
	}
	// Exports are never paginated.
	filter.Page, filter.Limit = 0, 0
	if err := filter.Validate(); err != nil {
		return attendance.ExportFile{}, err
	}
	filter.Resolve(s.calendar.Location())

	events, err := s.events.ListAll(ctx, filter)
	if err != nil {
		return attendance.ExportFile{}, attendance.NewStorageError("list events for export", err)
	}

	rows := exportRows(events, s.calendar.Location())
	switch format {
	case attendance.ExportXLSX:
		return renderXLSX(rows)
	default:
		return renderCSV(rows)
	}
}

// DeleteAllEvents implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAllEvents(ctx context.Context) (int64, error) {
	deleted, err := s.events.DeleteAll(ctx)
	if err != nil {
		return 0, attendance.NewStorageError("delete events", err)
	}
	slog.Warn("All attendance records deleted", "count", deleted)
	return deleted, nil
}

// appendWithRetry reads the employee's last event, lets decide build the next
// one and appends it in the slot right after last. When another writer takes
// that slot first the whole read-decide-write cycle runs again. A nil event
// from decide means there is nothing to write.
func (s *AttendanceServiceImpl) appendWithRetry(ctx context.Context, employeeID string, decide func(last *attendance.Event) (*attendance.Event, error)) (*attendance.Event, error) {
	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		last, err := s.events.GetLastByEmployee(ctx, employeeID)
		if err != nil {
			return nil, attendance.NewStorageError("get last event", err)
		}

		ev, err := decide(last)
		if err != nil || ev == nil {
			return nil, err
		}

		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate event id: %w", err)
		}

		var expectedLastSeq int64
		if last != nil {
			expectedLastSeq = last.Seq
		}
		ev.ID = id.String()
		ev.EmployeeID = employeeID
		ev.Seq = expectedLastSeq + 1

		saved, err := s.events.Append(ctx, *ev, expectedLastSeq)
		if errors.Is(err, attendance.ErrConcurrentClock) {
			slog.Warn("Attendance sequence taken by a concurrent request, retrying",
				"employee_id", employeeID,
				"seq", ev.Seq,
				"attempt", attempt,
			)
			continue
		}
		if err != nil {
			return nil, attendance.NewStorageError("append event", err)
		}

		s.publish(saved)
		return &saved, nil
	}

	return nil, attendance.ErrConcurrentClock
}

func (s *AttendanceServiceImpl) publish(ev attendance.Event) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(ev.EmployeeID, sse.Event{
		Event: EventRecorded,
		Data:  attendance.NewEventResponse(ev, s.calendar.Location()),
	})
}

func (s *AttendanceServiceImpl) getEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, attendance.NewStorageError("get employee", err)
	}
	return emp, nil
}

func withEmployee(ev *attendance.Event, emp employee.Employee) {
	ev.EmployeeName = &emp.Name
	shiftID := emp.Shift
	ev.EmployeeShift = &shiftID
}
