package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
)

// AttendanceJobs holds periodic attendance maintenance.
type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	recoveryInterval  time.Duration
	now               func() time.Time
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, recoveryInterval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		recoveryInterval:  recoveryInterval,
		now:               time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("recover_missed_clock_outs", j.recoveryInterval, j.RecoverMissedClockOuts)
}

// RecoverMissedClockOuts closes every clock-in that stayed open past its shift's
// maximum. Failures for single employees are logged by the service and picked
// up again on the next tick.
func (j *AttendanceJobs) RecoverMissedClockOuts(ctx context.Context) error {
	slog.Debug("Cron: Starting missed clock-out recovery job")

	recovered, err := j.attendanceService.RecoverAll(ctx, j.now())
	if err != nil {
		return fmt.Errorf("failed to recover missed clock-outs: %w", err)
	}

	if recovered == 0 {
		slog.Debug("Cron: No stale clock-ins found")
		return nil
	}

	slog.Info("Cron: Missed clock-out recovery completed", "recovered", recovered)
	return nil
}
