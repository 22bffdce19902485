package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttendanceService struct {
	attendance.AttendanceService
	calls     []time.Time
	recovered int
	err       error
}

func (s *stubAttendanceService) RecoverAll(ctx context.Context, now time.Time) (int, error) {
	s.calls = append(s.calls, now)
	return s.recovered, s.err
}

func TestAttendanceJobs_RecoverMissedClockOuts(t *testing.T) {
	now := time.Date(2024, 3, 11, 18, 0, 0, 0, time.UTC)
	svc := &stubAttendanceService{recovered: 2}
	jobs := NewAttendanceJobs(svc, time.Minute)
	jobs.now = func() time.Time { return now }

	require.NoError(t, jobs.RecoverMissedClockOuts(context.Background()))
	assert.Equal(t, []time.Time{now}, svc.calls)
}

func TestAttendanceJobs_RecoverMissedClockOuts_Error(t *testing.T) {
	svc := &stubAttendanceService{err: attendance.ErrStorageFailure}
	jobs := NewAttendanceJobs(svc, time.Minute)

	err := jobs.RecoverMissedClockOuts(context.Background())
	assert.True(t, errors.Is(err, attendance.ErrStorageFailure))
}

func TestAttendanceJobs_RegisterJobs(t *testing.T) {
	s := NewScheduler()
	NewAttendanceJobs(&stubAttendanceService{}, 90*time.Second).RegisterJobs(s)

	require.Len(t, s.jobs, 1)
	assert.Equal(t, "recover_missed_clock_outs", s.jobs[0].Name)
	assert.Equal(t, 90*time.Second, s.jobs[0].Interval)
}
