package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestEmployee(t *testing.T, db *database.DB, username string, shiftID shift.ID) employee.Employee {
	t.Helper()
	repo := postgresql.NewEmployeeRepository(db)

	emp, err := repo.Create(context.Background(), employee.Employee{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Username:     username,
		Name:         "Test " + username,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         employee.RoleEmployee,
		Shift:        shiftID,
	})
	require.NoError(t, err)
	return emp
}

func newEvent(emp employee.Employee, kind attendance.Kind, at time.Time) attendance.Event {
	return attendance.Event{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: emp.ID,
		Kind:       kind,
		OccurredAt: at,
	}
}

func TestEmployeeRepository_CRUD(t *testing.T) {
	db := newTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(db)
	ctx := context.Background()

	emp := createTestEmployee(t, db, "alice", shift.Morning)

	_, err := repo.Create(ctx, employee.Employee{
		ID: uuid.Must(uuid.NewV7()).String(), Username: "alice", Name: "Dup", PasswordHash: "x",
		Role: employee.RoleEmployee, Shift: shift.Morning,
	})
	assert.ErrorIs(t, err, employee.ErrUsernameExists)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, got.ID)
	assert.Equal(t, shift.Morning, got.Shift)

	updated, err := repo.UpdateShift(ctx, emp.ID, shift.Night)
	require.NoError(t, err)
	assert.Equal(t, shift.Night, updated.Shift)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	require.NoError(t, repo.Delete(ctx, emp.ID))
	assert.ErrorIs(t, repo.Delete(ctx, emp.ID), employee.ErrEmployeeNotFound)
}

func TestAttendanceEventRepository_AppendEnforcesSequence(t *testing.T) {
	db := newTestDatabase(t)
	repo := postgresql.NewAttendanceEventRepository(db)
	ctx := context.Background()
	emp := createTestEmployee(t, db, "bob", shift.Morning)
	clockIn := time.Date(2024, 3, 11, 5, 30, 0, 0, time.UTC)

	last, err := repo.GetLastByEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Nil(t, last)

	saved, err := repo.Append(ctx, newEvent(emp, attendance.KindClockIn, clockIn), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Seq)

	// Stale expectation
	_, err = repo.Append(ctx, newEvent(emp, attendance.KindClockIn, clockIn), 0)
	assert.ErrorIs(t, err, attendance.ErrConcurrentClock)

	ev := newEvent(emp, attendance.KindClockOut, clockIn.Add(8*time.Hour))
	ev.Location = &attendance.Location{Latitude: -6.2, Longitude: 106.8}
	saved, err = repo.Append(ctx, ev, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.Seq)

	last, err = repo.GetLastByEmployee(ctx, emp.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, attendance.KindClockOut, last.Kind)
	require.NotNil(t, last.Location)
	assert.InDelta(t, 106.8, last.Location.Longitude, 1e-9)
}

func TestAttendanceEventRepository_ConcurrentAppend(t *testing.T) {
	db := newTestDatabase(t)
	repo := postgresql.NewAttendanceEventRepository(db)
	emp := createTestEmployee(t, db, "carol", shift.Middle)
	at := time.Date(2024, 3, 11, 13, 30, 0, 0, time.UTC)

	const writers = 5
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Append(context.Background(), newEvent(emp, attendance.KindClockIn, at), 0)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrConcurrentClock)
	}
	assert.Equal(t, 1, succeeded)
}

func TestAttendanceEventRepository_ListAndOpen(t *testing.T) {
	db := newTestDatabase(t)
	repo := postgresql.NewAttendanceEventRepository(db)
	ctx := context.Background()
	morning := createTestEmployee(t, db, "dave", shift.Morning)
	night := createTestEmployee(t, db, "erin", shift.Night)
	base := time.Date(2024, 3, 11, 5, 30, 0, 0, time.UTC)

	_, err := repo.Append(ctx, newEvent(morning, attendance.KindClockIn, base), 0)
	require.NoError(t, err)
	_, err = repo.Append(ctx, newEvent(night, attendance.KindClockIn, base.Add(16*time.Hour)), 0)
	require.NoError(t, err)
	_, err = repo.Append(ctx, newEvent(night, attendance.KindClockOut, base.Add(24*time.Hour)), 1)
	require.NoError(t, err)

	nightShift := string(shift.Night)
	events, total, err := repo.List(ctx, attendance.EventFilter{Shift: &nightShift, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, events, 2)
	assert.Equal(t, attendance.KindClockOut, events[0].Kind)
	require.NotNil(t, events[0].EmployeeName)
	assert.Equal(t, "Test erin", *events[0].EmployeeName)

	from := base.Add(time.Hour)
	all, err := repo.ListAll(ctx, attendance.EventFilter{From: &from})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := repo.ListOpenSince(ctx, base.Add(12*time.Hour))
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, morning.ID, open[0].EmployeeID)

	deleted, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}
