package employee

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryEmployeeRepository struct {
	employees map[string]employee.Employee
}

func newMemoryEmployeeRepository() *memoryEmployeeRepository {
	return &memoryEmployeeRepository{employees: make(map[string]employee.Employee)}
}

func (r *memoryEmployeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.Username == emp.Username {
			return employee.Employee{}, employee.ErrUsernameExists
		}
	}
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *memoryEmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *memoryEmployeeRepository) GetByUsername(ctx context.Context, username string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.Username == username {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *memoryEmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, e)
	}
	return out, nil
}

func (r *memoryEmployeeRepository) UpdateShift(ctx context.Context, id string, shiftID shift.ID) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	emp.Shift = shiftID
	r.employees[id] = emp
	return emp, nil
}

func (r *memoryEmployeeRepository) Delete(ctx context.Context, id string) error {
	if _, ok := r.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	return nil
}

func newTestEmployeeService() (*EmployeeServiceImpl, *memoryEmployeeRepository) {
	repo := newMemoryEmployeeRepository()
	svc := NewEmployeeService(repo).(*EmployeeServiceImpl)
	svc.bcryptCost = bcrypt.MinCost
	return svc, repo
}

func TestEmployeeService_Create(t *testing.T) {
	svc, repo := newTestEmployeeService()

	resp, err := svc.Create(context.Background(), employee.CreateEmployeeRequest{
		Username: "  alice ",
		Password: "password123",
		Name:     "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "morning", resp.Shift)
	assert.Equal(t, "employee", resp.Role)
	assert.True(t, validator.IsValidUUID(resp.ID))

	stored := repo.employees[resp.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestEmployeeService_Create_DuplicateUsername(t *testing.T) {
	svc, _ := newTestEmployeeService()
	req := employee.CreateEmployeeRequest{Username: "alice", Password: "password123", Name: "Alice"}

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrUsernameExists)
}

func TestEmployeeService_Create_Validation(t *testing.T) {
	svc, repo := newTestEmployeeService()

	_, err := svc.Create(context.Background(), employee.CreateEmployeeRequest{
		Username: "a",
		Password: "short",
		Shift:    "graveyard",
		Role:     "owner",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := verrs.ToMap()
	for _, f := range []string{"username", "password", "name", "shift", "role"} {
		assert.Contains(t, fields, f)
	}
	assert.Empty(t, repo.employees)
}

func TestEmployeeService_UpdateShift(t *testing.T) {
	svc, _ := newTestEmployeeService()
	created, err := svc.Create(context.Background(), employee.CreateEmployeeRequest{Username: "bob", Password: "password123", Name: "Bob"})
	require.NoError(t, err)

	updated, err := svc.UpdateShift(context.Background(), employee.UpdateShiftRequest{ID: created.ID, Shift: "night"})
	require.NoError(t, err)
	assert.Equal(t, "night", updated.Shift)
	assert.Equal(t, "Night", updated.ShiftLabel)

	_, err = svc.UpdateShift(context.Background(), employee.UpdateShiftRequest{ID: created.ID, Shift: "evening"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = svc.UpdateShift(context.Background(), employee.UpdateShiftRequest{ID: "missing", Shift: "night"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeService_Delete(t *testing.T) {
	svc, repo := newTestEmployeeService()
	created, err := svc.Create(context.Background(), employee.CreateEmployeeRequest{Username: "carol", Password: "password123", Name: "Carol"})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), created.ID, created.ID)
	assert.ErrorIs(t, err, employee.ErrCannotDeleteSelf)

	require.NoError(t, svc.Delete(context.Background(), created.ID, "admin-1"))
	assert.Empty(t, repo.employees)

	err = svc.Delete(context.Background(), created.ID, "admin-1")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeService_List(t *testing.T) {
	svc, _ := newTestEmployeeService()
	_, err := svc.Create(context.Background(), employee.CreateEmployeeRequest{Username: "dave", Password: "password123", Name: "Dave", Shift: "middle"})
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "middle", list[0].Shift)
}
