package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, username, name, password_hash, role, shift, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(&e.ID, &e.Username, &e.Name, &e.PasswordHash, &e.Role, &e.Shift, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// notFoundOr maps a missing row to ErrEmployeeNotFound and wraps anything else.
func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
		return employee.ErrEmployeeNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (id, username, name, password_hash, role, shift)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		emp.ID, emp.Username, emp.Name, emp.PasswordHash, string(emp.Role), string(emp.Shift),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrUsernameExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		return employee.Employee{}, notFoundOr(err, "failed to get employee with id %s", id)
	}
	return emp, nil
}

// GetByUsername implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByUsername(ctx context.Context, username string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE username = $1`
	emp, err := scanEmployee(q.QueryRow(ctx, query, username))
	if err != nil {
		return employee.Employee{}, notFoundOr(err, "failed to get employee by username")
	}
	return emp, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

// UpdateShift implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateShift(ctx context.Context, id string, shiftID shift.ID) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET shift = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + employeeColumns

	emp, err := scanEmployee(q.QueryRow(ctx, query, string(shiftID), id))
	if err != nil {
		return employee.Employee{}, notFoundOr(err, "failed to update shift for employee with id %s", id)
	}
	return emp, nil
}

// Delete implements employee.EmployeeRepository. The employee's attendance
// events are removed in the same transaction.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	return WithTransaction(ctx, e.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, e.db)

		if _, err := q.Exec(txCtx, `DELETE FROM attendance_events WHERE employee_id = $1`, id); err != nil {
			return notFoundOr(err, "failed to delete attendance events of employee %s", id)
		}

		tag, err := q.Exec(txCtx, `DELETE FROM employees WHERE id = $1`, id)
		if err != nil {
			return notFoundOr(err, "failed to delete employee with id %s", id)
		}
		if tag.RowsAffected() == 0 {
			return employee.ErrEmployeeNotFound
		}
		return nil
	})
}
