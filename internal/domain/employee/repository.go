package employee

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
)

type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUsername(ctx context.Context, username string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	UpdateShift(ctx context.Context, id string, shiftID shift.ID) (Employee, error)
	Delete(ctx context.Context, id string) error
}
