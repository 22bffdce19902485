package employee

import "context"

// EmployeeService defines administrative operations on employee accounts
type EmployeeService interface {
	List(ctx context.Context) ([]EmployeeResponse, error)
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (EmployeeResponse, error)
	// Delete removes an account; actorID is the administrator performing it
	Delete(ctx context.Context, id string, actorID string) error
}
