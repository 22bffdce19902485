package employee

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
)

type Role string

const (
	RoleAdmin    Role = "admin"    // Manages employees and reviews attendance
	RoleEmployee Role = "employee" // Clocks in and out
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type Employee struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string
	Role         Role
	Shift        shift.ID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if the employee can use administrative endpoints
func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}
