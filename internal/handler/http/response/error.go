package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid username or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrUsernameExists):
		Conflict(w, "USERNAME_EXISTS", "Username already exists")
	case errors.Is(err, employee.ErrCannotDeleteSelf):
		BadRequest(w, "You cannot delete your own account", nil)
	case errors.Is(err, employee.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors. Sequence violations carry the reason
	// ("already clocked in" / "not clocked in yet") in the message.
	case errors.Is(err, attendance.ErrSequenceViolation):
		Conflict(w, "SEQUENCE_VIOLATION", err.Error())
	case errors.Is(err, attendance.ErrOutOfWindow):
		UnprocessableEntity(w, "OUT_OF_WINDOW", err.Error())
	case errors.Is(err, shift.ErrUnknownShift):
		UnprocessableEntity(w, "UNKNOWN_SHIFT", "No valid shift is assigned to this employee")
	case errors.Is(err, attendance.ErrConcurrentClock):
		Conflict(w, "CONCURRENT_UPDATE", "Attendance changed concurrently, please retry")
	case errors.Is(err, attendance.ErrInvalidKind):
		BadRequest(w, "Invalid attendance type", nil)
	case errors.Is(err, attendance.ErrInvalidFormat):
		BadRequest(w, "Export format must be csv or xlsx", nil)
	case errors.Is(err, attendance.ErrTimestampInFuture):
		BadRequest(w, "Timestamp must not be in the future", nil)
	case errors.Is(err, attendance.ErrTimestampBeforeLast):
		Conflict(w, "SEQUENCE_VIOLATION", "Timestamp must not precede the employee's last record")
	case errors.Is(err, attendance.ErrStorageFailure):
		slog.Error("Attendance storage failure", "error", err)
		ServiceUnavailable(w, "STORAGE_FAILURE", "Attendance storage is unavailable, please try again later")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
