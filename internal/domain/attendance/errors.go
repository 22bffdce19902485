package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrSequenceViolation = errors.New("clock request out of sequence")
	ErrAlreadyClockedIn  = fmt.Errorf("%w: already clocked in", ErrSequenceViolation)
	ErrNotClockedIn      = fmt.Errorf("%w: not clocked in yet", ErrSequenceViolation)

	ErrOutOfWindow = errors.New("clock-in is outside the allowed window for this shift")

	// ErrConcurrentClock is returned by EventRepository.Append when another event
	// took the expected sequence slot first.
	ErrConcurrentClock = errors.New("attendance changed concurrently, please retry")

	ErrStorageFailure = errors.New("attendance storage unavailable")

	ErrInvalidKind         = errors.New("invalid attendance type")
	ErrInvalidFormat       = errors.New("export format must be csv or xlsx")
	ErrTimestampInFuture   = errors.New("timestamp must not be in the future")
	ErrTimestampBeforeLast = errors.New("timestamp must not precede the employee's last record")
)

// StorageError marks a failure of the persistence collaborator. It matches both
// ErrStorageFailure and the underlying cause with errors.Is.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorageFailure, e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageFailure, e.Err}
}

// NewStorageError wraps err unless it is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
