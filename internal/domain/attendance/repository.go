package attendance

import (
	"context"
	"time"
)

// EventRepository persists the append-only attendance event log.
type EventRepository interface {
	// GetLastByEmployee returns the most recent event of an employee, or nil when there is none.
	GetLastByEmployee(ctx context.Context, employeeID string) (*Event, error)

	// Append stores ev as the event following expectedLastSeq (0 when the log is empty).
	// It returns ErrConcurrentClock when that slot is already taken.
	Append(ctx context.Context, ev Event, expectedLastSeq int64) (Event, error)

	// List retrieves events with filters and pagination, newest first.
	List(ctx context.Context, filter EventFilter) ([]Event, int64, error)

	// ListAll retrieves every event matching filter, newest first. Used for exports.
	ListAll(ctx context.Context, filter EventFilter) ([]Event, error)

	// ListOpenSince returns the latest event of every employee whose log ends with a
	// clock-in that occurred at or before openedBefore.
	ListOpenSince(ctx context.Context, openedBefore time.Time) ([]Event, error)

	// DeleteAll removes every event and reports how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}
