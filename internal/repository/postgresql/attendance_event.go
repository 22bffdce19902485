package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceEventRepository struct {
	db *database.DB
}

func NewAttendanceEventRepository(db *database.DB) attendance.EventRepository {
	return &attendanceEventRepository{db: db}
}

const eventColumns = `
	a.id, a.employee_id, a.seq, a.kind, a.occurred_at,
	a.latitude, a.longitude, a.late_minutes, a.note, a.created_at`

func scanEvent(row pgx.Row, withEmployee bool) (attendance.Event, error) {
	var (
		ev       attendance.Event
		lat, lng *float64
		name     *string
		shiftID  *string
	)
	dest := []interface{}{
		&ev.ID, &ev.EmployeeID, &ev.Seq, &ev.Kind, &ev.OccurredAt,
		&lat, &lng, &ev.LateMinutes, &ev.Note, &ev.CreatedAt,
	}
	if withEmployee {
		dest = append(dest, &name, &shiftID)
	}
	if err := row.Scan(dest...); err != nil {
		return attendance.Event{}, err
	}

	if lat != nil && lng != nil {
		ev.Location = &attendance.Location{Latitude: *lat, Longitude: *lng}
	}
	ev.EmployeeName = name
	if shiftID != nil {
		id := shift.ID(*shiftID)
		ev.EmployeeShift = &id
	}
	return ev, nil
}

// GetLastByEmployee implements attendance.EventRepository.
func (r *attendanceEventRepository) GetLastByEmployee(ctx context.Context, employeeID string) (*attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + eventColumns + `
		FROM attendance_events a
		WHERE a.employee_id = $1
		ORDER BY a.seq DESC
		LIMIT 1
	`

	ev, err := scanEvent(q.QueryRow(ctx, query, employeeID), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last attendance event: %w", err)
	}
	return &ev, nil
}

// Append implements attendance.EventRepository.
//
// The row is only inserted when the employee's highest seq still equals
// expectedLastSeq. Two writers that both pass that check collide on the
// (employee_id, seq) unique constraint instead.
func (r *attendanceEventRepository) Append(ctx context.Context, ev attendance.Event, expectedLastSeq int64) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_events (
			id, employee_id, seq, kind, occurred_at, latitude, longitude, late_minutes, note
		)
		SELECT $1::uuid, $2::uuid, $3::bigint + 1, $4::text, $5::timestamptz,
			$6::double precision, $7::double precision, $8::integer, $9::text
		WHERE (
			SELECT COALESCE(MAX(seq), 0) FROM attendance_events WHERE employee_id = $2::uuid
		) = $3::bigint
		RETURNING seq, created_at
	`

	var lat, lng *float64
	if ev.Location != nil {
		lat, lng = &ev.Location.Latitude, &ev.Location.Longitude
	}

	err := q.QueryRow(ctx, query,
		ev.ID, ev.EmployeeID, expectedLastSeq, string(ev.Kind), ev.OccurredAt.UTC(),
		lat, lng, ev.LateMinutes, ev.Note,
	).Scan(&ev.Seq, &ev.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return attendance.Event{}, attendance.ErrConcurrentClock
		}
		return attendance.Event{}, fmt.Errorf("failed to append attendance event: %w", err)
	}

	return ev, nil
}

// buildEventFilter turns an EventFilter into a WHERE clause over
// attendance_events a joined with employees e.
func buildEventFilter(filter attendance.EventFilter) (string, []interface{}) {
	clauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	add := func(clause string, value interface{}) {
		clauses = append(clauses, fmt.Sprintf(clause, argIdx))
		args = append(args, value)
		argIdx++
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		add("a.employee_id::text = $%d", *filter.EmployeeID)
	}
	if filter.Type != nil && *filter.Type != "" {
		add("a.kind = $%d", *filter.Type)
	}
	if filter.Shift != nil && *filter.Shift != "" {
		add("e.shift = $%d", *filter.Shift)
	}
	if filter.From != nil {
		add("a.occurred_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("a.occurred_at <= $%d", *filter.To)
	}

	return strings.Join(clauses, " AND "), args
}

func (r *attendanceEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance events: %w", err)
	}
	defer rows.Close()

	var events []attendance.Event
	for rows.Next() {
		ev, err := scanEvent(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance events: %w", err)
	}

	return events, nil
}

// List implements attendance.EventRepository.
func (r *attendanceEventRepository) List(ctx context.Context, filter attendance.EventFilter) ([]attendance.Event, int64, error) {
	q := GetQuerier(ctx, r.db)
	where, args := buildEventFilter(filter)

	countQuery := `
		SELECT COUNT(*)
		FROM attendance_events a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance events: %w", err)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 10
	}
	page := max(filter.Page, 1)

	selectQuery := fmt.Sprintf(`
		SELECT %s, e.name, e.shift
		FROM attendance_events a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.occurred_at DESC, a.seq DESC
		LIMIT $%d OFFSET $%d
	`, eventColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	events, err := r.queryEvents(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListAll implements attendance.EventRepository.
func (r *attendanceEventRepository) ListAll(ctx context.Context, filter attendance.EventFilter) ([]attendance.Event, error) {
	where, args := buildEventFilter(filter)

	query := fmt.Sprintf(`
		SELECT %s, e.name, e.shift
		FROM attendance_events a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.occurred_at DESC, a.seq DESC
	`, eventColumns, where)

	return r.queryEvents(ctx, query, args...)
}

// ListOpenSince implements attendance.EventRepository.
func (r *attendanceEventRepository) ListOpenSince(ctx context.Context, openedBefore time.Time) ([]attendance.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s, e.name, e.shift
		FROM (
			SELECT DISTINCT ON (employee_id) *
			FROM attendance_events
			ORDER BY employee_id, seq DESC
		) a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.kind = $1 AND a.occurred_at <= $2
		ORDER BY a.occurred_at
	`, eventColumns)

	return r.queryEvents(ctx, query, string(attendance.KindClockIn), openedBefore.UTC())
}

// DeleteAll implements attendance.EventRepository.
func (r *attendanceEventRepository) DeleteAll(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_events`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attendance events: %w", err)
	}
	return tag.RowsAffected(), nil
}
