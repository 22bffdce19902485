package attendance

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
)

// memoryEventRepository keeps per-employee logs and enforces the sequence slot
// the same way the unique (employee_id, seq) constraint does in Postgres.
type memoryEventRepository struct {
	mu   sync.Mutex
	logs map[string][]attendance.Event

	getErr    error
	appendErr error

	// beforeAppend runs once, outside the lock, before the next Append is applied.
	beforeAppend func()
	appendCalls  int
}

func newMemoryEventRepository() *memoryEventRepository {
	return &memoryEventRepository{logs: make(map[string][]attendance.Event)}
}

func (r *memoryEventRepository) GetLastByEmployee(ctx context.Context, employeeID string) (*attendance.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	log := r.logs[employeeID]
	if len(log) == 0 {
		return nil, nil
	}
	last := log[len(log)-1]
	return &last, nil
}

func (r *memoryEventRepository) Append(ctx context.Context, ev attendance.Event, expectedLastSeq int64) (attendance.Event, error) {
	if hook := r.takeHook(); hook != nil {
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendCalls++
	if r.appendErr != nil {
		return attendance.Event{}, r.appendErr
	}

	log := r.logs[ev.EmployeeID]
	var lastSeq int64
	if len(log) > 0 {
		lastSeq = log[len(log)-1].Seq
	}
	if lastSeq != expectedLastSeq {
		return attendance.Event{}, attendance.ErrConcurrentClock
	}

	ev.Seq = expectedLastSeq + 1
	ev.CreatedAt = time.Now()
	r.logs[ev.EmployeeID] = append(log, ev)
	return ev, nil
}

func (r *memoryEventRepository) takeHook() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	hook := r.beforeAppend
	r.beforeAppend = nil
	return hook
}

// seed appends directly, bypassing validation.
func (r *memoryEventRepository) seed(employeeID string, kind attendance.Kind, at time.Time) attendance.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := r.logs[employeeID]
	ev := attendance.Event{
		ID:         employeeID + "-" + string(kind) + "-" + at.Format(time.RFC3339),
		EmployeeID: employeeID,
		Seq:        int64(len(log) + 1),
		Kind:       kind,
		OccurredAt: at,
	}
	r.logs[employeeID] = append(log, ev)
	return ev
}

func (r *memoryEventRepository) kinds(employeeID string) []attendance.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.Kind
	for _, ev := range r.logs[employeeID] {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *memoryEventRepository) all(filter attendance.EventFilter) []attendance.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.Event
	for _, log := range r.logs {
		for _, ev := range log {
			if filter.EmployeeID != nil && ev.EmployeeID != *filter.EmployeeID {
				continue
			}
			if filter.Type != nil && string(ev.Kind) != *filter.Type {
				continue
			}
			if filter.From != nil && ev.OccurredAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && ev.OccurredAt.After(*filter.To) {
				continue
			}
			out = append(out, ev)
		}
	}
	slices.SortFunc(out, func(a, b attendance.Event) int {
		return b.OccurredAt.Compare(a.OccurredAt)
	})
	return out
}

func (r *memoryEventRepository) List(ctx context.Context, filter attendance.EventFilter) ([]attendance.Event, int64, error) {
	if r.getErr != nil {
		return nil, 0, r.getErr
	}
	out := r.all(filter)
	total := int64(len(out))
	start := min((filter.Page-1)*filter.Limit, len(out))
	end := min(start+filter.Limit, len(out))
	return out[start:end], total, nil
}

func (r *memoryEventRepository) ListAll(ctx context.Context, filter attendance.EventFilter) ([]attendance.Event, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.all(filter), nil
}

func (r *memoryEventRepository) ListOpenSince(ctx context.Context, openedBefore time.Time) ([]attendance.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	var out []attendance.Event
	for _, log := range r.logs {
		if len(log) == 0 {
			continue
		}
		last := log[len(log)-1]
		if last.Kind == attendance.KindClockIn && !last.OccurredAt.After(openedBefore) {
			out = append(out, last)
		}
	}
	return out, nil
}

func (r *memoryEventRepository) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, log := range r.logs {
		n += int64(len(log))
	}
	r.logs = make(map[string][]attendance.Event)
	return n, nil
}

type memoryEmployeeRepository struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
	getErr    error
}

func newMemoryEmployeeRepository(emps ...employee.Employee) *memoryEmployeeRepository {
	r := &memoryEmployeeRepository{employees: make(map[string]employee.Employee)}
	for _, e := range emps {
		r.employees[e.ID] = e
	}
	return r
}

func (r *memoryEmployeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *memoryEmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return employee.Employee{}, r.getErr
	}
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *memoryEmployeeRepository) GetByUsername(ctx context.Context, username string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, emp := range r.employees {
		if emp.Username == username {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *memoryEmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]employee.Employee, 0, len(r.employees))
	for _, emp := range r.employees {
		out = append(out, emp)
	}
	return out, nil
}

func (r *memoryEmployeeRepository) UpdateShift(ctx context.Context, id string, shiftID shift.ID) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	emp.Shift = shiftID
	r.employees[id] = emp
	return emp, nil
}

func (r *memoryEmployeeRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	return nil
}
