package attendance

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

type LocationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l *LocationDTO) validate(errs validator.ValidationErrors) validator.ValidationErrors {
	if l == nil {
		return errs
	}
	if !validator.IsInRange(l.Latitude, -90, 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "location.latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if !validator.IsInRange(l.Longitude, -180, 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "location.longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	return errs
}

// ToLocation converts the request location, keeping nil as nil.
func (l *LocationDTO) ToLocation() *Location {
	if l == nil {
		return nil
	}
	return &Location{Latitude: l.Latitude, Longitude: l.Longitude}
}

type ClockRequest struct {
	Type     string       `json:"type"`
	Location *LocationDTO `json:"location,omitempty"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	} else if !validator.IsInSlice(r.Type, []string{string(KindClockIn), string(KindClockOut)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be clockIn or clockOut",
		})
	}

	errs = r.Location.validate(errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ManualClockRequest lets an administrator record a clock-in or clock-out on
// behalf of an employee, outside the clock-in window.
type ManualClockRequest struct {
	EmployeeID string       `json:"employee_id"`
	Type       string       `json:"type"`
	Timestamp  *string      `json:"timestamp,omitempty"` // RFC3339, defaults to now
	Location   *LocationDTO `json:"location,omitempty"`
}

func (r *ManualClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	} else if !validator.IsInSlice(r.Type, []string{string(KindClockIn), string(KindClockOut)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be clockIn or clockOut",
		})
	}

	if r.Timestamp != nil {
		if _, ok := validator.IsValidDateTime(*r.Timestamp); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be an ISO8601 date-time, e.g. 2024-01-15T06:45:00+08:00",
			})
		}
	}

	errs = r.Location.validate(errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// OccurredAt returns the requested timestamp or now.
func (r *ManualClockRequest) OccurredAt(now time.Time) time.Time {
	if r.Timestamp == nil {
		return now
	}
	t, _ := validator.IsValidDateTime(*r.Timestamp)
	return t
}

// ========================================
// RESPONSE DTOs
// ========================================

type EventResponse struct {
	ID           string       `json:"id"`
	EmployeeID   string       `json:"employeeId"`
	EmployeeName string       `json:"employeeName,omitempty"`
	Shift        string       `json:"shift,omitempty"`
	Type         Kind         `json:"type"`
	Timestamp    string       `json:"timestamp"`
	Location     *LocationDTO `json:"location,omitempty"`
	LateMinutes  int          `json:"lateMinutes"`
	Note         *string      `json:"note,omitempty"`
}

// NewEventResponse maps an event to its API shape with timestamps in loc.
func NewEventResponse(ev Event, loc *time.Location) EventResponse {
	resp := EventResponse{
		ID:          ev.ID,
		EmployeeID:  ev.EmployeeID,
		Type:        ev.Kind,
		Timestamp:   ev.OccurredAt.In(loc).Format(time.RFC3339),
		LateMinutes: ev.LateMinutes,
		Note:        ev.Note,
	}
	if ev.EmployeeName != nil {
		resp.EmployeeName = *ev.EmployeeName
	}
	if ev.EmployeeShift != nil {
		resp.Shift = string(*ev.EmployeeShift)
	}
	if ev.Location != nil {
		resp.Location = &LocationDTO{Latitude: ev.Location.Latitude, Longitude: ev.Location.Longitude}
	}
	return resp
}

type StatusResponse struct {
	EmployeeID        string              `json:"employeeId"`
	Shift             shift.ShiftResponse `json:"shift"`
	LastEvent         *EventResponse      `json:"lastEvent,omitempty"`
	NextType          Kind                `json:"nextType"`
	ClockInWindowOpen bool                `json:"clockInWindowOpen"`
	OpenMinutes       *int                `json:"openMinutes,omitempty"`
}

type ListEventResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Records    []EventResponse `json:"records"`
}

// ========================================
// FILTER DTOs
// ========================================

type EventFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Type       *string `json:"type,omitempty"`
	Shift      *string `json:"shift,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Resolved by the service from StartDate/EndDate in the business time zone.
	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (f *EventFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Type != nil && !Kind(*f.Type).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be clockIn, clockOut or autoClockOut",
		})
	}

	if f.Shift != nil && !shift.ID(*f.Shift).IsKnown() {
		errs = append(errs, validator.ValidationError{
			Field:   "shift",
			Message: "shift must be morning, middle or night",
		})
	}

	var start, end time.Time
	var startOK, endOK bool
	if f.StartDate != nil {
		if start, startOK = validator.IsValidDate(*f.StartDate); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil {
		if end, endOK = validator.IsValidDate(*f.EndDate); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Resolve fills From/To: the start date at local midnight and the end date through 23:59:59.
func (f *EventFilter) Resolve(loc *time.Location) {
	if f.StartDate != nil {
		if d, err := time.ParseInLocation("2006-01-02", *f.StartDate, loc); err == nil {
			f.From = &d
		}
	}
	if f.EndDate != nil {
		if d, err := time.ParseInLocation("2006-01-02", *f.EndDate, loc); err == nil {
			to := d.AddDate(0, 0, 1).Add(-time.Second)
			f.To = &to
		}
	}
}

// ========================================
// EXPORT DTOs
// ========================================

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

func (f ExportFormat) IsValid() bool {
	return f == ExportCSV || f == ExportXLSX
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
