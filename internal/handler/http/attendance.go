package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Clock(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	DeleteAll(w http.ResponseWriter, r *http.Request)
	ManualClock(w http.ResponseWriter, r *http.Request)
	Recover(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Clock implements AttendanceHandler.
func (h *attendanceHandlerImpl) Clock(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("Failed to decode clock request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.Clock(r.Context(), middleware.EmployeeID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Clock in successful"
	if result.Type == attendance.KindClockOut {
		message = "Clock out successful"
	}
	response.Created(w, message, result)
}

// Status implements AttendanceHandler.
func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetStatus(r.Context(), middleware.EmployeeID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	filter := parseEventFilter(r)
	filter.EmployeeID = nil

	result, err := h.attendanceService.GetMyEvents(r.Context(), middleware.EmployeeID(r), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ListEvents(r.Context(), parseEventFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Export implements AttendanceHandler.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	format := attendance.ExportCSV
	if f := r.URL.Query().Get("format"); f != "" {
		format = attendance.ExportFormat(f)
	}

	file, err := h.attendanceService.Export(r.Context(), parseEventFilter(r), format)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, file.Filename, file.ContentType, file.Data)
}

// DeleteAll implements AttendanceHandler.
func (h *attendanceHandlerImpl) DeleteAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.attendanceService.DeleteAllEvents(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "All attendance records deleted", map[string]int64{"deleted": deleted})
}

// ManualClock implements AttendanceHandler.
func (h *attendanceHandlerImpl) ManualClock(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.ManualClock(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Clock in recorded"
	if result.Type == attendance.KindClockOut {
		message = "Clock out recorded"
	}
	response.Created(w, message, result)
}

// Recover implements AttendanceHandler.
func (h *attendanceHandlerImpl) Recover(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.RecoverEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result == nil {
		response.SuccessWithMessage(w, "No missed clock-out to recover", nil)
		return
	}
	response.Created(w, "Missed clock-out recovered", result)
}

// parseEventFilter reads filters and pagination from the query string. Values
// are validated by the service.
func parseEventFilter(r *http.Request) attendance.EventFilter {
	query := r.URL.Query()
	filter := attendance.EventFilter{}

	optional := func(key string) *string {
		if v := query.Get(key); v != "" {
			return &v
		}
		return nil
	}
	filter.EmployeeID = optional("employee_id")
	filter.Type = optional("type")
	filter.Shift = optional("shift")
	filter.StartDate = optional("start_date")
	filter.EndDate = optional("end_date")

	if p := query.Get("page"); p != "" {
		if page, err := strconv.Atoi(p); err == nil {
			filter.Page = page
		}
	}
	if l := query.Get("limit"); l != "" {
		if limit, err := strconv.Atoi(l); err == nil {
			filter.Limit = limit
		}
	}

	return filter
}
