package http

import (
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	shiftService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/shift"
)

type ShiftHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	calendar *shiftService.Calendar
}

func NewShiftHandler(calendar *shiftService.Calendar) ShiftHandler {
	return &shiftHandlerImpl{calendar: calendar}
}

// List returns the configured shifts and their clock-in windows.
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	defs := h.calendar.Definitions()
	result := make([]shift.ShiftResponse, 0, len(defs))
	for _, d := range defs {
		result = append(result, shift.NewShiftResponse(d))
	}
	response.Success(w, map[string]interface{}{
		"timezone": h.calendar.Location().String(),
		"shifts":   result,
	})
}
