package shift

// ShiftResponse describes a shift and its clock-in window.
type ShiftResponse struct {
	ID                string `json:"id"`
	Label             string `json:"label"`
	StartTime         string `json:"start_time"`
	ClockInOpensAt    string `json:"clock_in_opens_at"`
	AllowEarlyMinutes int    `json:"allow_early_minutes"`
	MaxOpenMinutes    int    `json:"max_open_minutes"`
}

// NewShiftResponse maps a definition to its API shape.
func NewShiftResponse(d Definition) ShiftResponse {
	return ShiftResponse{
		ID:                string(d.ID),
		Label:             d.ID.Label(),
		StartTime:         d.StartClock(),
		ClockInOpensAt:    FormatClock(d.StartMinuteOfDay - d.AllowEarlyMinutes),
		AllowEarlyMinutes: d.AllowEarlyMinutes,
		MaxOpenMinutes:    d.MaxOpenMinutes,
	}
}
