package http

import (
	"time"

	"github.com/barberbook/barber-booking-backend/internal/schedule"
)

type UpsertWorkingHoursBody struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	IsActive  bool   `json:"is_active"`
}

type BlockDateBody struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}

type WorkingHoursResponse struct {
	ID        string `json:"id"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
}

func NewWorkingHoursResponse(wh *schedule.WorkingHours) WorkingHoursResponse {
	return WorkingHoursResponse{
		ID:        wh.ID,
		Weekday:   wh.Weekday,
		StartTime: wh.StartTime,
		EndTime:   wh.EndTime,
		IsActive:  wh.IsActive,
	}
}

type BlockedDateResponse struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

func NewBlockedDateResponse(bd *schedule.BlockedDate) BlockedDateResponse {
	return BlockedDateResponse{
		ID:     bd.ID,
		Date:   bd.Date.Format(schedule.DateLayout),
		Reason: bd.Reason,
	}
}

type ProviderScheduleResponse struct {
	Hours   []WorkingHoursResponse `json:"working_hours"`
	Blocked []BlockedDateResponse  `json:"blocked_dates"`
}

func NewProviderScheduleResponse(s *schedule.ProviderSchedule) ProviderScheduleResponse {
	resp := ProviderScheduleResponse{
		Hours:   make([]WorkingHoursResponse, len(s.Hours)),
		Blocked: make([]BlockedDateResponse, len(s.Blocked)),
	}
	for i := range s.Hours {
		resp.Hours[i] = NewWorkingHoursResponse(&s.Hours[i])
	}
	for i := range s.Blocked {
		resp.Blocked[i] = NewBlockedDateResponse(&s.Blocked[i])
	}
	return resp
}

// parseDate parses a calendar-date path or body value.
func parseDate(s string) (time.Time, error) {
	return time.Parse(schedule.DateLayout, s)
}
