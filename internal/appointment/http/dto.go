package http

import (
	"time"

	"github.com/barberbook/barber-booking-backend/internal/appointment"
	catHttp "github.com/barberbook/barber-booking-backend/internal/catalog/http"
	"github.com/barberbook/barber-booking-backend/internal/pkg/request"
	provHttp "github.com/barberbook/barber-booking-backend/internal/provider/http"
	"github.com/barberbook/barber-booking-backend/internal/schedule"
)

// ListAppointmentsRequest defines query parameters for listing appointments.
type ListAppointmentsRequest struct {
	request.ListParams
	CustomerID    string     `form:"customer_id" binding:"omitempty,uuid"`
	ProviderID    string     `form:"provider_id" binding:"omitempty,uuid"`
	Status        string     `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	StartTimeFrom *time.Time `form:"start_time_from" time_format:"2006-01-02T15:04:05Z07:00"`
	StartTimeTo   *time.Time `form:"start_time_to" time_format:"2006-01-02T15:04:05Z07:00"`
	SortBy        string     `form:"sort_by" binding:"omitempty,oneof=start_time end_time created_at status"`
}

type BookBody struct {
	ProviderID string `json:"provider_id" binding:"required,uuid"`
	ServiceID  string `json:"service_id" binding:"required,uuid"`
	CustomerID string `json:"customer_id" binding:"required,uuid"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
}

// Validate performs custom validation for BookBody.
func (r *BookBody) Validate() error {
	if _, err := time.Parse(schedule.DateLayout, r.Date); err != nil {
		return err
	}
	if _, err := schedule.ParseClock(r.Time); err != nil {
		return err
	}
	return nil
}

type CancelBody struct {
	CustomerID string `json:"customer_id" binding:"required,uuid"`
}

type UpdateStatusBody struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

type AppointmentResponse struct {
	ID         string               `json:"id"`
	Provider   provHttp.ProviderTag `json:"provider"`
	Service    catHttp.ServiceTag   `json:"service"`
	CustomerID string               `json:"customer_id"`
	StartTime  time.Time            `json:"start_time"`
	EndTime    time.Time            `json:"end_time"`
	Status     string               `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

func NewAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:         a.ID,
		Provider:   provHttp.ProviderTag{ID: a.ProviderID, Name: a.ProviderName},
		Service:    catHttp.ServiceTag{ID: a.ServiceID, Name: a.ServiceName},
		CustomerID: a.CustomerID,
		StartTime:  a.StartTime,
		EndTime:    a.EndTime,
		Status:     string(a.Status),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// SlotResponse is one display slot. Occupant fields are only populated on the
// admin day view.
type SlotResponse struct {
	Time      string `json:"time"` // Format: HH:MM
	Available bool   `json:"available"`
	BookedBy  string `json:"booked_by,omitempty"`
	ServiceID string `json:"service_id,omitempty"`
}

func newSlotResponses(slots []appointment.Slot, withOccupants bool) []SlotResponse {
	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = SlotResponse{
			Time:      s.StartTime.Format("15:04"),
			Available: s.Available,
		}
		if withOccupants {
			items[i].BookedBy = s.BookedBy
			items[i].ServiceID = s.ServiceID
		}
	}
	return items
}

type AvailabilityResponse struct {
	Available bool           `json:"available"`
	Reason    string         `json:"reason,omitempty"`
	Slots     []SlotResponse `json:"slots"`
}

func NewAvailabilityResponse(a *appointment.DayAvailability, withOccupants bool) AvailabilityResponse {
	return AvailabilityResponse{
		Available: a.Available,
		Reason:    a.Reason,
		Slots:     newSlotResponses(a.Slots, withOccupants),
	}
}

// DayScheduleEntry is one provider's row in the all-provider day view.
type DayScheduleEntry struct {
	Provider     provHttp.ProviderTag `json:"provider"`
	Availability AvailabilityResponse `json:"availability"`
}
