package appointment

import (
	"net/http"
	"time"

	"github.com/barberbook/barber-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "appointment not found")
	ErrProviderNotFound  = apperror.New(http.StatusNotFound, "provider not found")
	ErrServiceNotFound   = apperror.New(http.StatusNotFound, "service not found")
	ErrPastTime          = apperror.New(http.StatusBadRequest, "cannot book a time in the past")
	ErrDateBlocked       = apperror.New(http.StatusConflict, "provider is not available on this date")
	ErrOutsideHours      = apperror.New(http.StatusBadRequest, "requested time is outside working hours")
	ErrSlotConflict      = apperror.New(http.StatusConflict, "time slot already booked")
	ErrForbidden         = apperror.New(http.StatusForbidden, "appointment belongs to another customer")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "invalid status transition")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid appointment status")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// transitionMap lists the states a target status may be entered from.
// Cancelled is terminal: it never appears as a source.
var transitionMap = map[Status][]Status{
	StatusConfirmed: {StatusPending},
	StatusCancelled: {StatusPending, StatusConfirmed},
}

// ValidTransition reports whether an appointment may move from one status to another.
func ValidTransition(from, to Status) bool {
	allowed, ok := transitionMap[to]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}

// ParseStatus validates a wire-level status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Appointment is one committed reservation of a provider's time.
// The half-open interval [StartTime, EndTime) of every non-cancelled
// appointment must never overlap another one for the same provider.
type Appointment struct {
	ID           string
	ProviderID   string
	ProviderName string
	ServiceID    string
	ServiceName  string
	CustomerID   string
	StartTime    time.Time
	EndTime      time.Time
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Overlaps reports whether the appointment's interval intersects [start, end).
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return start.Before(a.EndTime) && a.StartTime.Before(end)
}

// Filter defines parameters for listing appointments.
type Filter struct {
	CustomerID string
	ProviderID string
	Status     string
	StartTime  *time.Time // Appointments ending after this time
	EndTime    *time.Time // Appointments starting before this time
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
