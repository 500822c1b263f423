package catalog

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("service not found")
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")
	ErrInvalidPrice    = errors.New("price cannot be negative")
)

// Service is a bookable offering (e.g. haircut, beard trim).
// Duration is not required to be slot-aligned; the booking path handles
// services that span multiple display slots.
type Service struct {
	ID              string
	Name            string
	PriceCents      int64
	DurationMinutes int
	CreatedAt       time.Time
}

// Duration returns the service length as a time.Duration.
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// Filter defines parameters for listing services.
type Filter struct {
	Keyword  string
	Page     int
	PageSize int
}
