package provider

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("provider not found")
	ErrEmptyName = errors.New("name cannot be empty")
)

// Provider represents a bookable service provider (a barber).
type Provider struct {
	ID        string
	Name      string
	Specialty string
	CreatedAt time.Time
}

// Filter defines parameters for listing providers.
type Filter struct {
	Keyword  string // Search in Name or Specialty
	Page     int
	PageSize int
}
