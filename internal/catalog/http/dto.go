package http

import (
	"time"

	"github.com/barberbook/barber-booking-backend/internal/catalog"
	"github.com/barberbook/barber-booking-backend/internal/pkg/request"
)

// ListServicesRequest defines query parameters for listing services.
type ListServicesRequest struct {
	request.ListParams
	Keyword string `form:"keyword"`
}

type CreateServiceBody struct {
	Name            string `json:"name" binding:"required"`
	PriceCents      int64  `json:"price_cents" binding:"min=0"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1"`
}

type UpdateServiceBody struct {
	Name            *string `json:"name"`
	PriceCents      *int64  `json:"price_cents"`
	DurationMinutes *int    `json:"duration_minutes"`
}

// ServiceTag is the compact service reference embedded in other responses.
type ServiceTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ServiceResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	PriceCents      int64     `json:"price_cents"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewServiceResponse(svc *catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:              svc.ID,
		Name:            svc.Name,
		PriceCents:      svc.PriceCents,
		DurationMinutes: svc.DurationMinutes,
		CreatedAt:       svc.CreatedAt,
	}
}
