package http

import (
	"time"

	"github.com/barberbook/barber-booking-backend/internal/pkg/request"
	"github.com/barberbook/barber-booking-backend/internal/provider"
)

// ListProvidersRequest defines query parameters for listing providers.
type ListProvidersRequest struct {
	request.ListParams
	Keyword string `form:"keyword"`
}

// Validate performs custom validation for ListProvidersRequest.
func (r *ListProvidersRequest) Validate() error {
	return nil
}

type CreateProviderBody struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty"`
}

type UpdateProviderBody struct {
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
}

// ProviderTag is the compact provider reference embedded in other responses.
type ProviderTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProviderResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewProviderResponse(p *provider.Provider) ProviderResponse {
	return ProviderResponse{
		ID:        p.ID,
		Name:      p.Name,
		Specialty: p.Specialty,
		CreatedAt: p.CreatedAt,
	}
}
