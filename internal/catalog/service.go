package catalog

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name            string
	PriceCents      int64
	DurationMinutes int
}

type UpdateRequest struct {
	Name            *string
	PriceCents      *int64
	DurationMinutes *int
}

type Manager interface {
	Create(ctx context.Context, req CreateRequest) (*Service, error)
	GetByID(ctx context.Context, id string) (*Service, error)
	List(ctx context.Context, filter Filter) ([]*Service, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Service, error)
	Delete(ctx context.Context, id string) error
}

type manager struct {
	repo Repository
}

func NewManager(repo Repository) Manager {
	return &manager{repo: repo}
}

func validate(svc *Service) error {
	if strings.TrimSpace(svc.Name) == "" {
		return ErrEmptyName
	}
	if svc.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	if svc.PriceCents < 0 {
		return ErrInvalidPrice
	}
	return nil
}

func (m *manager) Create(ctx context.Context, req CreateRequest) (*Service, error) {
	svc := &Service{
		Name:            req.Name,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
	}

	if err := validate(svc); err != nil {
		return nil, err
	}

	if err := m.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (m *manager) GetByID(ctx context.Context, id string) (*Service, error) {
	return m.repo.GetByID(ctx, id)
}

func (m *manager) List(ctx context.Context, filter Filter) ([]*Service, int, error) {
	return m.repo.List(ctx, filter)
}

func (m *manager) Update(ctx context.Context, id string, req UpdateRequest) (*Service, error) {
	svc, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.PriceCents != nil {
		svc.PriceCents = *req.PriceCents
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}

	if err := validate(svc); err != nil {
		return nil, err
	}

	if err := m.repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (m *manager) Delete(ctx context.Context, id string) error {
	return m.repo.Delete(ctx, id)
}
