package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/barberbook/barber-booking-backend/internal/catalog"
	"github.com/barberbook/barber-booking-backend/internal/pkg/metrics"
	"github.com/barberbook/barber-booking-backend/internal/provider"
	"github.com/barberbook/barber-booking-backend/internal/schedule"
)

type BookRequest struct {
	ProviderID string
	ServiceID  string
	CustomerID string
	Date       time.Time
	Time       string // Format: HH:MM
}

// ProviderDay pairs a provider with their computed availability for one date.
type ProviderDay struct {
	Provider     *provider.Provider
	Availability DayAvailability
}

// BookingObserver receives booking outcome signals (satisfied by the metrics package).
type BookingObserver interface {
	ObserveBooking(outcome string)
}

type Service interface {
	// Book validates the request against the provider's current schedule and
	// atomically commits the appointment. All rejections are typed errors;
	// ErrSlotConflict in particular must never be retried automatically.
	Book(ctx context.Context, req BookRequest) (*Appointment, error)

	// Cancel is the customer-facing cancellation; the requesting customer
	// must own the appointment.
	Cancel(ctx context.Context, id, customerID string) (*Appointment, error)

	// UpdateStatus is the administrative transition (confirm or cancel).
	UpdateStatus(ctx context.Context, id string, to Status) (*Appointment, error)

	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter Filter) ([]*Appointment, int, error)

	// Availability returns the slot grid for one provider and date.
	// Blocked and not-working days are data states, not errors.
	Availability(ctx context.Context, providerID string, date time.Time) (*DayAvailability, error)

	// ScheduleForDate fans Availability out across the whole roster,
	// preserving provider order.
	ScheduleForDate(ctx context.Context, date time.Time) ([]ProviderDay, error)
}

type service struct {
	repo         Repository
	provService  provider.Service
	catService   catalog.Manager
	schedService schedule.Service
	granularity  time.Duration
	observer     BookingObserver
	now          func() time.Time
}

func NewService(
	repo Repository,
	provService provider.Service,
	catService catalog.Manager,
	schedService schedule.Service,
	granularity time.Duration,
	observer BookingObserver,
) Service {
	return &service{
		repo:         repo,
		provService:  provService,
		catService:   catService,
		schedService: schedService,
		granularity:  granularity,
		observer:     observer,
		now:          time.Now,
	}
}

func (s *service) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveBooking(outcome)
	}
}

func (s *service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	appt, err := s.book(ctx, req)
	switch {
	case err == nil:
		s.observe(metrics.OutcomeCreated)
	case errors.Is(err, ErrSlotConflict):
		s.observe(metrics.OutcomeConflict)
	case errors.Is(err, ErrPastTime), errors.Is(err, ErrDateBlocked), errors.Is(err, ErrOutsideHours),
		errors.Is(err, ErrProviderNotFound), errors.Is(err, ErrServiceNotFound):
		s.observe(metrics.OutcomeRejected)
	default:
		s.observe(metrics.OutcomeError)
	}
	return appt, err
}

func (s *service) book(ctx context.Context, req BookRequest) (*Appointment, error) {
	prov, err := s.provService.GetByID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	svc, err := s.catService.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	startMin, err := schedule.ParseClock(req.Time)
	if err != nil {
		return nil, err
	}

	day := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	start := day.Add(time.Duration(startMin) * time.Minute)
	end := start.Add(svc.Duration())

	if start.Before(s.now()) {
		return nil, ErrPastTime
	}

	hours, blocked, err := s.schedService.DayScheduleFor(ctx, req.ProviderID, day)
	if err != nil {
		return nil, err
	}
	if blocked != nil {
		return nil, ErrDateBlocked
	}
	if hours == nil {
		return nil, ErrOutsideHours
	}

	open, closing, err := hours.Window(day)
	if err != nil {
		return nil, err
	}
	// Containment on the half-open window: ending exactly at closing is fine.
	if start.Before(open) || end.After(closing) {
		return nil, ErrOutsideHours
	}

	appt := &Appointment{
		ProviderID:   req.ProviderID,
		ProviderName: prov.Name,
		ServiceID:    req.ServiceID,
		ServiceName:  svc.Name,
		CustomerID:   req.CustomerID,
		StartTime:    start,
		EndTime:      end,
		Status:       StatusPending,
	}

	if err := s.repo.CreateIfFree(ctx, appt); err != nil {
		return nil, err
	}

	return appt, nil
}

func (s *service) Cancel(ctx context.Context, id, customerID string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if appt.CustomerID != customerID {
		return nil, ErrForbidden
	}

	return s.transition(ctx, appt, StatusCancelled)
}

func (s *service) UpdateStatus(ctx context.Context, id string, to Status) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, appt, to)
}

func (s *service) transition(ctx context.Context, appt *Appointment, to Status) (*Appointment, error) {
	if !ValidTransition(appt.Status, to) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, appt.ID, appt.Status, to); err != nil {
		return nil, err
	}

	appt.Status = to
	return appt, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Appointment, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Availability(ctx context.Context, providerID string, date time.Time) (*DayAvailability, error) {
	if _, err := s.provService.GetByID(ctx, providerID); err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	return s.availabilityFor(ctx, providerID, date)
}

func (s *service) availabilityFor(ctx context.Context, providerID string, date time.Time) (*DayAvailability, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	hours, blocked, err := s.schedService.DayScheduleFor(ctx, providerID, day)
	if err != nil {
		return nil, err
	}

	var appts []Appointment
	if hours != nil && blocked == nil {
		// Only days with a working template need the appointment lookup.
		appts, err = s.repo.ListActiveInRange(ctx, providerID, day, day.Add(24*time.Hour))
		if err != nil {
			return nil, err
		}
	}

	avail, err := ComputeSlots(day, s.granularity, hours, blocked, appts, s.now())
	if err != nil {
		return nil, err
	}
	return &avail, nil
}

func (s *service) ScheduleForDate(ctx context.Context, date time.Time) ([]ProviderDay, error) {
	providers, err := s.provService.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	days := make([]ProviderDay, 0, len(providers))
	for _, p := range providers {
		avail, err := s.availabilityFor(ctx, p.ID, date)
		if err != nil {
			return nil, err
		}
		days = append(days, ProviderDay{Provider: p, Availability: *avail})
	}
	return days, nil
}
