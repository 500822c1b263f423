package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/barberbook/barber-booking-backend/internal/provider"
)

type UpsertHoursRequest struct {
	Weekday   int
	StartTime string
	EndTime   string
	IsActive  bool
}

type BlockDateRequest struct {
	Date   time.Time
	Reason string
}

type Service interface {
	// ScheduleFor returns the weekly template and blackout dates for one
	// provider, served read-through from the cache.
	ScheduleFor(ctx context.Context, providerID string) (*ProviderSchedule, error)

	// DayScheduleFor resolves the template for a single date: the active
	// weekday row (if any) and the blackout entry (if any).
	DayScheduleFor(ctx context.Context, providerID string, date time.Time) (hours *WorkingHours, blocked *BlockedDate, err error)

	UpsertWorkingHours(ctx context.Context, providerID string, req UpsertHoursRequest) (*WorkingHours, error)
	BlockDate(ctx context.Context, providerID string, req BlockDateRequest) (*BlockedDate, error)
	UnblockDate(ctx context.Context, providerID string, date time.Time) error
}

type service struct {
	repo        Repository
	cache       Cache
	provService provider.Service
}

func NewService(repo Repository, cache Cache, provService provider.Service) Service {
	return &service{
		repo:        repo,
		cache:       cache,
		provService: provService,
	}
}

func (s *service) ScheduleFor(ctx context.Context, providerID string) (*ProviderSchedule, error) {
	if cached, ok := s.cache.Get(ctx, providerID); ok {
		return cached, nil
	}

	hours, err := s.repo.ListWorkingHours(ctx, providerID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.repo.ListBlockedDates(ctx, providerID)
	if err != nil {
		return nil, err
	}

	sched := &ProviderSchedule{Hours: hours, Blocked: blocked}
	s.cache.Set(ctx, providerID, sched)
	return sched, nil
}

func (s *service) DayScheduleFor(ctx context.Context, providerID string, date time.Time) (*WorkingHours, *BlockedDate, error) {
	sched, err := s.ScheduleFor(ctx, providerID)
	if err != nil {
		return nil, nil, err
	}
	return sched.HoursFor(date.Weekday()), sched.BlockedOn(date), nil
}

func (s *service) UpsertWorkingHours(ctx context.Context, providerID string, req UpsertHoursRequest) (*WorkingHours, error) {
	if req.Weekday < 0 || req.Weekday > 6 {
		return nil, ErrInvalidWeekday
	}

	startMin, err := ParseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	endMin, err := ParseClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if endMin <= startMin {
		return nil, ErrInvalidTimeRange
	}

	// Verify the provider exists.
	if _, err := s.provService.GetByID(ctx, providerID); err != nil {
		return nil, err
	}

	wh := &WorkingHours{
		ProviderID: providerID,
		Weekday:    req.Weekday,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		IsActive:   req.IsActive,
	}

	if err := s.repo.UpsertWorkingHours(ctx, wh); err != nil {
		return nil, err
	}

	// Stale templates can hand out slots outside real hours, so the edit is
	// not done until the cache entry is gone.
	if err := s.cache.Invalidate(ctx, providerID); err != nil {
		return nil, fmt.Errorf("invalidate schedule cache failed: %w", err)
	}

	return wh, nil
}

func (s *service) BlockDate(ctx context.Context, providerID string, req BlockDateRequest) (*BlockedDate, error) {
	if _, err := s.provService.GetByID(ctx, providerID); err != nil {
		return nil, err
	}

	bd := &BlockedDate{
		ProviderID: providerID,
		Date:       req.Date,
		Reason:     req.Reason,
	}

	if err := s.repo.AddBlockedDate(ctx, bd); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, providerID); err != nil {
		return nil, fmt.Errorf("invalidate schedule cache failed: %w", err)
	}

	return bd, nil
}

func (s *service) UnblockDate(ctx context.Context, providerID string, date time.Time) error {
	if err := s.repo.RemoveBlockedDate(ctx, providerID, date); err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx, providerID); err != nil {
		return fmt.Errorf("invalidate schedule cache failed: %w", err)
	}

	return nil
}
