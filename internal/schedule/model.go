package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound         = errors.New("schedule entry not found")
	ErrInvalidWeekday   = errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidClock     = errors.New("time must be in HH:MM format")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrDateAlreadyBlocked = errors.New("date is already blocked for this provider")
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// WorkingHours is the recurring weekly template: one row per (provider, weekday).
// Times are local wall-clock with minute precision (single implicit timezone).
type WorkingHours struct {
	ID         string
	ProviderID string
	Weekday    int    // 0 = Sunday .. 6 = Saturday
	StartTime  string // Format: HH:MM
	EndTime    string // Format: HH:MM
	IsActive   bool
	UpdatedAt  time.Time
}

// Window resolves the template to concrete open/close instants on the given date.
func (w *WorkingHours) Window(date time.Time) (start, end time.Time, err error) {
	startMin, err := ParseClock(w.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMin, err := ParseClock(w.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.Add(time.Duration(startMin) * time.Minute),
		day.Add(time.Duration(endMin) * time.Minute),
		nil
}

// BlockedDate removes all availability for a provider on one calendar date,
// regardless of the weekly template. One row per (provider, date).
type BlockedDate struct {
	ID         string
	ProviderID string
	Date       time.Time // Date component only; time-of-day is ignored
	Reason     string
	CreatedAt  time.Time
}

// ProviderSchedule is the cacheable unit: the full weekly template plus
// blackout dates for one provider.
type ProviderSchedule struct {
	Hours   []WorkingHours `json:"hours"`
	Blocked []BlockedDate  `json:"blocked"`
}

// HoursFor returns the active working-hours row for the weekday, or nil when
// the provider does not work that day.
func (p *ProviderSchedule) HoursFor(weekday time.Weekday) *WorkingHours {
	for i := range p.Hours {
		if p.Hours[i].Weekday == int(weekday) && p.Hours[i].IsActive {
			return &p.Hours[i]
		}
	}
	return nil
}

// BlockedOn returns the blackout entry covering the date, if any.
func (p *ProviderSchedule) BlockedOn(date time.Time) *BlockedDate {
	for i := range p.Blocked {
		if sameDate(p.Blocked[i].Date, date) {
			return &p.Blocked[i]
		}
	}
	return nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseClock parses an HH:MM (or HH:MM:SS) wall-clock string into minutes
// since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		// Fallback: try the long format
		t, err = time.Parse("15:04:05", s)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
