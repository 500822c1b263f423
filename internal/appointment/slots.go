package appointment

import (
	"time"

	"github.com/barberbook/barber-booking-backend/internal/schedule"
)

// Day availability reasons for days with zero slots.
const (
	ReasonBlocked    = "blocked"
	ReasonNotWorking = "not working"
)

// Slot is one fixed-granularity window offered for display and selection.
// The booked interval of an actual appointment is independent of the grid:
// a 90-minute service simply occupies three 30-minute slots.
type Slot struct {
	StartTime time.Time
	Available bool

	// Occupant info for the admin day view; empty on free slots.
	BookedBy  string
	ServiceID string
}

// DayAvailability is the result of resolving one provider's bookable slots
// for one date.
type DayAvailability struct {
	Available bool
	Reason    string
	Slots     []Slot
}

// ComputeSlots derives the ordered slot list for one provider and date.
//
// It is pure: all inputs are explicit (including now) and no I/O happens.
// hours is the active weekly template row for the date's weekday, or nil when
// the provider does not work that day. blocked, when non-nil, overrides the
// template entirely. appts are the provider's appointments for the day;
// cancelled ones are ignored.
//
// Slots starting before now are omitted entirely. Slots taken by a
// non-cancelled appointment are emitted with Available=false. A trailing
// window shorter than the granularity is never emitted.
func ComputeSlots(date time.Time, granularity time.Duration, hours *schedule.WorkingHours, blocked *schedule.BlockedDate, appts []Appointment, now time.Time) (DayAvailability, error) {
	if blocked != nil {
		return DayAvailability{Available: false, Reason: ReasonBlocked}, nil
	}
	if hours == nil || !hours.IsActive {
		return DayAvailability{Available: false, Reason: ReasonNotWorking}, nil
	}

	open, closing, err := hours.Window(date)
	if err != nil {
		return DayAvailability{}, err
	}

	var slots []Slot
	anyFree := false

	for t := open; !t.Add(granularity).After(closing); t = t.Add(granularity) {
		if t.Before(now) {
			continue
		}

		slot := Slot{StartTime: t, Available: true}
		slotEnd := t.Add(granularity)

		for i := range appts {
			apt := &appts[i]
			if apt.Status == StatusCancelled {
				continue
			}
			// Half-open interval test: [t, slotEnd) vs [apt.StartTime, apt.EndTime)
			if apt.Overlaps(t, slotEnd) {
				slot.Available = false
				slot.BookedBy = apt.CustomerID
				slot.ServiceID = apt.ServiceID
				break
			}
		}

		if slot.Available {
			anyFree = true
		}
		slots = append(slots, slot)
	}

	return DayAvailability{Available: anyFree, Slots: slots}, nil
}
