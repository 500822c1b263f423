package appointment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberbook/barber-booking-backend/internal/catalog"
	"github.com/barberbook/barber-booking-backend/internal/provider"
	"github.com/barberbook/barber-booking-backend/internal/schedule"
)

// memRepo is an in-memory Repository whose CreateIfFree performs the
// overlap-check-plus-insert under one lock, mirroring the serializable
// transaction of the pgx implementation.
type memRepo struct {
	mu     sync.Mutex
	nextID int
	appts  []*Appointment
}

func (r *memRepo) CreateIfFree(ctx context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.appts {
		if existing.ProviderID != appt.ProviderID || existing.Status == StatusCancelled {
			continue
		}
		if existing.Overlaps(appt.StartTime, appt.EndTime) {
			return ErrSlotConflict
		}
	}

	r.nextID++
	appt.ID = fmt.Sprintf("appt-%d", r.nextID)
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	stored := *appt
	r.appts = append(r.appts, &stored)
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) List(ctx context.Context, filter Filter) ([]*Appointment, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Appointment
	for _, a := range r.appts {
		if filter.CustomerID != "" && a.CustomerID != filter.CustomerID {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (r *memRepo) ListActiveInRange(ctx context.Context, providerID string, from, to time.Time) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Appointment
	for _, a := range r.appts {
		if a.ProviderID != providerID || a.Status == StatusCancelled {
			continue
		}
		if a.Overlaps(from, to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.ID == id && a.Status == from {
			a.Status = to
			a.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrInvalidTransition
}

// activeIntervals returns the non-cancelled intervals for the invariant check.
func (r *memRepo) activeIntervals(providerID string) []*Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Appointment
	for _, a := range r.appts {
		if a.ProviderID == providerID && a.Status != StatusCancelled {
			out = append(out, a)
		}
	}
	return out
}

type fakeProviders struct {
	providers []*provider.Provider
}

func (f *fakeProviders) byID(id string) *provider.Provider {
	for _, p := range f.providers {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (f *fakeProviders) Create(ctx context.Context, req provider.CreateRequest) (*provider.Provider, error) {
	panic("not used")
}

func (f *fakeProviders) GetByID(ctx context.Context, id string) (*provider.Provider, error) {
	if p := f.byID(id); p != nil {
		return p, nil
	}
	return nil, provider.ErrNotFound
}

func (f *fakeProviders) List(ctx context.Context, filter provider.Filter) ([]*provider.Provider, int, error) {
	return f.providers, len(f.providers), nil
}

func (f *fakeProviders) ListAll(ctx context.Context) ([]*provider.Provider, error) {
	return f.providers, nil
}

func (f *fakeProviders) Update(ctx context.Context, id string, req provider.UpdateRequest) (*provider.Provider, error) {
	panic("not used")
}

func (f *fakeProviders) Delete(ctx context.Context, id string) error {
	panic("not used")
}

type fakeCatalog struct {
	services map[string]*catalog.Service
}

func (f *fakeCatalog) Create(ctx context.Context, req catalog.CreateRequest) (*catalog.Service, error) {
	panic("not used")
}

func (f *fakeCatalog) GetByID(ctx context.Context, id string) (*catalog.Service, error) {
	if svc, ok := f.services[id]; ok {
		return svc, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) List(ctx context.Context, filter catalog.Filter) ([]*catalog.Service, int, error) {
	panic("not used")
}

func (f *fakeCatalog) Update(ctx context.Context, id string, req catalog.UpdateRequest) (*catalog.Service, error) {
	panic("not used")
}

func (f *fakeCatalog) Delete(ctx context.Context, id string) error {
	panic("not used")
}

// fakeSchedule serves a fixed weekly template and blackout set per provider.
type fakeSchedule struct {
	hours   map[string]map[int]*schedule.WorkingHours // providerID -> weekday
	blocked map[string]map[string]*schedule.BlockedDate
}

func (f *fakeSchedule) ScheduleFor(ctx context.Context, providerID string) (*schedule.ProviderSchedule, error) {
	panic("not used")
}

func (f *fakeSchedule) DayScheduleFor(ctx context.Context, providerID string, date time.Time) (*schedule.WorkingHours, *schedule.BlockedDate, error) {
	if byDate, ok := f.blocked[providerID]; ok {
		if bd, ok := byDate[date.Format(schedule.DateLayout)]; ok {
			return nil, bd, nil
		}
	}
	if byDay, ok := f.hours[providerID]; ok {
		if wh, ok := byDay[int(date.Weekday())]; ok && wh.IsActive {
			return wh, nil, nil
		}
	}
	return nil, nil, nil
}

func (f *fakeSchedule) UpsertWorkingHours(ctx context.Context, providerID string, req schedule.UpsertHoursRequest) (*schedule.WorkingHours, error) {
	panic("not used")
}

func (f *fakeSchedule) BlockDate(ctx context.Context, providerID string, req schedule.BlockDateRequest) (*schedule.BlockedDate, error) {
	panic("not used")
}

func (f *fakeSchedule) UnblockDate(ctx context.Context, providerID string, date time.Time) error {
	panic("not used")
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (o *recordingObserver) ObserveBooking(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcomes == nil {
		o.outcomes = map[string]int{}
	}
	o.outcomes[outcome]++
}

func (o *recordingObserver) count(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcomes[outcome]
}

type testEnv struct {
	repo     *memRepo
	svc      *service
	observer *recordingObserver
}

// newTestEnv wires the engine against in-memory collaborators:
// two providers working Monday 09:00-17:00 (Ben also Tuesday),
// a 30-minute cut and a 90-minute treatment, clock frozen on the
// preceding Sunday noon.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	providers := &fakeProviders{providers: []*provider.Provider{
		{ID: "prov-alice", Name: "Alice"},
		{ID: "prov-ben", Name: "Ben"},
	}}

	services := &fakeCatalog{services: map[string]*catalog.Service{
		"svc-cut":   {ID: "svc-cut", Name: "Haircut", DurationMinutes: 30},
		"svc-combo": {ID: "svc-combo", Name: "Cut & Treatment", DurationMinutes: 90},
	}}

	mondayTemplate := func(providerID string) *schedule.WorkingHours {
		return &schedule.WorkingHours{
			ProviderID: providerID,
			Weekday:    int(time.Monday),
			StartTime:  "09:00",
			EndTime:    "17:00",
			IsActive:   true,
		}
	}

	sched := &fakeSchedule{
		hours: map[string]map[int]*schedule.WorkingHours{
			"prov-alice": {int(time.Monday): mondayTemplate("prov-alice")},
			"prov-ben": {
				int(time.Monday): mondayTemplate("prov-ben"),
				int(time.Tuesday): {
					ProviderID: "prov-ben",
					Weekday:    int(time.Tuesday),
					StartTime:  "09:00",
					EndTime:    "17:30",
					IsActive:   true,
				},
			},
		},
		blocked: map[string]map[string]*schedule.BlockedDate{},
	}

	repo := &memRepo{}
	observer := &recordingObserver{}

	svc := NewService(repo, providers, services, sched, 30*time.Minute, observer).(*service)
	svc.now = func() time.Time {
		// Sunday noon, the day before the test Monday.
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	return &testEnv{repo: repo, svc: svc, observer: observer}
}

func bookReq(providerID, serviceID, clock string) BookRequest {
	return BookRequest{
		ProviderID: providerID,
		ServiceID:  serviceID,
		CustomerID: "cust-1",
		Date:       monday,
		Time:       clock,
	}
}

func TestBook_Succeeds(t *testing.T) {
	env := newTestEnv(t)

	appt, err := env.svc.Book(context.Background(), bookReq("prov-alice", "svc-cut", "10:00"))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, appt.Status)
	assert.Equal(t, "Alice", appt.ProviderName)
	assert.Equal(t, "Haircut", appt.ServiceName)
	assert.Equal(t, at(10, 0), appt.StartTime)
	assert.Equal(t, at(10, 30), appt.EndTime)
	assert.Equal(t, 1, env.observer.count("created"))
}

func TestBook_UnknownProviderAndService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Book(ctx, bookReq("prov-ghost", "svc-cut", "10:00"))
	assert.ErrorIs(t, err, ErrProviderNotFound)

	_, err = env.svc.Book(ctx, bookReq("prov-alice", "svc-ghost", "10:00"))
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestBook_PastTime(t *testing.T) {
	env := newTestEnv(t)
	env.svc.now = func() time.Time { return at(11, 0) } // Monday 11:00

	_, err := env.svc.Book(context.Background(), bookReq("prov-alice", "svc-cut", "10:00"))
	assert.ErrorIs(t, err, ErrPastTime)
	assert.Equal(t, 1, env.observer.count("rejected"))
}

func TestBook_BlockedDate(t *testing.T) {
	env := newTestEnv(t)
	sched := env.svc.schedService.(*fakeSchedule)
	sched.blocked["prov-alice"] = map[string]*schedule.BlockedDate{
		monday.Format(schedule.DateLayout): {ProviderID: "prov-alice", Date: monday, Reason: "vacation"},
	}

	_, err := env.svc.Book(context.Background(), bookReq("prov-alice", "svc-cut", "10:00"))
	assert.ErrorIs(t, err, ErrDateBlocked)
}

func TestBook_OutsideHours(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Sunday: no template at all.
	sunday := bookReq("prov-alice", "svc-cut", "10:00")
	sunday.Date = monday.AddDate(0, 0, 6)
	_, err := env.svc.Book(ctx, sunday)
	assert.ErrorIs(t, err, ErrOutsideHours)

	// Before opening.
	_, err = env.svc.Book(ctx, bookReq("prov-alice", "svc-cut", "08:30"))
	assert.ErrorIs(t, err, ErrOutsideHours)
}

func TestBook_BoundaryContainment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 30-minute cut at closing minus duration ends exactly at 17:00: allowed.
	appt, err := env.svc.Book(ctx, bookReq("prov-alice", "svc-cut", "16:30"))
	require.NoError(t, err)
	assert.Equal(t, at(17, 0), appt.EndTime)

	// One minute later pushes the end past closing.
	_, err = env.svc.Book(ctx, bookReq("prov-alice", "svc-cut", "16:31"))
	assert.ErrorIs(t, err, ErrOutsideHours)

	// Ben closes at 17:30 on Tuesday: the 90-minute combo fits at 16:00
	// exactly, and fails one minute later.
	tuesday := monday.AddDate(0, 0, 1)
	fits := bookReq("prov-ben", "svc-combo", "16:00")
	fits.Date = tuesday
	appt, err = env.svc.Book(ctx, fits)
	require.NoError(t, err)
	assert.Equal(t, tuesday.Add(17*time.Hour+30*time.Minute), appt.EndTime)

	late := bookReq("prov-ben", "svc-combo", "16:01")
	late.Date = tuesday
	_, err = env.svc.Book(ctx, late)
	assert.ErrorIs(t, err, ErrOutsideHours)
}

func TestBook_Conflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Book(ctx, bookReq("prov-alice", "svc-cut", "10:00"))
	require.NoError(t, err)

	// Exact same slot.
	_, err = env.svc.Book(ctx, bookReq("prov-alice", "svc-cut", "10:00"))
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Partial overlap across the grid.
	_, err = env.svc.Book(ctx, bookReq("prov-alice", "svc-combo", "09:30"))
	assert.ErrorIs(t, err, ErrSlotConflict)

	assert.Equal(t, 2, env.observer.count("conflict"))

	// Same provider, disjoint interval: must succeed.
	_, err = env.svc.Book(ctx, bookReq("prov-alice", "svc-cut", "10:30"))
	assert.NoError(t, err)

	// Same slot, different provider: independent resources.
	_, err = env.svc.Book(ctx, bookReq("prov-ben", "svc-cut", "10:00"))
	assert.NoError(t, err)
}

func TestBook_ConcurrentSameSlotExactlyOneWins(t *testing.T) {
	env := newTestEnv(t)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := bookReq("prov-alice", "svc-cut", "14:00")
			req.CustomerID = fmt.Sprintf("cust-%d", i)
			_, errs[i] = env.svc.Book(context.Background(), req)
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case err == ErrSlotConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, conflicts)

	// Non-overlap invariant over the whole store.
	active := env.repo.activeIntervals("prov-alice")
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			assert.False(t, active[i].Overlaps(active[j].StartTime, active[j].EndTime),
				"appointments %s and %s overlap", active[i].ID, active[j].ID)
		}
	}
}

func TestBook_ConcurrentDisjointSlotsAllSucceed(t *testing.T) {
	env := newTestEnv(t)

	clocks := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	var wg sync.WaitGroup
	errs := make([]error, len(clocks))

	for i, clock := range clocks {
		wg.Add(1)
		go func(i int, clock string) {
			defer wg.Done()
			_, errs[i] = env.svc.Book(context.Background(), bookReq("prov-alice", "svc-cut", clock))
		}(i, clock)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "booking at %s", clocks[i])
	}
}

func TestCancel_OwnershipAndLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	appt, err := env.svc.Book(ctx, bookReq("prov-alice", "svc-cut", "10:00"))
	require.NoError(t, err)

	// A stranger cannot cancel someone else's appointment.
	_, err = env.svc.Cancel(ctx, appt.ID, "cust-stranger")
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := env.svc.Cancel(ctx, appt.ID, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// Cancelled is terminal.
	_, err = env.svc.Cancel(ctx, appt.ID, "cust-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.svc.Cancel(ctx, "appt-missing", "cust-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancel_FreesSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	appt, err := env.svc.Book(ctx, bookReq("prov-alice", "svc-cut", "10:00"))
	require.NoError(t, err)

	avail, err := env.svc.Availability(ctx, "prov-alice", monday)
	require.NoError(t, err)
	assert.False(t, slotAt(t, avail, "10:00").Available)

	_, err = env.svc.Cancel(ctx, appt.ID, "cust-1")
	require.NoError(t, err)

	avail, err = env.svc.Availability(ctx, "prov-alice", monday)
	require.NoError(t, err)
	assert.True(t, slotAt(t, avail, "10:00").Available)

	// The freed interval is bookable again.
	_, err = env.svc.Book(ctx, bookReq("prov-alice", "svc-cut", "10:00"))
	assert.NoError(t, err)
}

func slotAt(t *testing.T, avail *DayAvailability, clock string) Slot {
	t.Helper()
	for _, s := range avail.Slots {
		if s.StartTime.Format("15:04") == clock {
			return s
		}
	}
	t.Fatalf("no slot at %s", clock)
	return Slot{}
}

func TestUpdateStatus_AdminTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	appt, err := env.svc.Book(ctx, bookReq("prov-alice", "svc-cut", "10:00"))
	require.NoError(t, err)

	confirmed, err := env.svc.UpdateStatus(ctx, appt.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)

	// No way back to pending.
	_, err = env.svc.UpdateStatus(ctx, appt.ID, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Admin can cancel a confirmed appointment.
	cancelled, err := env.svc.UpdateStatus(ctx, appt.ID, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
}

func TestAvailability_UnknownProvider(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Availability(context.Background(), "prov-ghost", monday)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestScheduleForDate_PreservesProviderOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Book(ctx, bookReq("prov-ben", "svc-cut", "09:00"))
	require.NoError(t, err)

	days, err := env.svc.ScheduleForDate(ctx, monday)
	require.NoError(t, err)

	require.Len(t, days, 2)
	assert.Equal(t, "prov-alice", days[0].Provider.ID)
	assert.Equal(t, "prov-ben", days[1].Provider.ID)

	assert.True(t, slotAt(t, &days[0].Availability, "09:00").Available)

	benSlot := slotAt(t, &days[1].Availability, "09:00")
	assert.False(t, benSlot.Available)
	assert.Equal(t, "cust-1", benSlot.BookedBy)
}
