package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		minutes int
		wantErr bool
	}{
		{input: "00:00", minutes: 0},
		{input: "09:30", minutes: 570},
		{input: "23:59", minutes: 1439},
		{input: "14:15:00", minutes: 855}, // long form from postgres to_char
		{input: "24:00", wantErr: true},
		{input: "10:61", wantErr: true},
		{input: "noon", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseClock(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.minutes, got)
		})
	}
}

func TestWorkingHours_Window(t *testing.T) {
	wh := &WorkingHours{StartTime: "09:00", EndTime: "17:30"}
	date := time.Date(2026, 3, 2, 15, 45, 0, 0, time.UTC) // time-of-day ignored

	start, end, err := wh.Window(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC), end)

	_, _, err = (&WorkingHours{StartTime: "late", EndTime: "17:00"}).Window(date)
	assert.ErrorIs(t, err, ErrInvalidClock)
}

func TestProviderSchedule_HoursFor(t *testing.T) {
	sched := &ProviderSchedule{Hours: []WorkingHours{
		{Weekday: 1, StartTime: "09:00", EndTime: "17:00", IsActive: true},
		{Weekday: 2, StartTime: "10:00", EndTime: "18:00", IsActive: false},
	}}

	monday := sched.HoursFor(time.Monday)
	require.NotNil(t, monday)
	assert.Equal(t, "09:00", monday.StartTime)

	// Inactive rows are ignored.
	assert.Nil(t, sched.HoursFor(time.Tuesday))
	// Missing weekday.
	assert.Nil(t, sched.HoursFor(time.Sunday))
}

func TestProviderSchedule_BlockedOn(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sched := &ProviderSchedule{Blocked: []BlockedDate{
		{Date: date, Reason: "vacation"},
	}}

	// Matching is by calendar date, not instant.
	got := sched.BlockedOn(date.Add(13 * time.Hour))
	require.NotNil(t, got)
	assert.Equal(t, "vacation", got.Reason)

	assert.Nil(t, sched.BlockedOn(date.AddDate(0, 0, 1)))
}
