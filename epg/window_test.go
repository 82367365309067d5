package epg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paris(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	return loc
}

func day(loc *time.Location, y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func TestResolveWindow_ParisLocal(t *testing.T) {
	loc := paris(t)
	now := time.Date(2024, 1, 1, 14, 30, 0, 0, loc)

	w, clamped := ResolveWindow(now, 1, 0, loc)

	assert.False(t, clamped)
	assert.Equal(t, day(loc, 2024, 1, 1), w.Start)
	assert.Equal(t, day(loc, 2024, 1, 2), w.Stop)
	// Midnight is before 05:00, so the previous broadcast day is needed.
	assert.Equal(t, []time.Time{day(loc, 2023, 12, 31), day(loc, 2024, 1, 1)}, w.FetchDates)
}

func TestResolveWindow_Offset(t *testing.T) {
	loc := paris(t)
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, loc)

	w, _ := ResolveWindow(now, 3, 2, loc)

	assert.Equal(t, day(loc, 2024, 3, 12), w.Start)
	assert.Equal(t, day(loc, 2024, 3, 15), w.Stop)
	assert.Equal(t, []time.Time{
		day(loc, 2024, 3, 11), day(loc, 2024, 3, 12), day(loc, 2024, 3, 13), day(loc, 2024, 3, 14),
	}, w.FetchDates)
}

func TestResolveWindow_TrailingSpillover(t *testing.T) {
	// Local midnight in UTC-10 is 11:00 in Paris, after the 05:00 anchor, so the
	// window ends after 05:00 Paris on its stop date and that feed is appended.
	loc := paris(t)
	west := time.FixedZone("UTC-10", -10*3600)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, west)

	w, _ := ResolveWindow(now, 2, 0, loc)

	assert.Equal(t, []time.Time{day(west, 2024, 1, 1), day(west, 2024, 1, 2), day(west, 2024, 1, 3)}, w.FetchDates)
}

func TestResolveWindow_EastOfParisTakesLeadingDay(t *testing.T) {
	loc := paris(t)
	tokyo := time.FixedZone("UTC+9", 9*3600)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, tokyo)

	w, _ := ResolveWindow(now, 2, 0, loc)

	assert.Equal(t, []time.Time{day(tokyo, 2023, 12, 31), day(tokyo, 2024, 1, 1), day(tokyo, 2024, 1, 2)}, w.FetchDates)
}

func TestResolveWindow_SpilloverBranchesAreExclusive(t *testing.T) {
	// Known gap: across the Paris spring DST change a UTC-3:30 window starts before
	// 05:00 Paris (03:30 vs 04:00 UTC) and stops after it (03:30 vs 03:00 UTC on
	// 04-01). Only the leading day is added, so the 2024-04-01 feed is not fetched.
	loc := paris(t)
	zone := time.FixedZone("UTC-3:30", -(3*3600 + 1800))
	now := time.Date(2024, 3, 30, 12, 0, 0, 0, zone)

	w, _ := ResolveWindow(now, 2, 0, loc)

	assert.True(t, w.Start.Before(broadcastStart(w.Start, loc)))
	assert.True(t, w.Stop.After(broadcastStart(w.Stop, loc)))
	assert.Equal(t, []time.Time{day(zone, 2024, 3, 29), day(zone, 2024, 3, 30), day(zone, 2024, 3, 31)}, w.FetchDates)
}

func TestResolveWindow_FetchDateCount(t *testing.T) {
	loc := paris(t)
	now := time.Date(2024, 6, 15, 23, 59, 0, 0, loc)
	for offset := 0; offset <= 14; offset++ {
		for days := 0; offset+days <= 14; days++ {
			w, clamped := ResolveWindow(now, days, offset, loc)
			require.False(t, clamped)
			assert.GreaterOrEqual(t, len(w.FetchDates), days)
			assert.LessOrEqual(t, len(w.FetchDates), days+1)
		}
	}
}

func TestResolveWindow_Clamp(t *testing.T) {
	loc := paris(t)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, loc)

	tests := []struct {
		days, offset, want int
	}{
		{20, 0, 14},
		{15, 0, 14},
		{10, 5, 9},
		{3, 13, 1},
		{7, 14, 0},
	}
	for _, tt := range tests {
		w, clamped := ResolveWindow(now, tt.days, tt.offset, loc)
		assert.True(t, clamped)
		assert.Equal(t, tt.want, w.Days)
		assert.Equal(t, w.Start.AddDate(0, 0, tt.want), w.Stop)
	}

	w, clamped := ResolveWindow(now, 14, 0, loc)
	assert.False(t, clamped)
	assert.Equal(t, 14, w.Days)
}

func TestWindow_Contains(t *testing.T) {
	loc := paris(t)
	w := Window{Start: day(loc, 2024, 1, 1), Stop: day(loc, 2024, 1, 2)}
	h := time.Hour

	assert.False(t, w.Contains(w.Start.Add(-2*h), w.Start), "stop == window start")
	assert.True(t, w.Contains(w.Start, w.Start.Add(h)), "start == window start")
	assert.True(t, w.Contains(w.Start.Add(-h), w.Start.Add(h)), "straddles start")
	assert.True(t, w.Contains(w.Stop.Add(-h), w.Stop.Add(h)), "straddles stop")
	assert.False(t, w.Contains(w.Stop, w.Stop.Add(h)), "start == window stop")
}

func TestSFRLocation(t *testing.T) {
	assert.Equal(t, "Europe/Paris", sfrLocation.String())
	assert.Same(t, sfrLocation, (&Grabber{}).feedLocation())

	loc := paris(t)
	assert.Same(t, loc, (&Grabber{FeedLocation: loc}).feedLocation())
}
