package epg

import (
	"time"
	_ "time/tzdata" // the feed timezone must resolve on hosts without zoneinfo

	"sfr-epg/consts"
)

// Window is the requested output interval [Start, Stop) and the SFR feed days covering it.
type Window struct {
	Start  time.Time
	Stop   time.Time
	Days   int
	Offset int
	// FetchDates are local calendar dates (midnight) of the feeds to download, in order.
	FetchDates []time.Time
}

// Contains reports whether a programme running over [start, stop) overlaps the window.
func (w Window) Contains(start, stop time.Time) bool {
	return stop.After(w.Start) && start.Before(w.Stop)
}

// sfrLocation is the timezone SFR broadcast days are expressed in.
var sfrLocation = loadSFRLocation()

// loadSFRLocation falls back to standard French time if the zone cannot be loaded.
func loadSFRLocation() *time.Location {
	loc, err := time.LoadLocation(consts.SFR_TIMEZONE)
	if err != nil {
		return time.FixedZone("CET", 3600)
	}
	return loc
}

// ResolveWindow computes the window of days starting offset days after the local
// midnight of now, and the SFR feed days to fetch for it. The second return value
// reports whether days had to be clamped to the maximum lookahead.
//
// An SFR feed for date D holds programmes starting from 05:00 on D to 04:59 on D+1
// (feedLoc time), so a window starting before 05:00 also needs the previous feed and
// one ending after 05:00 needs the feed of its last date. Only one of the two is
// ever added.
func ResolveWindow(now time.Time, days, offset int, feedLoc *time.Location) (Window, bool) {
	clamped := false
	if days+offset > consts.MAX_DAYS {
		days = min(consts.MAX_DAYS-offset, consts.MAX_DAYS)
		clamped = true
	}
	days = max(days, 0)

	start := midnight(now).AddDate(0, 0, offset)
	stop := start.AddDate(0, 0, days)

	dates := make([]time.Time, 0, days+1)
	for d := 0; d < days; d++ {
		dates = append(dates, start.AddDate(0, 0, d))
	}
	if start.Before(broadcastStart(start, feedLoc)) {
		dates = append([]time.Time{start.AddDate(0, 0, -1)}, dates...)
	} else if stop.After(broadcastStart(stop, feedLoc)) {
		dates = append(dates, midnight(stop))
	}

	return Window{
		Start:      start,
		Stop:       stop,
		Days:       days,
		Offset:     offset,
		FetchDates: dates,
	}, clamped
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// broadcastStart is 05:00 in feedLoc on the calendar date of t.
func broadcastStart(t time.Time, feedLoc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), consts.SFR_START_HOUR, 0, 0, 0, feedLoc)
}
