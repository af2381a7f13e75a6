// Package schedule resolves which working-hour windows and which group of
// clinicians apply to an availability request. A clinician either works on
// one or more shared calendars or, failing that, on a legacy per-clinician
// schedule; bookings of everyone on a shared calendar block each other.
package schedule

import (
	"time"

	"github.com/medagenda/scheduling-api/internal/timeutil"
)

// WorkingWindow is a bookable start-end range on a weekday, in the
// clinic's wall-clock time.
type WorkingWindow struct {
	Weekday time.Weekday
	Start   timeutil.ClockTime
	End     timeutil.ClockTime
}

// Valid reports whether the window has positive length.
func (w WorkingWindow) Valid() bool {
	return w.Start < w.End
}

// Source identifies which schedule source won the three-way fallback.
type Source int

const (
	// SourceExplicitCalendar means the request named a calendar and its
	// windows were used directly.
	SourceExplicitCalendar Source = iota
	// SourceAggregatedCalendars means windows were aggregated from every
	// calendar the clinician belongs to.
	SourceAggregatedCalendars
	// SourceLegacyClinician means the clinician has no calendar
	// membership and their own schedule rows apply.
	SourceLegacyClinician
)

func (s Source) String() string {
	switch s {
	case SourceExplicitCalendar:
		return "explicit_calendar"
	case SourceAggregatedCalendars:
		return "aggregated_calendars"
	case SourceLegacyClinician:
		return "legacy_clinician"
	}
	return "unknown"
}

// Resolved is the authoritative schedule for one request: windows grouped
// by weekday plus the co-work set whose appointments occupy them.
type Resolved struct {
	Source  Source
	Windows map[time.Weekday][]WorkingWindow
	CoWork  []string
}

// WindowsOn returns the windows applying to the given weekday, possibly
// none. Multiple windows (split shifts) are expected.
func (r *Resolved) WindowsOn(day time.Weekday) []WorkingWindow {
	return r.Windows[day]
}
