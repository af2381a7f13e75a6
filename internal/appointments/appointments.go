// Package appointments loads booked appointments and converts them into
// the occupied absolute-time intervals the availability engine consumes.
package appointments

import (
	"time"

	"github.com/google/uuid"

	"github.com/medagenda/scheduling-api/internal/interval"
	"github.com/medagenda/scheduling-api/internal/timeutil"
)

// Appointment is one booked row as stored: a local date, a wall-clock
// start and a duration. Conversion to absolute time happens in
// OccupiedByDate, against the clinic timezone.
type Appointment struct {
	ID          uuid.UUID
	ClinicianID string
	Date        timeutil.Date
	Start       timeutil.ClockTime
	DurationMin int
	Status      string
}

var cancelledStatuses = map[string]struct{}{
	"cancelled":            {},
	"canceled":             {},
	"cancelled_by_patient": {},
	"cancelled_by_clinic":  {},
	"no_show":              {},
}

// Cancelled reports whether the appointment no longer occupies time.
func (a Appointment) Cancelled() bool {
	_, ok := cancelledStatuses[a.Status]
	return ok
}

// OccupiedByDate converts appointments into merged occupied spans keyed by
// local date. Cancelled rows and rows with non-positive durations are
// skipped; the store already filters cancellations, this is the engine's
// own guard.
func OccupiedByDate(appts []Appointment, loc *time.Location) map[timeutil.Date][]interval.Span {
	byDate := make(map[timeutil.Date][]interval.Span)
	for _, a := range appts {
		if a.Cancelled() || a.DurationMin <= 0 {
			continue
		}
		start := a.Start.On(a.Date, loc)
		span := interval.Span{
			Start: start,
			End:   start.Add(time.Duration(a.DurationMin) * time.Minute),
		}
		byDate[a.Date] = append(byDate[a.Date], span)
	}
	for date := range byDate {
		byDate[date] = interval.Merge(byDate[date])
	}
	return byDate
}
