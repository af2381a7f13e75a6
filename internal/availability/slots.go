package availability

import (
	"sort"
	"time"

	"github.com/medagenda/scheduling-api/internal/interval"
	"github.com/medagenda/scheduling-api/internal/schedule"
	"github.com/medagenda/scheduling-api/internal/timeutil"
)

// GenerateSlots enumerates bookable start times for one date. Candidates
// advance from each window start on a fixed granularity grid while the
// whole appointment still fits inside the window; a candidate survives if
// it strictly overlaps no occupied span (touching boundaries are fine).
// Results across windows are deduplicated and sorted ascending.
//
// Unlike EvaluateMonth this returns literal start times, so it enumerates
// instead of subtracting gaps.
func GenerateSlots(
	resolved *schedule.Resolved,
	occupied []interval.Span,
	date timeutil.Date,
	durationMin int,
	granularityMin int,
	loc *time.Location,
) []string {
	if durationMin <= 0 || granularityMin <= 0 {
		return nil
	}

	duration := time.Duration(durationMin) * time.Minute
	step := time.Duration(granularityMin) * time.Minute

	seen := make(map[string]struct{})
	var slots []string

	for _, w := range resolved.WindowsOn(date.Weekday()) {
		winStart := w.Start.On(date, loc)
		winEnd := w.End.On(date, loc)

		for start := winStart; !start.Add(duration).After(winEnd); start = start.Add(step) {
			candidate := interval.Span{Start: start, End: start.Add(duration)}
			if overlapsAny(candidate, occupied) {
				continue
			}
			label := timeutil.FormatClock(start, loc)
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			slots = append(slots, label)
		}
	}

	sort.Strings(slots)
	return slots
}

func overlapsAny(candidate interval.Span, occupied []interval.Span) bool {
	for _, o := range occupied {
		if candidate.Overlaps(o) {
			return true
		}
	}
	return false
}
