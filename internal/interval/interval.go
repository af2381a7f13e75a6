// Package interval implements the half-open interval algebra the
// availability engine is built on. All spans are absolute instants;
// wall-clock handling happens before values reach this package.
package interval

import (
	"sort"
	"time"
)

// Span is a half-open [Start, End) range in absolute time.
type Span struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the span covers at least one instant.
func (s Span) Valid() bool {
	return s.End.After(s.Start)
}

// Minutes is the span length in whole minutes.
func (s Span) Minutes() int {
	return int(s.End.Sub(s.Start) / time.Minute)
}

// Overlaps reports strict overlap; touching boundaries do not count.
func (s Span) Overlaps(o Span) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

// clip bounds s to the window, returning false when nothing remains.
func (s Span) clip(windowStart, windowEnd time.Time) (Span, bool) {
	if s.Start.Before(windowStart) {
		s.Start = windowStart
	}
	if s.End.After(windowEnd) {
		s.End = windowEnd
	}
	return s, s.Valid()
}

// Merge returns the minimal sorted list of non-overlapping spans covering
// the same point set as the input. Adjacent spans (end == next start) are
// coalesced. Invalid spans are dropped.
func Merge(spans []Span) []Span {
	valid := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Valid() {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Start.Before(valid[j].Start)
	})

	merged := []Span{valid[0]}
	for _, s := range valid[1:] {
		last := &merged[len(merged)-1]
		if !s.Start.After(last.End) {
			if s.End.After(last.End) {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Gaps returns the maximal free sub-spans of [windowStart, windowEnd) left
// after removing the occupied spans. Occupied spans are clipped to the
// window first; spans entirely outside contribute nothing. With no
// occupancy the whole window is a single gap, and a fully occupied window
// yields none.
func Gaps(windowStart, windowEnd time.Time, occupied []Span) []Span {
	if !windowEnd.After(windowStart) {
		return nil
	}

	clipped := make([]Span, 0, len(occupied))
	for _, s := range occupied {
		if c, ok := s.clip(windowStart, windowEnd); ok {
			clipped = append(clipped, c)
		}
	}
	busy := Merge(clipped)

	var gaps []Span
	cursor := windowStart
	for _, b := range busy {
		if b.Start.After(cursor) {
			gaps = append(gaps, Span{Start: cursor, End: b.Start})
		}
		cursor = b.End
	}
	if windowEnd.After(cursor) {
		gaps = append(gaps, Span{Start: cursor, End: windowEnd})
	}
	return gaps
}
