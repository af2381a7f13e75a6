// Package availability computes which days of a month can still take an
// appointment of a requested duration and which exact start times remain
// free on a given day. The two computations use deliberately different
// algorithms (gap subtraction vs. grid enumeration) and are kept in
// agreement by tests.
package availability

import (
	"time"

	"github.com/medagenda/scheduling-api/internal/interval"
	"github.com/medagenda/scheduling-api/internal/schedule"
	"github.com/medagenda/scheduling-api/internal/timeutil"
)

// DayResult is the month evaluation outcome for a single calendar day.
type DayResult struct {
	Date                    string `json:"date"`
	Weekday                 int    `json:"weekday"`
	IsWorkingDay            bool   `json:"isWorkingDay"`
	CanFitRequestedDuration bool   `json:"canFitRequestedDuration"`
}

// EvaluateMonth walks every calendar date of the month in loc and reports,
// per day, whether it is a working day and whether a slot of durationMin
// still fits. Month boundaries are local wall-clock, never UTC.
func EvaluateMonth(
	resolved *schedule.Resolved,
	occupiedByDate map[timeutil.Date][]interval.Span,
	year int,
	month time.Month,
	durationMin int,
	loc *time.Location,
) []DayResult {
	days := timeutil.DaysInMonth(year, month)
	results := make([]DayResult, 0, days)

	for day := 1; day <= days; day++ {
		date := timeutil.Date{Year: year, Month: month, Day: day}
		result := DayResult{
			Date:    date.String(),
			Weekday: int(date.Weekday()),
		}

		windows := resolved.WindowsOn(date.Weekday())
		if len(windows) > 0 {
			result.IsWorkingDay = true
			result.CanFitRequestedDuration = dayFits(windows, occupiedByDate[date], date, durationMin, loc)
		}
		results = append(results, result)
	}
	return results
}

// dayFits checks each window independently and short-circuits on the first
// gap at least durationMin long. A gap exactly equal to the duration
// counts.
func dayFits(windows []schedule.WorkingWindow, occupied []interval.Span, date timeutil.Date, durationMin int, loc *time.Location) bool {
	for _, w := range windows {
		winStart := w.Start.On(date, loc)
		winEnd := w.End.On(date, loc)
		for _, gap := range interval.Gaps(winStart, winEnd, occupied) {
			if gap.Minutes() >= durationMin {
				return true
			}
		}
	}
	return false
}
