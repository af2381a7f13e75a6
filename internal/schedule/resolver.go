package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/medagenda/scheduling-api/pkg/logging"
)

// Store fetches schedule and calendar-membership rows.
type Store interface {
	// CalendarWindows returns the working windows configured on a calendar.
	CalendarWindows(ctx context.Context, calendarID string) ([]WorkingWindow, error)
	// CalendarsForClinician returns ids of calendars the clinician is an
	// active member of.
	CalendarsForClinician(ctx context.Context, clinicianID string) ([]string, error)
	// CalendarMembers returns clinician ids actively assigned to a calendar.
	CalendarMembers(ctx context.Context, calendarID string) ([]string, error)
	// ClinicianWindows returns the legacy per-clinician schedule rows.
	ClinicianWindows(ctx context.Context, clinicianID string) ([]WorkingWindow, error)
}

// Resolver applies the calendar-over-legacy precedence once per request so
// the evaluators never branch on schedule origin.
type Resolver struct {
	store  Store
	logger *logging.Logger
}

func NewResolver(store Store, logger *logging.Logger) *Resolver {
	if store == nil {
		panic("schedule: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{store: store, logger: logger}
}

// Resolve determines the working windows and co-work set for a clinician.
// Precedence: an explicitly named calendar wins; otherwise all calendars
// the clinician belongs to are aggregated; otherwise the legacy
// per-clinician schedule applies. The three branches never mix.
func (r *Resolver) Resolve(ctx context.Context, clinicianID, calendarID string) (*Resolved, error) {
	if calendarID != "" {
		return r.resolveExplicit(ctx, clinicianID, calendarID)
	}

	calendarIDs, err := r.store.CalendarsForClinician(ctx, clinicianID)
	if err != nil {
		return nil, fmt.Errorf("schedule: list calendars for clinician %s: %w", clinicianID, err)
	}
	calendarIDs = dedupe(calendarIDs)
	if len(calendarIDs) > 0 {
		return r.resolveAggregated(ctx, clinicianID, calendarIDs)
	}

	windows, err := r.store.ClinicianWindows(ctx, clinicianID)
	if err != nil {
		return nil, fmt.Errorf("schedule: legacy windows for clinician %s: %w", clinicianID, err)
	}
	return &Resolved{
		Source:  SourceLegacyClinician,
		Windows: r.groupByWeekday(windows),
		CoWork:  []string{clinicianID},
	}, nil
}

func (r *Resolver) resolveExplicit(ctx context.Context, clinicianID, calendarID string) (*Resolved, error) {
	windows, err := r.store.CalendarWindows(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("schedule: windows for calendar %s: %w", calendarID, err)
	}
	members, err := r.store.CalendarMembers(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("schedule: members of calendar %s: %w", calendarID, err)
	}
	coWork := dedupe(append(members, clinicianID))
	return &Resolved{
		Source:  SourceExplicitCalendar,
		Windows: r.groupByWeekday(windows),
		CoWork:  coWork,
	}, nil
}

func (r *Resolver) resolveAggregated(ctx context.Context, clinicianID string, calendarIDs []string) (*Resolved, error) {
	var windows []WorkingWindow
	var coWork []string
	for _, id := range calendarIDs {
		w, err := r.store.CalendarWindows(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("schedule: windows for calendar %s: %w", id, err)
		}
		windows = append(windows, w...)

		members, err := r.store.CalendarMembers(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("schedule: members of calendar %s: %w", id, err)
		}
		coWork = append(coWork, members...)
	}
	coWork = dedupe(append(coWork, clinicianID))
	return &Resolved{
		Source:  SourceAggregatedCalendars,
		Windows: r.groupByWeekday(windows),
		CoWork:  coWork,
	}, nil
}

// groupByWeekday buckets windows per weekday, dropping malformed rows.
// One bad schedule row must not make the whole clinician unbookable.
func (r *Resolver) groupByWeekday(windows []WorkingWindow) map[time.Weekday][]WorkingWindow {
	grouped := make(map[time.Weekday][]WorkingWindow)
	seen := make(map[WorkingWindow]struct{})
	for _, w := range windows {
		if !w.Valid() {
			r.logger.Warn("skipping malformed working window",
				"weekday", int(w.Weekday),
				"start", w.Start.String(),
				"end", w.End.String(),
			)
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		grouped[w.Weekday] = append(grouped[w.Weekday], w)
	}
	for day := range grouped {
		sort.Slice(grouped[day], func(i, j int) bool {
			return grouped[day][i].Start < grouped[day][j].Start
		})
	}
	return grouped
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
