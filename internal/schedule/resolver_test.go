package schedule

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/medagenda/scheduling-api/internal/timeutil"
)

type stubStore struct {
	calendarWindows  map[string][]WorkingWindow
	calendarMembers  map[string][]string
	clinicianCals    map[string][]string
	clinicianWindows map[string][]WorkingWindow
	err              error
}

func (s *stubStore) CalendarWindows(_ context.Context, calendarID string) ([]WorkingWindow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.calendarWindows[calendarID], nil
}

func (s *stubStore) CalendarsForClinician(_ context.Context, clinicianID string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.clinicianCals[clinicianID], nil
}

func (s *stubStore) CalendarMembers(_ context.Context, calendarID string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.calendarMembers[calendarID], nil
}

func (s *stubStore) ClinicianWindows(_ context.Context, clinicianID string) ([]WorkingWindow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.clinicianWindows[clinicianID], nil
}

func clock(min int) timeutil.ClockTime {
	return timeutil.ClockTime(min)
}

func window(day time.Weekday, start, end int) WorkingWindow {
	return WorkingWindow{Weekday: day, Start: clock(start), End: clock(end)}
}

func TestResolveExplicitCalendar(t *testing.T) {
	store := &stubStore{
		calendarWindows: map[string][]WorkingWindow{
			"cal-1": {window(time.Monday, 480, 720)},
		},
		calendarMembers: map[string][]string{
			"cal-1": {"dr-b", "dr-a"},
		},
		// Legacy rows must be ignored once a calendar is named.
		clinicianWindows: map[string][]WorkingWindow{
			"dr-a": {window(time.Friday, 540, 600)},
		},
	}
	resolver := NewResolver(store, nil)

	got, err := resolver.Resolve(context.Background(), "dr-a", "cal-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Source != SourceExplicitCalendar {
		t.Fatalf("source = %v, want explicit calendar", got.Source)
	}
	if !reflect.DeepEqual(got.CoWork, []string{"dr-a", "dr-b"}) {
		t.Fatalf("co-work = %v", got.CoWork)
	}
	if len(got.WindowsOn(time.Monday)) != 1 || len(got.WindowsOn(time.Friday)) != 0 {
		t.Fatalf("windows = %v", got.Windows)
	}
}

func TestResolveAggregatesAllCalendars(t *testing.T) {
	store := &stubStore{
		clinicianCals: map[string][]string{
			"dr-a": {"cal-morning", "cal-afternoon", "cal-morning"},
		},
		calendarWindows: map[string][]WorkingWindow{
			"cal-morning":   {window(time.Monday, 480, 720)},
			"cal-afternoon": {window(time.Monday, 840, 1020), window(time.Tuesday, 480, 600)},
		},
		calendarMembers: map[string][]string{
			"cal-morning":   {"dr-a", "dr-b"},
			"cal-afternoon": {"dr-a", "dr-c"},
		},
	}
	resolver := NewResolver(store, nil)

	got, err := resolver.Resolve(context.Background(), "dr-a", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Source != SourceAggregatedCalendars {
		t.Fatalf("source = %v, want aggregated calendars", got.Source)
	}
	if !reflect.DeepEqual(got.CoWork, []string{"dr-a", "dr-b", "dr-c"}) {
		t.Fatalf("co-work = %v", got.CoWork)
	}
	monday := got.WindowsOn(time.Monday)
	if len(monday) != 2 {
		t.Fatalf("expected 2 Monday windows, got %v", monday)
	}
	// Windows within a weekday come back sorted by start.
	if monday[0].Start != clock(480) || monday[1].Start != clock(840) {
		t.Fatalf("Monday windows out of order: %v", monday)
	}
}

func TestResolveLegacyFallback(t *testing.T) {
	store := &stubStore{
		clinicianWindows: map[string][]WorkingWindow{
			"dr-solo": {window(time.Wednesday, 540, 780)},
		},
	}
	resolver := NewResolver(store, nil)

	got, err := resolver.Resolve(context.Background(), "dr-solo", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Source != SourceLegacyClinician {
		t.Fatalf("source = %v, want legacy", got.Source)
	}
	if !reflect.DeepEqual(got.CoWork, []string{"dr-solo"}) {
		t.Fatalf("co-work = %v, want only the clinician", got.CoWork)
	}
	if len(got.WindowsOn(time.Wednesday)) != 1 {
		t.Fatalf("windows = %v", got.Windows)
	}
}

func TestResolveSkipsMalformedWindows(t *testing.T) {
	store := &stubStore{
		calendarWindows: map[string][]WorkingWindow{
			"cal-1": {
				window(time.Monday, 720, 480), // inverted
				window(time.Monday, 600, 600), // zero length
				window(time.Monday, 480, 720),
			},
		},
		calendarMembers: map[string][]string{"cal-1": {"dr-a"}},
	}
	resolver := NewResolver(store, nil)

	got, err := resolver.Resolve(context.Background(), "dr-a", "cal-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got.WindowsOn(time.Monday)) != 1 {
		t.Fatalf("malformed windows not skipped: %v", got.WindowsOn(time.Monday))
	}
}

func TestResolveDeduplicatesIdenticalWindows(t *testing.T) {
	// Two calendars carrying the same window row must not double it.
	store := &stubStore{
		clinicianCals: map[string][]string{"dr-a": {"cal-1", "cal-2"}},
		calendarWindows: map[string][]WorkingWindow{
			"cal-1": {window(time.Monday, 480, 720)},
			"cal-2": {window(time.Monday, 480, 720)},
		},
		calendarMembers: map[string][]string{
			"cal-1": {"dr-a"},
			"cal-2": {"dr-a"},
		},
	}
	resolver := NewResolver(store, nil)

	got, err := resolver.Resolve(context.Background(), "dr-a", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got.WindowsOn(time.Monday)) != 1 {
		t.Fatalf("duplicate windows kept: %v", got.WindowsOn(time.Monday))
	}
}

func TestResolvePropagatesStoreError(t *testing.T) {
	store := &stubStore{err: errors.New("connection refused")}
	resolver := NewResolver(store, nil)

	if _, err := resolver.Resolve(context.Background(), "dr-a", ""); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestSourceString(t *testing.T) {
	if SourceExplicitCalendar.String() != "explicit_calendar" ||
		SourceAggregatedCalendars.String() != "aggregated_calendars" ||
		SourceLegacyClinician.String() != "legacy_clinician" {
		t.Fatal("unexpected Source string values")
	}
}
