package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medagenda/scheduling-api/internal/timeutil"
)

// PgxPool is the subset of pgxpool.Pool the store needs, so tests can
// substitute pgxmock.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgStore reads schedule and calendar rows from Postgres.
type PgStore struct {
	pool PgxPool
}

func NewPgStore(pool PgxPool) *PgStore {
	if pool == nil {
		panic("schedule: pgx pool required")
	}
	return &PgStore{pool: pool}
}

// CalendarWindows returns the working windows configured on a calendar.
func (s *PgStore) CalendarWindows(ctx context.Context, calendarID string) ([]WorkingWindow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT weekday, start_time, end_time
		   FROM calendar_windows
		  WHERE calendar_id = $1
		  ORDER BY weekday, start_time`, calendarID)
	if err != nil {
		return nil, fmt.Errorf("schedule: query calendar windows: %w", err)
	}
	defer rows.Close()
	return scanWindows(rows)
}

// ClinicianWindows returns the legacy per-clinician schedule rows.
func (s *PgStore) ClinicianWindows(ctx context.Context, clinicianID string) ([]WorkingWindow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT weekday, start_time, end_time
		   FROM clinician_schedules
		  WHERE clinician_id = $1
		  ORDER BY weekday, start_time`, clinicianID)
	if err != nil {
		return nil, fmt.Errorf("schedule: query clinician windows: %w", err)
	}
	defer rows.Close()
	return scanWindows(rows)
}

// CalendarsForClinician returns calendars the clinician actively belongs to.
func (s *PgStore) CalendarsForClinician(ctx context.Context, clinicianID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT calendar_id
		   FROM calendar_members
		  WHERE clinician_id = $1 AND active
		  ORDER BY calendar_id`, clinicianID)
	if err != nil {
		return nil, fmt.Errorf("schedule: query calendar memberships: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// CalendarMembers returns clinicians actively assigned to a calendar.
func (s *PgStore) CalendarMembers(ctx context.Context, calendarID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT clinician_id
		   FROM calendar_members
		  WHERE calendar_id = $1 AND active
		  ORDER BY clinician_id`, calendarID)
	if err != nil {
		return nil, fmt.Errorf("schedule: query calendar members: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

func scanWindows(rows pgx.Rows) ([]WorkingWindow, error) {
	var windows []WorkingWindow
	for rows.Next() {
		var (
			weekday    int
			start, end string
		)
		if err := rows.Scan(&weekday, &start, &end); err != nil {
			return nil, fmt.Errorf("schedule: scan window row: %w", err)
		}
		startClock, err := timeutil.ParseClock(start)
		if err != nil {
			return nil, fmt.Errorf("schedule: window start: %w", err)
		}
		endClock, err := timeutil.ParseClock(end)
		if err != nil {
			return nil, fmt.Errorf("schedule: window end: %w", err)
		}
		windows = append(windows, WorkingWindow{
			Weekday: time.Weekday(weekday),
			Start:   startClock,
			End:     endClock,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schedule: iterate window rows: %w", err)
	}
	return windows, nil
}

func scanIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("schedule: scan id row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schedule: iterate id rows: %w", err)
	}
	return ids, nil
}
