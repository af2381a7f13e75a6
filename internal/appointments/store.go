package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medagenda/scheduling-api/internal/timeutil"
)

// PgxPool is the pool subset the store needs; pgxmock satisfies it.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads booked appointments from Postgres.
type Store struct {
	pool PgxPool
}

func NewStore(pool PgxPool) *Store {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Store{pool: pool}
}

// excludedStatuses is the SQL-side cancellation filter. Appointment.Cancelled
// repeats the check in Go for rows arriving from other sources.
var excludedStatuses = []string{
	"cancelled",
	"canceled",
	"cancelled_by_patient",
	"cancelled_by_clinic",
	"no_show",
}

// ListForPeriod returns non-cancelled appointments for any of the given
// clinicians with dates in [from, to] inclusive. An empty clinician set or
// an inverted range yields nothing without a query.
func (s *Store) ListForPeriod(ctx context.Context, clinicianIDs []string, from, to timeutil.Date) ([]Appointment, error) {
	if len(clinicianIDs) == 0 || to.Before(from) {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, clinician_id, date, start_time, duration_minutes, status
		   FROM appointments
		  WHERE clinician_id = ANY($1)
		    AND date BETWEEN $2 AND $3
		    AND status <> ALL($4)
		  ORDER BY date, start_time`,
		clinicianIDs, from.String(), to.String(), excludedStatuses)
	if err != nil {
		return nil, fmt.Errorf("appointments: query period: %w", err)
	}
	defer rows.Close()

	var appts []Appointment
	for rows.Next() {
		var (
			a       Appointment
			id      uuid.UUID
			date    time.Time
			start   string
			dur     int
			status  string
			clinID  string
		)
		if err := rows.Scan(&id, &clinID, &date, &start, &dur, &status); err != nil {
			return nil, fmt.Errorf("appointments: scan row: %w", err)
		}
		startClock, err := timeutil.ParseClock(start)
		if err != nil {
			return nil, fmt.Errorf("appointments: start time: %w", err)
		}
		a = Appointment{
			ID:          id,
			ClinicianID: clinID,
			Date:        timeutil.DateOf(date),
			Start:       startClock,
			DurationMin: dur,
			Status:      status,
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate rows: %w", err)
	}
	return appts, nil
}
