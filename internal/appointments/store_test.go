package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/medagenda/scheduling-api/internal/timeutil"
)

func TestStoreListForPeriod(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	store := &Store{pool: mock}

	id := uuid.New()
	mock.ExpectQuery("SELECT id, clinician_id, date, start_time, duration_minutes, status").
		WithArgs([]string{"dr-a", "dr-b"}, "2026-03-01", "2026-03-31", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "clinician_id", "date", "start_time", "duration_minutes", "status"}).
			AddRow(id, "dr-a", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "09:00", 60, "booked"))

	from := timeutil.Date{Year: 2026, Month: time.March, Day: 1}
	to := timeutil.Date{Year: 2026, Month: time.March, Day: 31}
	appts, err := store.ListForPeriod(context.Background(), []string{"dr-a", "dr-b"}, from, to)
	if err != nil {
		t.Fatalf("ListForPeriod: %v", err)
	}
	if len(appts) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(appts))
	}
	got := appts[0]
	if got.ID != id || got.ClinicianID != "dr-a" || got.Start != 540 || got.DurationMin != 60 {
		t.Fatalf("unexpected appointment: %+v", got)
	}
	if got.Date != (timeutil.Date{Year: 2026, Month: time.March, Day: 2}) {
		t.Fatalf("unexpected date: %v", got.Date)
	}
}

func TestStoreListForPeriodEmptyClinicianSet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	store := NewStore(mock)

	appts, err := store.ListForPeriod(context.Background(), nil,
		timeutil.Date{Year: 2026, Month: time.March, Day: 1},
		timeutil.Date{Year: 2026, Month: time.March, Day: 31})
	if err != nil {
		t.Fatalf("ListForPeriod: %v", err)
	}
	if appts != nil {
		t.Fatalf("expected no query and nil result, got %v", appts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected queries: %v", err)
	}
}

func TestStoreListForPeriodInvertedRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	store := NewStore(mock)

	appts, err := store.ListForPeriod(context.Background(), []string{"dr-a"},
		timeutil.Date{Year: 2026, Month: time.March, Day: 31},
		timeutil.Date{Year: 2026, Month: time.March, Day: 1})
	if err != nil {
		t.Fatalf("ListForPeriod: %v", err)
	}
	if appts != nil {
		t.Fatalf("expected no query and nil result, got %v", appts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected queries: %v", err)
	}
}

func TestStoreListForPeriodBadStartTime(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	store := &Store{pool: mock}

	mock.ExpectQuery("SELECT id, clinician_id, date, start_time, duration_minutes, status").
		WithArgs([]string{"dr-a"}, "2026-03-01", "2026-03-31", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "clinician_id", "date", "start_time", "duration_minutes", "status"}).
			AddRow(uuid.New(), "dr-a", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "9 o'clock", 60, "booked"))

	_, err = store.ListForPeriod(context.Background(), []string{"dr-a"},
		timeutil.Date{Year: 2026, Month: time.March, Day: 1},
		timeutil.Date{Year: 2026, Month: time.March, Day: 31})
	if err == nil {
		t.Fatal("expected error for malformed start_time")
	}
}
