package availability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/medagenda/scheduling-api/internal/appointments"
	"github.com/medagenda/scheduling-api/internal/clinic"
	"github.com/medagenda/scheduling-api/internal/observability/metrics"
	"github.com/medagenda/scheduling-api/internal/schedule"
	"github.com/medagenda/scheduling-api/internal/timeutil"
	"github.com/medagenda/scheduling-api/pkg/logging"
)

// ScheduleResolver yields the working windows and co-work set for a request.
type ScheduleResolver interface {
	Resolve(ctx context.Context, clinicianID, calendarID string) (*schedule.Resolved, error)
}

// AppointmentSource fetches booked appointments for a clinician set and
// inclusive date range.
type AppointmentSource interface {
	ListForPeriod(ctx context.Context, clinicianIDs []string, from, to timeutil.Date) ([]appointments.Appointment, error)
}

// SettingsSource yields the clinic-wide scheduling settings.
type SettingsSource interface {
	Get(ctx context.Context) (*clinic.Settings, error)
}

// Service orchestrates one availability request: resolve the schedule,
// fetch the co-work set's appointments, run the engine. It holds no state
// across requests and is safe for concurrent use.
type Service struct {
	resolver ScheduleResolver
	appts    AppointmentSource
	settings SettingsSource
	metrics  *metrics.AvailabilityMetrics
	tracer   trace.Tracer
	logger   *logging.Logger
}

func NewService(resolver ScheduleResolver, appts AppointmentSource, settings SettingsSource, m *metrics.AvailabilityMetrics, logger *logging.Logger) *Service {
	if resolver == nil {
		panic("availability: resolver required")
	}
	if appts == nil {
		panic("availability: appointment source required")
	}
	if settings == nil {
		panic("availability: settings source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		resolver: resolver,
		appts:    appts,
		settings: settings,
		metrics:  m,
		tracer:   otel.Tracer("medagenda.internal.availability"),
		logger:   logger,
	}
}

// MonthRequest asks which days of a month can fit an appointment.
type MonthRequest struct {
	ClinicianID     string `json:"clinicianId"`
	CalendarID      string `json:"calendarId,omitempty"`
	Month           string `json:"month"`
	DurationMinutes int    `json:"durationMinutes"`
	Timezone        string `json:"timezone,omitempty"`
}

// MonthResponse echoes the request parameters plus one entry per day.
type MonthResponse struct {
	ClinicianID     string      `json:"clinicianId"`
	Month           string      `json:"month"`
	DurationMinutes int         `json:"durationMinutes"`
	Timezone        string      `json:"timezone"`
	Days            []DayResult `json:"days"`
}

// DayRequest asks for the bookable start times on one date.
type DayRequest struct {
	ClinicianID     string `json:"clinicianId"`
	CalendarID      string `json:"calendarId,omitempty"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"durationMinutes"`
}

// DayResponse lists bookable wall-clock start times, ascending.
type DayResponse struct {
	Slots []string `json:"slots"`
}

// Month evaluates every day of the requested month.
func (s *Service) Month(ctx context.Context, req MonthRequest) (*MonthResponse, error) {
	ctx, span := s.tracer.Start(ctx, "availability.month")
	defer span.End()
	span.SetAttributes(
		attribute.String("medagenda.clinician_id", req.ClinicianID),
		attribute.String("medagenda.month", req.Month),
	)
	start := time.Now()

	if err := req.validate(); err != nil {
		s.metrics.ObserveRequest("month", "validation_error")
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.metrics.ObserveRequest("month", "error")
		span.RecordError(err)
		return nil, fmt.Errorf("availability: load clinic settings: %w", err)
	}
	tz := req.Timezone
	if tz == "" {
		tz = settings.Timezone
	}
	loc, err := timeutil.LoadLocation(tz)
	if err != nil {
		s.metrics.ObserveRequest("month", "error")
		return nil, err
	}

	year, month, err := timeutil.ParseMonth(req.Month)
	if err != nil {
		// validate() already checked the format; keep the guard anyway.
		s.metrics.ObserveRequest("month", "validation_error")
		return nil, err
	}

	resolved, err := s.resolver.Resolve(ctx, req.ClinicianID, req.CalendarID)
	if err != nil {
		s.metrics.ObserveRequest("month", "error")
		span.RecordError(err)
		return nil, err
	}

	first := timeutil.Date{Year: year, Month: month, Day: 1}
	last := first.AddDays(timeutil.DaysInMonth(year, month) - 1)
	appts, err := s.appts.ListForPeriod(ctx, resolved.CoWork, first, last)
	if err != nil {
		// Never degrade a fetch failure into "no appointments": that
		// would report availability that may not exist.
		s.metrics.ObserveRequest("month", "error")
		span.RecordError(err)
		return nil, fmt.Errorf("availability: fetch appointments: %w", err)
	}

	days := EvaluateMonth(resolved, appointments.OccupiedByDate(appts, loc), year, month, req.DurationMinutes, loc)

	s.metrics.ObserveRequest("month", "ok")
	s.metrics.ObserveLatency("month", time.Since(start).Seconds())
	s.logger.Debug("month availability computed",
		"clinician_id", req.ClinicianID,
		"month", req.Month,
		"source", resolved.Source.String(),
		"co_work", len(resolved.CoWork),
	)

	return &MonthResponse{
		ClinicianID:     req.ClinicianID,
		Month:           req.Month,
		DurationMinutes: req.DurationMinutes,
		Timezone:        tz,
		Days:            days,
	}, nil
}

// Day enumerates the bookable start times on one date.
func (s *Service) Day(ctx context.Context, req DayRequest) (*DayResponse, error) {
	ctx, span := s.tracer.Start(ctx, "availability.day")
	defer span.End()
	span.SetAttributes(
		attribute.String("medagenda.clinician_id", req.ClinicianID),
		attribute.String("medagenda.date", req.Date),
	)
	start := time.Now()

	if err := req.validate(); err != nil {
		s.metrics.ObserveRequest("day", "validation_error")
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.metrics.ObserveRequest("day", "error")
		span.RecordError(err)
		return nil, fmt.Errorf("availability: load clinic settings: %w", err)
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = settings.DefaultDurationMinutes
		if req.DurationMinutes < dayDurationMin || req.DurationMinutes > durationMax {
			// An out-of-range clinic default must not fail the request.
			req.DurationMinutes = DefaultDayDuration
		}
	}
	loc, err := timeutil.LoadLocation(settings.Timezone)
	if err != nil {
		s.metrics.ObserveRequest("day", "error")
		return nil, err
	}

	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		s.metrics.ObserveRequest("day", "validation_error")
		return nil, err
	}

	resolved, err := s.resolver.Resolve(ctx, req.ClinicianID, req.CalendarID)
	if err != nil {
		s.metrics.ObserveRequest("day", "error")
		span.RecordError(err)
		return nil, err
	}

	appts, err := s.appts.ListForPeriod(ctx, resolved.CoWork, date, date)
	if err != nil {
		s.metrics.ObserveRequest("day", "error")
		span.RecordError(err)
		return nil, fmt.Errorf("availability: fetch appointments: %w", err)
	}

	occupied := appointments.OccupiedByDate(appts, loc)[date]
	slots := GenerateSlots(resolved, occupied, date, req.DurationMinutes, settings.SlotGranularityMinutes, loc)
	if slots == nil {
		slots = []string{}
	}

	s.metrics.ObserveRequest("day", "ok")
	s.metrics.ObserveLatency("day", time.Since(start).Seconds())
	s.metrics.ObserveSlots(len(slots))
	s.logger.Debug("day slots computed",
		"clinician_id", req.ClinicianID,
		"date", req.Date,
		"source", resolved.Source.String(),
		"slots", len(slots),
	)

	return &DayResponse{Slots: slots}, nil
}
