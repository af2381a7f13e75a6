package availability

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/medagenda/scheduling-api/internal/timeutil"
)

const (
	monthDurationMin = 1
	dayDurationMin   = 15
	durationMax      = 480

	// DefaultDayDuration is the last resort when a day request omits the
	// duration and the clinic settings carry an unusable default.
	DefaultDayDuration = 60
)

// identifierPattern bounds what we accept as clinician/calendar ids before
// they reach a data source. The managed backend uses opaque alphanumeric
// ids with dashes and underscores.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// FieldError names one offending request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every invalid field of a request. Handlers map
// it to a 400; anything else from the service is a 500.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "availability: invalid request: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (r *MonthRequest) validate() error {
	verr := &ValidationError{}
	if !identifierPattern.MatchString(r.ClinicianID) {
		verr.add("clinicianId", "must be a 1-64 character identifier")
	}
	if r.CalendarID != "" && !identifierPattern.MatchString(r.CalendarID) {
		verr.add("calendarId", "must be a 1-64 character identifier")
	}
	if _, _, err := timeutil.ParseMonth(r.Month); err != nil {
		verr.add("month", "must be formatted YYYY-MM")
	}
	if r.DurationMinutes < monthDurationMin || r.DurationMinutes > durationMax {
		verr.add("durationMinutes", fmt.Sprintf("must be between %d and %d", monthDurationMin, durationMax))
	}
	if r.Timezone != "" {
		if _, err := timeutil.LoadLocation(r.Timezone); err != nil {
			verr.add("timezone", "must be a valid IANA timezone name")
		}
	}
	return verr.orNil()
}

func (r *DayRequest) validate() error {
	verr := &ValidationError{}
	if !identifierPattern.MatchString(r.ClinicianID) {
		verr.add("clinicianId", "must be a 1-64 character identifier")
	}
	if r.CalendarID != "" && !identifierPattern.MatchString(r.CalendarID) {
		verr.add("calendarId", "must be a 1-64 character identifier")
	}
	if _, err := timeutil.ParseDate(r.Date); err != nil {
		verr.add("date", "must be formatted YYYY-MM-DD")
	}
	// Zero means "use the clinic default"; it is filled in once settings
	// are loaded.
	if r.DurationMinutes != 0 && (r.DurationMinutes < dayDurationMin || r.DurationMinutes > durationMax) {
		verr.add("durationMinutes", fmt.Sprintf("must be between %d and %d", dayDurationMin, durationMax))
	}
	return verr.orNil()
}
