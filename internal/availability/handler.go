package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/medagenda/scheduling-api/pkg/logging"
)

// Handler serves the month-availability and day-slots endpoints. Both
// accept query parameters (GET) or a JSON body (POST) and are read-only.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if svc == nil {
		panic("availability: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes returns a chi router with the availability routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/month", h.Month)
	r.Post("/month", h.Month)
	r.Get("/day", h.Day)
	r.Post("/day", h.Day)
	return r
}

// Month handles GET|POST /availability/month.
func (h *Handler) Month(w http.ResponseWriter, r *http.Request) {
	var req MonthRequest
	if hasJSONBody(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body", nil)
			return
		}
	} else {
		q := r.URL.Query()
		req.ClinicianID = q.Get("clinicianId")
		req.CalendarID = q.Get("calendarId")
		req.Month = q.Get("month")
		req.Timezone = q.Get("timezone")
		duration, ok := intParam(q.Get("durationMinutes"))
		if !ok {
			respondError(w, http.StatusBadRequest, "validation failed",
				[]FieldError{{Field: "durationMinutes", Message: "must be an integer"}})
			return
		}
		req.DurationMinutes = duration
	}

	resp, err := h.svc.Month(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Day handles GET|POST /availability/day.
func (h *Handler) Day(w http.ResponseWriter, r *http.Request) {
	var req DayRequest
	if hasJSONBody(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body", nil)
			return
		}
	} else {
		q := r.URL.Query()
		req.ClinicianID = q.Get("clinicianId")
		req.CalendarID = q.Get("calendarId")
		req.Date = q.Get("date")
		duration, ok := intParam(q.Get("durationMinutes"))
		if !ok {
			respondError(w, http.StatusBadRequest, "validation failed",
				[]FieldError{{Field: "durationMinutes", Message: "must be an integer"}})
			return
		}
		req.DurationMinutes = duration
	}

	resp, err := h.svc.Day(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		respondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}
	h.logger.Error("availability request failed",
		"path", r.URL.Path,
		"error", err,
	)
	respondError(w, http.StatusInternalServerError, "internal server error", nil)
}

func hasJSONBody(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// intParam parses an optional integer query parameter; empty means zero.
func intParam(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

type errorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

func respondError(w http.ResponseWriter, status int, message string, fields []FieldError) {
	respondJSON(w, status, errorResponse{Error: message, Fields: fields})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
