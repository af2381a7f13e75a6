package clinic

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medagenda/scheduling-api/pkg/logging"
)

// Handler provides HTTP endpoints for clinic settings management.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if store == nil {
		panic("clinic: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Routes returns a chi router with the settings routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)
	return r
}

// GetSettings returns the active clinic settings.
// GET /admin/clinic/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to get clinic settings", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(settings); err != nil {
		h.logger.Error("failed to encode clinic settings", "error", err)
	}
}

// UpdateSettingsRequest is the request body for updating settings.
// Omitted fields keep their current value.
type UpdateSettingsRequest struct {
	Timezone               string `json:"timezone,omitempty"`
	SlotGranularityMinutes *int   `json:"slot_granularity_minutes,omitempty"`
	DefaultDurationMinutes *int   `json:"default_duration_minutes,omitempty"`
}

// UpdateSettings applies a partial update to the clinic settings.
// PUT /admin/clinic/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	settings, err := h.store.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to get clinic settings", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	if req.Timezone != "" {
		settings.Timezone = req.Timezone
	}
	if req.SlotGranularityMinutes != nil {
		settings.SlotGranularityMinutes = *req.SlotGranularityMinutes
	}
	if req.DefaultDurationMinutes != nil {
		settings.DefaultDurationMinutes = *req.DefaultDurationMinutes
	}

	if err := settings.Validate(); err != nil {
		h.logger.Warn("rejected clinic settings update", "error", err)
		http.Error(w, `{"error": "invalid settings"}`, http.StatusBadRequest)
		return
	}
	if err := h.store.Set(r.Context(), settings); err != nil {
		h.logger.Error("failed to save clinic settings", "error", err)
		http.Error(w, `{"error": "failed to save settings"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("clinic settings updated", "timezone", settings.Timezone)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(settings); err != nil {
		h.logger.Error("failed to encode clinic settings", "error", err)
	}
}
