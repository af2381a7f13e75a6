package clinic

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlerRequiresStore(t *testing.T) {
	assert.Panics(t, func() { NewHandler(nil, nil) })
}

func TestHandlerGetSettings(t *testing.T) {
	handler := NewHandler(newTestStore(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var settings Settings
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&settings))
	assert.Equal(t, "America/Tegucigalpa", settings.Timezone)
}

func TestHandlerUpdateSettings(t *testing.T) {
	handler := NewHandler(newTestStore(t), nil)

	body := `{"timezone": "America/Mexico_City", "slot_granularity_minutes": 15}`
	req := httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var settings Settings
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&settings))
	assert.Equal(t, "America/Mexico_City", settings.Timezone)
	assert.Equal(t, 15, settings.SlotGranularityMinutes)
	// Untouched field keeps its default.
	assert.Equal(t, 60, settings.DefaultDurationMinutes)
}

func TestHandlerUpdateSettingsRejectsBadTimezone(t *testing.T) {
	handler := NewHandler(newTestStore(t), nil)

	body := `{"timezone": "Not/A_Zone"}`
	req := httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerUpdateSettingsRejectsBadJSON(t *testing.T) {
	handler := NewHandler(newTestStore(t), nil)

	req := httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
