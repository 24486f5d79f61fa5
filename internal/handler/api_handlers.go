package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/suhelali14/SafarWay-sub004/internal/geocode"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode json response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// AnalyticsAPIHandler - chart data for the dashboard
func (h *Handler) AnalyticsAPIHandler(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	summary, err := h.Analytics.Summary(r.Context(), u.AgencyID)
	if err != nil {
		log.Error().Err(err).Int("agency_id", u.AgencyID).Msg("analytics summary")
		writeJSONError(w, http.StatusInternalServerError, "failed to load analytics")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GeocodeAPIHandler - resolves ?address= for the map widget
func (h *Handler) GeocodeAPIHandler(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeJSONError(w, http.StatusBadRequest, "address is required")
		return
	}
	if !h.Geocoder.Enabled() {
		writeJSONError(w, http.StatusServiceUnavailable, geocode.ErrNotConfigured.Error())
		return
	}
	loc, err := h.Geocoder.Lookup(r.Context(), address)
	switch {
	case errors.Is(err, geocode.ErrNoResults):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case err != nil:
		log.Warn().Err(err).Str("address", address).Msg("geocode lookup")
		writeJSONError(w, http.StatusBadGateway, "geocoding failed")
	default:
		writeJSON(w, http.StatusOK, loc)
	}
}

// HealthHandler reports whether the database answers.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := h.Store.CountUsers(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
