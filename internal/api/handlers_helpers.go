// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package api

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/productrec/internal/logging"
	"github.com/tomtom215/productrec/internal/models"
)

// maxLogValueLength caps client-controlled strings written to logs.
const maxLogValueLength = 256

// sanitizeLogValue strips control characters from client input before it is
// logged and truncates it to maxLogValueLength.
func sanitizeLogValue(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if len(s) > maxLogValueLength {
		s = s[:maxLogValueLength] + "..."
	}
	return s
}

// respondJSON writes v as a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Internal Server Error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondDetail writes the {"detail": "..."} error shape.
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, models.DetailResponse{Detail: detail})
}

// respondValidation writes a 422 with the per-field detail list.
func respondValidation(w http.ResponseWriter, details []models.ValidationDetail) {
	respondJSON(w, http.StatusUnprocessableEntity, models.ValidationErrorResponse{Detail: details})
}
