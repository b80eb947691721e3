// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package api

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/productrec/internal/models"
	"github.com/tomtom215/productrec/internal/validation"
)

// decodeRecommendationRequest parses the body field by field so every type
// problem is reported against the field that caused it. Unknown fields are
// ignored. Integer fields also take integral floats and strings holding a
// decimal integer, which is what form-driven clients send.
func decodeRecommendationRequest(body []byte) (models.RecommendationRequest, []models.ValidationDetail) {
	var req models.RecommendationRequest

	if !json.Valid(body) {
		return req, validation.NewFieldError("", "json", "request body is not valid JSON").ToDetails()
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return req, validation.NewFieldError("", "object", "request body must be a JSON object").ToDetails()
	}

	var details []models.ValidationDetail
	for _, f := range []struct {
		name string
		dst  **int
	}{
		{"user_id", &req.UserID},
		{"top_k", &req.TopK},
	} {
		raw, ok := fields[f.name]
		if !ok {
			continue
		}
		v, ok := parseInt(raw)
		if !ok {
			details = append(details,
				validation.NewFieldError(f.name, "int", f.name+" must be a valid integer").ToDetails()...)
			continue
		}
		*f.dst = &v
	}
	return req, details
}

// parseInt accepts 7, 7.0 and "7". null, 2.5, "7.5" and "abc" are rejected.
func parseInt(raw json.RawMessage) (int, bool) {
	tok := bytes.TrimSpace(raw)
	if len(tok) > 0 && tok[0] == '"' {
		var s string
		if err := json.Unmarshal(tok, &s); err != nil {
			return 0, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		return n, err == nil
	}

	if n, err := strconv.Atoi(string(tok)); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(string(tok), 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}
