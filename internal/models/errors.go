// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package models

// DetailResponse carries a single error message, e.g. 404 and 500 bodies.
type DetailResponse struct {
	Detail string `json:"detail" example:"User ID not found"`
}

// ValidationDetail locates one invalid input. Loc starts with "body"
// followed by the field name, when there is one.
type ValidationDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg" example:"user_id must be a valid integer"`
	Type string   `json:"type" example:"int_type"`
}

// ValidationErrorResponse is the 422 body.
type ValidationErrorResponse struct {
	Detail []ValidationDetail `json:"detail"`
}
