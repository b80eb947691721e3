// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package models

// LivenessResponse is the body of GET /health/live.
type LivenessResponse struct {
	Status string `json:"status" example:"ok"`
}

// ModelInfo summarises the loaded scoring model.
type ModelInfo struct {
	EmbeddingDim int    `json:"embedding_dim" example:"64"`
	Layers       []int  `json:"layers"`
	Parameters   int    `json:"parameters" example:"1234567"`
	Digest       string `json:"digest" example:"9f2c..."`
}

// ReadinessResponse is the body of GET /health/ready.
type ReadinessResponse struct {
	Status       string    `json:"status" example:"ready"`
	Products     int       `json:"products" example:"1500"`
	Interactions int       `json:"interactions" example:"20000"`
	Users        int       `json:"users" example:"800"`
	Items        int       `json:"items" example:"1500"`
	Categories   int       `json:"categories" example:"12"`
	Model        ModelInfo `json:"model"`
	Uptime       string    `json:"uptime" example:"1h2m3s"`
}
