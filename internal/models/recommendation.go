// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

// Package models defines the JSON bodies exchanged over the HTTP API.
package models

// RecommendationRequest is the body of POST /recommendations/.
//
// Both fields are pointers so a missing key can be told apart from zero.
type RecommendationRequest struct {
	UserID *int `json:"user_id" validate:"required"`
	TopK   *int `json:"top_k,omitempty"`
}

// RecommendedProduct is one ranked candidate.
type RecommendedProduct struct {
	ProductID int     `json:"product_id" example:"1"`
	Name      string  `json:"name" example:"Wireless Mouse"`
	Ratings   float64 `json:"ratings" example:"4.2"`
	Image     string  `json:"image" example:"https://example.com/mouse.jpg"`
}

// Purchase is one catalog row owned by the requesting user.
type Purchase struct {
	ProductID int     `json:"product_id" example:"3"`
	Name      string  `json:"name" example:"USB Keyboard"`
	Image     string  `json:"image" example:"https://example.com/keyboard.jpg"`
	Rating    float64 `json:"rating" example:"5"`
}

// RecommendationResult is the 200 response of POST /recommendations/.
type RecommendationResult struct {
	RecommendedProducts []RecommendedProduct `json:"recommended_products"`
	UserPurchases       []Purchase           `json:"user_purchases"`
}

// MessageResponse is the body of GET /.
type MessageResponse struct {
	Message string `json:"message" example:"Recommendation System API is running!"`
}
