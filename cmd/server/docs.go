// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

// Package main provides the Productrec HTTP server
//
// @title Productrec API
// @version 1.0
// @description Personalized product recommendations from a neural collaborative filtering model.
// @description
// @description A user's preferred category is the category they interacted with most.
// @description Every product in that category is scored for the user and the highest
// @description scoring products are returned together with the user's purchase history.
// @description
// @description ## Rate Limiting
// @description
// @description Off by default. With DISABLE_RATE_LIMIT=false, recommendations are limited
// @description per IP address (RATE_LIMIT_REQUESTS per RATE_LIMIT_WINDOW, default 100 per minute).
// @description
// @description ## Error Responses
// @description
// @description Errors use a single `detail` field: a string for 404, 429, 500 and 504,
// @description and a list of `{loc, msg, type}` entries for 422 validation errors.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/productrec/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3450
// @BasePath /
// @schemes http https
//
// @tag.name Core
// @tag.description Service banner
//
// @tag.name Recommendations
// @tag.description Personalized recommendations
//
// @tag.name Health
// @tag.description Liveness and readiness probes
package main
