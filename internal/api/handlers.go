// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/productrec/internal/catalog"
	"github.com/tomtom215/productrec/internal/config"
	"github.com/tomtom215/productrec/internal/logging"
	"github.com/tomtom215/productrec/internal/models"
	"github.com/tomtom215/productrec/internal/recommend"
	"github.com/tomtom215/productrec/internal/validation"
)

// maxRequestBodySize bounds the recommendation request body.
const maxRequestBodySize = 1 << 20

// Recommender produces recommendations for one user.
type Recommender interface {
	Recommend(ctx context.Context, userID, topK int) (*recommend.Result, error)
}

// Handler holds the HTTP handlers and what they read from.
type Handler struct {
	recommender    Recommender
	store          *catalog.Store
	modelInfo      models.ModelInfo
	defaultTopK    int
	maxTopK        int
	requestTimeout time.Duration
	startTime      time.Time
}

// NewHandler creates a Handler. store and modelInfo only feed the readiness probe.
func NewHandler(rec Recommender, store *catalog.Store, modelInfo models.ModelInfo, cfg *config.Config) *Handler {
	return &Handler{
		recommender:    rec,
		store:          store,
		modelInfo:      modelInfo,
		defaultTopK:    cfg.Recommend.DefaultTopK,
		maxTopK:        cfg.Recommend.MaxTopK,
		requestTimeout: cfg.Server.RequestTimeout,
		startTime:      time.Now(),
	}
}

// Root godoc
// @Summary Service banner
// @Description Returns a fixed message confirming the API is up
// @Tags Core
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, models.MessageResponse{Message: "Recommendation System API is running!"})
}

// Recommendations godoc
// @Summary Recommend products for a user
// @Description Scores every product in the user's most frequent category and returns the top_k highest, plus the user's purchase history
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body models.RecommendationRequest true "User and result size"
// @Success 200 {object} models.RecommendationResult
// @Failure 404 {object} models.DetailResponse "Unknown user, no purchases, or empty category"
// @Failure 413 {object} models.DetailResponse
// @Failure 422 {object} models.ValidationErrorResponse
// @Failure 429 {object} models.DetailResponse
// @Failure 500 {object} models.DetailResponse
// @Failure 504 {object} models.DetailResponse
// @Router /recommendations/ [post]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	logger := logging.Ctx(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondDetail(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		logger.Debug().Err(err).Msg("Failed to read request body")
		respondDetail(w, http.StatusBadRequest, "Bad Request")
		return
	}

	req, details := decodeRecommendationRequest(body)
	if len(details) == 0 {
		if verr := validation.ValidateStruct(&req); verr != nil {
			details = verr.ToDetails()
		}
	}
	if len(details) == 0 && req.TopK != nil && h.maxTopK > 0 {
		if verr := validation.ValidateField("top_k", *req.TopK, "lte="+strconv.Itoa(h.maxTopK)); verr != nil {
			details = verr.ToDetails()
		}
	}
	if len(details) > 0 {
		respondValidation(w, details)
		return
	}

	topK := h.defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	result, err := h.recommender.Recommend(ctx, *req.UserID, topK)
	if err != nil {
		h.respondRecommendError(w, r, err, *req.UserID)
		return
	}

	respondJSON(w, http.StatusOK, toRecommendationResult(result))
}

func (h *Handler) respondRecommendError(w http.ResponseWriter, r *http.Request, err error, userID int) {
	logger := logging.Ctx(r.Context())

	var notFound *recommend.NotFoundError
	switch {
	case errors.As(err, &notFound):
		logger.Debug().Int("user_id", userID).Str("detail", notFound.Detail).Msg("Recommendation not found")
		respondDetail(w, http.StatusNotFound, notFound.Detail)
	case r.Context().Err() != nil:
		logger.Debug().Err(err).Int("user_id", userID).Msg("Client went away during recommendation")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn().Err(err).Int("user_id", userID).Dur("timeout", h.requestTimeout).Msg("Recommendation timed out")
		respondDetail(w, http.StatusGatewayTimeout, "Gateway Timeout")
	default:
		logger.Error().Err(err).Int("user_id", userID).Msg("Recommendation failed")
		respondDetail(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func toRecommendationResult(res *recommend.Result) models.RecommendationResult {
	out := models.RecommendationResult{
		RecommendedProducts: make([]models.RecommendedProduct, 0, len(res.Recommended)),
		UserPurchases:       make([]models.Purchase, 0, len(res.Purchases)),
	}
	for _, p := range res.Recommended {
		out.RecommendedProducts = append(out.RecommendedProducts, models.RecommendedProduct{
			ProductID: p.ProductID,
			Name:      p.Name,
			Ratings:   p.Rating,
			Image:     p.Image,
		})
	}
	for _, p := range res.Purchases {
		out.UserPurchases = append(out.UserPurchases, models.Purchase{
			ProductID: p.ProductID,
			Name:      p.Name,
			Image:     p.Image,
			Rating:    p.Rating,
		})
	}
	return out
}

// HealthLive godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.LivenessResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, models.LivenessResponse{Status: "ok"})
}

// HealthReady godoc
// @Summary Readiness probe
// @Description Reports catalog sizes and the loaded model. The service only starts serving once both are loaded.
// @Tags Health
// @Produce json
// @Success 200 {object} models.ReadinessResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	card := h.store.Cardinality()
	respondJSON(w, http.StatusOK, models.ReadinessResponse{
		Status:       "ready",
		Products:     h.store.NumProducts(),
		Interactions: h.store.NumInteractions(),
		Users:        card.Users,
		Items:        card.Items,
		Categories:   card.Categories,
		Model:        h.modelInfo,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
	})
}
