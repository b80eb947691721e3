// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

// Package recommend ranks catalog products for a user.
//
// A Recommender is built once at startup from the loaded catalog and a model
// Scorer. It holds no mutable state, so one instance serves every request
// concurrently.
//
// A request is answered in these steps:
//
//  1. the user must appear in the interaction history
//  2. the user must own at least one catalog row (their purchases)
//  3. the preferred category is the most frequent category in the user's
//     history, ties going to the lowest category id
//  4. every catalog product in that category is scored and the top_k highest
//     are returned, equal scores keeping catalog order
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/productrec/internal/catalog"
	"github.com/tomtom215/productrec/internal/metrics"
	"github.com/tomtom215/productrec/internal/model"
)

// Recommender answers recommendation requests over immutable state.
type Recommender struct {
	store  *catalog.Store
	scorer model.Scorer
	logger zerolog.Logger
}

// New creates a Recommender.
func New(store *catalog.Store, scorer model.Scorer, logger zerolog.Logger) *Recommender {
	return &Recommender{
		store:  store,
		scorer: scorer,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
}

// ScoredProduct is a candidate with its predicted score.
type ScoredProduct struct {
	catalog.Product
	Score float64
}

// Result is the answer to one request.
type Result struct {
	PreferredCategory int
	Candidates        int
	Recommended       []ScoredProduct // highest score first
	Purchases         []catalog.Product
}

// Recommend returns up to topK products from the user's preferred category
// together with the user's purchases. A topK of zero or less yields an empty
// recommendation list; the lookups and scoring still run.
//
// Lookup failures are *NotFoundError values matching ErrNotFound. Scoring
// failures, including ids the model has no embedding for, are returned
// wrapped and should be treated as internal errors.
func (r *Recommender) Recommend(ctx context.Context, userID, topK int) (*Result, error) {
	start := time.Now()
	logger := r.logger.With().Int("user_id", userID).Int("top_k", topK).Logger()

	if !r.store.HasUser(userID) {
		metrics.RecordRecommendation("unknown_user", 0, 0)
		return nil, ErrUnknownUser
	}

	purchases := r.store.Purchases(userID)
	if len(purchases) == 0 {
		metrics.RecordRecommendation("no_purchases", 0, 0)
		return nil, ErrNoPurchases
	}

	category := preferredCategory(r.store.UserCategories(userID))
	candidates := r.store.ProductsInCategory(category)
	if len(candidates) == 0 {
		metrics.RecordRecommendation("no_candidates", 0, 0)
		return nil, ErrNoCandidates
	}

	scored, err := r.score(ctx, userID, category, candidates)
	if err != nil {
		metrics.RecordRecommendation("error", 0, 0)
		logger.Error().Err(err).Int("category_id", category).Msg("scoring failed")
		return nil, err
	}
	rank(scored)
	if topK < len(scored) {
		scored = scored[:max(topK, 0)]
	}

	elapsed := time.Since(start)
	metrics.RecordRecommendation("ok", len(candidates), elapsed)
	logger.Debug().
		Int("category_id", category).
		Int("candidates", len(candidates)).
		Int("returned", len(scored)).
		Dur("latency", elapsed).
		Msg("recommendation complete")

	return &Result{
		PreferredCategory: category,
		Candidates:        len(candidates),
		Recommended:       scored,
		Purchases:         purchases,
	}, nil
}

func (r *Recommender) score(ctx context.Context, userID, category int, candidates []catalog.Product) ([]ScoredProduct, error) {
	out := make([]ScoredProduct, len(candidates))
	for i, p := range candidates {
		s, err := r.scorer.Score(ctx, userID, p.ProductID, category)
		if err != nil {
			return nil, fmt.Errorf("score product %d for user %d: %w", p.ProductID, userID, err)
		}
		out[i] = ScoredProduct{Product: p, Score: s}
	}
	return out, nil
}

// rank orders by descending score; equal scores keep their input order.
func rank(items []ScoredProduct) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

// preferredCategory returns the most frequent value, the lowest one on ties.
// categories must be non-empty.
func preferredCategory(categories []int) int {
	counts := make(map[int]int, len(categories))
	for _, c := range categories {
		counts[c]++
	}
	best, bestCount := 0, 0
	for c, n := range counts {
		if n > bestCount || (n == bestCount && c < best) {
			best, bestCount = c, n
		}
	}
	return best
}

// IsNotFound reports whether err is a client-facing lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
