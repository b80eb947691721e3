// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/productrec/internal/catalog"
	"github.com/tomtom215/productrec/internal/config"
	"github.com/tomtom215/productrec/internal/logging"
	"github.com/tomtom215/productrec/internal/model"
	"github.com/tomtom215/productrec/internal/models"
	"github.com/tomtom215/productrec/internal/recommend"
)

// recommendComponents is everything the HTTP layer reads from.
type recommendComponents struct {
	recommender *recommend.Recommender
	store       *catalog.Store
	modelInfo   models.ModelInfo
}

// initRecommend loads both tables and the model snapshot, checks that the
// model was trained on this catalog, and builds the Recommender. Any failure
// is fatal to startup: the service never serves without a model.
func initRecommend(ctx context.Context, cfg *config.Config) (*recommendComponents, error) {
	store, err := catalog.Load(ctx, catalog.LoaderConfig{
		ProductsPath:     cfg.Data.ProductsPath,
		InteractionsPath: cfg.Data.InteractionsPath,
		Threads:          cfg.Data.DuckDBThreads,
		MaxMemory:        cfg.Data.DuckDBMaxMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	snap, err := model.LoadSnapshot(cfg.Data.ModelPath, cfg.Data.ModelDigest)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if err := snap.CheckCardinality(store.Cardinality()); err != nil {
		return nil, fmt.Errorf("model does not match catalog: %w", err)
	}

	arch := snap.Architecture()
	logging.Info().
		Int("products", store.NumProducts()).
		Int("interactions", store.NumInteractions()).
		Int("users", arch.Users).
		Int("items", arch.Items).
		Int("categories", arch.Categories).
		Int("embedding_dim", arch.EmbeddingDim).
		Ints("layers", arch.Layers).
		Str("digest", snap.Digest).
		Msg("Recommender ready")

	return &recommendComponents{
		recommender: recommend.New(store, snap, logging.Logger()),
		store:       store,
		modelInfo: models.ModelInfo{
			EmbeddingDim: arch.EmbeddingDim,
			Layers:       arch.Layers,
			Parameters:   arch.Parameters,
			Digest:       snap.Digest,
		},
	}, nil
}
