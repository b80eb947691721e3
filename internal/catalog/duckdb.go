// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver

	"github.com/tomtom215/productrec/internal/logging"
	"github.com/tomtom215/productrec/internal/metrics"
)

// LoaderConfig locates the CSV tables and tunes the in-process DuckDB used to
// parse them.
type LoaderConfig struct {
	ProductsPath     string
	InteractionsPath string

	// Threads of 0 keeps the DuckDB default.
	Threads   int
	MaxMemory string
}

// productsQuery reads the catalog. Rows without a product or category id
// cannot be ranked and are skipped; missing text becomes "" and a missing
// rating becomes 0.
const productsQuery = `
SELECT
	CAST(product_id AS BIGINT),
	COALESCE(CAST(name AS VARCHAR), ''),
	COALESCE(CAST(image AS VARCHAR), ''),
	CAST(category_id AS BIGINT),
	COALESCE(CAST(ratings AS DOUBLE), 0),
	CAST(user_id AS BIGINT)
FROM read_csv_auto(%s, header = true)
WHERE product_id IS NOT NULL AND category_id IS NOT NULL`

// interactionsQuery reads the history table, dropping rows with any missing id.
const interactionsQuery = `
SELECT
	CAST(user_id AS BIGINT),
	CAST(product_id AS BIGINT),
	CAST(category_id AS BIGINT)
FROM read_csv_auto(%s, header = true)
WHERE user_id IS NOT NULL AND product_id IS NOT NULL AND category_id IS NOT NULL`

// Load parses both tables through an in-memory DuckDB and returns the
// indexed Store. The database is closed before Load returns.
func Load(ctx context.Context, cfg LoaderConfig) (*Store, error) {
	logger := logging.WithComponent("catalog")

	db, err := sql.Open("duckdb", connString(cfg))
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to close DuckDB")
		}
	}()

	products, err := loadProducts(ctx, db, cfg.ProductsPath)
	if err != nil {
		return nil, err
	}
	interactions, err := loadInteractions(ctx, db, cfg.InteractionsPath)
	if err != nil {
		return nil, err
	}

	store := NewStore(products, interactions)
	metrics.CatalogRows.WithLabelValues("products").Set(float64(store.NumProducts()))
	metrics.CatalogRows.WithLabelValues("interactions").Set(float64(store.NumInteractions()))

	card := store.Cardinality()
	logger.Info().
		Int("products", store.NumProducts()).
		Int("interactions", store.NumInteractions()).
		Int("users", card.Users).
		Int("items", card.Items).
		Int("categories", card.Categories).
		Msg("Catalog loaded")

	return store, nil
}

func connString(cfg LoaderConfig) string {
	params := []string{
		"autoinstall_known_extensions=false",
		"autoload_known_extensions=false",
	}
	if cfg.Threads > 0 {
		params = append(params, fmt.Sprintf("threads=%d", cfg.Threads))
	}
	if cfg.MaxMemory != "" {
		params = append(params, "max_memory="+cfg.MaxMemory)
	}
	return ":memory:?" + strings.Join(params, "&")
}

// sqlString quotes s as a SQL string literal.
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func loadProducts(ctx context.Context, db *sql.DB, path string) (out []Product, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("read_csv", "products", time.Since(start), err) }()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(productsQuery, sqlString(path)))
	if err != nil {
		return nil, fmt.Errorf("read products %s: %w", path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p            Product
			id, category int64
			user         sql.NullInt64
		)
		if err := rows.Scan(&id, &p.Name, &p.Image, &category, &p.Rating, &user); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		p.ProductID = int(id)
		p.CategoryID = int(category)
		if user.Valid {
			p.UserID = int(user.Int64)
			p.HasUser = true
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("products %s: %w", path, ErrEmptyTable)
	}
	return out, nil
}

func loadInteractions(ctx context.Context, db *sql.DB, path string) (out []Interaction, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("read_csv", "interactions", time.Since(start), err) }()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(interactionsQuery, sqlString(path)))
	if err != nil {
		return nil, fmt.Errorf("read interactions %s: %w", path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var user, product, category int64
		if err := rows.Scan(&user, &product, &category); err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}
		out = append(out, Interaction{
			UserID:     int(user),
			ProductID:  int(product),
			CategoryID: int(category),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("interactions %s: %w", path, ErrEmptyTable)
	}
	return out, nil
}
