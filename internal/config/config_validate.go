// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateData(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

var validEnvironments = map[string]bool{
	"development": true,
	"production":  true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT_BACKEND_RNA_APPLICATIONS must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT and HTTP_IDLE_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.Server.RequestTimeout)
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, production")
	}
	return nil
}

func (c *Config) validateData() error {
	if strings.TrimSpace(c.Data.ProductsPath) == "" {
		return fmt.Errorf("PRODUCTS_PATH is required")
	}
	if strings.TrimSpace(c.Data.InteractionsPath) == "" {
		return fmt.Errorf("INTERACTIONS_PATH is required")
	}
	if strings.TrimSpace(c.Data.ModelPath) == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if c.Data.ModelDigest != "" {
		raw, err := hex.DecodeString(c.Data.ModelDigest)
		if err != nil || len(raw) != 32 {
			return fmt.Errorf("MODEL_DIGEST must be a 64-character hex BLAKE2b-256 digest")
		}
	}
	if c.Data.DuckDBThreads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Data.DuckDBThreads)
	}
	if c.Data.DuckDBMaxMemory == "" {
		return fmt.Errorf("DUCKDB_MAX_MEMORY is required")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.MaxTopK < 0 {
		return fmt.Errorf("MAX_TOP_K must be 0 (unlimited) or positive, got %d", c.Recommend.MaxTopK)
	}
	if c.Recommend.DefaultTopK < 0 {
		return fmt.Errorf("DEFAULT_TOP_K must not be negative, got %d", c.Recommend.DefaultTopK)
	}
	if c.Recommend.MaxTopK > 0 && c.Recommend.DefaultTopK > c.Recommend.MaxTopK {
		return fmt.Errorf("DEFAULT_TOP_K must be between 0 and MAX_TOP_K (%d), got %d",
			c.Recommend.MaxTopK, c.Recommend.DefaultTopK)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			if c.IsProduction() {
				return fmt.Errorf("CORS_ORIGINS must not contain '*' when ENVIRONMENT=production")
			}
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS entry %q must be an http(s) origin", origin)
		}
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
