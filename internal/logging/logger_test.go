// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	defer Init(DefaultConfig())

	Init(Config{Level: "debug", Format: "json", Timestamp: true, Output: &buf})
	Info().Int("products", 3).Msg("catalog loaded")

	out := buf.String()
	if !strings.Contains(out, "catalog loaded") {
		t.Errorf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("expected level field, got: %s", out)
	}
	if !strings.Contains(out, `"products":3`) {
		t.Errorf("expected products field, got: %s", out)
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	defer Init(DefaultConfig())

	Init(Config{Level: "warn", Output: &buf})
	Info().Msg("hidden")
	Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info event should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn event missing: %s", out)
	}
}

func TestInit_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	defer Init(DefaultConfig())

	Init(Config{Level: "info", Format: "console", Output: &buf})
	Info().Msg("console test")

	out := buf.String()
	if !strings.Contains(out, "console test") {
		t.Errorf("expected message in output: %s", out)
	}
	if strings.Contains(out, `"level"`) {
		t.Errorf("expected console format, got JSON: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"DEBUG", zerolog.DebugLevel},
		{" warn ", zerolog.WarnLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	defer Init(DefaultConfig())

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	SetLogger(zerolog.New(&buf))

	logger := WithComponent("catalog")
	logger.Info().Msg("loaded")

	if !strings.Contains(buf.String(), `"component":"catalog"`) {
		t.Errorf("expected component field: %s", buf.String())
	}
}

func TestErrAndPrintf(t *testing.T) {
	var buf bytes.Buffer
	defer Init(DefaultConfig())

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	SetLogger(zerolog.New(&buf))

	Err(errors.New("weights missing")).Msg("startup failed")
	if !strings.Contains(buf.String(), "weights missing") {
		t.Errorf("expected error text in output: %s", buf.String())
	}

	buf.Reset()
	Printf("maxprocs: %d", 4)
	if !strings.Contains(buf.String(), "maxprocs: 4") {
		t.Errorf("expected formatted message: %s", buf.String())
	}
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := NewTestLogger(&buf)
	logger.Info().Str("key", "value").Msg("test message")

	out := buf.String()
	if !strings.Contains(out, "test message") || !strings.Contains(out, `"key":"value"`) {
		t.Errorf("unexpected output: %s", out)
	}
}
