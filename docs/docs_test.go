// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package docs

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/swaggo/swag"
)

func TestSwaggerDocRegistered(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}

	var parsed struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("rendered doc is not JSON: %v", err)
	}
	for _, path := range []string{"/", "/recommendations/", "/health/live", "/health/ready"} {
		if _, ok := parsed.Paths[path]; !ok {
			t.Errorf("path %s missing from doc", path)
		}
	}
	if !strings.Contains(doc, `"title": "Productrec API"`) {
		t.Error("title not rendered")
	}
}
