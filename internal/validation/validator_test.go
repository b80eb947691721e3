// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package validation

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/tomtom215/productrec/internal/models"
)

func intPtr(v int) *int { return &v }

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

func TestGetValidator_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]interface{}, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = GetValidator()
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent callers received different validators")
		}
	}
}

func TestValidateStruct_RecommendationRequest(t *testing.T) {
	tests := []struct {
		name     string
		req      models.RecommendationRequest
		wantErr  bool
		wantLoc  []string
		wantType string
	}{
		{name: "user only", req: models.RecommendationRequest{UserID: intPtr(7)}},
		{name: "user and top_k", req: models.RecommendationRequest{UserID: intPtr(7), TopK: intPtr(5)}},
		{name: "top_k zero", req: models.RecommendationRequest{UserID: intPtr(0), TopK: intPtr(0)}},
		{
			name:     "missing user_id",
			req:      models.RecommendationRequest{TopK: intPtr(3)},
			wantErr:  true,
			wantLoc:  []string{"body", "user_id"},
			wantType: "missing",
		},
		{
			name:     "negative top_k",
			req:      models.RecommendationRequest{UserID: intPtr(7), TopK: intPtr(-1)},
			wantErr:  true,
			wantLoc:  []string{"body", "top_k"},
			wantType: "greater_than_equal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.req)
			if !tt.wantErr {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			details := verr.ToDetails()
			if len(details) != 1 {
				t.Fatalf("details = %+v, want exactly one", details)
			}
			if !reflect.DeepEqual(details[0].Loc, tt.wantLoc) {
				t.Errorf("loc = %v, want %v", details[0].Loc, tt.wantLoc)
			}
			if details[0].Type != tt.wantType {
				t.Errorf("type = %q, want %q", details[0].Type, tt.wantType)
			}
		})
	}
}

func TestValidateStruct_Messages(t *testing.T) {
	verr := ValidateStruct(&models.RecommendationRequest{TopK: intPtr(-2)})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Errors()) != 2 {
		t.Fatalf("Errors() = %d, want 2", len(verr.Errors()))
	}

	msg := verr.Error()
	if !strings.Contains(msg, "user_id is required") {
		t.Errorf("message %q should name user_id", msg)
	}
	if !strings.Contains(msg, "top_k must be greater than or equal to 0") {
		t.Errorf("message %q should explain the top_k bound", msg)
	}

	for _, e := range verr.Errors() {
		if e.Field() == "top_k" && (e.Tag() != "gte" || e.Param() != "0") {
			t.Errorf("top_k error tag=%q param=%q", e.Tag(), e.Param())
		}
	}
}

func TestValidateField(t *testing.T) {
	if verr := ValidateField("top_k", 1000, "lte=1000"); verr != nil {
		t.Errorf("top_k at limit: %v", verr)
	}

	verr := ValidateField("top_k", 1001, "lte=1000")
	if verr == nil {
		t.Fatal("expected error above limit")
	}
	d := verr.ToDetails()[0]
	if d.Type != "less_than_equal" || d.Msg != "top_k must be less than or equal to 1000" {
		t.Errorf("detail = %+v", d)
	}
	if !reflect.DeepEqual(d.Loc, []string{"body", "top_k"}) {
		t.Errorf("loc = %v", d.Loc)
	}
	if verr.Errors()[0].Value() != 1001 {
		t.Errorf("value = %v", verr.Errors()[0].Value())
	}
}

func TestNewFieldError(t *testing.T) {
	d := NewFieldError("", "json", "Invalid JSON body").ToDetails()
	want := []models.ValidationDetail{{Loc: []string{"body"}, Msg: "Invalid JSON body", Type: "json_invalid"}}
	if !reflect.DeepEqual(d, want) {
		t.Errorf("details = %+v, want %+v", d, want)
	}

	d = NewFieldError("user_id", "int", "user_id must be an integer").ToDetails()
	if d[0].Type != "int_type" || !reflect.DeepEqual(d[0].Loc, []string{"body", "user_id"}) {
		t.Errorf("details = %+v", d)
	}

	d = NewFieldError("x", "mystery", "odd").ToDetails()
	if d[0].Type != "value_error" {
		t.Errorf("unknown tag type = %q, want value_error", d[0].Type)
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	ve := &RequestValidationError{}
	if ve.Error() != "validation failed" {
		t.Errorf("Error() = %q", ve.Error())
	}
	if len(ve.ToDetails()) != 0 {
		t.Error("ToDetails() should be empty")
	}
}

func BenchmarkValidateStruct(b *testing.B) {
	req := models.RecommendationRequest{UserID: intPtr(7), TopK: intPtr(10)}
	for i := 0; i < b.N; i++ {
		_ = ValidateStruct(&req)
	}
}
