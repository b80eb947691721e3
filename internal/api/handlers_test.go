// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/productrec/internal/catalog"
	"github.com/tomtom215/productrec/internal/config"
	"github.com/tomtom215/productrec/internal/models"
	"github.com/tomtom215/productrec/internal/recommend"
)

type recommendCall struct {
	userID, topK int
}

type fakeRecommender struct {
	mu     sync.Mutex
	calls  []recommendCall
	result *recommend.Result
	err    error
}

func (f *fakeRecommender) Recommend(_ context.Context, userID, topK int) (*recommend.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, recommendCall{userID, topK})
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeRecommender) lastCall(t *testing.T) recommendCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("Recommend was not called")
	}
	return f.calls[len(f.calls)-1]
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
			SwaggerEnabled: false,
		},
		Recommend: config.RecommendConfig{
			DefaultTopK: 10,
		},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"http://localhost", "http://localhost:3000"},
			RateLimitDisabled: true,
		},
	}
}

func testStore() *catalog.Store {
	return catalog.NewStore(
		[]catalog.Product{
			{ProductID: 1, Name: "Mouse", Image: "m.jpg", CategoryID: 2, Rating: 4.5, UserID: 7, HasUser: true},
			{ProductID: 2, Name: "Pad", Image: "p.jpg", CategoryID: 2, Rating: 3},
		},
		[]catalog.Interaction{
			{UserID: 7, ProductID: 1, CategoryID: 2},
			{UserID: 8, ProductID: 2, CategoryID: 2},
		},
	)
}

func sampleResult() *recommend.Result {
	return &recommend.Result{
		PreferredCategory: 2,
		Candidates:        2,
		Recommended: []recommend.ScoredProduct{
			{Product: catalog.Product{ProductID: 2, Name: "Pad", Image: "p.jpg", CategoryID: 2, Rating: 3}, Score: 0.9},
			{Product: catalog.Product{ProductID: 1, Name: "Mouse", Image: "m.jpg", CategoryID: 2, Rating: 4.5}, Score: 0.1},
		},
		Purchases: []catalog.Product{
			{ProductID: 1, Name: "Mouse", Image: "m.jpg", CategoryID: 2, Rating: 4.5, UserID: 7, HasUser: true},
		},
	}
}

func newTestServer(t *testing.T, rec Recommender, cfg *config.Config) http.Handler {
	t.Helper()
	info := models.ModelInfo{EmbeddingDim: 4, Layers: []int{12, 8}, Parameters: 100, Digest: "abc"}
	h := NewHandler(rec, testStore(), info, cfg)
	return NewRouter(h, cfg).SetupChi()
}

func doRequest(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func TestRoot(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeRecommender{}, testConfig())
	rec := doRequest(t, srv, http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got models.MessageResponse
	decodeBody(t, rec, &got)
	if got.Message != "Recommendation System API is running!" {
		t.Errorf("message = %q", got.Message)
	}
}

func TestRecommendations_Success(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/recommendations/", "/recommendations"} {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			fake := &fakeRecommender{result: sampleResult()}
			srv := newTestServer(t, fake, testConfig())
			rec := doRequest(t, srv, http.MethodPost, path, `{"user_id":7,"top_k":2}`)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			var got models.RecommendationResult
			decodeBody(t, rec, &got)

			if len(got.RecommendedProducts) != 2 {
				t.Fatalf("recommended = %d, want 2", len(got.RecommendedProducts))
			}
			first := got.RecommendedProducts[0]
			if first.ProductID != 2 || first.Name != "Pad" || first.Ratings != 3 || first.Image != "p.jpg" {
				t.Errorf("first recommendation = %+v", first)
			}
			if len(got.UserPurchases) != 1 || got.UserPurchases[0].Rating != 4.5 {
				t.Errorf("purchases = %+v", got.UserPurchases)
			}
			if call := fake.lastCall(t); call != (recommendCall{7, 2}) {
				t.Errorf("call = %+v", call)
			}
		})
	}
}

func TestRecommendations_WireShape(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeRecommender{result: sampleResult()}, testConfig())
	rec := doRequest(t, srv, http.MethodPost, "/recommendations/", `{"user_id":7,"top_k":1}`)

	var raw map[string][]map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"product_id", "name", "ratings", "image"} {
		if _, ok := raw["recommended_products"][0][key]; !ok {
			t.Errorf("recommended product missing %q", key)
		}
	}
	for _, key := range []string{"product_id", "name", "image", "rating"} {
		if _, ok := raw["user_purchases"][0][key]; !ok {
			t.Errorf("purchase missing %q", key)
		}
	}
}

func TestRecommendations_TopK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"omitted uses default", `{"user_id":7}`, 10},
		{"zero", `{"user_id":7,"top_k":0}`, 0},
		{"negative passes through", `{"user_id":7,"top_k":-1}`, -1},
		{"larger than any catalog", `{"user_id":7,"top_k":5000}`, 5000},
		{"unknown fields ignored", `{"user_id":7,"top_k":3,"extra":"x"}`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeRecommender{result: &recommend.Result{}}
			srv := newTestServer(t, fake, testConfig())
			rec := doRequest(t, srv, http.MethodPost, "/recommendations/", tt.body)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if got := fake.lastCall(t).topK; got != tt.want {
				t.Errorf("topK = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecommendations_EmptyListsAreArrays(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeRecommender{result: &recommend.Result{}}, testConfig())
	rec := doRequest(t, srv, http.MethodPost, "/recommendations/", `{"user_id":7,"top_k":0}`)

	want := `{"recommended_products":[],"user_purchases":[]}`
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestRecommendations_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantLoc  []string
		wantType string
	}{
		{"missing user_id", `{"top_k":3}`, []string{"body", "user_id"}, "missing"},
		{"empty object", `{}`, []string{"body", "user_id"}, "missing"},
		{"non-numeric user_id", `{"user_id":"abc"}`, []string{"body", "user_id"}, "int_type"},
		{"fractional string top_k", `{"user_id":7,"top_k":"2.5"}`, []string{"body", "top_k"}, "int_type"},
		{"null user_id", `{"user_id":null}`, []string{"body", "user_id"}, "int_type"},
		{"fractional top_k", `{"user_id":7,"top_k":2.5}`, []string{"body", "top_k"}, "int_type"},
		{"boolean user_id", `{"user_id":true}`, []string{"body", "user_id"}, "int_type"},
		{"array body", `[1,2]`, []string{"body"}, "model_attributes_type"},
		{"null body", `null`, []string{"body"}, "model_attributes_type"},
		{"malformed JSON", `{"user_id":`, []string{"body"}, "json_invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeRecommender{result: &recommend.Result{}}
			srv := newTestServer(t, fake, testConfig())
			rec := doRequest(t, srv, http.MethodPost, "/recommendations/", tt.body)

			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422; body %s", rec.Code, rec.Body.String())
			}
			var got models.ValidationErrorResponse
			decodeBody(t, rec, &got)
			if len(got.Detail) == 0 {
				t.Fatal("empty detail list")
			}
			d := got.Detail[0]
			if strings.Join(d.Loc, ".") != strings.Join(tt.wantLoc, ".") {
				t.Errorf("loc = %v, want %v", d.Loc, tt.wantLoc)
			}
			if d.Type != tt.wantType {
				t.Errorf("type = %q, want %q", d.Type, tt.wantType)
			}
			if d.Msg == "" {
				t.Error("msg is empty")
			}
			if len(fake.calls) != 0 {
				t.Error("Recommend called for an invalid request")
			}
		})
	}
}

func TestRecommendations_LaxIntegers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want recommendCall
	}{
		{"string user_id", `{"user_id":"7"}`, recommendCall{7, 10}},
		{"string user_id and top_k", `{"user_id":"7","top_k":"20"}`, recommendCall{7, 20}},
		{"padded string", `{"user_id":" 7 ","top_k":"3"}`, recommendCall{7, 3}},
		{"integral floats", `{"user_id":7.0,"top_k":2.0}`, recommendCall{7, 2}},
		{"exponent", `{"user_id":7,"top_k":1e1}`, recommendCall{7, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeRecommender{result: sampleResult()}
			srv := newTestServer(t, fake, testConfig())
			rec := doRequest(t, srv, http.MethodPost, "/recommendations/", tt.body)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if call := fake.lastCall(t); call != tt.want {
				t.Errorf("call = %+v, want %+v", call, tt.want)
			}
		})
	}
}

// TestRecommendations_FormPayload posts what the web form sends: both values
// taken from text inputs, to the path without a trailing slash.
func TestRecommendations_FormPayload(t *testing.T) {
	t.Parallel()

	fake := &fakeRecommender{result: sampleResult()}
	srv := newTestServer(t, fake, testConfig())
	rec := doRequest(t, srv, http.MethodPost, "/recommendations", `{"user_id":"7","top_k":"10"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got models.RecommendationResult
	decodeBody(t, rec, &got)
	if len(got.RecommendedProducts) != 2 || len(got.UserPurchases) != 1 {
		t.Errorf("result = %+v", got)
	}
	if call := fake.lastCall(t); call != (recommendCall{7, 10}) {
		t.Errorf("call = %+v", call)
	}
}

func TestRecommendations_ConfiguredCap(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Recommend.MaxTopK = 50

	fake := &fakeRecommender{result: &recommend.Result{}}
	srv := newTestServer(t, fake, cfg)

	if rec := doRequest(t, srv, http.MethodPost, "/recommendations/", `{"user_id":7,"top_k":50}`); rec.Code != http.StatusOK {
		t.Fatalf("top_k at cap: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec := doRequest(t, srv, http.MethodPost, "/recommendations/", `{"user_id":7,"top_k":51}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("top_k above cap: status = %d, want 422", rec.Code)
	}
	var got models.ValidationErrorResponse
	decodeBody(t, rec, &got)
	if len(got.Detail) != 1 || got.Detail[0].Type != "less_than_equal" {
		t.Errorf("detail = %+v", got.Detail)
	}
}

func TestRecommendations_ReportsEveryTypeError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeRecommender{}, testConfig())
	rec := doRequest(t, srv, http.MethodPost, "/recommendations/", `{"user_id":"a","top_k":"b"}`)

	var got models.ValidationErrorResponse
	decodeBody(t, rec, &got)
	if len(got.Detail) != 2 {
		t.Fatalf("detail = %+v, want 2 entries", got.Detail)
	}
	if got.Detail[0].Loc[1] != "user_id" || got.Detail[1].Loc[1] != "top_k" {
		t.Errorf("locations = %v, %v", got.Detail[0].Loc, got.Detail[1].Loc)
	}
}

func TestRecommendations_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"unknown user", recommend.ErrUnknownUser, http.StatusNotFound, "User ID not found"},
		{"no purchases", recommend.ErrNoPurchases, http.StatusNotFound, "User has not made any purchases."},
		{"no candidates", recommend.ErrNoCandidates, http.StatusNotFound, "No products found for user's preferred category"},
		{"scoring failure", errors.New("score product 9: index out of range"), http.StatusInternalServerError, "Internal Server Error"},
		{"deadline", fmt.Errorf("score: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "Gateway Timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, &fakeRecommender{err: tt.err}, testConfig())
			rec := doRequest(t, srv, http.MethodPost, "/recommendations/", `{"user_id":99}`)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var got models.DetailResponse
			decodeBody(t, rec, &got)
			if got.Detail != tt.wantDetail {
				t.Errorf("detail = %q, want %q", got.Detail, tt.wantDetail)
			}
		})
	}
}

func TestRecommendations_BodyTooLarge(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeRecommender{}, testConfig())
	body := `{"user_id":7,"pad":"` + strings.Repeat("x", maxRequestBodySize) + `"}`
	rec := doRequest(t, srv, http.MethodPost, "/recommendations/", body)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeRecommender{}, testConfig())

	live := doRequest(t, srv, http.MethodGet, "/health/live", "")
	if live.Code != http.StatusOK {
		t.Fatalf("live status = %d", live.Code)
	}
	var l models.LivenessResponse
	decodeBody(t, live, &l)
	if l.Status != "ok" {
		t.Errorf("live status = %q", l.Status)
	}

	ready := doRequest(t, srv, http.MethodGet, "/health/ready", "")
	if ready.Code != http.StatusOK {
		t.Fatalf("ready status = %d", ready.Code)
	}
	var r models.ReadinessResponse
	decodeBody(t, ready, &r)
	if r.Status != "ready" || r.Products != 2 || r.Interactions != 2 || r.Users != 2 || r.Items != 2 || r.Categories != 1 {
		t.Errorf("readiness = %+v", r)
	}
	if r.Model.EmbeddingDim != 4 || r.Model.Digest != "abc" {
		t.Errorf("model = %+v", r.Model)
	}
}
