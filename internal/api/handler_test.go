// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	_ "github.com/tomtom215/poweratlas/docs"
	"github.com/tomtom215/poweratlas/internal/analytics"
	"github.com/tomtom215/poweratlas/internal/config"
	"github.com/tomtom215/poweratlas/internal/database"
	"github.com/tomtom215/poweratlas/internal/facilities"
	"github.com/tomtom215/poweratlas/internal/fuel"
	"github.com/tomtom215/poweratlas/internal/markers"
	"github.com/tomtom215/poweratlas/internal/middleware"
	"github.com/tomtom215/poweratlas/internal/models"
)

const testAPIKey = "test-key"

func strPtr(s string) *string   { return &s }
func fltPtr(f float64) *float64 { return &f }
func intPtr(i int) *int         { return &i }

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// envelope decodes the response with Data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func testStore() *analytics.MemoryStore {
	return analytics.NewMemoryStore(models.DefaultMicroThresholdMW).
		AddCountries(
			models.Country{Code: "USA", Name: "United States of America"},
			models.Country{Code: "CAN", Name: "Canada"},
		).
		AddFacilities(
			models.Facility{ID: "USA0001", Name: "Big Coal", Latitude: 40, Longitude: -100, CapacityMW: fltPtr(600), FuelCode: intPtr(fuel.Coal), CountryCode: strPtr("USA")},
			models.Facility{ID: "USA0002", Name: "Rooftop", Latitude: 35, Longitude: -90, CapacityMW: fltPtr(5), FuelCode: intPtr(fuel.Solar), CountryCode: strPtr("USA")},
			models.Facility{ID: "CAN0001", Name: "Falls", Latitude: 50, Longitude: -70, CapacityMW: fltPtr(300), FuelCode: intPtr(fuel.Hydro), CountryCode: strPtr("CAN")},
		).
		AddGeneration(
			models.GenerationRecord{FacilityID: "USA0001", Year: 2019, GenerationGWh: fltPtr(1000)},
			models.GenerationRecord{FacilityID: "CAN0001", Year: 2019, GenerationGWh: fltPtr(500)},
		).
		AddDataCenters(models.DataCenter{ID: "dc-1", Name: "Colossus", Latitude: 35.1, Longitude: -90.1, CapacityMW: fltPtr(150)})
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			APIKey:            testAPIKey,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"http://localhost:3000"},
		},
		Analytics: config.AnalyticsConfig{
			MicroThresholdMW:   models.DefaultMicroThresholdMW,
			CacheTTL:           time.Minute,
			BreakerMaxFailures: 5,
			BreakerTimeout:     time.Minute,
		},
	}
}

type testServer struct {
	store  *analytics.MemoryStore
	engine *analytics.Engine
	router http.Handler
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	store := testStore()
	engine := analytics.NewEngine(store, cfg.Analytics)
	t.Cleanup(engine.Close)

	svc := facilities.NewService(store, facilities.WithBreaker(engine.Breaker()))
	h := NewHandler(engine, svc, markers.NewProjector(), nil, cfg)
	h.SetDatabase(stubPinger{})

	return &testServer{store: store, engine: engine, router: NewRouter(h, cfg).SetupChi()}
}

func (s *testServer) do(t *testing.T, method, target, body string, header map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, target, rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestReadRoutes(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, testConfig())

	tests := []struct {
		name      string
		target    string
		wantCount int // -1 when the route reports no count
	}{
		{"filters", "/api/v1/filters", -1},
		{"capacity by country", "/api/v1/capacity/countries", 2},
		{"capacity by country for one fuel", "/api/v1/capacity/countries?fuel=1", 1},
		{"capacity by fuel excludes micro", "/api/v1/capacity/fuels", 2},
		{"capacity by fuel with micro", "/api/v1/capacity/fuels?includeMicro=true", 3},
		{"capacity by fuel for a country", "/api/v1/capacity/fuels?country=can", 1},
		{"country fuel cross-tab", "/api/v1/capacity/country-fuel?includeMicro=true", 3},
		{"generation", "/api/v1/generation?countries=USA,CAN", 2},
		{"facilities", "/api/v1/facilities?includeMicro=true", 3},
		{"facilities by fuel", "/api/v1/facilities?fuel=2&includeMicro=true", 1},
		{"facility", "/api/v1/facilities/CAN0001", -1},
		{"data centers", "/api/v1/datacenters", 1},
		{"markers", "/api/v1/map/markers?zoom=5", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, env := s.do(t, http.MethodGet, tt.target, "", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
			}
			if env.Status != "success" {
				t.Errorf("status field = %q, want success", env.Status)
			}
			if rec.Header().Get("ETag") == "" {
				t.Error("missing ETag header")
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("missing security headers")
			}
			switch {
			case tt.wantCount < 0 && env.Metadata.Count != nil:
				t.Errorf("count = %d, want none", *env.Metadata.Count)
			case tt.wantCount >= 0 && (env.Metadata.Count == nil || *env.Metadata.Count != tt.wantCount):
				t.Errorf("count = %v, want %d", env.Metadata.Count, tt.wantCount)
			}
		})
	}
}

func TestCountryFuelIncludesPivot(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, testConfig())

	_, env := s.do(t, http.MethodGet, "/api/v1/capacity/country-fuel?includeMicro=true", "", nil)
	var body CountryFuelResponse
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(body.Pivot.Countries) != 2 || len(body.Pivot.Fuels) != 3 {
		t.Fatalf("pivot = %d countries x %d fuels, want 2 x 3", len(body.Pivot.Countries), len(body.Pivot.Fuels))
	}
	var total float64
	for _, v := range body.Pivot.CountryTotal {
		total += v
	}
	if total != 905 {
		t.Errorf("pivot total = %v, want 905", total)
	}
}

func TestMapMarkersLayers(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, testConfig())

	_, env := s.do(t, http.MethodGet, "/api/v1/map/markers?includeMicro=true&country=USA", "", nil)
	var body MarkersResponse
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if body.Facilities.Zoom != defaultMapZoom {
		t.Errorf("zoom = %d, want default %d", body.Facilities.Zoom, defaultMapZoom)
	}
	if got := len(body.Facilities.Markers); got != 2 {
		t.Errorf("facility markers = %d, want 2", got)
	}
	if got := len(body.DataCenters.Markers); got != 1 {
		t.Fatalf("data center markers = %d, want 1", got)
	}
	if body.DataCenters.Markers[0].Shape != markers.ShapeDiamond {
		t.Errorf("data center shape = %q, want diamond", body.DataCenters.Markers[0].Shape)
	}
	if body.Filter.Country == nil || *body.Filter.Country != "USA" {
		t.Errorf("filter country = %v, want USA", body.Filter.Country)
	}
}

func TestBadParameters(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, testConfig())

	tests := []struct {
		name     string
		target   string
		wantCode string
	}{
		{"unknown fuel", "/api/v1/facilities?fuel=99", CodeValidation},
		{"non-numeric fuel", "/api/v1/capacity/countries?fuel=coal", CodeValidation},
		{"bad includeMicro", "/api/v1/capacity/fuels?includeMicro=yes", CodeValidation},
		{"bad country", "/api/v1/capacity/fuels?country=US", CodeValidation},
		{"zoom out of range", "/api/v1/map/markers?zoom=40", CodeValidation},
		{"no countries", "/api/v1/generation", CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, env := s.do(t, http.MethodGet, tt.target, "", nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestMultipleBadParametersReportedTogether(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, testConfig())

	_, env := s.do(t, http.MethodGet, "/api/v1/facilities?fuel=0&includeMicro=maybe&country=1", "", nil)
	if env.Error == nil {
		t.Fatal("expected an error")
	}
	fields, ok := env.Error.Details["fields"].([]interface{})
	if !ok {
		t.Fatalf("details.fields = %T, want list", env.Error.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("field errors = %d, want 3", len(fields))
	}
}

func TestUnknownFacility(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, testConfig())

	rec, env := s.do(t, http.MethodGet, "/api/v1/facilities/NOPE", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != CodeNotFound {
		t.Errorf("error = %+v, want NOT_FOUND", env.Error)
	}
}

func TestStoreErrorIsRetryable(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, testConfig())
	s.store.SetErr(&database.StoreError{Op: "list_facilities", Err: errors.New("disk on fire")})

	rec, env := s.do(t, http.MethodGet, "/api/v1/facilities", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != CodeStoreError {
		t.Fatalf("error = %+v, want STORE_ERROR", env.Error)
	}
	if env.Error.Details["retryable"] != true {
		t.Errorf("details.retryable = %v, want true", env.Error.Details["retryable"])
	}
	if strings.Contains(rec.Body.String(), "disk on fire") {
		t.Error("store cause leaked into the response")
	}
}

func TestUpdateFacility(t *testing.T) {
	t.Parallel()

	const body = `{"name":"Big Coal II","capacity_mw":650,"latitude":40.5,"longitude":-100.5,"fuel_code":3}`
	auth := map[string]string{middleware.APIKeyHeader: testAPIKey}

	t.Run("without key", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, testConfig())
		rec, env := s.do(t, http.MethodPut, "/api/v1/facilities/USA0001", body, nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		if env.Error == nil || env.Error.Code != "FORBIDDEN" {
			t.Errorf("error = %+v, want FORBIDDEN", env.Error)
		}
	})

	t.Run("mutation disabled without configured key", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.Security.APIKey = ""
		s := newTestServer(t, cfg)
		rec, _ := s.do(t, http.MethodPut, "/api/v1/facilities/USA0001", body, map[string]string{middleware.APIKeyHeader: ""})
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("applies", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, testConfig())
		rec, env := s.do(t, http.MethodPut, "/api/v1/facilities/USA0001", body, auth)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
		var out facilities.Outcome
		if err := json.Unmarshal(env.Data, &out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if out.Facility == nil || out.Facility.Name != "Big Coal II" {
			t.Fatalf("facility = %+v, want updated name", out.Facility)
		}
		if out.Focus.Latitude != 40.5 || out.Focus.Longitude != -100.5 {
			t.Errorf("focus = %+v, want the new location", out.Focus)
		}

		_, got := s.do(t, http.MethodGet, "/api/v1/facilities/USA0001", "", nil)
		var f models.Facility
		if err := json.Unmarshal(got.Data, &f); err != nil {
			t.Fatalf("decode facility: %v", err)
		}
		if f.Capacity() != 650 {
			t.Errorf("stored capacity = %v, want 650", f.Capacity())
		}
	})

	t.Run("body id must match path", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, testConfig())
		mismatched := `{"gppd_idnr":"CAN0001","name":"x","capacity_mw":1,"latitude":1,"longitude":1}`
		rec, env := s.do(t, http.MethodPut, "/api/v1/facilities/USA0001", mismatched, auth)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if env.Error == nil || env.Error.Code != CodeValidation {
			t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
		}
	})

	t.Run("invalid payload", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, testConfig())
		rec, _ := s.do(t, http.MethodPut, "/api/v1/facilities/USA0001", `{"name":"x","capacity_mw":-1,"latitude":91,"longitude":1}`, auth)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, testConfig())
		rec, _ := s.do(t, http.MethodPut, "/api/v1/facilities/USA0001", `{"name":`, auth)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown facility", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, testConfig())
		rec, _ := s.do(t, http.MethodPut, "/api/v1/facilities/NOPE", body, auth)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, testConfig())

	rec, env := s.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var status HealthStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if status.Status != "healthy" || !status.DatabaseConnected || status.BreakerState != "closed" {
		t.Errorf("health = %+v, want healthy", status)
	}

	if rec, _ := s.do(t, http.MethodGet, "/health/live", "", nil); rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", rec.Code)
	}
	if rec, _ := s.do(t, http.MethodGet, "/health/ready", "", nil); rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}
}

func TestHealthReadyWithoutDatabase(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	store := testStore()
	engine := analytics.NewEngine(store, cfg.Analytics)
	t.Cleanup(engine.Close)
	h := NewHandler(engine, facilities.NewService(store), nil, nil, cfg)
	h.SetDatabase(stubPinger{err: errors.New("closed")})
	router := NewRouter(h, cfg).SetupChi()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestWebSocketWithoutHub(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, testConfig())

	rec, env := s.do(t, http.MethodGet, "/api/v1/ws", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != CodeUnavailable {
		t.Errorf("error = %+v, want SERVICE_UNAVAILABLE", env.Error)
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, testConfig())

	rec, env := s.do(t, http.MethodGet, "/api/v1/nothing", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != CodeNotFound {
		t.Errorf("error = %+v, want NOT_FOUND", env.Error)
	}
}

func TestSwaggerDocument(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not valid JSON: %v", err)
	}
	if doc.Info.Title != "PowerAtlas API" || doc.BasePath != "/api/v1" {
		t.Errorf("info = %q basePath = %q", doc.Info.Title, doc.BasePath)
	}
	for _, path := range []string{"/facilities/{id}", "/capacity/country-fuel", "/map/markers", "/generation"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("doc.json missing path %s", path)
		}
	}
}

func TestCheckWebSocketOrigin(t *testing.T) {
	t.Parallel()
	h := NewHandler(nil, nil, nil, nil, testConfig())

	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:3000", true},
		{"http://evil.example", false},
		{"", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := h.checkWebSocketOrigin(r); got != tt.want {
			t.Errorf("origin %q allowed = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Security.RateLimitDisabled = false
	cfg.Security.RateLimitReqs = 2
	cfg.Security.RateLimitWindow = time.Minute
	s := newTestServer(t, cfg)

	var last *httptest.ResponseRecorder
	var env envelope
	for i := 0; i < 3; i++ {
		last, env = s.do(t, http.MethodGet, "/api/v1/filters", "", nil)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", last.Code)
	}
	if env.Error == nil || env.Error.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("error = %+v, want RATE_LIMIT_EXCEEDED", env.Error)
	}
}
