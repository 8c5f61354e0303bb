package routes

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/raptor1820/georloctesting/internal/controllers"
	"github.com/raptor1820/georloctesting/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
	logrus.SetOutput(io.Discard)
}

func TestSetupRouterRoutes(t *testing.T) {
	hub := controllers.NewLocationHub(10)
	defer hub.Close()
	var logs bytes.Buffer
	r := SetupRouter(controllers.NewLocationController(store.NewMemoryStore(10), hub), hub, &logs)

	post := httptest.NewRequest(http.MethodPost, "/api/location", strings.NewReader(`{"latitude": 5, "longitude": 6}`))
	post.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, post)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/location = %d", rec.Code)
	}

	for _, path := range []string{"/api/location", "/api/location/track", "/health", "/metrics"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "location_ingest_total") {
		t.Error("metrics output is missing location_ingest_total")
	}

	if !strings.Contains(logs.String(), "/api/location") {
		t.Error("request log did not record /api/location")
	}
	if strings.Contains(logs.String(), "/health") {
		t.Error("request log should skip /health")
	}
}

func TestSetupRouterWithoutHub(t *testing.T) {
	r := SetupRouter(controllers.NewLocationController(store.NewMemoryStore(10), nil), nil, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/location", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /ws/location without hub = %d, want 404", rec.Code)
	}
}
