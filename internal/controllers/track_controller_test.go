package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raptor1820/georloctesting/internal/store"
)

type trackResponse struct {
	Type     string `json:"type"`
	Geometry struct {
		Type        string       `json:"type"`
		Coordinates [][2]float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

func TestGetTrackChronologicalLineString(t *testing.T) {
	s := store.NewMemoryStore(10)
	seed(s, 4)
	r := newTestEngine(NewLocationController(s, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/location/track?limit=3", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != GeoJSONContentType {
		t.Errorf("content type = %q", ct)
	}

	var got trackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Type != "Feature" || got.Geometry.Type != "LineString" {
		t.Fatalf("type = %s/%s", got.Type, got.Geometry.Type)
	}

	want := [][2]float64{{4, 2}, {6, 3}, {8, 4}}
	if len(got.Geometry.Coordinates) != len(want) {
		t.Fatalf("coordinates = %v, want %v", got.Geometry.Coordinates, want)
	}
	for i, c := range want {
		if got.Geometry.Coordinates[i] != c {
			t.Errorf("coordinate %d = %v, want %v", i, got.Geometry.Coordinates[i], c)
		}
	}
	if got.Properties["count"] != float64(3) || got.Properties["total"] != float64(4) {
		t.Errorf("properties = %v", got.Properties)
	}
	if got.Properties["from"] != "2025-03-01T12:02:00.000Z" {
		t.Errorf("from = %v", got.Properties["from"])
	}
}

func TestBuildTrackFeatureEmpty(t *testing.T) {
	feature, err := buildTrackFeature(nil, 0)
	if err != nil {
		t.Fatalf("buildTrackFeature: %v", err)
	}
	if _, ok := feature.Properties["from"]; ok {
		t.Error("empty track should not carry a from property")
	}
	if feature.Properties["count"] != 0 {
		t.Errorf("count = %v, want 0", feature.Properties["count"])
	}
}
