package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestGeoJSONPath(t *testing.T) {
	got := GeoJSONPath("/exports", "Leipzig")
	want := filepath.Join("/exports", "urban_green_space_Leipzig.geojson")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestGeoJSONWritesMinified(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(orb.Polygon{
		{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
	})
	f.Properties["name"] = "a park"
	f.Properties["Area_Hectares"] = 1.5
	fc.Append(f)

	path := filepath.Join(t.TempDir(), "out.geojson")
	if err := GeoJSON(path, fc); err != nil {
		t.Fatalf("GeoJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.ContainsAny(data, "\n\t") || bytes.Contains(data, []byte(": ")) {
		t.Error("Expected minified output without whitespace")
	}

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if doc.Type != "FeatureCollection" || len(doc.Features) != 1 {
		t.Errorf("Unexpected document: %+v", doc)
	}
	if doc.Features[0].Properties["name"] != "a park" {
		t.Errorf("Properties lost: %+v", doc.Features[0].Properties)
	}
}
