package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestFlattenPreservesOrder(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Polygon{
		{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
	}))
	fc.Append(geojson.NewFeature(orb.Point{5, 5}))
	fc.Append(geojson.NewFeature(orb.MultiPolygon{
		{{{2, 2}, {3, 2}, {3, 3}, {2, 2}}},
	}))

	got := Flatten(fc)

	want := []orb.Point{
		{0, 0}, {1, 0}, {1, 1}, {0, 0},
		{5, 5},
		{2, 2}, {3, 2}, {3, 3}, {2, 2},
	}

	if len(got) != len(want) {
		t.Fatalf("Expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Point %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestFlattenSkipsNilFeatures(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Features = append(fc.Features, nil)
	fc.Features = append(fc.Features, &geojson.Feature{}) // nil geometry
	fc.Append(geojson.NewFeature(orb.Point{1, 2}))

	got := Flatten(fc)
	if len(got) != 1 {
		t.Fatalf("Expected 1 point, got %d", len(got))
	}
	if got[0] != (orb.Point{1, 2}) {
		t.Errorf("Expected (1,2), got %v", got[0])
	}
}

func TestFlattenNilCollection(t *testing.T) {
	if got := Flatten(nil); len(got) != 0 {
		t.Errorf("Expected no points for nil collection, got %d", len(got))
	}
}

func TestHectaresProjected(t *testing.T) {
	// A 100m x 100m square in a metric CRS is exactly one hectare.
	square := orb.Polygon{
		{{0, 0}, {100, 0}, {100, 100}, {0, 100}, {0, 0}},
	}

	got := Hectares(square, true)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Expected 1 ha, got %f", got)
	}
}

func TestHectaresGeographic(t *testing.T) {
	// Roughly 0.001 x 0.001 degrees at the equator, about 1.2 ha. The
	// point of the check is the unit conversion, not spherical precision.
	small := orb.Polygon{
		{{0, 0}, {0.001, 0}, {0.001, 0.001}, {0, 0.001}, {0, 0}},
	}

	got := Hectares(small, false)
	if got < 1.0 || got > 1.5 {
		t.Errorf("Expected about 1.2 ha, got %f", got)
	}
}

func TestHectaresNilGeometry(t *testing.T) {
	if got := Hectares(nil, false); got != 0 {
		t.Errorf("Expected 0 for nil geometry, got %f", got)
	}
}
