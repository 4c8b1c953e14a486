package render

import (
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestExportPaths(t *testing.T) {
	tests := []struct {
		name string
		fn   func(dir, city string) string
		want string
	}{
		{"png", PNGPath, "urban_green_space_map_Leipzig.png"},
		{"pdf", PDFPath, "urban_green_space_analysis_Leipzig.pdf"},
		{"preview", PreviewPath, "urban_green_space_map_Leipzig_preview.webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn("/exports", "Leipzig")
			if got != filepath.Join("/exports", tt.want) {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
			// Same inputs, same path.
			if again := tt.fn("/exports", "Leipzig"); again != got {
				t.Errorf("Path derivation is not deterministic: %s != %s", again, got)
			}
		})
	}
}

func TestMapWithBothLayers(t *testing.T) {
	green := layer(orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})
	residential := layer(orb.Polygon{{{2, 2}, {3, 2}, {3, 3}, {2, 2}}})

	p, err := Map(green, residential, "Testville")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if p.Title.Text != "Urban Green Space Analysis - Testville" {
		t.Errorf("Unexpected title: %q", p.Title.Text)
	}
	if p.X.Label.Text != "Longitude" || p.Y.Label.Text != "Latitude" {
		t.Errorf("Unexpected axis labels: %q / %q", p.X.Label.Text, p.Y.Label.Text)
	}
}

func TestMapWithMissingLayers(t *testing.T) {
	// Both layers absent still produces a figure (the original renders an
	// empty map rather than failing).
	if _, err := Map(nil, nil, "Nowhere"); err != nil {
		t.Fatalf("Map with nil layers failed: %v", err)
	}

	empty := geojson.NewFeatureCollection()
	if _, err := Map(empty, nil, "Nowhere"); err != nil {
		t.Fatalf("Map with empty layer failed: %v", err)
	}
}

func TestSaveRendersFiles(t *testing.T) {
	dir := t.TempDir()

	p, err := Map(layer(orb.Point{1, 1}), nil, "Testville")
	if err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{
		PNGPath(dir, "Testville"),
		PDFPath(dir, "Testville"),
	} {
		if err := Save(p, path); err != nil {
			t.Fatalf("Save %s failed: %v", path, err)
		}
	}
}

func layer(g orb.Geometry) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(g))
	return fc
}
