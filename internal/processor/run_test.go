package processor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	shp "github.com/jonas-p/go-shp"

	"github.com/urbanatlas/greenspace/internal/config"
	"github.com/urbanatlas/greenspace/internal/export"
	"github.com/urbanatlas/greenspace/internal/gdb"
	"github.com/urbanatlas/greenspace/internal/render"
)

func TestRunEndToEnd(t *testing.T) {
	ws := t.TempDir()

	writeLayer(t, filepath.Join(ws, "gis_osm_landuse_a.shp"), []record{
		{ring: square(0, 0), fclass: "park"},
		{ring: square(10, 10), fclass: "residential"},
		{ring: square(20, 20), fclass: "cemetery"},
	})
	writeLayer(t, filepath.Join(ws, "gis_osm_natural_a.shp"), []record{
		{ring: square(5, 5), fclass: "forest"},
	})

	cfg := &config.Config{
		City:      "Testville",
		Workspace: ws,
		Projected: true,
		Retry:     config.RetryConfig{Attempts: 1, DelaySeconds: 1},
	}
	cfg.Defaults()

	if err := Run(cfg, true, true); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	g := &gdb.Geodatabase{Root: filepath.Join(ws, config.DefaultGeodatabase)}
	for _, fc := range []string{"Parks", "NaturalAreas", GreenSpacesClass, "Residential"} {
		if !g.Exists(fc) {
			t.Errorf("Expected feature class %s to exist", fc)
		}
	}

	green, err := g.Read(GreenSpacesClass)
	if err != nil {
		t.Fatal(err)
	}
	if len(green.Features) != 2 {
		t.Errorf("Expected 2 green features (park + forest), got %d", len(green.Features))
	}
	for _, f := range green.Features {
		if _, ok := f.Properties[AreaField].(float64); !ok {
			t.Errorf("Expected %s on %v", AreaField, f.Properties)
		}
	}

	for _, path := range []string{
		render.PNGPath(cfg.ExportDir, "Testville"),
		render.PDFPath(cfg.ExportDir, "Testville"),
		render.PreviewPath(cfg.ExportDir, "Testville"),
		export.GeoJSONPath(cfg.ExportDir, "Testville"),
	} {
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("Expected export artifact %s, err=%v", path, err)
		}
	}
}

func TestRunMissingShapefile(t *testing.T) {
	cfg := &config.Config{
		City:      "Testville",
		Workspace: t.TempDir(),
		Retry:     config.RetryConfig{Attempts: 1, DelaySeconds: 1},
	}
	cfg.Defaults()

	if err := Run(cfg, false, false); err == nil {
		t.Fatal("Expected an error for an empty workspace")
	}
}

type record struct {
	ring   [][]shp.Point
	fclass string
}

func square(x, y float64) [][]shp.Point {
	return [][]shp.Point{{
		{X: x, Y: y},
		{X: x + 100, Y: y},
		{X: x + 100, Y: y + 100},
		{X: x, Y: y + 100},
		{X: x, Y: y},
	}}
}

func writeLayer(t *testing.T, path string, records []record) {
	t.Helper()

	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		t.Fatal(err)
	}

	w.SetFields([]shp.Field{shp.StringField("FCLASS", 25)})

	for _, r := range records {
		poly := shp.Polygon(*shp.NewPolyLine(r.ring))
		row := int(w.Write(&poly))
		if err := w.WriteAttribute(row, 0, r.fclass); err != nil {
			t.Fatal(err)
		}
	}

	w.Close()

	// The go-shp writer emits the attribute file as <base>dbf; rename it
	// to the <base>.dbf name the reader opens.
	base := strings.TrimSuffix(path, ".shp")
	if err := os.Rename(base+"dbf", base+".dbf"); err != nil {
		t.Fatal(err)
	}
}
