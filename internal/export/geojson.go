// Package export writes machine-readable summaries of derived layers.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
)

// GeoJSONPath returns the summary location for a city.
func GeoJSONPath(dir, city string) string {
	return filepath.Join(dir, fmt.Sprintf("urban_green_space_%s.geojson", city))
}

// GeoJSON writes the feature collection as a minified GeoJSON file.
func GeoJSON(path string, fc *geojson.FeatureCollection) error {
	raw, err := json.Marshal(fc)
	if err != nil {
		return err
	}

	m := minify.New()
	m.AddFunc("application/json", mjson.Minify)

	var buf bytes.Buffer
	if err := m.Minify("application/json", &buf, bytes.NewReader(raw)); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}
