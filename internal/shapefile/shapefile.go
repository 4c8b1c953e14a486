// Package shapefile reads ESRI shapefiles into orb feature collections
// and locates workspace inputs by filename substring.
package shapefile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Common errors returned by this package.
var (
	// ErrNoShapefile is returned when no shapefile in the workspace
	// matches the requested name pattern.
	ErrNoShapefile = errors.New("shapefile: no matching shapefile in workspace")

	// ErrNoAttributes is returned when a shapefile carries no DBF
	// attribute fields. Selection predicates depend on attributes, so a
	// missing or unreadable .dbf cannot be papered over.
	ErrNoAttributes = errors.New("shapefile: no attribute fields")
)

// Find returns the first shapefile in dir whose base name contains pattern.
func Find(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.shp"))
	if err != nil {
		return "", err
	}

	for _, m := range matches {
		if strings.Contains(filepath.Base(m), pattern) {
			return m, nil
		}
	}

	return "", fmt.Errorf("%w: *%s*.shp in %s", ErrNoShapefile, pattern, dir)
}

// Read loads a shapefile together with its DBF attributes. Attribute names
// are lowercased, matching the way OSM extracts are usually queried.
func Read(path string) (*geojson.FeatureCollection, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile %s: %w", path, err)
	}
	defer func() { _ = r.Close() }()

	// go-shp swallows a failed .dbf open and reports zero fields.
	fields := r.Fields()
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s (missing or unreadable .dbf)", ErrNoAttributes, path)
	}

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.ToLower(f.String())
	}

	fc := geojson.NewFeatureCollection()

	for r.Next() {
		row, shape := r.Shape()

		geom := toOrb(shape)
		if geom == nil {
			continue
		}

		f := geojson.NewFeature(geom)
		for i := range fields {
			f.Properties[names[i]] = strings.Trim(r.ReadAttribute(row, i), " \x00")
		}
		fc.Append(f)
	}

	return fc, r.Err()
}

// toOrb converts a shapefile record to an orb geometry. Unsupported shape
// types map to nil and are skipped by the caller.
func toOrb(shape shp.Shape) orb.Geometry {
	switch v := shape.(type) {
	case *shp.Point:
		return orb.Point{v.X, v.Y}
	case *shp.PointZ:
		return orb.Point{v.X, v.Y}
	case *shp.MultiPoint:
		mp := make(orb.MultiPoint, 0, len(v.Points))
		for _, p := range v.Points {
			mp = append(mp, orb.Point{p.X, p.Y})
		}
		return mp
	case *shp.PolyLine:
		return polyLineToOrb(v.Parts, v.Points)
	case *shp.PolyLineZ:
		return polyLineToOrb(v.Parts, v.Points)
	case *shp.Polygon:
		return polygonToOrb(v.Parts, v.Points)
	case *shp.PolygonZ:
		return polygonToOrb(v.Parts, v.Points)
	default:
		return nil
	}
}

func polyLineToOrb(parts []int32, points []shp.Point) orb.Geometry {
	if len(parts) <= 1 {
		return lineString(points)
	}

	mls := make(orb.MultiLineString, 0, len(parts))
	for i := range parts {
		mls = append(mls, lineString(partPoints(parts, points, i)))
	}
	return mls
}

// polygonToOrb treats every part as a ring of a single polygon. Shapefiles
// do not distinguish outer and inner rings beyond winding order, and the
// downstream area math handles holes through ring orientation.
func polygonToOrb(parts []int32, points []shp.Point) orb.Geometry {
	if len(parts) == 0 {
		return orb.Polygon{orb.Ring(lineString(points))}
	}

	poly := make(orb.Polygon, 0, len(parts))
	for i := range parts {
		poly = append(poly, orb.Ring(lineString(partPoints(parts, points, i))))
	}
	return poly
}

func partPoints(parts []int32, points []shp.Point, i int) []shp.Point {
	start := int(parts[i])
	end := len(points)
	if i+1 < len(parts) {
		end = int(parts[i+1])
	}
	if start < 0 || start > end || end > len(points) {
		return nil
	}
	return points[start:end]
}

func lineString(points []shp.Point) orb.LineString {
	ls := make(orb.LineString, 0, len(points))
	for _, p := range points {
		ls = append(ls, orb.Point{p.X, p.Y})
	}
	return ls
}
