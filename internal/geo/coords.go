// Package geo handles coordinate flattening, area helpers and spatial
// indexing over feature collections.
package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Flatten walks feature -> part -> point and collects every vertex into a
// flat list suitable for scatter plotting. Nil features, nil geometries and
// empty parts are skipped; vertex order is preserved.
func Flatten(fc *geojson.FeatureCollection) []orb.Point {
	var coords []orb.Point
	if fc == nil {
		return coords
	}

	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		coords = appendVertices(coords, f.Geometry)
	}

	return coords
}

func appendVertices(dst []orb.Point, g orb.Geometry) []orb.Point {
	switch v := g.(type) {
	case orb.Point:
		dst = append(dst, v)
	case orb.MultiPoint:
		dst = append(dst, v...)
	case orb.LineString:
		dst = append(dst, v...)
	case orb.MultiLineString:
		for _, ls := range v {
			dst = append(dst, ls...)
		}
	case orb.Ring:
		dst = append(dst, v...)
	case orb.Polygon:
		for _, ring := range v {
			dst = append(dst, ring...)
		}
	case orb.MultiPolygon:
		for _, poly := range v {
			for _, ring := range poly {
				dst = append(dst, ring...)
			}
		}
	case orb.Collection:
		for _, child := range v {
			dst = appendVertices(dst, child)
		}
	case orb.Bound:
		dst = appendVertices(dst, v.ToPolygon())
	}

	return dst
}

// Hectares returns the absolute area of a geometry in hectares. Spherical
// area is used for lon/lat data, planar area for projected metric data.
func Hectares(g orb.Geometry, projected bool) float64 {
	if g == nil {
		return 0
	}

	var sqm float64
	if projected {
		sqm = planar.Area(g)
	} else {
		sqm = orbgeo.Area(g)
	}
	if sqm < 0 {
		sqm = -sqm
	}

	return sqm / 10_000
}
