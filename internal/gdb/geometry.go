package gdb

import (
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
)

// fgbGeometryType maps an orb geometry to its FlatGeobuf type tag.
// Shapefile input only ever produces the six basic kinds handled here.
func fgbGeometryType(geom orb.Geometry) flattypes.GeometryType {
	switch geom.(type) {
	case orb.Point:
		return flattypes.GeometryTypePoint
	case orb.MultiPoint:
		return flattypes.GeometryTypeMultiPoint
	case orb.LineString:
		return flattypes.GeometryTypeLineString
	case orb.MultiLineString:
		return flattypes.GeometryTypeMultiLineString
	case orb.Polygon:
		return flattypes.GeometryTypePolygon
	case orb.MultiPolygon:
		return flattypes.GeometryTypeMultiPolygon
	default:
		return flattypes.GeometryTypeUnknown
	}
}

// encodeGeometry converts an orb geometry into a FlatGeobuf writer geometry.
func encodeGeometry(geom orb.Geometry, builder *flatbuffers.Builder) *writer.Geometry {
	if geom == nil {
		return nil
	}

	g := writer.NewGeometry(builder)

	switch v := geom.(type) {
	case orb.Point:
		g.SetType(flattypes.GeometryTypePoint)
		g.SetXY([]float64{v[0], v[1]})

	case orb.MultiPoint:
		g.SetType(flattypes.GeometryTypeMultiPoint)
		g.SetXY(pointsToXY(v))

	case orb.LineString:
		g.SetType(flattypes.GeometryTypeLineString)
		g.SetXY(pointsToXY(v))

	case orb.MultiLineString:
		g.SetType(flattypes.GeometryTypeMultiLineString)
		xy, ends := partsToXYEnds(len(v), func(i int) []orb.Point { return v[i] })
		g.SetXY(xy)
		g.SetEnds(ends)

	case orb.Polygon:
		g.SetType(flattypes.GeometryTypePolygon)
		xy, ends := partsToXYEnds(len(v), func(i int) []orb.Point { return v[i] })
		g.SetXY(xy)
		g.SetEnds(ends)

	case orb.MultiPolygon:
		g.SetType(flattypes.GeometryTypeMultiPolygon)
		parts := make([]writer.Geometry, 0, len(v))
		for _, poly := range v {
			pg := writer.NewGeometry(builder)
			pg.SetType(flattypes.GeometryTypePolygon)
			xy, ends := partsToXYEnds(len(poly), func(i int) []orb.Point { return poly[i] })
			pg.SetXY(xy)
			pg.SetEnds(ends)
			parts = append(parts, *pg)
		}
		g.SetParts(parts)

	default:
		return nil
	}

	return g
}

func pointsToXY(pts []orb.Point) []float64 {
	xy := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		xy = append(xy, p[0], p[1])
	}
	return xy
}

func partsToXYEnds(n int, part func(int) []orb.Point) ([]float64, []uint32) {
	var xy []float64
	ends := make([]uint32, 0, n)

	cumulative := uint32(0)
	for i := 0; i < n; i++ {
		pts := part(i)
		xy = append(xy, pointsToXY(pts)...)
		cumulative += uint32(len(pts))
		ends = append(ends, cumulative)
	}

	return xy, ends
}

// decodeGeometry converts a stored FlatGeobuf geometry back to orb.
func decodeGeometry(fg *flattypes.Geometry) orb.Geometry {
	if fg == nil {
		return nil
	}

	switch fg.Type() {
	case flattypes.GeometryTypePoint:
		if fg.XyLength() < 2 {
			return nil
		}
		return orb.Point{fg.Xy(0), fg.Xy(1)}

	case flattypes.GeometryTypeMultiPoint:
		return orb.MultiPoint(xyPoints(fg))

	case flattypes.GeometryTypeLineString:
		return orb.LineString(xyPoints(fg))

	case flattypes.GeometryTypeMultiLineString:
		parts := xyParts(fg)
		mls := make(orb.MultiLineString, 0, len(parts))
		for _, p := range parts {
			mls = append(mls, orb.LineString(p))
		}
		return mls

	case flattypes.GeometryTypePolygon:
		return polygonFromParts(fg)

	case flattypes.GeometryTypeMultiPolygon:
		n := fg.PartsLength()
		if n == 0 {
			return orb.MultiPolygon{polygonFromParts(fg)}
		}
		mp := make(orb.MultiPolygon, 0, n)
		for i := 0; i < n; i++ {
			var part flattypes.Geometry
			if fg.Parts(&part, i) {
				mp = append(mp, polygonFromParts(&part))
			}
		}
		return mp

	default:
		return nil
	}
}

func polygonFromParts(fg *flattypes.Geometry) orb.Polygon {
	parts := xyParts(fg)
	poly := make(orb.Polygon, 0, len(parts))
	for _, p := range parts {
		poly = append(poly, orb.Ring(p))
	}
	return poly
}

func xyPoints(fg *flattypes.Geometry) []orb.Point {
	n := fg.XyLength()
	pts := make([]orb.Point, 0, n/2)
	for i := 0; i+1 < n; i += 2 {
		pts = append(pts, orb.Point{fg.Xy(i), fg.Xy(i + 1)})
	}
	return pts
}

// xyParts splits the flat coordinate array by the ends markers. Without an
// ends array everything is a single part.
func xyParts(fg *flattypes.Geometry) [][]orb.Point {
	all := xyPoints(fg)
	endsLen := fg.EndsLength()
	if endsLen == 0 {
		if len(all) == 0 {
			return nil
		}
		return [][]orb.Point{all}
	}

	parts := make([][]orb.Point, 0, endsLen)
	start := uint32(0)
	for i := 0; i < endsLen; i++ {
		end := fg.Ends(i)
		if end > uint32(len(all)) {
			end = uint32(len(all))
		}
		if end > start {
			parts = append(parts, all[start:end])
		}
		start = end
	}

	return parts
}
