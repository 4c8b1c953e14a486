package gdb

import (
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/urbanatlas/greenspace/internal/geo"
)

// Where is an attribute predicate: the field value must equal one of In.
// String comparison is used regardless of the stored type, matching the
// loose typing of DBF attributes.
type Where struct {
	Field string
	In    []string
}

// Match reports whether the properties satisfy the predicate.
func (w Where) Match(props geojson.Properties) bool {
	value, ok := props[w.Field]
	if !ok || value == nil {
		return false
	}

	s := toString(value)
	for _, want := range w.In {
		if s == want {
			return true
		}
	}

	return false
}

// Select writes the subset of src matching the predicate into a new
// feature class and returns the number of selected features.
func (g *Geodatabase) Select(name string, src *geojson.FeatureCollection, where Where) (int, error) {
	out := geojson.NewFeatureCollection()

	if src != nil {
		for _, f := range src.Features {
			if f == nil || f.Geometry == nil {
				continue
			}
			if where.Match(f.Properties) {
				out.Append(f)
			}
		}
	}

	if err := g.Write(name, out); err != nil {
		return 0, err
	}

	return len(out.Features), nil
}

// Merge concatenates the given feature classes into dst, in order.
func (g *Geodatabase) Merge(dst string, src ...string) error {
	out := geojson.NewFeatureCollection()

	for _, name := range src {
		fc, err := g.Read(name)
		if err != nil {
			return fmt.Errorf("merge %s: %w", name, err)
		}
		out.Features = append(out.Features, fc.Features...)
	}

	return g.Write(dst, out)
}

// Copy duplicates a feature class under a new name.
func (g *Geodatabase) Copy(dst, src string) error {
	fc, err := g.Read(src)
	if err != nil {
		return err
	}
	return g.Write(dst, fc)
}

// CalculateArea adds the named field and fills it with the area of each
// feature in hectares. Recalculating overwrites the field in place, it is
// never duplicated.
func (g *Geodatabase) CalculateArea(name, field string, projected bool) error {
	fc, err := g.Read(name)
	if err != nil {
		return err
	}

	for _, f := range fc.Features {
		f.Properties[field] = geo.Hectares(f.Geometry, projected)
	}

	return g.Write(name, fc)
}
