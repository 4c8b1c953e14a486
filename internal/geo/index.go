package geo

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Index provides fast extent queries over a feature collection using an
// R-tree, so a configured map extent does not require a linear scan over
// every feature of a city-wide layer.
type Index struct {
	tree *rtreego.Rtree
}

type indexEntry struct {
	feature *geojson.Feature
	ord     int
}

// Bounds implements rtreego.Spatial.
func (e indexEntry) Bounds() rtreego.Rect {
	b := e.feature.Geometry.Bound()

	point := rtreego.Point{b.Min[0], b.Min[1]}
	lengths := []float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]}

	// rtreego rejects degenerate rectangles; point features get a sliver.
	for i, l := range lengths {
		if l <= 0 {
			lengths[i] = 1e-9
		}
	}

	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// NewIndex builds an index over the collection. Features without geometry
// are left out.
func NewIndex(fc *geojson.FeatureCollection) *Index {
	tree := rtreego.NewTree(2, 25, 50)

	if fc != nil {
		for i, f := range fc.Features {
			if f == nil || f.Geometry == nil {
				continue
			}
			tree.Insert(indexEntry{feature: f, ord: i})
		}
	}

	return &Index{tree: tree}
}

// Clip returns the features whose bounding boxes intersect the given
// extent, in their original collection order.
func (idx *Index) Clip(extent orb.Bound) *geojson.FeatureCollection {
	point := rtreego.Point{extent.Min[0], extent.Min[1]}
	lengths := []float64{extent.Max[0] - extent.Min[0], extent.Max[1] - extent.Min[1]}
	for i, l := range lengths {
		if l <= 0 {
			lengths[i] = 1e-9
		}
	}
	rect, _ := rtreego.NewRect(point, lengths)

	hits := idx.tree.SearchIntersect(rect)

	entries := make([]indexEntry, 0, len(hits))
	for _, s := range hits {
		entries = append(entries, s.(indexEntry))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ord < entries[j].ord })

	out := geojson.NewFeatureCollection()
	for _, e := range entries {
		out.Append(e.feature)
	}

	return out
}
