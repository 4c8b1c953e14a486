package gdb

import (
	"fmt"
	"os"

	flatgeobuf "github.com/flatgeobuf/flatgeobuf/src/go"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb/geojson"
)

// Write stores a feature collection as the named feature class. The write
// happens under the schema lock and lands via a temp file rename, so a
// failed attempt never corrupts an existing class.
func (g *Geodatabase) Write(name string, fc *geojson.FeatureCollection) error {
	unlock, err := g.lock()
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(g.Root, name+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := g.encode(tmp, name, fc); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("encode feature class %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, g.Path(name))
}

// encode writes the FlatGeobuf stream: header with schema and CRS, then a
// feature generator that the format writer drains.
func (g *Geodatabase) encode(dst *os.File, name string, fc *geojson.FeatureCollection) error {
	features := []*geojson.Feature{}
	if fc != nil {
		features = fc.Features
	}

	encodable := 0
	geomType := flattypes.GeometryTypeUnknown
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		t := fgbGeometryType(f.Geometry)
		if t == flattypes.GeometryTypeUnknown {
			continue
		}
		encodable++
		if encodable == 1 {
			geomType = t
		} else if t != geomType {
			geomType = flattypes.GeometryTypeUnknown
		}
	}

	sch := buildSchema(features)

	builder := flatbuffers.NewBuilder(4096)
	header := writer.NewHeader(builder)
	header.SetName(name)
	header.SetGeometryType(geomType)

	if len(sch.columns) > 0 {
		columns := make([]*writer.Column, 0, len(sch.columns))
		for _, c := range sch.columns {
			col := writer.NewColumn(builder)
			col.SetName(c.name)
			col.SetTitle(c.name)
			col.SetType(c.typ)
			col.SetNullable(true)
			columns = append(columns, col)
		}
		header.SetColumns(columns)
	}

	if g.SRID > 0 {
		crs := writer.NewCrs(builder)
		crs.SetOrg("EPSG")
		crs.SetCode(int32(g.SRID))
		header.SetCrs(crs)
	}

	gen := &featureGenerator{features: features, schema: sch}

	// The packed R-tree writer cannot handle zero items; an empty class
	// becomes a header-only file without the index. Read returns an empty
	// collection for those before it ever looks for the index.
	fgbWriter := writer.NewWriter(header, encodable > 0, gen, nil)

	_, err := fgbWriter.Write(dst)
	return err
}

// featureGenerator feeds features to the FlatGeobuf writer one at a time.
type featureGenerator struct {
	features []*geojson.Feature
	schema   *schema
	index    int
}

func (g *featureGenerator) Generate() *writer.Feature {
	for g.index < len(g.features) {
		f := g.features[g.index]
		g.index++

		if f == nil || f.Geometry == nil {
			continue
		}

		builder := flatbuffers.NewBuilder(1024)
		geom := encodeGeometry(f.Geometry, builder)
		if geom == nil {
			continue
		}

		feature := writer.NewFeature(builder)
		feature.SetGeometry(geom)

		if props := g.schema.encodeProperties(f.Properties); len(props) > 0 {
			feature.SetProperties(props)
		}

		return feature
	}

	return nil
}

// Read loads the named feature class back into memory.
func (g *Geodatabase) Read(name string) (*geojson.FeatureCollection, error) {
	if !g.Exists(name) {
		return nil, fmt.Errorf("%w: %s", ErrNoFeatureClass, name)
	}
	return ReadFile(g.Path(name))
}

// ReadFile loads a FlatGeobuf feature class from an arbitrary path.
func ReadFile(path string) (*geojson.FeatureCollection, error) {
	fgb, err := flatgeobuf.New(path)
	if err != nil {
		return nil, fmt.Errorf("open feature class %s: %w", path, err)
	}

	header := fgb.Header()
	fc := geojson.NewFeatureCollection()

	if header == nil || header.FeaturesCount() == 0 {
		return fc, nil
	}
	if header.IndexNodeSize() == 0 || header.EnvelopeLength() < 4 {
		// The Go FlatGeobuf reader can only reach features through the
		// packed index; Write always includes one.
		return nil, fmt.Errorf("%w: %s", ErrNoIndex, path)
	}

	features, err := fgb.Search(header.Envelope(0), header.Envelope(1), header.Envelope(2), header.Envelope(3))
	if err != nil {
		return nil, err
	}

	for _, ff := range features {
		var geomObj flattypes.Geometry
		geom := decodeGeometry(ff.Geometry(&geomObj))
		if geom == nil {
			continue
		}

		feature := geojson.NewFeature(geom)

		if n := ff.PropertiesLength(); n > 0 {
			raw := make([]byte, n)
			for i := 0; i < n; i++ {
				raw[i] = byte(ff.Properties(i))
			}
			if props := decodeProperties(raw, header); props != nil {
				feature.Properties = props
			}
		}

		fc.Append(feature)
	}

	return fc, nil
}
