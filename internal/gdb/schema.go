package gdb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/paulmach/orb/geojson"
)

// column describes one attribute of a feature class. Feature classes carry
// a small explicit schema: strings for DBF attributes, doubles for
// calculated fields, longs and bools for the occasional numeric tag.
type column struct {
	name string
	typ  flattypes.ColumnType
}

type schema struct {
	columns []column
	index   map[string]int
}

// buildSchema derives a deterministic column schema from the properties of
// all features. Names are sorted so repeated writes of the same data
// produce identical files.
func buildSchema(features []*geojson.Feature) *schema {
	types := make(map[string]flattypes.ColumnType)

	for _, f := range features {
		if f == nil || f.Properties == nil {
			continue
		}
		for name, value := range f.Properties {
			if value == nil {
				continue
			}
			t := columnTypeOf(value)
			if prev, ok := types[name]; ok {
				types[name] = promote(prev, t)
			} else {
				types[name] = t
			}
		}
	}

	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	s := &schema{index: make(map[string]int, len(names))}
	for i, name := range names {
		s.columns = append(s.columns, column{name: name, typ: types[name]})
		s.index[name] = i
	}

	return s
}

func columnTypeOf(value interface{}) flattypes.ColumnType {
	switch value.(type) {
	case bool:
		return flattypes.ColumnTypeBool
	case int, int32, int64:
		return flattypes.ColumnTypeLong
	case float32, float64:
		return flattypes.ColumnTypeDouble
	default:
		return flattypes.ColumnTypeString
	}
}

// promote picks the column type that can hold both. Mixed numeric kinds
// widen to double, anything else degrades to string.
func promote(a, b flattypes.ColumnType) flattypes.ColumnType {
	if a == b {
		return a
	}
	numeric := func(t flattypes.ColumnType) bool {
		return t == flattypes.ColumnTypeLong || t == flattypes.ColumnTypeDouble
	}
	if numeric(a) && numeric(b) {
		return flattypes.ColumnTypeDouble
	}
	return flattypes.ColumnTypeString
}

// encodeProperties packs feature properties into the FlatGeobuf property
// format: a uint16 column index followed by the value, strings carrying a
// uint32 length prefix. All integers are little-endian.
func (s *schema) encodeProperties(props geojson.Properties) []byte {
	if len(props) == 0 || len(s.columns) == 0 {
		return nil
	}

	var buf bytes.Buffer

	for i, col := range s.columns {
		value, ok := props[col.name]
		if !ok || value == nil {
			continue
		}

		var idx [2]byte
		binary.LittleEndian.PutUint16(idx[:], uint16(i))
		buf.Write(idx[:])

		switch col.typ {
		case flattypes.ColumnTypeBool:
			if v, ok := value.(bool); ok && v {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}

		case flattypes.ColumnTypeLong:
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], uint64(toInt64(value)))
			buf.Write(b[:])

		case flattypes.ColumnTypeDouble:
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], math.Float64bits(toFloat64(value)))
			buf.Write(b[:])

		default:
			str := toString(value)
			var l [4]byte
			binary.LittleEndian.PutUint32(l[:], uint32(len(str)))
			buf.Write(l[:])
			buf.WriteString(str)
		}
	}

	return buf.Bytes()
}

// decodeProperties unpacks stored property bytes using the column schema
// recorded in the file header.
func decodeProperties(data []byte, header *flattypes.Header) geojson.Properties {
	if len(data) == 0 || header == nil {
		return nil
	}

	props := make(geojson.Properties)
	offset := 0

	for offset+2 <= len(data) {
		idx := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
		offset += 2

		if idx >= header.ColumnsLength() {
			break
		}
		var col flattypes.Column
		if !header.Columns(&col, idx) {
			break
		}

		name := string(col.Name())

		switch col.Type() {
		case flattypes.ColumnTypeBool:
			if offset+1 > len(data) {
				return props
			}
			props[name] = data[offset] != 0
			offset++

		case flattypes.ColumnTypeLong:
			if offset+8 > len(data) {
				return props
			}
			props[name] = int64(binary.LittleEndian.Uint64(data[offset : offset+8]))
			offset += 8

		case flattypes.ColumnTypeDouble:
			if offset+8 > len(data) {
				return props
			}
			props[name] = math.Float64frombits(binary.LittleEndian.Uint64(data[offset : offset+8]))
			offset += 8

		default:
			if offset+4 > len(data) {
				return props
			}
			n := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
			offset += 4
			if offset+n > len(data) {
				return props
			}
			props[name] = string(data[offset : offset+n])
			offset += n
		}
	}

	return props
}

func toInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func toFloat64(value interface{}) float64 {
	switch v := value.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func toString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
