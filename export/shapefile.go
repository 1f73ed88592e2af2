package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
)

// dbf field names are limited to 10 bytes
const maxFieldName = 10

const (
	fieldGlobalID  = "GlobalId"
	fieldCentroidX = "CENTROID_X"
	fieldCentroidY = "CENTROID_Y"

	stringFieldSize = 254
)

// column maps a feature property onto a dbf field.
type column struct {
	property string
	field    string
}

// WriteShapefile writes fc as a polygon shapefile at path (.shp with its .shx
// and .dbf siblings). The attribute table holds GlobalId, the selected
// properties and the centroid coordinates. Outer rings are written clockwise
// as the format requires.
func WriteShapefile(path string, fc *geojson.FeatureCollection, selected []string) error {
	if fc == nil {
		return errors.New("no feature collection to write")
	}

	columns := shapefileColumns(selected)

	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return fmt.Errorf("[shp.Create] in pkg [export] encountered: %w", err)
	}
	defer w.Close()

	fields := make([]shp.Field, 0, len(columns)+2)
	for _, c := range columns {
		fields = append(fields, shp.StringField(c.field, stringFieldSize))
	}
	fields = append(fields, shp.FloatField(fieldCentroidX, 19, 9), shp.FloatField(fieldCentroidY, 19, 9))
	w.SetFields(fields)

	for _, feature := range fc.Features {
		parts, err := shapefileParts(feature.Geometry)
		if err != nil {
			return fmt.Errorf("feature %v: %w", feature.Properties[fieldGlobalID], err)
		}

		polyline := shp.NewPolyLine(parts)
		polygon := shp.Polygon(*polyline)
		row := int(w.Write(&polygon))

		for i, c := range columns {
			if err := w.WriteAttribute(row, i, attribute(feature.Properties[c.property])); err != nil {
				return fmt.Errorf("[WriteAttribute] in pkg [export] encountered: %w", err)
			}
		}

		if c, ok := feature.Properties["centroid"].([]float64); ok && len(c) == 2 {
			if err := w.WriteAttribute(row, len(columns), c[0]); err != nil {
				return fmt.Errorf("[WriteAttribute] in pkg [export] encountered: %w", err)
			}
			if err := w.WriteAttribute(row, len(columns)+1, c[1]); err != nil {
				return fmt.Errorf("[WriteAttribute] in pkg [export] encountered: %w", err)
			}
		}
	}

	return nil
}

// shapefileColumns returns GlobalId plus the selected properties with their
// dbf names, truncated and made unique.
func shapefileColumns(selected []string) []column {
	columns := []column{{property: fieldGlobalID, field: fieldGlobalID}}
	used := map[string]bool{strings.ToUpper(fieldGlobalID): true}

	for _, name := range selected {
		if name == fieldGlobalID || name == "centroid" {
			continue
		}

		field := name
		if len(field) > maxFieldName {
			field = field[:maxFieldName]
		}
		for n := 1; used[strings.ToUpper(field)]; n++ {
			suffix := fmt.Sprintf("_%d", n)
			base := name
			if len(base) > maxFieldName-len(suffix) {
				base = base[:maxFieldName-len(suffix)]
			}
			field = base + suffix
		}
		used[strings.ToUpper(field)] = true

		columns = append(columns, column{property: name, field: field})
	}

	return columns
}

// shapefileParts flattens polygon rings into shapefile parts: outer rings
// clockwise, holes counter clockwise.
func shapefileParts(g *geojson.Geometry) ([][]shp.Point, error) {
	if g == nil {
		return nil, errors.New("feature has no geometry")
	}

	var polygons [][][][]float64
	switch {
	case g.IsPolygon():
		polygons = [][][][]float64{g.Polygon}
	case g.IsMultiPolygon():
		polygons = g.MultiPolygon
	default:
		return nil, fmt.Errorf("unsupported geometry %s", g.Type)
	}

	var parts [][]shp.Point
	for _, polygon := range polygons {
		for i, coords := range polygon {
			ring := make(orb.Ring, 0, len(coords))
			for _, c := range coords {
				ring = append(ring, orb.Point{c[0], c[1]})
			}

			want := orb.CW
			if i > 0 {
				want = orb.CCW
			}
			if ring.Orientation() != want {
				ring.Reverse()
			}

			part := make([]shp.Point, 0, len(ring))
			for _, pt := range ring {
				part = append(part, shp.Point{X: pt[0], Y: pt[1]})
			}
			parts = append(parts, part)
		}
	}

	return parts, nil
}

func attribute(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
