package bimgeo

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
)

// Feature property keys set by Build.
const (
	KeyGlobalID = "GlobalId"
	KeyCentroid = "centroid"
)

// Build joins footprints with their centroid and selected properties into a
// FeatureCollection. Every footprint becomes a feature in order; missing
// records, properties and centroids are filled rather than dropped.
func Build(footprints []Footprint, centroids map[string]orb.Point, records []PropertyRecord, selected []string) *geojson.FeatureCollection {
	// first record wins for a repeated id
	byID := make(map[string]PropertyRecord, len(records))
	for _, r := range records {
		if _, ok := byID[r.ID()]; !ok {
			byID[r.ID()] = r
		}
	}

	fc := geojson.NewFeatureCollection()
	// marshal an empty batch as [] rather than null
	fc.Features = []*geojson.Feature{}

	for _, fp := range footprints {
		feature := geojson.NewFeature(toGeoJSON(fp.Geometry))

		feature.Properties[KeyGlobalID] = fp.ID
		if fp.Source != "" {
			feature.Properties[KeySource] = fp.Source
		}

		record := byID[fp.ID]
		for _, name := range selected {
			if v, ok := record[name]; ok {
				feature.Properties[name] = v
			} else {
				feature.Properties[name] = NotAvailable
			}
		}

		if c, ok := centroids[fp.ID]; ok {
			feature.Properties[KeyCentroid] = []float64{c[0], c[1]}
		} else {
			feature.Properties[KeyCentroid] = nil
		}

		fc.AddFeature(feature)
	}

	return fc
}

func toGeoJSON(g orb.Geometry) *geojson.Geometry {
	switch g := g.(type) {
	case orb.Polygon:
		return geojson.NewPolygonGeometry(polygonCoordinates(g))
	case orb.MultiPolygon:
		var coords [][][][]float64
		for _, p := range g {
			coords = append(coords, polygonCoordinates(p))
		}
		return geojson.NewMultiPolygonGeometry(coords...)
	}
	return nil
}

func polygonCoordinates(p orb.Polygon) [][][]float64 {
	coords := make([][][]float64, 0, len(p))
	for _, ring := range p {
		r := make([][]float64, 0, len(ring))
		for _, pt := range ring {
			r = append(r, []float64{pt[0], pt[1]})
		}
		coords = append(coords, r)
	}
	return coords
}
