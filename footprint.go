package bimgeo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/peterstace/simplefeatures/geom"
)

// Footprint is the flattened plan outline of one element in the target crs.
// Geometry is always an orb.Polygon or an orb.MultiPolygon with closed rings.
type Footprint struct {
	ID       string       `json:"id" yaml:"id"`
	Type     string       `json:"type" yaml:"type"`
	Source   string       `json:"source,omitempty" yaml:"source,omitempty"`
	Geometry orb.Geometry `json:"-" yaml:"-"`
}

// PrimaryRing returns the exterior ring of the polygon, or of the first part
// of a multipolygon.
func (f Footprint) PrimaryRing() orb.Ring {
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		if len(g) > 0 {
			return g[0]
		}
	case orb.MultiPolygon:
		if len(g) > 0 && len(g[0]) > 0 {
			return g[0][0]
		}
	}
	return nil
}

// IsMulti reports whether the footprint has more than one part.
func (f Footprint) IsMulti() bool {
	_, ok := f.Geometry.(orb.MultiPolygon)
	return ok
}

// toSimpleFeatures converts an orb polygon or multipolygon for the union and
// validity checks.
func toSimpleFeatures(g orb.Geometry) (geom.Geometry, error) {
	switch g := g.(type) {
	case orb.Ring:
		return polygonToSF(orb.Polygon{g}).AsGeometry(), nil
	case orb.Polygon:
		return polygonToSF(g).AsGeometry(), nil
	case orb.MultiPolygon:
		var polys []geom.Polygon
		for _, p := range g {
			polys = append(polys, polygonToSF(p))
		}
		return geom.NewMultiPolygon(polys).AsGeometry(), nil
	}
	return geom.Geometry{}, fmt.Errorf("unsupported geometry %s", g.GeoJSONType())
}

func polygonToSF(p orb.Polygon) geom.Polygon {
	var rings []geom.LineString
	for _, r := range p {
		flat := make([]float64, 0, 2*len(r))
		for _, pt := range r {
			flat = append(flat, pt[0], pt[1])
		}
		rings = append(rings, geom.NewLineString(geom.NewSequence(flat, geom.DimXY)))
	}
	return geom.NewPolygon(rings)
}

// fromSimpleFeatures converts a union result back to orb. Exterior rings come
// back counter clockwise and holes clockwise.
func fromSimpleFeatures(g geom.Geometry) (orb.Geometry, error) {
	switch g.Type() {
	case geom.TypePolygon:
		p, _ := g.AsPolygon()
		return polygonFromSF(p), nil
	case geom.TypeMultiPolygon:
		mp, _ := g.AsMultiPolygon()
		var out orb.MultiPolygon
		for i := 0; i < mp.NumPolygons(); i++ {
			p := polygonFromSF(mp.PolygonN(i))
			if len(p) > 0 {
				out = append(out, p)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("union produced a %s", g.Type())
}

func polygonFromSF(p geom.Polygon) orb.Polygon {
	if p.IsEmpty() {
		return nil
	}

	out := orb.Polygon{ringFromSF(p.ExteriorRing(), orb.CCW)}
	for i := 0; i < p.NumInteriorRings(); i++ {
		out = append(out, ringFromSF(p.InteriorRingN(i), orb.CW))
	}
	return out
}

func ringFromSF(ls geom.LineString, orientation orb.Orientation) orb.Ring {
	seq := ls.Coordinates()
	ring := make(orb.Ring, 0, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		ring = append(ring, orb.Point{xy.X, xy.Y})
	}
	if !ring.Closed() && len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	if ring.Orientation() != orientation {
		ring.Reverse()
	}
	return ring
}
