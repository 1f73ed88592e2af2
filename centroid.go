package bimgeo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// CentroidMode selects how a footprint centroid is derived.
type CentroidMode string

const (
	// CentroidPrimaryRing uses the exterior ring of the first part only,
	// ignoring holes and further parts of a multipolygon.
	CentroidPrimaryRing CentroidMode = "primary-ring"
	// CentroidAreaWeighted uses every part with holes subtracted.
	CentroidAreaWeighted CentroidMode = "area-weighted"
)

// ParseCentroidMode accepts the mode names, empty means CentroidPrimaryRing.
func ParseCentroidMode(s string) (CentroidMode, error) {
	switch CentroidMode(s) {
	case "", CentroidPrimaryRing:
		return CentroidPrimaryRing, nil
	case CentroidAreaWeighted:
		return CentroidAreaWeighted, nil
	}
	return "", fmt.Errorf("unknown centroid mode %q", s)
}

// Centroids computes at most one centroid per footprint identity. Footprints
// without a usable ring get a centroid_degenerate skip and no entry; a later
// footprint never replaces an earlier one.
func Centroids(footprints []Footprint, mode CentroidMode) (map[string]orb.Point, []Skip) {
	centroids := make(map[string]orb.Point, len(footprints))
	var skips []Skip

	for _, fp := range footprints {
		if _, ok := centroids[fp.ID]; ok {
			continue
		}

		c, err := Centroid(fp, mode)
		if err != nil {
			skips = append(skips, Skip{ID: fp.ID, Type: fp.Type, Source: fp.Source, Reason: SkipCentroidDegenerate, Err: err})
			continue
		}
		centroids[fp.ID] = c
	}

	return centroids, skips
}

// Centroid returns the planar centroid of a single footprint.
func Centroid(fp Footprint, mode CentroidMode) (orb.Point, error) {
	if mode == CentroidAreaWeighted {
		if fp.Geometry == nil {
			return orb.Point{}, fmt.Errorf("%s has no geometry", fp.ID)
		}
		c, area := planar.CentroidArea(fp.Geometry)
		if area == 0 {
			return orb.Point{}, fmt.Errorf("%s has no area", fp.ID)
		}
		return c, nil
	}

	ring := fp.PrimaryRing()
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring.Clone(), ring[0])
	}
	// a triangle needs 4 points once closed
	if len(ring) < 4 {
		return orb.Point{}, fmt.Errorf("%s ring has %d points", fp.ID, len(ring))
	}

	c, area := planar.CentroidArea(ring)
	if area == 0 {
		return orb.Point{}, fmt.Errorf("%s ring has no area", fp.ID)
	}
	return c, nil
}
