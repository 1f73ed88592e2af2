package bimgeo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func near(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) < 1e-9 && math.Abs(a[1]-b[1]) < 1e-9
}

func TestCentroid(t *testing.T) {
	rect := orb.Ring{{0, 0}, {10, 0}, {10, 5}, {0, 5}, {0, 0}}
	hole := orb.Ring{{6, 1}, {6, 4}, {9, 4}, {9, 1}, {6, 1}}
	far := orb.Polygon{{{100, 0}, {110, 0}, {110, 5}, {100, 5}, {100, 0}}}

	cases := []struct {
		name string
		geom orb.Geometry
		mode CentroidMode
		want orb.Point
	}{
		{"rectangle", orb.Polygon{rect}, CentroidPrimaryRing, orb.Point{5, 2.5}},
		{"open ring is closed first", orb.Polygon{rect[:4]}, CentroidPrimaryRing, orb.Point{5, 2.5}},
		{"primary ring ignores holes", orb.Polygon{rect, hole}, CentroidPrimaryRing, orb.Point{5, 2.5}},
		{"primary ring uses the first part", orb.MultiPolygon{{rect}, far}, CentroidPrimaryRing, orb.Point{5, 2.5}},
		{"area weighted uses every part", orb.MultiPolygon{{rect}, far}, CentroidAreaWeighted, orb.Point{55, 2.5}},
		{"area weighted subtracts holes", orb.Polygon{rect, hole}, CentroidAreaWeighted, orb.Point{(50*5 - 9*7.5) / 41, 2.5}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Centroid(Footprint{ID: "x", Geometry: c.geom}, c.mode)
			if err != nil {
				t.Fatal(err)
			}
			if !near(got, c.want) {
				t.Errorf("centroid %v, want %v", got, c.want)
			}
		})
	}
}

func TestCentroidDegenerate(t *testing.T) {
	cases := map[string]orb.Geometry{
		"two points": orb.Polygon{{{0, 0}, {1, 1}}},
		"flat":       orb.Polygon{{{0, 0}, {1, 1}, {2, 2}, {0, 0}}},
		"empty":      orb.Polygon{},
	}

	for name, g := range cases {
		if _, err := Centroid(Footprint{ID: name, Geometry: g}, CentroidPrimaryRing); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestCentroidsOnePerIdentity(t *testing.T) {
	footprints := []Footprint{
		{ID: "a", Geometry: orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}}},
		{ID: "a", Geometry: orb.Polygon{{{10, 10}, {12, 10}, {12, 12}, {10, 12}, {10, 10}}}},
		{ID: "b", Type: "IfcWall", Geometry: orb.Polygon{{{0, 0}, {1, 0}, {2, 0}, {0, 0}}}},
	}

	centroids, skips := Centroids(footprints, CentroidPrimaryRing)

	if len(centroids) != 1 || !near(centroids["a"], orb.Point{1, 1}) {
		t.Errorf("unexpected centroids %v", centroids)
	}
	if len(skips) != 1 || skips[0].ID != "b" || skips[0].Reason != SkipCentroidDegenerate {
		t.Errorf("unexpected skips %v", skips)
	}
}

func TestParseCentroidMode(t *testing.T) {
	for in, want := range map[string]CentroidMode{"": CentroidPrimaryRing, "primary-ring": CentroidPrimaryRing, "area-weighted": CentroidAreaWeighted} {
		if got, err := ParseCentroidMode(in); err != nil || got != want {
			t.Errorf("ParseCentroidMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseCentroidMode("bbox"); err == nil {
		t.Errorf("expected an error")
	}
}
