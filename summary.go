package bimgeo

import (
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// maxCoverCells bounds the number of s2 cells describing a run's extent.
const maxCoverCells = 8

// Summary describes a conversion run.
type Summary struct {
	Models   int                `json:"models" yaml:"models"`
	Elements int                `json:"elements" yaml:"elements"`
	Features int                `json:"features" yaml:"features"`
	Skipped  map[SkipReason]int `json:"skipped" yaml:"skipped"`
	// BBox is [minx, miny, maxx, maxy] in the target crs, empty when nothing was built.
	BBox   []float64 `json:"bbox,omitempty" yaml:"bbox,omitempty"`
	Center []float64 `json:"center,omitempty" yaml:"center,omitempty"`
	// S2 holds cell tokens covering BBox, only for geographic targets.
	S2 []string `json:"s2,omitempty" yaml:"s2,omitempty"`
}

// extentContainer grows a bound with every coordinate sent on ch.
type extentContainer struct {
	bound orb.Bound
	seen  bool
	ch    chan orb.Point
	done  chan struct{}
}

// initExtentContainer starts the listener; close ch and wait on done before
// reading the bound.
func initExtentContainer() *extentContainer {
	container := &extentContainer{
		ch:   make(chan orb.Point),
		done: make(chan struct{}),
	}

	go boundListener(container)

	return container
}

// boundListener observes every point on the channel and keeps the extent.
func boundListener(container *extentContainer) {
	defer close(container.done)

	for pt := range container.ch {
		if !container.seen {
			container.bound = orb.Bound{Min: pt, Max: pt}
			container.seen = true
			continue
		}
		container.bound = container.bound.Extend(pt)
	}
}

// observe sends every vertex of a footprint to the listener.
func (c *extentContainer) observe(fp Footprint) {
	switch g := fp.Geometry.(type) {
	case orb.Polygon:
		for _, pt := range g[0] {
			c.ch <- pt
		}
	case orb.MultiPolygon:
		for _, p := range g {
			for _, pt := range p[0] {
				c.ch <- pt
			}
		}
	}
}

// finish stops the listener and fills the summary extent fields.
func (c *extentContainer) finish(summary *Summary, geographic bool) {
	close(c.ch)
	<-c.done

	if !c.seen {
		return
	}

	b := c.bound
	summary.BBox = []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}

	center := b.Center()
	summary.Center = []float64{center[0], center[1]}

	if geographic {
		summary.S2 = s2covering(b)
	}
}

// s2covering finds the s2 cell tokens covering a lon/lat bound.
func s2covering(b orb.Bound) []string {
	var s2hash []string

	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(b.Min[1], b.Min[0]))
	rect = rect.AddPoint(s2.LatLngFromDegrees(b.Max[1], b.Max[0]))

	coverer := &s2.RegionCoverer{MaxLevel: 30, MaxCells: maxCoverCells}
	for _, cellid := range coverer.Covering(rect) {
		s2hash = append(s2hash, cellid.ToToken())
	}

	return s2hash
}
