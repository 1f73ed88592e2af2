package bimgeo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
	"github.com/peterstace/simplefeatures/geom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/godeepar/bimgeo/crs"
	"github.com/godeepar/bimgeo/model"
)

// Projector maps a planar source coordinate into the target crs.
// *crs.Reprojector satisfies it.
type Projector interface {
	Transform(x, y float64) (float64, float64, error)
}

// configurable projectors can be declared but not built, like a zero
// crs.Reprojector.
type configurable interface {
	Configured() bool
}

var _ configurable = (*crs.Reprojector)(nil)

// Flattener turns element meshes into plan footprints.
type Flattener struct {
	projector Projector
	logger    *zap.Logger
	workers   int
	tolerance float64
}

// FlattenOption configures a Flattener.
type FlattenOption func(*Flattener)

// WithLogger sets the logger used for skipped elements.
func WithLogger(logger *zap.Logger) FlattenOption {
	return func(f *Flattener) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithWorkers flattens up to n elements at once.
func WithWorkers(n int) FlattenOption {
	return func(f *Flattener) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithSimplifyTolerance sets the Douglas-Peucker tolerance applied to the
// merged rings, in target crs units. Zero removes only collinear vertices.
func WithSimplifyTolerance(t float64) FlattenOption {
	return func(f *Flattener) {
		if t >= 0 {
			f.tolerance = t
		}
	}
}

// NewFlattener returns a Flattener projecting through p.
func NewFlattener(p Projector, opts ...FlattenOption) *Flattener {
	f := &Flattener{projector: p, logger: zap.NewNop(), workers: 1}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type flattened struct {
	footprint Footprint
	skip      *Skip
}

// Flatten produces one footprint per element that survives, in input order,
// plus a Skip for every element that does not. Only a missing projector or a
// cancelled context fail the batch.
func (f *Flattener) Flatten(ctx context.Context, elements []model.Element) ([]Footprint, []Skip, error) {
	if f == nil || f.projector == nil {
		return nil, nil, &PreconditionError{Stage: "Flatten", Need: "a configured reprojector"}
	}
	if c, ok := f.projector.(configurable); ok && !c.Configured() {
		return nil, nil, &PreconditionError{Stage: "Flatten", Need: "a configured reprojector"}
	}

	results := make([]flattened, len(elements))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for i, el := range elements {
		if gctx.Err() != nil {
			break
		}

		i, el := i, el
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fp, skip := f.FlattenElement(el)
			results[i] = flattened{footprint: fp, skip: skip}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var footprints []Footprint
	var skips []Skip
	for _, res := range results {
		if res.skip != nil {
			skips = append(skips, *res.skip)
			continue
		}
		footprints = append(footprints, res.footprint)
	}

	return footprints, skips, nil
}

// FlattenElement flattens a single element. Exactly one of the results is
// meaningful: the footprint when skip is nil.
func (f *Flattener) FlattenElement(el model.Element) (Footprint, *Skip) {
	fp := Footprint{ID: el.GlobalID(), Type: el.TypeTag()}

	geometry, reason, err := f.recovered(el)
	if reason != "" {
		skip := &Skip{ID: fp.ID, Type: fp.Type, Reason: reason, Err: err}
		f.logger.Warn("non fatal: element skipped",
			zap.String("global_id", fp.ID),
			zap.String("type", fp.Type),
			zap.String("reason", string(reason)),
			zap.Error(err),
		)
		return fp, skip
	}

	fp.Geometry = geometry
	return fp, nil
}

// recovered turns a panic raised while meshing or merging one element into a
// mesh_error skip so the rest of the batch still runs.
func (f *Flattener) recovered(el model.Element) (g orb.Geometry, reason SkipReason, err error) {
	defer func() {
		if r := recover(); r != nil {
			g, reason, err = nil, SkipMeshError, fmt.Errorf("recovered from panic: %v", r)
		}
	}()
	return f.flatten(el)
}

func (f *Flattener) flatten(el model.Element) (orb.Geometry, SkipReason, error) {
	mesh, err := el.Mesh()
	if err != nil {
		return nil, SkipMeshError, fmt.Errorf("[Mesh] in pkg [bimgeo] encountered: %w", err)
	}
	if mesh == nil || mesh.TriangleCount() == 0 {
		return nil, SkipNoFaces, nil
	}

	triangles, reason, err := f.triangles(mesh)
	if reason != "" {
		return nil, reason, err
	}
	if len(triangles) == 0 {
		return nil, SkipDegenerate, errors.New("every triangle is degenerate in plan")
	}

	var merged geom.Geometry
	if len(triangles) == 1 {
		merged = polygonToSF(orb.Polygon{triangles[0]}).AsGeometry()
	} else {
		parts := make([]geom.Geometry, 0, len(triangles))
		for _, t := range triangles {
			parts = append(parts, polygonToSF(orb.Polygon{t}).AsGeometry())
		}
		merged, err = geom.UnaryUnion(geom.NewGeometryCollection(parts).AsGeometry())
		if err != nil {
			return nil, SkipUnionError, fmt.Errorf("[geom.UnaryUnion] in pkg [bimgeo] encountered: %w", err)
		}
	}

	return f.finish(merged)
}

// finish converts the merged outline back to orb, simplifies it and rejects
// anything that is no longer a valid polygon.
func (f *Flattener) finish(merged geom.Geometry) (orb.Geometry, SkipReason, error) {
	if merged.IsEmpty() {
		return nil, SkipEmpty, nil
	}

	footprint, err := fromSimpleFeatures(merged)
	if err != nil {
		return nil, SkipEmpty, err
	}

	footprint = f.simplify(footprint)
	if footprint == nil {
		return nil, SkipEmpty, errors.New("nothing left after simplification")
	}

	if err := validFootprint(footprint); err != nil {
		return nil, SkipInvalid, err
	}

	return footprint, "", nil
}

// validFootprint checks ring simplicity, hole containment and that the parts
// of a multipolygon do not overlap.
func validFootprint(g orb.Geometry) error {
	sf, err := toSimpleFeatures(g)
	if err != nil {
		return err
	}
	if err := sf.Validate(); err != nil {
		return fmt.Errorf("[Validate] in pkg [bimgeo] encountered: %w", err)
	}
	return nil
}

// triangles reprojects the mesh faces into closed 4 point rings, dropping
// repeated and degenerate ones.
func (f *Flattener) triangles(mesh *model.Mesh) ([]orb.Ring, SkipReason, error) {
	projected := make(map[int]orb.Point)
	seen := make(map[[3]orb.Point]bool)

	vertex := func(idx int) (orb.Point, SkipReason, error) {
		if pt, ok := projected[idx]; ok {
			return pt, "", nil
		}
		x, y, _, ok := mesh.Vertex(idx)
		if !ok {
			return orb.Point{}, SkipBadIndex, fmt.Errorf("face index %d outside %d vertices", idx, mesh.VertexCount())
		}
		lon, lat, err := f.projector.Transform(x, y)
		if err != nil {
			return orb.Point{}, SkipReprojectError, fmt.Errorf("[Transform] in pkg [bimgeo] encountered: %w", err)
		}
		pt := orb.Point{lon, lat}
		projected[idx] = pt
		return pt, "", nil
	}

	var rings []orb.Ring
	for t := 0; t < mesh.TriangleCount(); t++ {
		var tri [3]orb.Point
		for k := 0; k < 3; k++ {
			pt, reason, err := vertex(mesh.Faces[3*t+k])
			if reason != "" {
				return nil, reason, err
			}
			tri[k] = pt
		}

		key := triangleKey(tri)
		if seen[key] {
			continue
		}
		seen[key] = true

		if degenerate(tri) {
			continue
		}

		rings = append(rings, orb.Ring{tri[0], tri[1], tri[2], tri[0]})
	}

	return rings, "", nil
}

// triangleKey is the winding independent identity of a triangle.
func triangleKey(tri [3]orb.Point) [3]orb.Point {
	key := tri
	sort.Slice(key[:], func(i, j int) bool {
		if key[i][0] != key[j][0] {
			return key[i][0] < key[j][0]
		}
		return key[i][1] < key[j][1]
	})
	return key
}

// degenerate reports triangles with a repeated vertex or no area. Area is
// compared relative to the longest edge so the test works in degrees and meters.
func degenerate(tri [3]orb.Point) bool {
	a, b, c := tri[0], tri[1], tri[2]
	if a.Equal(b) || b.Equal(c) || a.Equal(c) {
		return true
	}

	cross := (b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])

	scale := 0.0
	for _, e := range [][2]orb.Point{{a, b}, {b, c}, {c, a}} {
		dx, dy := e[1][0]-e[0][0], e[1][1]-e[0][1]
		scale = math.Max(scale, dx*dx+dy*dy)
	}

	return math.Abs(cross) <= 1e-12*scale
}

// simplify removes redundant ring vertices. Rings reduced below a triangle are
// dropped, and so are polygons whose exterior is dropped.
func (f *Flattener) simplify(g orb.Geometry) orb.Geometry {
	simplifier := simplify.DouglasPeucker(f.tolerance)

	polygon := func(p orb.Polygon) orb.Polygon {
		var out orb.Polygon
		for i, r := range p {
			ring := simplifier.Simplify(r.Clone()).(orb.Ring)
			if len(ring) < 4 {
				if i == 0 {
					return nil
				}
				continue
			}
			out = append(out, ring)
		}
		return out
	}

	switch g := g.(type) {
	case orb.Polygon:
		if p := polygon(g); p != nil {
			return p
		}
	case orb.MultiPolygon:
		var out orb.MultiPolygon
		for _, p := range g {
			if sp := polygon(p); sp != nil {
				out = append(out, sp)
			}
		}
		switch len(out) {
		case 0:
		case 1:
			return out[0]
		default:
			return out
		}
	}
	return nil
}
