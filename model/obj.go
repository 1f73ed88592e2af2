package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fogleman/delaunay"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultOBJType is the type tag for groups that do not carry one.
const DefaultOBJType = "IfcBuildingElementProxy"

// OBJOptions controls how a Wavefront file is read.
type OBJOptions struct {
	// YUp swaps the axes of files written with Y as the vertical axis.
	YUp bool
}

// LoadOBJ reads a Wavefront OBJ file where every g or o group is one element.
// Group names are "Type:GlobalId" or a bare GlobalId. Faces with more than 3
// vertices are triangulated.
func LoadOBJ(name string, r io.Reader, opts OBJOptions) (*Memory, error) {
	out := &Memory{Source: name}

	var vertices []float64
	var current *MemoryElement
	byID := make(map[string]*MemoryElement)

	group := func(label string) {
		typeTag, id := DefaultOBJType, label
		if i := strings.Index(label, ":"); i > 0 {
			typeTag, id = label[:i], label[i+1:]
		}
		if el, ok := byID[id]; ok {
			current = el
			return
		}
		current = &MemoryElement{ID: id, Type: typeTag, Geometry: &Mesh{}}
		byID[id] = current
		out.Elements = append(out.Elements, current)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%s:%d: vertex needs 3 coordinates", name, line)
			}
			var xyz [3]float64
			for i := 0; i < 3; i++ {
				c, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", name, line, err)
				}
				xyz[i] = c
			}
			if opts.YUp {
				xyz = [3]float64{xyz[0], -xyz[2], xyz[1]}
			}
			vertices = append(vertices, xyz[0], xyz[1], xyz[2])

		case "g", "o":
			if len(fields) < 2 {
				continue
			}
			group(strings.Join(fields[1:], " "))

		case "f":
			if current == nil {
				group(strings.TrimSuffix(name, ".obj"))
			}

			var face []int
			for _, token := range fields[1:] {
				// v, v/vt, v/vt/vn, v//vn
				idx, err := strconv.Atoi(strings.Split(token, "/")[0])
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", name, line, err)
				}
				// OBJ is 1-based, negative indices count back from the last vertex
				if idx < 0 {
					idx = len(vertices)/3 + idx
				} else {
					idx--
				}
				face = append(face, idx)
			}

			if len(face) < 3 {
				continue
			}
			current.Geometry.Faces = append(current.Geometry.Faces, triangulateFace(vertices, face)...)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("[LoadOBJ] reading %s encountered: %w", name, err)
	}

	// every group shares the file's vertex table
	for _, el := range out.Elements {
		el.Geometry.Vertices = vertices
	}

	return out, nil
}

// triangulateFace returns index triples covering the face. Triangles pass
// through as is, larger faces get a delaunay triangulation of their plan view
// with triangles falling outside the face removed.
func triangulateFace(vertices []float64, face []int) []int {
	if len(face) == 3 {
		return face
	}

	var ptarray []delaunay.Point
	var ring orb.Ring
	for _, idx := range face {
		if idx < 0 || 3*idx+1 >= len(vertices) {
			// leave the bad index in place, the flattener skips the element
			return fan(face)
		}
		pt := delaunay.Point{X: vertices[3*idx], Y: vertices[3*idx+1]}
		ptarray = append(ptarray, pt)
		ring = append(ring, orb.Point{pt.X, pt.Y})
	}
	ring = append(ring, ring[0])

	triangulation, err := delaunay.Triangulate(ptarray)
	if err != nil || len(triangulation.Triangles) == 0 {
		// vertical faces collapse to a line in plan, fan them and let the
		// flattener drop the degenerate triangles
		return fan(face)
	}

	var triangles []int
	for t := 0; t < len(triangulation.Triangles)/3; t++ {
		a, b, c := triangulation.Triangles[3*t], triangulation.Triangles[3*t+1], triangulation.Triangles[3*t+2]

		triangle := orb.Ring{ring[a], ring[b], ring[c], ring[a]}
		center, _ := planar.CentroidArea(triangle)

		if planar.RingContains(ring, center) {
			triangles = append(triangles, face[a], face[b], face[c])
		}
	}

	return triangles
}

func fan(face []int) []int {
	var triangles []int
	for i := 1; i+1 < len(face); i++ {
		triangles = append(triangles, face[0], face[i], face[i+1])
	}
	return triangles
}
