package model

import (
	"errors"
	"os"
	"strings"
	"testing"
)

const (
	siteJSON = "../testdata/site.json"
	slabOBJ  = "../testdata/slab.obj"
)

func TestIsA(t *testing.T) {
	cases := []struct {
		typeTag string
		query   string
		want    bool
	}{
		{"IfcWallStandardCase", "IfcWall", true},
		{"IfcWallStandardCase", "IfcBuildingElement", true},
		{"IfcWall", "IfcWallStandardCase", false},
		{"IfcSlab", "IfcWall", false},
		{"IfcSpace", "IfcSpatialElement", true},
		{"IfcSomethingNew", Product, true},
		{"IfcSomethingNew", "IfcElement", false},
		{"IfcDoor", "IfcDoor", true},
		{"IfcWallStandardCase", "IFCWALL", true},
		{"IFCWALLSTANDARDCASE", "ifcbuildingelement", true},
		{"ifcslab", "IfcSlab", true},
		{"IfcSlab", "ifcproduct", true},
		{"IFCSLAB", "IfcWall", false},
	}

	for _, c := range cases {
		if got := IsA(c.typeTag, c.query); got != c.want {
			t.Errorf("IsA(%s, %s) = %v, want %v", c.typeTag, c.query, got, c.want)
		}
	}
}

func TestMemory(t *testing.T) {
	shapeErr := errors.New("boolean operation failed")
	m := &Memory{
		Source: "mem.json",
		Elements: []*MemoryElement{
			{ID: "a", Type: "IfcWall", Geometry: &Mesh{}},
			{ID: "b", Type: "IfcSlab"},
			{ID: "c", Type: "IfcWallStandardCase", ShapeErr: shapeErr},
			{ID: "d", Type: "IfcWall"},
		},
		Rels: []Relationship{
			{Kind: RelDefinesByProperties, RelatedObjects: []string{"a"}},
			{Kind: "IfcRelAggregates", RelatedObjects: []string{"b"}},
		},
	}

	types := m.EntityTypes()
	if strings.Join(types, ",") != "IfcSlab,IfcWall,IfcWallStandardCase" {
		t.Errorf("unexpected entity types %v", types)
	}

	walls := m.ElementsByType("IfcWall")
	if len(walls) != 3 || walls[0].GlobalID() != "a" || walls[1].GlobalID() != "c" {
		t.Errorf("unexpected walls %v", walls)
	}

	if len(m.ElementsByType("ifcwall")) != 3 {
		t.Errorf("type queries should ignore case")
	}

	if len(m.ElementsByType(Product)) != 4 {
		t.Errorf("product query should return every element")
	}

	if _, err := m.Elements[1].Mesh(); err != ErrNoShape {
		t.Errorf("expected ErrNoShape, got %v", err)
	}
	if _, err := m.Elements[2].Mesh(); err != shapeErr {
		t.Errorf("expected the shape error, got %v", err)
	}

	if len(m.Relationships(RelDefinesByProperties)) != 1 {
		t.Errorf("relationships should filter by kind")
	}
}

func TestMeshVertex(t *testing.T) {
	mesh := &Mesh{Vertices: []float64{1, 2, 3, 4, 5, 6, 7}, Faces: []int{0, 1, 1, 0}}

	if mesh.VertexCount() != 2 || mesh.TriangleCount() != 1 {
		t.Errorf("counts: %d vertices %d triangles", mesh.VertexCount(), mesh.TriangleCount())
	}
	if x, y, z, ok := mesh.Vertex(1); !ok || x != 4 || y != 5 || z != 6 {
		t.Errorf("vertex 1 = %v %v %v %v", x, y, z, ok)
	}
	if _, _, _, ok := mesh.Vertex(2); ok {
		t.Errorf("vertex 2 is incomplete and should be out of range")
	}
	if _, _, _, ok := mesh.Vertex(-1); ok {
		t.Errorf("negative vertex should be out of range")
	}
}

func TestLoadJSON(t *testing.T) {
	f, err := os.Open(siteJSON)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	m, err := LoadJSON("site.json", f)
	if err != nil {
		t.Fatalf("loading %s: %v", siteJSON, err)
	}

	if m.Name() != "site.json" {
		t.Errorf("name %s", m.Name())
	}
	if len(m.Elements) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(m.Elements))
	}

	slab := m.Elements[0]
	if slab.ID != "2O2Fr$t4X7Zf8NOew3FLOH" || slab.Type != "IfcSlab" {
		t.Errorf("unexpected slab %+v", slab)
	}
	mesh, err := slab.Mesh()
	if err != nil {
		t.Fatal(err)
	}
	if mesh.VertexCount() != 4 || mesh.TriangleCount() != 2 {
		t.Errorf("slab mesh has %d vertices %d triangles", mesh.VertexCount(), mesh.TriangleCount())
	}

	if _, err := m.Elements[2].Mesh(); err != ErrNoShape {
		t.Errorf("door without mesh should give ErrNoShape, got %v", err)
	}

	rels := m.Relationships(RelDefinesByProperties)
	if len(rels) != 3 {
		t.Fatalf("expected 3 property relationships, got %d", len(rels))
	}

	common := rels[0].Definition
	if common.Name != "Pset_Common" || common.Kind != PropertySet || len(common.Properties) != 3 {
		t.Fatalf("unexpected definition %+v", common)
	}
	if v := common.Properties[0].NominalValue; v == nil || v.Type != "IfcLabel" || v.Wrapped != "Concrete" {
		t.Errorf("material %+v", v)
	}
	if v := common.Properties[1].NominalValue; v == nil || v.Wrapped != true {
		t.Errorf("load bearing %+v", v)
	}
	if common.Properties[2].NominalValue != nil {
		t.Errorf("null nominal value should decode to nil")
	}

	slabProps := rels[1].Definition.Properties
	if v := slabProps[0].NominalValue; v == nil || v.Wrapped != 0.3 {
		t.Errorf("thickness from the value key %+v", v)
	}
	if v := slabProps[1].NominalValue; v == nil || v.Type != "" || v.Wrapped != "Screed" {
		t.Errorf("bare scalar %+v", v)
	}
}

func TestLoadJSONRejects(t *testing.T) {
	docs := map[string]string{
		"truncated":   `{"elements": [`,
		"no id":       `{"elements": [{"type": "IfcWall"}]}`,
		"no type":     `{"elements": [{"globalId": "x"}]}`,
		"list value":  `{"relationships": [{"type": "IfcRelDefinesByProperties", "relatingPropertyDefinition": {"hasProperties": [{"name": "a", "nominalValue": [1, 2]}]}}]}`,
		"nested wrap": `{"relationships": [{"type": "IfcRelDefinesByProperties", "relatingPropertyDefinition": {"hasProperties": [{"name": "a", "nominalValue": {"wrappedValue": {"x": 1}}}]}}]}`,
	}

	for label, doc := range docs {
		if _, err := LoadJSON(label, strings.NewReader(doc)); err == nil {
			t.Errorf("%s: expected an error", label)
		}
	}
}

func TestLoadOBJ(t *testing.T) {
	f, err := os.Open(slabOBJ)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	m, err := LoadOBJ("slab.obj", f, OBJOptions{})
	if err != nil {
		t.Fatalf("loading %s: %v", slabOBJ, err)
	}

	if len(m.Elements) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(m.Elements))
	}

	slab, column, proxy := m.Elements[0], m.Elements[1], m.Elements[2]

	if slab.Type != "IfcSlab" || slab.ID != "2O2Fr$t4X7Zf8NOew3FLOH" {
		t.Errorf("slab group parsed as %s %s", slab.Type, slab.ID)
	}
	if proxy.Type != DefaultOBJType || proxy.ID != "3vB2YO$MX4xv5uCqZZG05x" {
		t.Errorf("bare group parsed as %s %s", proxy.Type, proxy.ID)
	}

	// quads come back as two triangles
	if n := slab.Geometry.TriangleCount(); n != 2 {
		t.Errorf("slab quad gave %d triangles", n)
	}
	if n := column.Geometry.TriangleCount(); n != 2 {
		t.Errorf("column quad gave %d triangles", n)
	}

	// negative indices resolve against the vertices read so far
	for _, idx := range column.Geometry.Faces {
		if idx < 4 || idx > 7 {
			t.Errorf("column face index %d outside its vertices", idx)
		}
	}

	if proxy.Geometry.VertexCount() != 8 {
		t.Errorf("groups should share the vertex table, got %d", proxy.Geometry.VertexCount())
	}
}

func TestLoadOBJConcavePolygon(t *testing.T) {
	// L shaped face, the hull triangle across the notch must be dropped
	obj := `
v 0 0 0
v 2 0 0
v 2 1 0
v 1 1 0
v 1 2 0
v 0 2 0
o IfcSlab:L
f 1 2 3 4 5 6
`
	m, err := LoadOBJ("l.obj", strings.NewReader(obj), OBJOptions{})
	if err != nil {
		t.Fatal(err)
	}

	mesh := m.Elements[0].Geometry
	area := 0.0
	for i := 0; i < mesh.TriangleCount(); i++ {
		ax, ay, _, _ := mesh.Vertex(mesh.Faces[3*i])
		bx, by, _, _ := mesh.Vertex(mesh.Faces[3*i+1])
		cx, cy, _, _ := mesh.Vertex(mesh.Faces[3*i+2])
		a := ((bx-ax)*(cy-ay) - (cx-ax)*(by-ay)) / 2
		if a < 0 {
			a = -a
		}
		area += a
	}

	if area < 2.999 || area > 3.001 {
		t.Errorf("triangulated L covers %v, want 3", area)
	}
}

func TestLoadOBJYUp(t *testing.T) {
	obj := "v 1 2 3\nf 1 1 1\n"
	m, err := LoadOBJ("y.obj", strings.NewReader(obj), OBJOptions{YUp: true})
	if err != nil {
		t.Fatal(err)
	}

	x, y, z, _ := m.Elements[0].Geometry.Vertex(0)
	if x != 1 || y != -3 || z != 2 {
		t.Errorf("y up swap gave %v %v %v", x, y, z)
	}
	if m.Elements[0].ID != "y" {
		t.Errorf("faces before any group should land in a group named after the file, got %s", m.Elements[0].ID)
	}
}

func TestOpen(t *testing.T) {
	if _, err := Open(siteJSON); err != nil {
		t.Errorf("open json: %v", err)
	}
	if _, err := Open(slabOBJ); err != nil {
		t.Errorf("open obj: %v", err)
	}
	if _, err := Open("../testdata/missing.json"); err == nil {
		t.Errorf("expected an error for a missing file")
	}
	if _, err := Open("../go.mod"); err == nil {
		t.Errorf("expected an error for an unknown extension")
	}
}
