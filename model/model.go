// Package model describes the capabilities the converter needs from a loaded
// BIM model: typed elements with a global identity, on demand world space
// meshes and property set relationships.
package model

import (
	"errors"
)

// IFC entity names the converter relies on.
const (
	Product                = "IfcProduct"
	RelDefinesByProperties = "IfcRelDefinesByProperties"
	PropertySet            = "IfcPropertySet"
	PropertySingleValue    = "IfcPropertySingleValue"
)

// ErrNoShape is returned by Element.Mesh when the element has no representation.
var ErrNoShape = errors.New("element has no shape representation")

// Element is one entity of a loaded model.
type Element interface {
	GlobalID() string
	TypeTag() string
	// Mesh returns the triangulated surface in world coordinates.
	Mesh() (*Mesh, error)
}

// Model is a loaded BIM file.
type Model interface {
	// Name identifies the source file, it ends up as Source_File.
	Name() string
	// EntityTypes lists the distinct product types present, sorted.
	EntityTypes() []string
	// ElementsByType returns elements whose type is typeTag or one of its
	// subtypes, in model order. Product returns every element.
	ElementsByType(typeTag string) []Element
	// Relationships returns every relationship of the given kind, in model order.
	Relationships(kind string) []Relationship
}

// Mesh is a triangle mesh with flat arrays: 3 floats per vertex (x, y, z) and
// 3 vertex indices per face.
type Mesh struct {
	Vertices []float64 `json:"verts" yaml:"verts"`
	Faces    []int     `json:"faces" yaml:"faces"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of complete faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces) / 3
}

// Vertex returns vertex i, ok is false when i is out of range.
func (m *Mesh) Vertex(i int) (x, y, z float64, ok bool) {
	if i < 0 || i >= m.VertexCount() {
		return 0, 0, 0, false
	}
	return m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2], true
}

// Value is a wrapped IFC value, e.g. IfcLabel("Concrete"). A nil *Value is an
// empty wrapper.
type Value struct {
	Type    string      `json:"type" yaml:"type"`
	Wrapped interface{} `json:"wrappedValue" yaml:"wrappedValue"`
}

// Property is a named property of a property set.
type Property struct {
	Name         string `json:"name" yaml:"name"`
	Kind         string `json:"type" yaml:"type"`
	NominalValue *Value `json:"nominalValue" yaml:"nominalValue"`
}

// PropertyDefinition is the relating side of a defines by properties relationship.
type PropertyDefinition struct {
	Name       string     `json:"name" yaml:"name"`
	Kind       string     `json:"type" yaml:"type"`
	Properties []Property `json:"hasProperties" yaml:"hasProperties"`
}

// Relationship links a property definition to the elements it describes.
type Relationship struct {
	Kind           string             `json:"type" yaml:"type"`
	RelatedObjects []string           `json:"relatedObjects" yaml:"relatedObjects"`
	Definition     PropertyDefinition `json:"relatingPropertyDefinition" yaml:"relatingPropertyDefinition"`
}
