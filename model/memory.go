package model

import (
	"sort"
)

// MemoryElement is an Element held in memory.
type MemoryElement struct {
	ID       string
	Type     string
	Geometry *Mesh
	// ShapeErr is returned by Mesh in place of the geometry.
	ShapeErr error
}

func (e *MemoryElement) GlobalID() string { return e.ID }

func (e *MemoryElement) TypeTag() string { return e.Type }

func (e *MemoryElement) Mesh() (*Mesh, error) {
	if e.ShapeErr != nil {
		return nil, e.ShapeErr
	}
	if e.Geometry == nil {
		return nil, ErrNoShape
	}
	return e.Geometry, nil
}

// Memory is a Model backed by slices. The loaders build one of these.
type Memory struct {
	Source   string
	Elements []*MemoryElement
	Rels     []Relationship
}

func (m *Memory) Name() string { return m.Source }

func (m *Memory) EntityTypes() []string {
	seen := make(map[string]bool)
	var types []string
	for _, el := range m.Elements {
		if el.Type == "" || seen[el.Type] {
			continue
		}
		seen[el.Type] = true
		types = append(types, el.Type)
	}
	sort.Strings(types)
	return types
}

func (m *Memory) ElementsByType(typeTag string) []Element {
	var out []Element
	for _, el := range m.Elements {
		if IsA(el.Type, typeTag) {
			out = append(out, el)
		}
	}
	return out
}

func (m *Memory) Relationships(kind string) []Relationship {
	var out []Relationship
	for _, rel := range m.Rels {
		if rel.Kind == kind {
			out = append(out, rel)
		}
	}
	return out
}
