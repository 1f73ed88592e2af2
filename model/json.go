package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mitchellh/mapstructure"
)

// document is a tessellated IFC export: products with their world space mesh
// plus the property relationships, laid out like ifcJSON.
type document struct {
	Schema        string        `json:"schema"`
	Elements      []elementDoc  `json:"elements"`
	Relationships []relationDoc `json:"relationships"`
}

type elementDoc struct {
	GlobalID string `json:"globalId"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Mesh     *Mesh  `json:"mesh"`
}

type relationDoc struct {
	Type           string        `json:"type"`
	RelatedObjects []string      `json:"relatedObjects"`
	Definition     definitionDoc `json:"relatingPropertyDefinition"`
}

type definitionDoc struct {
	Type          string        `json:"type"`
	Name          string        `json:"name"`
	HasProperties []propertyDoc `json:"hasProperties"`
}

type propertyDoc struct {
	Type         string      `json:"type"`
	Name         string      `json:"name"`
	NominalValue interface{} `json:"nominalValue"`
}

// wrapper is the object form of a nominal value, {"type": "IfcLabel", "wrappedValue": "x"}.
// Some exporters write "value" instead of "wrappedValue".
type wrapper struct {
	Type         string      `mapstructure:"type"`
	WrappedValue interface{} `mapstructure:"wrappedValue"`
	Value        interface{} `mapstructure:"value"`
}

// LoadJSON reads a tessellated model document.
func LoadJSON(name string, r io.Reader) (*Memory, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("[LoadJSON] decoding %s encountered: %w", name, err)
	}

	out := &Memory{Source: name}

	for i, el := range doc.Elements {
		if el.GlobalID == "" {
			return nil, fmt.Errorf("%s: element %d has no globalId", name, i)
		}
		if el.Type == "" {
			return nil, fmt.Errorf("%s: element %s has no type", name, el.GlobalID)
		}
		out.Elements = append(out.Elements, &MemoryElement{ID: el.GlobalID, Type: el.Type, Geometry: el.Mesh})
	}

	for i, rel := range doc.Relationships {
		def := PropertyDefinition{Name: rel.Definition.Name, Kind: rel.Definition.Type}

		for _, prop := range rel.Definition.HasProperties {
			value, err := decodeValue(prop.NominalValue)
			if err != nil {
				return nil, fmt.Errorf("%s: relationship %d property %q: %w", name, i, prop.Name, err)
			}
			def.Properties = append(def.Properties, Property{Name: prop.Name, Kind: prop.Type, NominalValue: value})
		}

		out.Rels = append(out.Rels, Relationship{Kind: rel.Type, RelatedObjects: rel.RelatedObjects, Definition: def})
	}

	return out, nil
}

// decodeValue accepts a bare scalar or a wrapper object. Null and wrappers
// without a value come back nil.
func decodeValue(raw interface{}) (*Value, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		var w wrapper
		if err := mapstructure.Decode(v, &w); err != nil {
			return nil, err
		}
		wrapped := w.WrappedValue
		if wrapped == nil {
			wrapped = w.Value
		}
		if wrapped == nil {
			return nil, nil
		}
		if _, nested := wrapped.(map[string]interface{}); nested {
			return nil, errors.New("nested nominal values are not scalar")
		}
		return &Value{Type: w.Type, Wrapped: wrapped}, nil
	case []interface{}:
		return nil, errors.New("list nominal values are not scalar")
	default:
		return &Value{Wrapped: v}, nil
	}
}
