package bimgeo

import (
	"sort"

	"github.com/godeepar/bimgeo/model"
)

// Record keys set on every property record.
const (
	KeyID     = "IFC_ID"
	KeyType   = "IFC_Type"
	KeySource = "Source_File"

	// NotAvailable fills missing and empty values.
	NotAvailable = "N/A"
)

// DefaultProperties is the selection used when none is given.
var DefaultProperties = []string{KeyID, KeyType, KeySource}

// PropertyRecord holds the identity of an element and its single value properties.
type PropertyRecord map[string]interface{}

// ID returns the IFC_ID of the record.
func (r PropertyRecord) ID() string {
	id, _ := r[KeyID].(string)
	return id
}

// PropertyIndex maps related object ids to their property relationships.
// Build it once per model.
type PropertyIndex map[string][]model.Relationship

// NewPropertyIndex indexes every defines by properties relationship of m, in
// model order.
func NewPropertyIndex(m model.Model) PropertyIndex {
	index := make(PropertyIndex)
	for _, rel := range m.Relationships(model.RelDefinesByProperties) {
		for _, id := range rel.RelatedObjects {
			index[id] = append(index[id], rel)
		}
	}
	return index
}

// ExtractProperties returns one record per element, in element order.
// Values come from the single value properties of the property sets attached
// to the element. When two sets share a property name the later one wins.
func ExtractProperties(m model.Model, elements []model.Element) []PropertyRecord {
	return NewPropertyIndex(m).Extract(elements)
}

// Extract builds the records for elements from the index.
func (idx PropertyIndex) Extract(elements []model.Element) []PropertyRecord {
	records := make([]PropertyRecord, 0, len(elements))

	for _, el := range elements {
		record := PropertyRecord{KeyID: el.GlobalID(), KeyType: el.TypeTag()}

		for _, rel := range idx[el.GlobalID()] {
			if rel.Definition.Kind != model.PropertySet {
				continue
			}
			for _, prop := range rel.Definition.Properties {
				if prop.Kind != model.PropertySingleValue {
					continue
				}
				record[prop.Name] = nominal(prop.NominalValue)
			}
		}

		records = append(records, record)
	}

	return records
}

func nominal(v *model.Value) interface{} {
	if v == nil || v.Wrapped == nil {
		return NotAvailable
	}
	return v.Wrapped
}

// PropertyKeys lists the sorted union of keys across records.
func PropertyKeys(records []PropertyRecord) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, r := range records {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
