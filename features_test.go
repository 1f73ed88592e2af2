package bimgeo

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
)

func buildInputs() ([]Footprint, map[string]orb.Point, []PropertyRecord) {
	footprints := []Footprint{
		{ID: "slab", Type: "IfcSlab", Source: "site.json", Geometry: orb.Polygon{{{0, 0}, {10, 0}, {10, 5}, {0, 5}, {0, 0}}}},
		{ID: "cols", Type: "IfcColumn", Geometry: orb.MultiPolygon{
			{{{0, 0}, {1, 0}, {0, 1}, {0, 0}}},
			{{{5, 5}, {6, 5}, {5, 6}, {5, 5}}},
		}},
		{ID: "orphan", Type: "IfcWall", Geometry: orb.Polygon{{{0, 0}, {1, 0}, {0, 1}, {0, 0}}}},
	}
	centroids := map[string]orb.Point{"slab": {5, 2.5}, "cols": {0.33, 0.33}}
	records := []PropertyRecord{
		{KeyID: "slab", KeyType: "IfcSlab", "Material": "Concrete"},
		{KeyID: "cols", KeyType: "IfcColumn"},
		{KeyID: "slab", KeyType: "IfcSlab", "Material": "Ignored"},
	}
	return footprints, centroids, records
}

func TestBuildJoin(t *testing.T) {
	footprints, centroids, records := buildInputs()
	selected := []string{KeyID, KeyType, "Material"}

	fc := Build(footprints, centroids, records, selected)

	if len(fc.Features) != len(footprints) {
		t.Fatalf("features must never be dropped, got %d", len(fc.Features))
	}

	for i, feature := range fc.Features {
		if feature.Properties[KeyGlobalID] != footprints[i].ID {
			t.Errorf("feature %d is %v, order must follow the footprints", i, feature.Properties[KeyGlobalID])
		}
		for _, key := range append(selected, KeyCentroid) {
			if _, ok := feature.Properties[key]; !ok {
				t.Errorf("feature %d is missing %s", i, key)
			}
		}
	}

	slab := fc.Features[0]
	if slab.Properties["Material"] != "Concrete" {
		t.Errorf("first record must win, got %v", slab.Properties["Material"])
	}
	if slab.Properties[KeySource] != "site.json" {
		t.Errorf("source file missing from base properties")
	}
	if c, ok := slab.Properties[KeyCentroid].([]float64); !ok || c[0] != 5 || c[1] != 2.5 {
		t.Errorf("centroid %v", slab.Properties[KeyCentroid])
	}
	if !slab.Geometry.IsPolygon() {
		t.Errorf("slab geometry is %s", slab.Geometry.Type)
	}

	cols := fc.Features[1]
	if cols.Properties["Material"] != NotAvailable {
		t.Errorf("missing property should be N/A, got %v", cols.Properties["Material"])
	}
	if !cols.Geometry.IsMultiPolygon() || len(cols.Geometry.MultiPolygon) != 2 {
		t.Errorf("columns geometry is %s", cols.Geometry.Type)
	}
	if _, ok := cols.Properties[KeySource]; ok {
		t.Errorf("no source file was set on the columns")
	}

	orphan := fc.Features[2]
	if orphan.Properties[KeyID] != NotAvailable || orphan.Properties[KeyType] != NotAvailable {
		t.Errorf("feature without a record should be filled with N/A, got %v", orphan.Properties)
	}
	if orphan.Properties[KeyCentroid] != nil {
		t.Errorf("missing centroid should be null, got %v", orphan.Properties[KeyCentroid])
	}
}

func TestBuildIdempotent(t *testing.T) {
	footprints, centroids, records := buildInputs()
	selected := []string{KeyID, "Material", "LoadBearing"}

	first, err := json.Marshal(Build(footprints, centroids, records, selected))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(Build(footprints, centroids, records, selected))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("two builds differ:\n%s\n%s", first, second)
	}
}

func TestBuildEmpty(t *testing.T) {
	raw, err := json.Marshal(Build(nil, nil, nil, DefaultProperties))
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	features, ok := doc["features"].([]interface{})
	if doc["type"] != "FeatureCollection" || !ok || len(features) != 0 {
		t.Errorf("unexpected empty collection %s", raw)
	}
}

func TestBuildSelectedOverwritesBase(t *testing.T) {
	footprints := []Footprint{{ID: "slab", Source: "a.json", Geometry: orb.Polygon{{{0, 0}, {1, 0}, {0, 1}, {0, 0}}}}}
	records := []PropertyRecord{{KeyID: "slab", KeySource: "b.json"}}

	fc := Build(footprints, nil, records, []string{KeySource})
	if got := fc.Features[0].Properties[KeySource]; got != "b.json" {
		t.Errorf("selected value should overwrite the base property, got %v", got)
	}
}
