package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.CRS != "EPSG:25830 → EPSG:4326" {
		t.Errorf("default crs %q", cfg.CRS)
	}
	if !reflect.DeepEqual(cfg.EntityTypes, []string{"IfcProduct"}) {
		t.Errorf("default entity types %v", cfg.EntityTypes)
	}
	if !reflect.DeepEqual(cfg.Properties, []string{"IFC_ID", "IFC_Type", "Source_File"}) {
		t.Errorf("default properties %v", cfg.Properties)
	}
	if cfg.Workers != 1 || !cfg.Output.Indent {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeFile(t, "bimgeo.yml", `
crs: EPSG:25830 -> EPSG:3857
entity_types: [IfcWall, IfcSlab]
properties: [IFC_ID, Material]
workers: 4
simplify: 0.01
output:
  geojson: out.geojson
  indent: false
`)

	t.Setenv("BIMGEO_WORKERS", "8")
	t.Setenv("BIMGEO_PROPERTIES", "IFC_ID, Material ,LoadBearing,")
	t.Setenv("BIMGEO_SHAPEFILE", "out.shp")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"crs", cfg.CRS, "EPSG:25830 -> EPSG:3857"},
		{"entity types", cfg.EntityTypes, []string{"IfcWall", "IfcSlab"}},
		{"properties", cfg.Properties, []string{"IFC_ID", "Material", "LoadBearing"}},
		{"workers", cfg.Workers, 8},
		{"simplify", cfg.Simplify, 0.01},
		{"geojson", cfg.Output.GeoJSON, "out.geojson"},
		{"indent", cfg.Output.Indent, false},
		{"shapefile", cfg.Output.Shapefile, "out.shp"},
		{"centroid mode kept from defaults", cfg.CentroidMode, "primary-ring"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !reflect.DeepEqual(c.got, c.want) {
				t.Errorf("got %v, want %v", c.got, c.want)
			}
		})
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"bad yaml":     "crs: [",
		"bad pair":     "crs: EPSG:25830",
		"bad mode":     "centroid_mode: middle",
		"no workers":   "workers: 0",
		"negative tol": "simplify: -1",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, "bimgeo.yml", doc)); err == nil {
				t.Errorf("expected an error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
