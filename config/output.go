package config

// Output controls where results are written. An empty GeoJSON path means
// stdout, the other paths are optional.
type Output struct {
	GeoJSON   string `yaml:"geojson"`
	Indent    bool   `yaml:"indent"`
	Shapefile string `yaml:"shapefile"`
	Metrics   string `yaml:"metrics"`
}
