// Package config reads run settings from a YAML file, a .env file and
// BIMGEO_* environment variables, in that order of precedence (last wins).
package config

// Config is the full set of run settings. The YAML layout mirrors the field
// tags; every field has a default.
type Config struct {
	// Inputs lists model files converted when none are given on the command line.
	Inputs       []string `yaml:"inputs"`
	CRS          string   `yaml:"crs"`
	EntityTypes  []string `yaml:"entity_types"`
	Properties   []string `yaml:"properties"`
	Workers      int      `yaml:"workers"`
	Simplify     float64  `yaml:"simplify"`
	CentroidMode string   `yaml:"centroid_mode"`
	YUp          bool     `yaml:"y_up"`
	LogLevel     string   `yaml:"log_level"`
	Output       Output   `yaml:"output"`
}
