package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/godeepar/bimgeo"
	"github.com/godeepar/bimgeo/crs"
	"github.com/godeepar/bimgeo/model"
)

const envPrefix = "BIMGEO_"

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		CRS:          crs.DefaultPair,
		EntityTypes:  []string{model.Product},
		Properties:   append([]string(nil), bimgeo.DefaultProperties...),
		Workers:      1,
		CentroidMode: string(bimgeo.CentroidPrimaryRing),
		LogLevel:     "info",
		Output:       Output{Indent: true},
	}
}

// Load builds the configuration: defaults, then the YAML file at path when
// path is not empty, then a .env file in the working directory when present,
// then BIMGEO_* variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("[yaml.Unmarshal] of %s in pkg [config] encountered: %w", path, err)
		}
	}

	// a missing .env is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("[godotenv.Load] in pkg [config] encountered: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.CRS = getEnv("CRS", c.CRS)
	c.EntityTypes = getEnvAsList("ENTITY_TYPES", c.EntityTypes)
	c.Properties = getEnvAsList("PROPERTIES", c.Properties)
	c.Inputs = getEnvAsList("INPUTS", c.Inputs)
	c.Workers = getEnvAsInt("WORKERS", c.Workers)
	c.Simplify = getEnvAsFloat("SIMPLIFY", c.Simplify)
	c.CentroidMode = getEnv("CENTROID_MODE", c.CentroidMode)
	c.YUp = getEnvAsBool("Y_UP", c.YUp)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.Output.GeoJSON = getEnv("OUTPUT", c.Output.GeoJSON)
	c.Output.Indent = getEnvAsBool("INDENT", c.Output.Indent)
	c.Output.Shapefile = getEnv("SHAPEFILE", c.Output.Shapefile)
	c.Output.Metrics = getEnv("METRICS_TEXTFILE", c.Output.Metrics)
}

// Validate checks the settings that would otherwise fail mid run.
func (c *Config) Validate() error {
	if _, _, err := crs.ParsePair(c.CRS); err != nil {
		return err
	}
	if _, err := bimgeo.ParseCentroidMode(c.CentroidMode); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Simplify < 0 {
		return fmt.Errorf("simplify tolerance must not be negative, got %v", c.Simplify)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvAsList splits a comma separated value, empty items are dropped.
func getEnvAsList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(envPrefix + key)
	if !exists {
		return fallback
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
