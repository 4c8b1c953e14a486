// Package config handles configuration loading and shared data structures.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultGeodatabase is the container created inside the workspace when the
// configuration does not name one.
const DefaultGeodatabase = "UrbanGreenSpace.gdb"

// LayerRule describes how one feature class is derived from an input
// shapefile: which file to use, which attribute to test and which values
// to keep.
type LayerRule struct {
	Source  string   `yaml:"source"`  // shapefile name substring, e.g. "landuse"
	Field   string   `yaml:"field"`   // attribute to match
	Include []string `yaml:"include"` // accepted attribute values
	Out     string   `yaml:"out"`     // output feature class name
}

// RetryConfig bounds the retry loop around workspace-lock failures.
type RetryConfig struct {
	Attempts     int `yaml:"attempts,omitempty"`
	DelaySeconds int `yaml:"delay_seconds,omitempty"`
}

// Wait returns the pause between attempts.
func (r RetryConfig) Wait() time.Duration {
	return time.Duration(r.DelaySeconds) * time.Second
}

// Config represents the root configuration file structure.
type Config struct {
	City        string      `yaml:"city"`
	Workspace   string      `yaml:"workspace,omitempty"`
	ExportDir   string      `yaml:"export,omitempty"`
	Geodatabase string      `yaml:"geodatabase,omitempty"`
	Projected   bool        `yaml:"projected,omitempty"` // input coordinates are metric, not lon/lat
	Extent      []float64   `yaml:"extent,omitempty"`    // optional clip box: minx, miny, maxx, maxy
	GreenLayers []LayerRule `yaml:"green_layers,omitempty"`
	Residential LayerRule   `yaml:"residential,omitempty"`
	Retry       RetryConfig `yaml:"retry,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Defaults backfills everything the file may omit: the standard OSM
// land-use rules, export location, geodatabase name and the retry budget.
func (c *Config) Defaults() {
	if c.Workspace == "" {
		c.Workspace = "."
	}
	if c.ExportDir == "" {
		c.ExportDir = filepath.Join(c.Workspace, "Exports")
	}
	if c.Geodatabase == "" {
		c.Geodatabase = DefaultGeodatabase
	}

	if len(c.GreenLayers) == 0 {
		c.GreenLayers = []LayerRule{
			{Source: "landuse", Field: "fclass", Include: []string{"park", "recreation_ground"}, Out: "Parks"},
			{Source: "natural", Field: "fclass", Include: []string{"forest", "grass", "meadow"}, Out: "NaturalAreas"},
		}
	}
	if c.Residential.Out == "" {
		c.Residential = LayerRule{
			Source:  "landuse",
			Field:   "fclass",
			Include: []string{"residential"},
			Out:     "Residential",
		}
	}

	if c.Retry.Attempts <= 0 {
		c.Retry.Attempts = 5
	}
	if c.Retry.DelaySeconds <= 0 {
		c.Retry.DelaySeconds = 5
	}
}
