package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LaneConfig describes one controlled approach of the intersection.
type LaneConfig struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// LanesFile is the on-disk roster format:
//
//	lanes:
//	  - id: 1
//	    name: North
type LanesFile struct {
	Lanes []LaneConfig `yaml:"lanes"`
}

// DefaultLanes is the four-approach intersection used when no roster file
// is supplied.
func DefaultLanes() []LaneConfig {
	return []LaneConfig{
		{ID: 1, Name: "North"},
		{ID: 2, Name: "East"},
		{ID: 3, Name: "South"},
		{ID: 4, Name: "West"},
	}
}

// LoadLanes reads and parses the lane roster from a YAML file. An empty
// path returns the default roster.
func LoadLanes(path string) ([]LaneConfig, error) {
	if path == "" {
		return DefaultLanes(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lanes file: %v", err)
	}
	defer file.Close()

	var cfg LanesFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode lanes file: %v", err)
	}

	if len(cfg.Lanes) == 0 {
		return nil, fmt.Errorf("lanes file %s declares no lanes", path)
	}
	seen := make(map[int]bool)
	for _, lane := range cfg.Lanes {
		if lane.ID <= 0 {
			return nil, fmt.Errorf("lane id must be positive, got %d", lane.ID)
		}
		if seen[lane.ID] {
			return nil, fmt.Errorf("duplicate lane id %d", lane.ID)
		}
		seen[lane.ID] = true
	}
	return cfg.Lanes, nil
}
