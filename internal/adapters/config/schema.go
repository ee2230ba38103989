package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Forgefile represents the structure of the forge.yaml configuration file.
type Forgefile struct {
	Project    ProjectDTO              `yaml:"project"`
	Preset     string                  `yaml:"preset"`
	Jobs       int                     `yaml:"jobs"`
	Presets    map[string]yaml.Node    `yaml:"presets"`
	Transforms map[string]TransformDTO `yaml:"transforms"`
	Cache      CacheDTO                `yaml:"cache"`
	Watch      WatchDTO                `yaml:"watch"`
}

// ProjectDTO holds project metadata and its directory layout.
type ProjectDTO struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Output string `yaml:"output"`
}

// TransformDTO configures the external command for one asset kind.
type TransformDTO struct {
	Command   []string `yaml:"command"`
	Extension string   `yaml:"extension"`
}

// CacheDTO configures the build cache.
type CacheDTO struct {
	Enabled    bool   `yaml:"enabled"`
	Directory  string `yaml:"directory"`
	TrustMtime bool   `yaml:"trust_mtime"`
}

// WatchDTO configures the watch loop. Durations use Go syntax ("300ms", "1m").
type WatchDTO struct {
	Debounce        time.Duration `yaml:"debounce"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	Retention       time.Duration `yaml:"retention"`
	RecordBuilds    bool          `yaml:"record_builds"`
}
