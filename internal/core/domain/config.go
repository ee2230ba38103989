package domain

import (
	"encoding/json"
	"io"
	"maps"
	"slices"
	"time"

	"go.trai.ch/zerr"
)

// ImageSettings controls image transforms.
type ImageSettings struct {
	MaxSize  uint32 `json:"max_size" yaml:"max_size"`
	Format   string `json:"format" yaml:"format"`
	Quality  uint8  `json:"quality" yaml:"quality"`
	Mipmaps  bool   `json:"mipmaps" yaml:"mipmaps"`
	Compress bool   `json:"compress" yaml:"compress"`
}

// AudioSettings controls audio transforms. Quality is on a 0-10 scale.
type AudioSettings struct {
	Format  string `json:"format" yaml:"format"`
	Quality uint8  `json:"quality" yaml:"quality"`
}

// ModelSettings controls model transforms.
type ModelSettings struct {
	Format string `json:"format" yaml:"format"`
}

// TransformRule runs an external command for one asset kind.
// Command arguments may reference {input}, {output}, {quality}, {max_size} and {format}.
// A non-empty Extension replaces the extension of the mirrored output path.
type TransformRule struct {
	Command   []string `json:"command" yaml:"command"`
	Extension string   `json:"extension" yaml:"extension"`
}

// ProcessingConfig is the resolved configuration handed to every transform.
// Its canonical serialization is the input of the config fingerprint.
type ProcessingConfig struct {
	Preset     string                   `json:"preset"`
	Image      ImageSettings            `json:"image"`
	Audio      AudioSettings            `json:"audio"`
	Model      ModelSettings            `json:"model"`
	Transforms map[string]TransformRule `json:"transforms,omitempty"`
}

// CanonicalBytes serializes the configuration with a stable field order.
// Struct fields keep declaration order and map keys are sorted.
func (c ProcessingConfig) CanonicalBytes() ([]byte, error) {
	return json.Marshal(c)
}

// Rule returns the transform rule configured for kind, if any.
func (c ProcessingConfig) Rule(kind AssetKind) (TransformRule, bool) {
	rule, ok := c.Transforms[kind.String()]
	if !ok || len(rule.Command) == 0 {
		return TransformRule{}, false
	}
	return rule, true
}

// PresetSettings is the user-facing shape of a preset in forge.yaml.
type PresetSettings struct {
	Image ImageSettings `yaml:"image"`
	Audio AudioSettings `yaml:"audio"`
	Model ModelSettings `yaml:"model"`
}

// BuiltinPresets returns the presets available without any config file.
func BuiltinPresets() map[string]PresetSettings {
	return map[string]PresetSettings{
		"mobile": {
			Image: ImageSettings{MaxSize: 1024, Format: "png", Quality: 75, Mipmaps: true, Compress: true},
			Audio: AudioSettings{Format: "ogg", Quality: 6},
			Model: ModelSettings{Format: "glb"},
		},
		"desktop": {
			Image: ImageSettings{MaxSize: 4096, Format: "png", Quality: 90, Mipmaps: true},
			Audio: AudioSettings{Format: "wav", Quality: 10},
			Model: ModelSettings{Format: "glb"},
		},
		"web": {
			Image: ImageSettings{MaxSize: 2048, Format: "webp", Quality: 80, Compress: true},
			Audio: AudioSettings{Format: "ogg", Quality: 7},
			Model: ModelSettings{Format: "glb"},
		},
	}
}

// CacheSettings controls the build cache.
type CacheSettings struct {
	Enabled bool
	// Directory is the cache directory. Relative paths are resolved against the output root.
	Directory string
	// TrustMtime lets an unchanged modification time skip re-hashing.
	TrustMtime bool
}

// WatchSettings controls the watch loop.
type WatchSettings struct {
	Debounce        time.Duration
	PollInterval    time.Duration
	CleanupInterval time.Duration
	Retention       time.Duration
	RecordBuilds    bool
}

// DefaultWatchSettings returns the watch defaults.
func DefaultWatchSettings() WatchSettings {
	return WatchSettings{
		Debounce:        300 * time.Millisecond,
		PollInterval:    500 * time.Millisecond,
		CleanupInterval: 60 * time.Second,
		Retention:       60 * time.Second,
		RecordBuilds:    true,
	}
}

// Project is the loaded forge configuration.
type Project struct {
	// Root is the directory holding the config file, or the working directory if none was found.
	Root string
	// ConfigPath is empty when no config file was found.
	ConfigPath string
	Name       string
	Source     string
	Output     string
	Preset     string
	Jobs       int
	Presets    map[string]PresetSettings
	Transforms map[string]TransformRule
	Cache      CacheSettings
	Watch      WatchSettings
}

// PresetNames returns the known preset names in sorted order.
func (p *Project) PresetNames() []string {
	return slices.Sorted(maps.Keys(p.Presets))
}

// Processing resolves the named preset into a ProcessingConfig.
// An empty name selects the project's default preset.
func (p *Project) Processing(name string) (ProcessingConfig, error) {
	if name == "" {
		name = p.Preset
	}
	cfg := ProcessingConfig{Preset: name, Transforms: maps.Clone(p.Transforms)}
	if name == "" {
		return cfg, nil
	}
	preset, ok := p.Presets[name]
	if !ok {
		return ProcessingConfig{}, zerr.With(zerr.Wrap(ErrUnknownPreset, "failed to resolve preset "+name), "preset", name)
	}
	cfg.Image = preset.Image
	cfg.Audio = preset.Audio
	cfg.Model = preset.Model
	return cfg, nil
}

// CacheDir resolves the cache directory for the given output root.
func (p *Project) CacheDir(output string) string {
	return ResolveCacheDir(output, p.Cache.Directory)
}

// TransformRequest is the input of a single transform invocation.
type TransformRequest struct {
	Input  string
	Output string
	Kind   AssetKind
	Config ProcessingConfig
	// Log receives any diagnostic output produced while transforming. It may be nil.
	Log io.Writer
}

// TransformResult reports what a transform produced.
type TransformResult struct {
	BytesIn  uint64
	BytesOut uint64
	// OutputPath is where the artifact was written, which may differ from the
	// requested output when the transform rewrites the extension.
	OutputPath string
}
