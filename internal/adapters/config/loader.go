// Package config provides the configuration loader for forge.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration for cwd.
//
// With an explicit path that file must exist. Otherwise forge.yaml and
// .forge.yaml are searched from cwd upwards; when neither is found the
// defaults are returned rooted at cwd.
func (l *Loader) Load(cwd, explicit string) (*domain.Project, error) {
	if explicit != "" {
		if !filepath.IsAbs(explicit) {
			explicit = filepath.Join(cwd, explicit)
		}
		return l.loadForgefile(filepath.Clean(explicit))
	}

	configPath, found := l.findConfiguration(cwd)
	if !found {
		return resolveProject(filepath.Clean(cwd), "", defaultForgefile(), nil)
	}
	return l.loadForgefile(configPath)
}

func (l *Loader) findConfiguration(cwd string) (string, bool) {
	currentDir := filepath.Clean(cwd)

	for {
		var matches []string
		for _, name := range domain.ConfigFileNames() {
			candidate := filepath.Join(currentDir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				matches = append(matches, candidate)
			}
		}

		if len(matches) > 0 {
			if len(matches) > 1 {
				l.Logger.Warn(fmt.Sprintf("both %s and %s found in %s, using %s",
					domain.ConfigFileName, domain.HiddenConfigFileName, currentDir, domain.ConfigFileName))
			}
			return matches[0], true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) loadForgefile(configPath string) (*domain.Project, error) {
	forgefile := defaultForgefile()
	if err := readAndUnmarshalYAML(configPath, &forgefile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	presets, err := mergePresets(forgefile.Presets)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	project, err := resolveProject(filepath.Dir(configPath), configPath, forgefile, presets)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return project, nil
}

func defaultForgefile() Forgefile {
	watch := domain.DefaultWatchSettings()
	return Forgefile{
		Project: ProjectDTO{
			Source: domain.DefaultSourceDir,
			Output: domain.DefaultOutputDir,
		},
		Cache: CacheDTO{
			Enabled:   true,
			Directory: domain.CacheDirName,
		},
		Watch: WatchDTO{
			Debounce:        watch.Debounce,
			PollInterval:    watch.PollInterval,
			CleanupInterval: watch.CleanupInterval,
			Retention:       watch.Retention,
			RecordBuilds:    watch.RecordBuilds,
		},
	}
}

// mergePresets layers user presets over the built-ins. A user preset that
// shares a built-in name only overrides the fields it sets.
func mergePresets(user map[string]yaml.Node) (map[string]domain.PresetSettings, error) {
	presets := domain.BuiltinPresets()

	names := make([]string, 0, len(user))
	for name := range user {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		node := user[name]
		settings := presets[name]
		if err := node.Decode(&settings); err != nil {
			err = zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
			return nil, zerr.With(err, "preset", name)
		}
		presets[name] = settings
	}
	return presets, nil
}

func resolveProject(root, configPath string, f Forgefile, presets map[string]domain.PresetSettings) (*domain.Project, error) {
	if presets == nil {
		presets = domain.BuiltinPresets()
	}

	if f.Jobs < 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidJobCount, "invalid jobs setting"), "jobs", f.Jobs)
	}

	if f.Preset != "" {
		if _, ok := presets[f.Preset]; !ok {
			err := zerr.Wrap(domain.ErrUnknownPreset, "failed to resolve preset "+f.Preset)
			return nil, zerr.With(err, "preset", f.Preset)
		}
	}

	transforms, err := resolveTransforms(f.Transforms)
	if err != nil {
		return nil, err
	}

	watch, err := resolveWatch(f.Watch)
	if err != nil {
		return nil, err
	}

	return &domain.Project{
		Root:       root,
		ConfigPath: configPath,
		Name:       f.Project.Name,
		Source:     resolvePath(root, f.Project.Source, domain.DefaultSourceDir),
		Output:     resolvePath(root, f.Project.Output, domain.DefaultOutputDir),
		Preset:     f.Preset,
		Jobs:       f.Jobs,
		Presets:    presets,
		Transforms: transforms,
		Cache: domain.CacheSettings{
			Enabled:    f.Cache.Enabled,
			Directory:  f.Cache.Directory,
			TrustMtime: f.Cache.TrustMtime,
		},
		Watch: watch,
	}, nil
}

func resolveTransforms(dtos map[string]TransformDTO) (map[string]domain.TransformRule, error) {
	if len(dtos) == 0 {
		return nil, nil
	}

	rules := make(map[string]domain.TransformRule, len(dtos))
	for name, dto := range dtos {
		kind, ok := domain.ParseAssetKind(name)
		if !ok {
			err := zerr.Wrap(domain.ErrUnsupportedAsset, "unknown transform kind "+name)
			return nil, zerr.With(err, "kind", name)
		}
		if len(dto.Command) == 0 || dto.Command[0] == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrEmptyCommand, "invalid transform "+name), "kind", name)
		}
		ext := dto.Extension
		if ext != "" && ext[0] != '.' {
			ext = "." + ext
		}
		rules[kind.String()] = domain.TransformRule{
			Command:   slices.Clone(dto.Command),
			Extension: ext,
		}
	}
	return rules, nil
}

func resolveWatch(dto WatchDTO) (domain.WatchSettings, error) {
	durations := []struct {
		key   string
		value int64
	}{
		{"debounce", int64(dto.Debounce)},
		{"poll_interval", int64(dto.PollInterval)},
		{"cleanup_interval", int64(dto.CleanupInterval)},
		{"retention", int64(dto.Retention)},
	}
	for _, d := range durations {
		if d.value < 0 {
			err := zerr.Wrap(domain.ErrInvalidWatchSettings, d.key+" must not be negative")
			return domain.WatchSettings{}, zerr.With(err, d.key, time.Duration(d.value).String())
		}
	}
	if dto.PollInterval == 0 {
		return domain.WatchSettings{}, zerr.Wrap(domain.ErrInvalidWatchSettings, "poll_interval must be positive")
	}
	if dto.Retention < dto.Debounce {
		err := zerr.Wrap(domain.ErrInvalidWatchSettings, "retention must not be shorter than debounce")
		err = zerr.With(err, "retention", dto.Retention.String())
		return domain.WatchSettings{}, zerr.With(err, "debounce", dto.Debounce.String())
	}

	return domain.WatchSettings{
		Debounce:        dto.Debounce,
		PollInterval:    dto.PollInterval,
		CleanupInterval: dto.CleanupInterval,
		Retention:       dto.Retention,
		RecordBuilds:    dto.RecordBuilds,
	}, nil
}

func resolvePath(root, configured, fallback string) string {
	if configured == "" {
		configured = fallback
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(root, configured))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
// Fields already set on target are kept unless the file overrides them.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
