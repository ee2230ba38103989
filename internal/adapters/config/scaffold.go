package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultForgefile is the configuration written by forge init.
const DefaultForgefile = `project:
  name: my-game
  source: ./assets
  output: ./build/assets

# Preset applied when --preset is not given (mobile, desktop, web or one defined below).
preset: desktop

# Parallel workers; 0 uses one per CPU.
jobs: 0

presets:
  mobile:
    image: {max_size: 1024, format: png, quality: 75, mipmaps: true, compress: true}
    audio: {format: ogg, quality: 6}
    model: {format: glb}
  desktop:
    image: {max_size: 4096, format: png, quality: 90, mipmaps: true, compress: false}
    audio: {format: wav, quality: 10}
    model: {format: glb}
  web:
    image: {max_size: 2048, format: webp, quality: 80, mipmaps: false, compress: true}
    audio: {format: ogg, quality: 7}
    model: {format: glb}

# External tools per asset kind. Without a rule files are copied unchanged.
# Placeholders: {input} {output} {quality} {max_size} {format}
transforms: {}
#  image:
#    command: [cwebp, -q, "{quality}", "{input}", -o, "{output}"]
#    extension: .webp

cache:
  enabled: true
  directory: .cache
  trust_mtime: false

watch:
  debounce: 300ms
  poll_interval: 500ms
  cleanup_interval: 60s
  retention: 60s
  record_builds: true
`

// Scaffold writes DefaultForgefile into dir.
func (l *Loader) Scaffold(dir string, force bool) (string, error) {
	path := filepath.Join(dir, domain.ConfigFileName)

	if _, err := os.Stat(path); err == nil && !force {
		return path, zerr.With(zerr.Wrap(domain.ErrConfigExists, "refusing to overwrite"), "path", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return path, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}

	if err := os.WriteFile(path, []byte(DefaultForgefile), domain.FilePerm); err != nil {
		return path, zerr.With(zerr.Wrap(err, domain.ErrConfigWriteFailed.Error()), "path", path)
	}
	return path, nil
}
