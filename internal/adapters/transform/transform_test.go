package transform_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/transform"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func webConfig(rules map[string]domain.TransformRule) domain.ProcessingConfig {
	p := domain.Project{Presets: map[string]domain.PresetSettings{}, Transforms: rules}
	for name, preset := range domain.BuiltinPresets() {
		p.Presets[name] = preset
	}
	cfg, err := p.Processing("web")
	if err != nil {
		panic(err)
	}
	return cfg
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCopier_Transform(t *testing.T) {
	input := writeInput(t, "hero.png", "0123456789")
	output := filepath.Join(t.TempDir(), "deep", "nested", "hero.png")

	res, err := transform.NewCopier().Transform(t.Context(), domain.TransformRequest{
		Input:  input,
		Output: output,
		Kind:   domain.KindImage,
		Config: webConfig(nil),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TransformResult{BytesIn: 10, BytesOut: 10, OutputPath: output}, res)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))

	entries, err := os.ReadDir(filepath.Dir(output))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestCopier_Errors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")

	_, err := transform.NewCopier().Transform(t.Context(), domain.TransformRequest{
		Input: writeInput(t, "notes.txt", "x"), Output: out, Kind: domain.KindUnsupported,
	})
	require.ErrorIs(t, err, domain.ErrUnsupportedAsset)

	_, err = transform.NewCopier().Transform(t.Context(), domain.TransformRequest{
		Input: filepath.Join(t.TempDir(), "missing.png"), Output: out, Kind: domain.KindImage,
	})
	require.ErrorIs(t, err, os.ErrNotExist)
	_, statErr := os.Stat(out)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestDispatcher_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	command := mocks.NewMockTransformer(ctrl)
	copier := mocks.NewMockTransformer(ctrl)
	d := transform.NewDispatcher(command, copier)

	cfg := webConfig(map[string]domain.TransformRule{
		"audio": {Command: []string{"oggenc", "{input}"}},
	})

	audio := domain.TransformRequest{Input: "a.wav", Kind: domain.KindAudio, Config: cfg}
	image := domain.TransformRequest{Input: "a.png", Kind: domain.KindImage, Config: cfg}

	command.EXPECT().Transform(gomock.Any(), audio).Return(domain.TransformResult{BytesOut: 1}, nil)
	copier.EXPECT().Transform(gomock.Any(), image).Return(domain.TransformResult{BytesOut: 2}, nil)

	res, err := d.Transform(t.Context(), audio)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.BytesOut)

	res, err = d.Transform(t.Context(), image)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.BytesOut)
}

func TestCommand_Transform(t *testing.T) {
	requireShell(t)

	input := writeInput(t, "hero.png", "pixels")
	output := filepath.Join(t.TempDir(), "out", "hero.png")
	cfg := webConfig(map[string]domain.TransformRule{
		"image": {
			Command:   []string{"sh", "-c", `echo "q=$2 size=$3 fmt=$4"; cp "$0" "$1"`, "{input}", "{output}", "{quality}", "{max_size}", "{format}"},
			Extension: ".webp",
		},
	})

	var log bytes.Buffer
	res, err := transform.NewCommand().Transform(t.Context(), domain.TransformRequest{
		Input:  input,
		Output: output,
		Kind:   domain.KindImage,
		Config: cfg,
		Log:    &log,
	})
	require.NoError(t, err)

	want := strings.TrimSuffix(output, ".png") + ".webp"
	assert.Equal(t, domain.TransformResult{BytesIn: 6, BytesOut: 6, OutputPath: want}, res)
	assert.Equal(t, "q=80 size=2048 fmt=webp\n", log.String())
	assert.FileExists(t, want)
}

func TestCommand_Failures(t *testing.T) {
	requireShell(t)

	tests := []struct {
		name     string
		command  []string
		exitCode any
	}{
		{name: "non-zero exit", command: []string{"sh", "-c", "echo broken; exit 3"}, exitCode: 3},
		{name: "no output produced", command: []string{"sh", "-c", "true"}},
		{name: "missing executable", command: []string{"forge-no-such-tool-xyz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := webConfig(map[string]domain.TransformRule{"audio": {Command: tt.command}})

			_, err := transform.NewCommand().Transform(t.Context(), domain.TransformRequest{
				Input:  writeInput(t, "jump.wav", "riff"),
				Output: filepath.Join(t.TempDir(), "jump.wav"),
				Kind:   domain.KindAudio,
				Config: cfg,
			})
			require.Error(t, err)

			if tt.exitCode != nil {
				require.ErrorIs(t, err, domain.ErrTransformFailed)
				var zErr *zerr.Error
				require.ErrorAs(t, err, &zErr)
				assert.Equal(t, tt.exitCode, zErr.Metadata()["exit_code"])
			}
		})
	}
}

func TestCommand_NoRule(t *testing.T) {
	_, err := transform.NewCommand().Transform(t.Context(), domain.TransformRequest{
		Input: "a.glb", Kind: domain.KindModel, Config: webConfig(nil),
	})
	require.ErrorIs(t, err, domain.ErrEmptyCommand)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "out/a.png", transform.OutputPath("out/a.png", domain.TransformRule{}))
	assert.Equal(t, "out/a.webp", transform.OutputPath("out/a.png", domain.TransformRule{Extension: ".webp"}))
	assert.Equal(t, "out/a.ktx2", transform.OutputPath("out/a", domain.TransformRule{Extension: ".ktx2"}))
}
