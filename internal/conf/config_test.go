package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mschleck/lcps-go/internal/dipsearch"
)

func validSettings() *Settings {
	s := &Settings{}
	s.Dipsearch = DipsearchConfig{
		WinSize:            10,
		StepSize:           1,
		Nneighb:            2,
		MinDur:             2,
		MaxDur:             5,
		DetectionThresh:    0.995,
		MinValidFraction:   0.5,
		MinNeighborSamples: 3,
	}
	return s
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{
			name:   "Defaults are valid",
			mutate: func(s *Settings) {},
		},
		{
			name:   "Table output",
			mutate: func(s *Settings) { s.Output.File.Type = "table" },
		},
		{
			name:    "Min duration above max",
			mutate:  func(s *Settings) { s.Dipsearch.MinDur = 50; s.Dipsearch.MaxDur = 10 },
			wantErr: true,
		},
		{
			name:    "Threshold out of range",
			mutate:  func(s *Settings) { s.Dipsearch.DetectionThresh = 1.5 },
			wantErr: true,
		},
		{
			name:    "Negative thread count",
			mutate:  func(s *Settings) { s.Dipsearch.Threads = -1 },
			wantErr: true,
		},
		{
			name:    "Unknown output type",
			mutate:  func(s *Settings) { s.Output.File.Type = "xml" },
			wantErr: true,
		},
		{
			name:    "Telemetry without listen address",
			mutate:  func(s *Settings) { s.Output.Telemetry.Enabled = true },
			wantErr: true,
		},
		{
			name: "Both database outputs enabled",
			mutate: func(s *Settings) {
				s.Output.SQLite.Enabled = true
				s.Output.MySQL.Enabled = true
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := validSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDipsearchConfigParams(t *testing.T) {
	t.Parallel()

	s := validSettings()
	params := s.Dipsearch.Params()
	want := dipsearch.Params{
		WinSize:            10,
		StepSize:           1,
		Nneighb:            2,
		MinDur:             2,
		MaxDur:             5,
		DetectionThresh:    0.995,
		MinValidFraction:   0.5,
		MinNeighborSamples: 3,
	}
	assert.Equal(t, want, params)
	require.NoError(t, params.Validate())
}

func TestGetDefaultConfigPaths(t *testing.T) {
	paths, err := GetDefaultConfigPaths()
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	assert.Contains(t, paths, ".")
}

func TestSaveYAMLConfigRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	s := validSettings()
	s.Main.Name = "roundtrip-node"
	s.Dipsearch.MaxDur = 7
	require.NoError(t, SaveYAMLConfig(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Settings
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, s.Main.Name, got.Main.Name)
	assert.Equal(t, s.Dipsearch, got.Dipsearch)
}

func TestFindConfigFile(t *testing.T) {
	// Point the user config directory away from any real config so only
	// the working directory copy can be found.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(getDefaultConfig()), 0o644))
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	path, err := FindConfigFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".", "config.yaml"), path)
}

func TestEmbeddedDefaultConfig(t *testing.T) {
	t.Parallel()

	content := getDefaultConfig()
	assert.Contains(t, content, "dipsearch:")
	assert.Contains(t, content, "winsize:")
	assert.Contains(t, content, "detectionthresh:")
}
