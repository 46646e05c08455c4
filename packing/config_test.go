package packing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
shapes:
  - name: octagon
    radialPoints: [1, 1, 1, 1, 1, 1, 1, 1]
    rotationalSymmetries: 4
    mirrors: 4
  - name: blob
    radialPoints: [1, 1.2, 0.8, 1.1]
    rotationalSymmetries: 1
jobs:
  - shape: octagon
    group: p4mm
    sites: 1
  - shape: blob
    group: p2
    sites: 2
monteCarlo:
  steps: 500
  numCycles: 2
workers: 4
seed: 1234
output:
  directory: out
  renderFormat: both
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Len(t, config.Shapes, 2)
	assert.Len(t, config.Jobs, 2)
	assert.Equal(t, int64(1234), config.Seed)
	assert.Equal(t, 4, config.Workers)
	assert.Equal(t, "out", config.Output.Directory)

	octagon := config.GetShapeByName("octagon")
	require.NotNil(t, octagon)
	shape, err := octagon.Build()
	require.NoError(t, err)
	assert.Equal(t, 8, shape.Resolution())
	assert.Nil(t, config.GetShapeByName("missing"))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "not found")
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "shapes: ["))
	assert.ErrorContains(t, err, "parsing config YAML")
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"no shapes", func(c *Config) { c.Shapes = nil }, "at least one shape"},
		{"no jobs", func(c *Config) { c.Jobs = nil }, "at least one job"},
		{"unknown shape", func(c *Config) { c.Jobs[0].Shape = "nope" }, "unknown shape"},
		{"unknown group", func(c *Config) { c.Jobs[0].Group = "p99" }, "unknown wallpaper group"},
		{"bad sites", func(c *Config) { c.Jobs[0].Sites = 0 }, "sites must be >= 1"},
		{"mqtt without broker", func(c *Config) { c.MQTT = &MQTTConfig{} }, "mqtt.broker is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			config, err := LoadConfig(writeConfig(t, sampleConfig))
			require.NoError(t, err)
			tc.mutate(config)
			assert.ErrorContains(t, config.Validate(), tc.wantErr)
		})
	}
}

func TestMCConfigDefaults(t *testing.T) {
	var mc MCConfig
	vars := mc.Vars()
	assert.Equal(t, DefaultMCVars(), vars, "zero config falls back to defaults")

	mc = MCConfig{Steps: 500, KTStart: 0.2}
	vars = mc.Vars()
	assert.Equal(t, 500, vars.Steps)
	assert.Equal(t, 0.2, vars.KTStart)
	assert.Equal(t, DefaultMCVars().KTFinish, vars.KTFinish)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, SaveConfig(path, config))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, reloaded)
}

func TestGroupAliasInConfig(t *testing.T) {
	aliased := sampleConfig + `
`
	config, err := LoadConfig(writeConfig(t, aliased))
	require.NoError(t, err)
	config.Jobs[0].Group = "p4m"
	assert.NoError(t, config.Validate(), "group aliases must validate")
}
