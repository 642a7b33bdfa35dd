package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settings struct {
	Name    string    `toml:"name" yaml:"name"`
	Workers int       `toml:"workers" yaml:"workers"`
	Scale   []float32 `toml:"scale" yaml:"scale"`
	Nested  struct {
		Seed uint64 `toml:"seed" yaml:"seed"`
	} `toml:"nested" yaml:"nested"`
}

const tomlSettings = `
name = "blocks"
workers = 4
scale = [1, 2.5, 3]

[nested]
seed = 42
`

const yamlSettings = `
name: blocks
workers: 4
scale: [1, 2.5, 3]
nested:
  seed: 42
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "rtx.toml", tomlSettings},
		{"yaml", "rtx.yaml", yamlSettings},
		{"yml", "rtx.YML", yamlSettings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s settings
			require.NoError(t, LoadFile(writeFile(t, tt.file, tt.content), &s))
			assert.Equal(t, "blocks", s.Name)
			assert.Equal(t, 4, s.Workers)
			assert.Equal(t, []float32{1, 2.5, 3}, s.Scale)
			assert.Equal(t, uint64(42), s.Nested.Seed)
		})
	}
}

func TestLoadFileFaults(t *testing.T) {
	var s settings
	err := LoadFile(writeFile(t, "rtx.json", "{}"), &s)
	assert.ErrorIs(t, err, core.ErrUnknownFormat)

	assert.Error(t, LoadFile(writeFile(t, "rtx.toml", "colour = \"red\"\n"), &s))
	assert.Error(t, LoadFile(writeFile(t, "rtx.yaml", "colour: red\n"), &s))
	assert.Error(t, LoadFile(writeFile(t, "rtx.toml", "workers = \"many\"\n"), &s))

	err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"), &s)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEmptyFile(t *testing.T) {
	for _, name := range []string{"empty.toml", "empty.yaml"} {
		s := settings{Name: "kept"}
		require.NoError(t, LoadFile(writeFile(t, name, ""), &s), name)
		assert.Equal(t, "kept", s.Name)
	}
}

func TestIsConfigFile(t *testing.T) {
	assert.True(t, IsConfigFile("a/b.toml"))
	assert.True(t, IsConfigFile("b.Yaml"))
	assert.False(t, IsConfigFile("b.obj"))
}
