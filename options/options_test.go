package options

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileFillsUnsetOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terrain.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pitch: 65
gles: true
tile: 10/4/6
encoding: terrarium
exaggeration: 1.5
`), 0o644))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := Register(fs)
	require.NoError(t, fs.Parse([]string{"-pitch", "30", "-config", path}))
	require.NoError(t, o.LoadFile(*o.ConfigPath, fs))

	assert.Equal(t, 30.0, *o.Pitch, "command line wins")
	assert.True(t, *o.GLES)
	assert.Equal(t, "10/4/6", *o.Tile)
	assert.Equal(t, "terrarium", *o.Encoding)
	assert.Equal(t, 1.5, *o.Exaggeration)
	assert.Equal(t, 256, *o.Width, "absent keys keep the flag default")
}

func TestLoadFileErrors(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := Register(fs)

	assert.Error(t, o.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), fs))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pitch: [1, 2"), 0o644))
	assert.Error(t, o.LoadFile(path, fs))
}

func TestLoadFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terrain.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
style = "style.json"
lonlat = "6.8652,45.8326"
watch = true
width = 512
`), 0o644))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := Register(fs)
	require.NoError(t, fs.Parse(nil))
	require.NoError(t, o.LoadFile(path, fs))

	assert.Equal(t, "style.json", *o.StylePath)
	assert.Equal(t, "6.8652,45.8326", *o.LonLat)
	assert.True(t, *o.Watch)
	assert.Equal(t, 512, *o.Width)
	assert.Equal(t, 256, *o.Height)
}

func TestConfigFlagNamesFormats(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	Register(fs)
	usage := fs.Lookup("config").Usage
	assert.Contains(t, usage, "YAML")
	assert.Contains(t, usage, "TOML")
}
