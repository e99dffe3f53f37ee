package options

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Options configures the terrainuniforms command. Fields are pointers so
// they can be bound directly to flags; a config file only fills in values
// the command line left unset.
type Options struct {
	StylePath  *string  `yaml:"style" toml:"style"`
	ConfigPath *string  `yaml:"-" toml:"-"`
	Pitch      *float64 `yaml:"pitch" toml:"pitch"`
	GLES       *bool    `yaml:"gles" toml:"gles"`
	UseGL      *bool    `yaml:"gl" toml:"gl"`
	Watch      *bool    `yaml:"watch" toml:"watch"`
	Help       *bool    `yaml:"-" toml:"-"`
	Width      *int     `yaml:"width" toml:"width"`
	Height     *int     `yaml:"height" toml:"height"`
	// Tile is the sample tile, z/x/y. LonLat, when set, picks the tile at
	// that point and the zoom of Tile instead.
	Tile         *string  `yaml:"tile" toml:"tile"`
	LonLat       *string  `yaml:"lonlat" toml:"lonlat"`
	Encoding     *string  `yaml:"encoding" toml:"encoding"`
	DEMPath      *string  `yaml:"dem" toml:"dem"`
	Exaggeration *float64 `yaml:"exaggeration" toml:"exaggeration"`
}

// Register binds the options to flags on fs.
func Register(fs *flag.FlagSet) *Options {
	return &Options{
		StylePath:    fs.String("style", "", "style JSON with a \"sky\" object"),
		ConfigPath:   fs.String("config", "", "YAML or TOML (.toml) file with default option values"),
		Pitch:        fs.Float64("pitch", 0, "camera pitch in degrees"),
		GLES:         fs.Bool("gles", false, "translate shaders to ESSL instead of GLSL 4.10"),
		UseGL:        fs.Bool("gl", false, "link the programs on a hidden GL window and upload one frame"),
		Watch:        fs.Bool("watch", false, "with -gl, keep a visible window open and reload -style on change"),
		Help:         fs.Bool("help", false, "show help"),
		Width:        fs.Int("width", 256, "framebuffer width for -gl"),
		Height:       fs.Int("height", 256, "framebuffer height for -gl"),
		Tile:         fs.String("tile", "12/2201/1343", "sample tile z/x/y"),
		LonLat:       fs.String("lonlat", "", "pick the sample tile at lon,lat"),
		Encoding:     fs.String("encoding", "mapbox", "DEM encoding: mapbox or terrarium"),
		DEMPath:      fs.String("dem", "", "DEM tile PNG; a generated hill when empty"),
		Exaggeration: fs.Float64("exaggeration", 1, "terrain exaggeration"),
	}
}

// LoadFile merges a YAML or TOML (by .toml extension) config into o. Only
// options that were not set on the command line are taken from the file.
func (o *Options) LoadFile(path string, fs *flag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	var file Options
	if filepath.Ext(path) == ".toml" {
		err = toml.Unmarshal(data, &file)
	} else {
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	merge(explicit["style"], o.StylePath, file.StylePath)
	merge(explicit["pitch"], o.Pitch, file.Pitch)
	merge(explicit["gles"], o.GLES, file.GLES)
	merge(explicit["gl"], o.UseGL, file.UseGL)
	merge(explicit["watch"], o.Watch, file.Watch)
	merge(explicit["width"], o.Width, file.Width)
	merge(explicit["height"], o.Height, file.Height)
	merge(explicit["tile"], o.Tile, file.Tile)
	merge(explicit["lonlat"], o.LonLat, file.LonLat)
	merge(explicit["encoding"], o.Encoding, file.Encoding)
	merge(explicit["dem"], o.DEMPath, file.DEMPath)
	merge(explicit["exaggeration"], o.Exaggeration, file.Exaggeration)
	return nil
}

func merge[T any](explicit bool, dst, src *T) {
	if explicit || src == nil || dst == nil {
		return
	}
	*dst = *src
}
