package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/chewxy/math32"
	"github.com/fsnotify/fsnotify"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goterrain/dem"
	"github.com/richinsley/goterrain/glcontext"
	"github.com/richinsley/goterrain/glfwcontext"
	"github.com/richinsley/goterrain/graphics"
	"github.com/richinsley/goterrain/options"
	"github.com/richinsley/goterrain/program"
	"github.com/richinsley/goterrain/renderer"
	"github.com/richinsley/goterrain/shader"
	"github.com/richinsley/goterrain/style"
	"github.com/richinsley/goterrain/terrain"
	"github.com/richinsley/goterrain/tiles"
	"github.com/richinsley/goterrain/translator"
)

const demDim = 64

func init() {
	runtime.LockOSThread()
}

// sampleTile places the camera above the center of tile at the given pitch.
func sampleTile(id tiles.ID, pitch float64, aspect float32, data terrain.TerrainData) *renderer.Tile {
	const extent = float32(tiles.Extent)
	p := mgl32.DegToRad(float32(pitch))
	center := mgl32.Vec3{extent / 2, extent / 2, 0}
	eye := center.Add(mgl32.Vec3{0, -math32.Sin(p), math32.Cos(p)}.Mul(1.5 * extent))

	view := mgl32.LookAtV(eye, center, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(36), aspect, 1, 10*extent)
	fog := mgl32.Perspective(mgl32.DegToRad(36), aspect, extent, 4*extent)

	return &renderer.Tile{
		ID:        id,
		Matrix:    proj.Mul4(view),
		FogMatrix: fog.Mul4(view),
		Terrain:   data,
	}
}

func hill(x, y float64) float64 {
	dx, dy := x-0.5, y-0.5
	return 1200 * math.Exp(-(dx*dx+dy*dy)*12)
}

func loadSky(path string) (*style.Sky, error) {
	if path == "" {
		return style.NewSky(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return style.LoadSky(f)
}

// loadDEM reads a DEM tile image, or generates a single hill when path is empty.
func loadDEM(path string, enc dem.Encoding) (*dem.Data, error) {
	if path == "" {
		return enc.Generate(demDim, hill), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dem.Decode(f, enc)
}

func printValues(tile *renderer.Tile, sky *style.Sky, pitch float64, coordsID int) {
	p := terrain.PreludeUniformValues(tile.Terrain)
	c := terrain.UniformValues(tile.Matrix, tile.FogMatrix, sky, pitch)
	d := terrain.DepthUniformValues(tile.Matrix)
	co := terrain.CoordsUniformValues(tile.Matrix, coordsID)

	fmt.Printf("tile %s, pitch %.1f\n", tile.ID, pitch)
	fmt.Printf("[%s]\n", terrain.VariantPrelude)
	fmt.Printf("  %-24s %d\n", terrain.UDepth, p.Depth)
	fmt.Printf("  %-24s %d\n", terrain.UTerrain, p.Terrain)
	fmt.Printf("  %-24s %g\n", terrain.UTerrainDim, p.Dim)
	fmt.Printf("  %-24s %v\n", terrain.UTerrainMatrix, p.Matrix)
	fmt.Printf("  %-24s %v\n", terrain.UTerrainUnpack, p.Unpack)
	fmt.Printf("  %-24s %g\n", terrain.UTerrainExaggeration, p.Exaggeration)
	fmt.Printf("[%s]\n", terrain.VariantColor)
	fmt.Printf("  %-24s %v\n", terrain.UMatrix, c.Matrix)
	fmt.Printf("  %-24s %d\n", terrain.UTexture, c.Texture)
	fmt.Printf("  %-24s %v\n", terrain.UFogMatrix, c.FogMatrix)
	fmt.Printf("  %-24s %v (%s)\n", terrain.UFogColor, c.FogColor, sky.FogColor())
	fmt.Printf("  %-24s %v\n", terrain.UFogBlend, c.FogBlend)
	fmt.Printf("[%s]\n", terrain.VariantDepth)
	fmt.Printf("  %-24s %v\n", terrain.UMatrix, d.Matrix)
	fmt.Printf("[%s]\n", terrain.VariantCoords)
	fmt.Printf("  %-24s %v\n", terrain.UMatrix, co.Matrix)
	fmt.Printf("  %-24s %d\n", terrain.UTexture, co.Texture)
	fmt.Printf("  %-24s %g (id %d)\n", terrain.UTerrainCoordsID, co.CoordsID, coordsID)
}

// runOffline checks the shader sources and their translation without a GPU.
func runOffline(tile *renderer.Tile, sky *style.Sky, pitch float64, gles bool) error {
	if err := program.VerifyAll(); err != nil {
		return fmt.Errorf("shader verification failed: %w", err)
	}
	log.Printf("shader sources declare all terrain uniform sets")

	for _, variant := range shader.Programs {
		src, err := shader.Get(variant)
		if err != nil {
			return err
		}
		tr, err := translator.Translate(src.Vertex, src.Fragment, gles)
		if err != nil {
			return fmt.Errorf("%s: %w", variant, err)
		}
		for _, u := range src.Uniforms() {
			if _, ok := tr.Mapped[u.Name]; !ok {
				log.Printf("%s: %s is inactive after translation", variant, u.Name)
			}
		}
	}

	var idx terrain.CoordsIndex
	id, err := idx.Push(tile.ID)
	if err != nil {
		return err
	}
	printValues(tile, sky, pitch, id)
	return nil
}

// watchStyle reports every write to path on the returned channel. Editors
// often replace the file, so the directory is watched.
func watchStyle(path string) (<-chan struct{}, func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, nil, err
	}
	changed := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) == filepath.Clean(path) && ev.Has(fsnotify.Write|fsnotify.Create) {
					select {
					case changed <- struct{}{}:
					default:
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("style watcher: %v", err)
			}
		}
	}()
	return changed, func() { w.Close() }, nil
}

// runGL links the programs on a GL window and renders each pass for the
// tile, then reads the coords pass back. With -watch the window stays open
// and the style is reloaded whenever it changes.
func runGL(o *options.Options, tile *renderer.Tile, sky *style.Sky, data *dem.Data) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	watch := *o.Watch && *o.StylePath != ""
	ctx, err := glfwcontext.New(*o.Width, *o.Height, watch)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()
	return render(ctx, o, tile, sky, data, watch)
}

// render draws on ctx until one frame has been uploaded, or with watch until
// the window is closed.
func render(ctx graphics.Context, o *options.Options, tile *renderer.Tile, sky *style.Sky, data *dem.Data, watch bool) error {
	ctx.MakeCurrent()
	defer ctx.DetachCurrent()

	dev, err := glcontext.Init()
	if err != nil {
		return err
	}
	log.Printf("OpenGL %s", dev.Version())

	if *o.GLES && !ctx.IsGLES() {
		log.Println("Warning: -gles ignored, the window has a desktop GL context")
	}
	t, err := renderer.New(dev, sky, ctx.IsGLES())
	if err != nil {
		return err
	}
	defer t.Destroy()

	mesh := dev.NewMesh(32)
	defer mesh.Delete()

	demTexture, err := dev.NewTexture(data.Dim+2, data.Dim+2, data.Pixels)
	if err != nil {
		return err
	}
	defer dev.DeleteTexture(demTexture)
	raster, err := dev.NewTexture(1, 1, []uint8{90, 140, 60, 255})
	if err != nil {
		return err
	}
	defer dev.DeleteTexture(raster)

	tile.DEM = demTexture
	tile.Texture = raster

	frame := func(report bool) error {
		width, height := ctx.GetFramebufferSize()
		t.BeginFrame(*o.Pitch, 0)

		dev.Clear(width, height, [4]float32{})
		t.DrawDepth(tile, mesh.Draw)

		dev.Clear(width, height, [4]float32{})
		id, err := t.DrawCoords(tile, mesh.Draw)
		if err != nil {
			return err
		}
		if report {
			px := dev.ReadPixel(width/2, height/2)
			if hit, ok := t.TileAt(px[3]); ok {
				log.Printf("coords pass: center pixel is tile %s (id %d)", hit, id)
			} else {
				log.Printf("coords pass: center pixel %v hit no tile", px)
			}
		}

		sc := sky.SkyColor()
		dev.Clear(width, height, [4]float32{sc.R, sc.G, sc.B, sc.A})
		t.DrawColor(tile, mesh.Draw)
		ctx.EndFrame()
		return nil
	}

	if err := frame(true); err != nil {
		return err
	}
	log.Printf("uploaded one frame for tile %s", tile.ID)
	if !watch {
		return nil
	}

	changed, stop, err := watchStyle(*o.StylePath)
	if err != nil {
		return fmt.Errorf("failed to watch style: %w", err)
	}
	defer stop()
	log.Printf("watching %s, close the window to exit", *o.StylePath)

	for !ctx.ShouldClose() {
		select {
		case <-changed:
			next, err := loadSky(*o.StylePath)
			if err != nil {
				log.Printf("Error reloading style: %v", err)
				break
			}
			sky = next
			t.SetSky(sky)
			log.Printf("style reloaded at %.1fs", ctx.Time())
		default:
		}
		if err := frame(false); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	fs := flag.CommandLine
	o := options.Register(fs)
	flag.Parse()

	if *o.Help {
		fmt.Println("Terrain uniform bindings: verify shaders and upload terrain uniforms")
		flag.PrintDefaults()
		return
	}
	if *o.ConfigPath != "" {
		if err := o.LoadFile(*o.ConfigPath, fs); err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}

	sky, err := loadSky(*o.StylePath)
	if err != nil {
		log.Fatalf("Error loading style: %v", err)
	}
	id, err := tiles.Parse(*o.Tile)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if *o.LonLat != "" {
		var lon, lat float64
		if _, err := fmt.Sscanf(*o.LonLat, "%f,%f", &lon, &lat); err != nil {
			log.Fatalf("Error: invalid -lonlat %q: %v", *o.LonLat, err)
		}
		id = tiles.At(lon, lat, id.Z)
		b := id.Bound()
		log.Printf("tile %s covers lon [%.4f, %.4f] lat [%.4f, %.4f]", id, b.Min.Lon(), b.Max.Lon(), b.Min.Lat(), b.Max.Lat())
	}
	enc, err := dem.ParseEncoding(*o.Encoding)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	elevation, err := loadDEM(*o.DEMPath, enc)
	if err != nil {
		log.Fatalf("Error loading DEM: %v", err)
	}
	data := terrain.TerrainData{
		HasDEM:       true,
		Dim:          elevation.Dim,
		Encoding:     enc,
		Exaggeration: float32(*o.Exaggeration),
		Matrix:       terrain.TerrainMatrix(id, id),
	}
	tile := sampleTile(id, *o.Pitch, float32(*o.Width)/float32(*o.Height), data)

	if *o.UseGL {
		err = runGL(o, tile, sky, elevation)
	} else {
		err = runOffline(tile, sky, *o.Pitch, *o.GLES)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}
