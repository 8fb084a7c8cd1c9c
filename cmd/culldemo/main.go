// Command culldemo runs the visibility-gated render scheduler over a
// scene and reports how much work the occlusion gating saved.
//
// With no -scene flag a built-in scene is used: a wall close to the
// camera hiding a grid of boxes behind it. The final depth buffer can
// be written as a PNG and the per-frame command stream as JSON.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"strings"

	"cogentcore.org/core/math32"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/cull"
	"github.com/gogpu/cull/backend"
	_ "github.com/gogpu/cull/backend/software"
	_ "github.com/gogpu/cull/backend/wgpu"
	"github.com/gogpu/cull/mesh"
	"github.com/gogpu/cull/recording"
	"github.com/gogpu/cull/sched"
	"github.com/gogpu/cull/scene"
)

func main() {
	var (
		scenePath   = flag.String("scene", "", "scene YAML file (empty: built-in scene)")
		backendName = flag.String("backend", backend.BackendSoftware, "render backend: software or wgpu")
		frames      = flag.Int("frames", 60, "number of frames to run")
		width       = flag.Int("width", 800, "viewport width")
		height      = flag.Int("height", 600, "viewport height")
		depthOut    = flag.String("depth", "", "write final depth buffer as PNG")
		depthZoom   = flag.Int("depth-zoom", 1, "scale factor for the depth PNG")
		traceOut    = flag.String("trace", "", "write frame command stream as JSON")
		ungated     = flag.Bool("ungated", false, "disable occlusion gating (draw everything)")
		maxProbes   = flag.Int("max-probes", 0, "probe budget per frame (0: unlimited)")
		verbose     = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	cull.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	sc, err := loadScene(*scenePath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	b := backend.Get(*backendName)
	if b == nil {
		log.Fatalf("Unknown backend %q (available: %s)",
			*backendName, strings.Join(backend.Available(), " "))
	}
	if err := b.Init(); err != nil {
		log.Fatalf("Failed to init %s backend: %v", b.Name(), err)
	}
	defer b.Close()

	opts := []sched.Option{sched.WithGating(!*ungated)}
	if *maxProbes > 0 {
		opts = append(opts, sched.WithMaxProbesPerFrame(*maxProbes))
	}
	var rec *recording.Recorder
	if *traceOut != "" {
		rec = recording.New(*frames)
		opts = append(opts, sched.WithRecorder(rec))
	}
	s := sched.New(b, opts...)

	var last sched.FrameStats
	for i := 0; i < *frames; i++ {
		last, err = s.Frame(sc.FrameState(*width, *height))
		if err != nil {
			log.Fatalf("Frame %d failed: %v", i, err)
		}
	}

	fmt.Printf("Scene %q: %d objects, %d frames on %s\n",
		sc.Name, last.Objects, *frames, b.Name())
	fmt.Printf("Last frame: drawn %d, skipped %d, unknown %d, probes %d, culled %.0f%%\n",
		last.ObjectsDrawn, last.ObjectsSkipped, last.ObjectsUnknown,
		last.ProbesIssued, last.Culled()*100)

	if *depthOut != "" {
		if err := writeDepth(b, *depthOut, *depthZoom); err != nil {
			log.Fatalf("Failed to write depth image: %v", err)
		}
		log.Printf("Depth buffer saved to %s", *depthOut)
	}
	if rec != nil {
		if err := writeTrace(rec, *traceOut); err != nil {
			log.Fatalf("Failed to write trace: %v", err)
		}
		log.Printf("Trace saved to %s (%d frames retained)", *traceOut, rec.Len())
	}
}

func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return builtinScene(), nil
	}
	l := scene.NewLoader(0)
	defer l.Close()
	return l.Load(path)
}

// builtinScene places a large wall in front of a 4x4 grid of boxes.
// From the default camera the wall hides the entire grid, so after
// the first frame only the wall should be drawn.
func builtinScene() *scene.Scene {
	wall := mesh.BoxMesh(math32.B3(-6, -4, -0.2, 6, 4, 0.2))
	box := mesh.BoxMesh(math32.B3(-0.5, -0.5, -0.5, 0.5, 0.5, 0.5))

	objs := []*cull.Object{{
		ID:        "wall",
		Transform: cull.Transform{Pos: math32.Vec3(0, 0, 2), Scale: 1},
		Detail:    wall,
	}}
	for i := range 16 {
		x := float32(i%4)*2 - 3
		y := float32(i/4)*2 - 3
		objs = append(objs, &cull.Object{
			ID:        fmt.Sprintf("box-%d", i),
			Transform: cull.Transform{Pos: math32.Vec3(x, y, -4), Scale: 1},
			Detail:    box,
		})
	}

	cam := scene.DefaultCamera()
	cam.Pos = math32.Vec3(0, 0, 12)
	return &scene.Scene{Name: "builtin", Camera: cam, Objects: objs}
}

func writeDepth(b backend.Backend, path string, zoom int) error {
	img := b.DepthImage()
	if img == nil {
		return fmt.Errorf("%s backend has no depth image", b.Name())
	}
	var out image.Image = img
	if zoom > 1 {
		bounds := img.Bounds()
		dst := image.NewGray16(image.Rect(0, 0, bounds.Dx()*zoom, bounds.Dy()*zoom))
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
		out = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, out)
}

func writeTrace(rec *recording.Recorder, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return rec.WriteJSON(f)
}
