package software

import (
	"fmt"
	"image"
	"sync"

	"cogentcore.org/core/math32"

	"github.com/gogpu/cull"
	"github.com/gogpu/cull/backend"
	"github.com/gogpu/cull/mesh"
)

// query holds the state of one occlusion query.
type query struct {
	samples uint32
	frame   uint64
	done    bool
}

// Backend is the CPU depth-buffer rendering backend. It is the
// reference implementation of backend.Backend and is always available.
//
// Query poll state is protected by a mutex so PollQuery honors the
// backend contract under concurrent polling; frame submission itself
// is single-threaded.
type Backend struct {
	initialized bool
	frameOpen   bool

	width, height int
	viewProj      math32.Matrix4
	depth         []float32

	mu        sync.Mutex
	queries   map[backend.QueryID]*query
	nextQuery backend.QueryID
	frame     uint64
}

// init registers the software backend on package import.
func init() {
	backend.Register(backend.BackendSoftware, func() backend.Backend {
		return New()
	})
}

// New creates a new software rendering backend.
func New() *Backend {
	return &Backend{queries: make(map[backend.QueryID]*query)}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendSoftware
}

// Init initializes the backend.
func (b *Backend) Init() error {
	b.initialized = true
	cull.Logger().Info("software: backend initialized")
	return nil
}

// Close releases all backend resources.
func (b *Backend) Close() {
	b.depth = nil
	b.queries = make(map[backend.QueryID]*query)
	b.frameOpen = false
	b.initialized = false
}

// BeginFrame clears the depth buffer, latches the viewer transforms,
// and prunes queries that were never consumed two frames back.
func (b *Backend) BeginFrame(cfg backend.FrameConfig) error {
	if !b.initialized {
		return backend.ErrNotInitialized
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("software: invalid frame size %dx%d", cfg.Width, cfg.Height)
	}

	if b.width != cfg.Width || b.height != cfg.Height || b.depth == nil {
		b.width = cfg.Width
		b.height = cfg.Height
		b.depth = make([]float32, cfg.Width*cfg.Height)
	}
	b.clearDepth()
	b.viewProj.MulMatrices(&cfg.Proj, &cfg.View)

	b.mu.Lock()
	b.frame++
	// Results are valid for exactly one frame after completion. An
	// unconsumed query older than that was abandoned by the caller.
	for id, q := range b.queries {
		if q.frame+1 < b.frame {
			delete(b.queries, id)
		}
	}
	b.mu.Unlock()

	b.frameOpen = true
	return nil
}

// DepthProbe rasterizes the mesh depth-only and counts passing samples.
// The result stays pending until EndFrame.
func (b *Backend) DepthProbe(m *mesh.Mesh, model cull.Transform) (backend.QueryID, error) {
	if !b.frameOpen {
		return 0, backend.ErrNoFrame
	}
	if m == nil {
		return 0, backend.ErrNilMesh
	}

	samples := b.raster(m, model, true)

	b.mu.Lock()
	b.nextQuery++
	id := b.nextQuery
	b.queries[id] = &query{samples: samples, frame: b.frame}
	b.mu.Unlock()
	return id, nil
}

// Draw rasterizes detail geometry into the depth buffer.
func (b *Backend) Draw(m *mesh.Mesh, model cull.Transform) error {
	if !b.frameOpen {
		return backend.ErrNoFrame
	}
	if m == nil {
		return backend.ErrNilMesh
	}
	b.raster(m, model, false)
	return nil
}

// EndFrame flushes the frame: all queries issued this frame complete.
func (b *Backend) EndFrame() error {
	if !b.frameOpen {
		return backend.ErrNoFrame
	}
	b.frameOpen = false

	b.mu.Lock()
	completed := 0
	for _, q := range b.queries {
		if !q.done {
			q.done = true
			completed++
		}
	}
	b.mu.Unlock()

	cull.Logger().Debug("software: frame flushed",
		"frame", b.frame, "queries", completed)
	return nil
}

// PollQuery reports a completed query's result and consumes it, or
// backend.ErrQueryPending while the issuing frame is still open.
func (b *Backend) PollQuery(id backend.QueryID) (backend.QueryResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queries[id]
	if !ok {
		return backend.QueryResult{}, backend.ErrUnknownQuery
	}
	if !q.done {
		return backend.QueryResult{}, backend.ErrQueryPending
	}
	delete(b.queries, id)
	return backend.QueryResult{Passed: q.samples > 0, Samples: q.samples}, nil
}

// DepthImage returns the depth buffer as a 16-bit grayscale image.
// Near geometry is dark, the far plane is white.
func (b *Backend) DepthImage() *image.Gray16 {
	if b.depth == nil {
		return nil
	}
	img := image.NewGray16(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			z := b.depth[y*b.width+x]
			img.SetGray16(x, y, color16(z))
		}
	}
	return img
}
