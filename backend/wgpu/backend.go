package wgpu

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/cull"
	"github.com/gogpu/cull/backend"
	"github.com/gogpu/cull/mesh"
)

// Backend-specific errors.
var (
	// ErrNoGPU is returned when no suitable GPU adapter is found.
	ErrNoGPU = errors.New("wgpu: no suitable GPU adapter")

	// ErrClosed is returned when operating on a closed backend.
	ErrClosed = errors.New("wgpu: backend closed")
)

// Backend is the GPU rendering backend using gogpu/wgpu.
//
// The backend manages GPU resources including instance, adapter,
// device and queue, a depth-only render pipeline for probes, and
// per-frame occlusion query sets.
type Backend struct {
	mu sync.RWMutex

	// GPU resources
	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	// GPU information
	gpuInfo *GPUInfo

	// Depth pipeline and per-frame query sets
	pipelines *pipelineState
	queries   *querySet

	// Frame state
	frameOpen bool

	// State
	initialized bool
}

// init registers the wgpu backend on package import.
func init() {
	backend.Register(backend.BackendWGPU, func() backend.Backend {
		return NewBackend()
	})
}

// NewBackend creates a new GPU rendering backend.
// The backend must be initialized with Init() before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendWGPU
}

// Init initializes the backend by creating GPU resources.
// This includes creating an instance, requesting an adapter,
// creating a device, and getting the command queue.
//
// Returns an error if GPU initialization fails. Per the library's
// failure semantics, an Init failure is fatal for this backend; the
// caller should fall back to another registered backend.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	// Step 1: Create Instance
	desc := &gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
		Flags:    0,
	}
	b.instance = core.NewInstance(desc)

	// Step 2: Request Adapter (prefer high performance GPU)
	adapterID, err := b.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	b.adapter = adapterID

	logGPUInfo(adapterID)
	b.gpuInfo, _ = getGPUInfo(adapterID)

	// Step 3: Create Device
	deviceID, err := createDevice(adapterID, "cull-wgpu-device")
	if err != nil {
		_ = releaseAdapter(adapterID)
		return fmt.Errorf("device creation failed: %w", err)
	}
	b.device = deviceID

	// Step 4: Get Queue
	queueID, err := getDeviceQueue(deviceID)
	if err != nil {
		_ = releaseDevice(deviceID)
		_ = releaseAdapter(adapterID)
		return fmt.Errorf("queue retrieval failed: %w", err)
	}
	b.queue = queueID

	// Step 5: Depth pipeline + query machinery
	ps, err := newPipelineState(deviceID)
	if err != nil {
		_ = releaseDevice(deviceID)
		_ = releaseAdapter(adapterID)
		return fmt.Errorf("pipeline creation failed: %w", err)
	}
	b.pipelines = ps
	b.queries = newQuerySet(deviceID)

	b.initialized = true
	return nil
}

// GPUInfo returns information about the selected GPU, or nil before Init.
func (b *Backend) GPUInfo() *GPUInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.gpuInfo
}

// Close releases all backend resources.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}

	if b.pipelines != nil {
		b.pipelines.release()
		b.pipelines = nil
	}
	b.queries = nil

	if err := releaseDevice(b.device); err != nil {
		cull.Logger().Warn("wgpu: device release failed", "err", err)
	}
	if err := releaseAdapter(b.adapter); err != nil {
		cull.Logger().Warn("wgpu: adapter release failed", "err", err)
	}
	b.device = core.DeviceID{}
	b.adapter = core.AdapterID{}
	b.instance = nil
	b.initialized = false
}

// BeginFrame starts a new frame: allocates the frame's occlusion query
// set and latches the viewer transforms as pipeline uniforms.
func (b *Backend) BeginFrame(cfg backend.FrameConfig) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return backend.ErrNotInitialized
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("wgpu: invalid frame size %dx%d", cfg.Width, cfg.Height)
	}

	if err := b.pipelines.beginFrame(cfg); err != nil {
		return err
	}
	b.queries.beginFrame()
	b.frameOpen = true
	return nil
}

// DepthProbe records a depth-only draw with an occlusion query around it.
func (b *Backend) DepthProbe(m *mesh.Mesh, model cull.Transform) (backend.QueryID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.frameOpen {
		return 0, backend.ErrNoFrame
	}
	if m == nil {
		return 0, backend.ErrNilMesh
	}

	slot, err := b.queries.allocate()
	if err != nil {
		return 0, err
	}
	b.pipelines.recordProbe(m, model, slot)
	return slot.id, nil
}

// Draw records a detail draw.
func (b *Backend) Draw(m *mesh.Mesh, model cull.Transform) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.frameOpen {
		return backend.ErrNoFrame
	}
	if m == nil {
		return backend.ErrNilMesh
	}
	b.pipelines.recordDraw(m, model)
	return nil
}

// EndFrame submits the recorded command buffer and schedules the query
// set resolve into the read-back buffer.
func (b *Backend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.frameOpen {
		return backend.ErrNoFrame
	}
	b.frameOpen = false

	if err := b.pipelines.submit(b.queue); err != nil {
		return err
	}
	b.queries.resolve()
	return nil
}

// PollQuery reports the result of an occlusion query.
func (b *Backend) PollQuery(id backend.QueryID) (backend.QueryResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return backend.QueryResult{}, backend.ErrNotInitialized
	}
	return b.queries.poll(id)
}

// DepthImage is not supported by the GPU backend: depth read-back
// requires a buffer map path that is not part of the frame loop.
func (b *Backend) DepthImage() *image.Gray16 {
	return nil
}
