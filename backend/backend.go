package backend

import (
	"errors"
	"image"

	"cogentcore.org/core/math32"

	"github.com/gogpu/cull"
	"github.com/gogpu/cull/mesh"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrNoFrame is returned when a draw or probe is submitted outside a
	// BeginFrame/EndFrame pair.
	ErrNoFrame = errors.New("backend: no frame in progress")

	// ErrQueryPending is returned by PollQuery while the device has not
	// finished the occlusion test. Callers poll again after EndFrame or
	// in a later frame.
	ErrQueryPending = errors.New("backend: query pending")

	// ErrUnknownQuery is returned for a query ID that was never issued
	// or whose result was already consumed.
	ErrUnknownQuery = errors.New("backend: unknown query")

	// ErrNilMesh is returned when probing or drawing a nil mesh.
	ErrNilMesh = errors.New("backend: nil mesh")
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU depth-buffer backend.
	BackendSoftware = "software"
	// BackendWGPU is the name of the GPU backend (gogpu/wgpu).
	BackendWGPU = "wgpu"
)

// QueryID identifies an in-flight or completed occlusion query within
// a backend. IDs are unique across the backend's lifetime; a consumed
// ID is never reused.
type QueryID uint64

// QueryResult is the outcome of a completed occlusion query.
type QueryResult struct {
	// Passed reports whether any sample passed the depth test.
	Passed bool

	// Samples is the number of passing samples. Backends that only
	// support boolean queries report 0 or 1.
	Samples uint32
}

// FrameConfig describes the render target and viewer for one frame.
type FrameConfig struct {
	// Width and Height are the render target dimensions in pixels.
	Width, Height int

	// View is the world-to-camera matrix.
	View math32.Matrix4

	// Proj is the camera-to-clip projection matrix.
	Proj math32.Matrix4
}

// Backend is the interface for occlusion-capable rendering backends.
// It abstracts the device so the scheduler can run identically on the
// CPU reference implementation and on a GPU.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
//
// The frame contract: BeginFrame clears the depth buffer, DepthProbe
// and Draw submit work, EndFrame flushes it. Query results become
// available no earlier than the EndFrame of the frame that issued
// them; PollQuery returns ErrQueryPending until then. PollQuery is
// consuming: once it returns a result, the ID is retired.
type Backend interface {
	// Name returns the backend identifier (e.g., "software", "wgpu").
	Name() string

	// Init initializes the backend. Device or pipeline failures here
	// are fatal for the backend; it must not be used after a failed
	// Init.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// BeginFrame starts a new frame: clears depth and latches the
	// viewer transforms for subsequent submissions.
	BeginFrame(cfg FrameConfig) error

	// DepthProbe submits a depth-only draw of the given mesh with
	// color writes disabled and an occlusion query around it. It does
	// not block; the returned ID resolves via PollQuery.
	DepthProbe(m *mesh.Mesh, model cull.Transform) (QueryID, error)

	// Draw submits a full detail draw of the given mesh.
	Draw(m *mesh.Mesh, model cull.Transform) error

	// EndFrame flushes the frame's submissions to the device.
	EndFrame() error

	// PollQuery reports the result of an occlusion query, or
	// ErrQueryPending while the device has not completed it.
	PollQuery(id QueryID) (QueryResult, error)

	// DepthImage returns the current depth buffer as a grayscale
	// image for diagnostics, or nil if the backend cannot read depth
	// back.
	DepthImage() *image.Gray16
}
