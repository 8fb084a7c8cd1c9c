// Package backend provides a pluggable occlusion-capable rendering
// backend abstraction.
//
// The backend package lets the scheduler run against multiple device
// implementations: a CPU depth-buffer reference backend that is always
// available, and a GPU backend built on gogpu/wgpu occlusion query
// sets.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// Import the implementations you want linked in:
//
//	import (
//		_ "github.com/gogpu/cull/backend/software"
//		_ "github.com/gogpu/cull/backend/wgpu"
//	)
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	// Get the default (best available) backend
//	b := backend.Default()
//
//	// Or request a specific backend
//	b := backend.Get("software")
//
// # Frame contract
//
// A frame is a BeginFrame/EndFrame pair. DepthProbe submits a
// depth-only draw with color writes disabled, wrapped in an occlusion
// query; Draw submits detail geometry. All probes and draws of a frame
// are flushed by EndFrame. PollQuery returns ErrQueryPending until the
// device has completed the query (no earlier than the issuing frame's
// EndFrame) and consumes the result once it returns one.
//
// # Available Backends
//
//   - "software": CPU depth-buffer rasterizer (always available)
//   - "wgpu": GPU occlusion query sets via gogpu/wgpu
package backend
