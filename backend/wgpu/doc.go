// Package wgpu provides the GPU rendering backend built on gogpu/wgpu.
//
// The backend initializes a WebGPU instance, adapter, device and queue,
// and executes probes as depth-only draws wrapped in occlusion query
// sets. Detail draws render through the same depth pipeline with color
// writes enabled.
//
// # Integration status
//
// Device, adapter and queue management are complete. The render
// pipeline and occlusion query set paths are staged behind stub
// resource IDs while query-set resolve support stabilizes upstream in
// gogpu/wgpu. Until resolve read-back lands, PollQuery reports every
// completed probe as passed: the backend degrades to drawing all
// probed objects rather than wrongly culling visible ones. Gating is
// conservative by contract: a false "visible" costs performance, a
// false "occluded" costs correctness.
//
// The backend registers itself as "wgpu" on import:
//
//	import _ "github.com/gogpu/cull/backend/wgpu"
package wgpu
