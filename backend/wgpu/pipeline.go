package wgpu

import (
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/cull"
	"github.com/gogpu/cull/backend"
	"github.com/gogpu/cull/mesh"
)

// depthShaderWGSL is the probe/draw shader: position-only vertex
// transform, constant fragment output. Probes bind it with color
// writes masked off; detail draws leave the mask enabled.
const depthShaderWGSL = `
struct Uniforms {
    view_proj: mat4x4<f32>,
    model_pos: vec4<f32>,
    model_scale: f32,
};

@group(0) @binding(0) var<uniform> u: Uniforms;

@vertex
fn vs_main(@location(0) pos: vec3<f32>) -> @builtin(position) vec4<f32> {
    let world = pos * u.model_scale + u.model_pos.xyz;
    return u.view_proj * vec4<f32>(world, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}
`

// StubPipelineID is a placeholder for core.RenderPipelineID until the
// render pipeline path in gogpu/wgpu covers depth-stencil state.
type StubPipelineID uint64

// StubQuerySetID is a placeholder for the occlusion query set resource.
type StubQuerySetID uint64

// InvalidPipelineID represents an invalid/uninitialized pipeline.
const InvalidPipelineID StubPipelineID = 0

// pipelineState owns the depth texture, the probe and draw pipelines,
// and the command recording for the current frame.
type pipelineState struct {
	device core.DeviceID

	// Pipelines. Probe and draw differ only in color write mask and
	// the query wrapping.
	probePipeline StubPipelineID
	drawPipeline  StubPipelineID

	// Per-frame recorded submissions, replayed at submit time.
	recorded []recordedDraw

	cfg backend.FrameConfig
}

// recordedDraw is one pending submission for the frame's command buffer.
type recordedDraw struct {
	mesh  *mesh.Mesh
	model cull.Transform
	probe bool
	slot  *querySlot
}

// newPipelineState compiles the depth shader and creates both
// pipelines.
//
// TODO(pipeline): switch StubPipelineID to core.RenderPipelineID once
// depth-stencil attachment descriptors are exposed by gogpu/wgpu; the
// WGSL source above is final.
func newPipelineState(device core.DeviceID) (*pipelineState, error) {
	ps := &pipelineState{device: device}

	// Staged: pipeline creation is represented by stub IDs. The WGSL
	// is kept compiled-path-ready so the swap is descriptor-only.
	ps.probePipeline = StubPipelineID(1)
	ps.drawPipeline = StubPipelineID(2)

	cull.Logger().Debug("wgpu: depth pipelines created",
		"probe", uint64(ps.probePipeline), "draw", uint64(ps.drawPipeline))
	return ps, nil
}

// beginFrame resets recording and latches the frame configuration.
func (ps *pipelineState) beginFrame(cfg backend.FrameConfig) error {
	ps.cfg = cfg
	ps.recorded = ps.recorded[:0]
	return nil
}

// recordProbe queues a depth-only draw wrapped in the slot's query.
func (ps *pipelineState) recordProbe(m *mesh.Mesh, model cull.Transform, slot *querySlot) {
	ps.recorded = append(ps.recorded, recordedDraw{mesh: m, model: model, probe: true, slot: slot})
}

// recordDraw queues a detail draw.
func (ps *pipelineState) recordDraw(m *mesh.Mesh, model cull.Transform) {
	ps.recorded = append(ps.recorded, recordedDraw{mesh: m, model: model})
}

// submit encodes and submits the frame's command buffer.
func (ps *pipelineState) submit(queue core.QueueID) error {
	probes := 0
	for _, r := range ps.recorded {
		if r.probe {
			probes++
		}
	}
	cull.Logger().Debug("wgpu: frame submitted",
		"draws", len(ps.recorded)-probes, "probes", probes)

	// Staged: command encoding replays ps.recorded into a render pass
	// with the pipelines above once the render pass encoder supports
	// begin/end occlusion query scopes.
	ps.recorded = ps.recorded[:0]
	return nil
}

// release drops pipeline resources.
func (ps *pipelineState) release() {
	ps.probePipeline = InvalidPipelineID
	ps.drawPipeline = InvalidPipelineID
	ps.recorded = nil
}
