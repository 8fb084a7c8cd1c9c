package cull

import (
	"cogentcore.org/core/math32"

	"github.com/gogpu/cull/mesh"
)

// Transform places an object in world space: a uniform scale followed
// by a translation. Rotation is intentionally absent; proxy bounds stay
// axis-aligned, which keeps probes conservative and cheap.
type Transform struct {
	// Pos is the world-space position of the object's origin.
	Pos math32.Vector3

	// Scale is the uniform scale factor. Zero is treated as 1.
	Scale float32
}

// Apply transforms a model-space point into world space.
func (t Transform) Apply(p math32.Vector3) math32.Vector3 {
	s := t.Scale
	if s == 0 {
		s = 1
	}
	return p.MulScalar(s).Add(t.Pos)
}

// Bounds transforms a model-space bounding box into world space.
// Scale must be non-negative.
func (t Transform) Bounds(b math32.Box3) math32.Box3 {
	s := t.Scale
	if s == 0 {
		s = 1
	}
	b.Min = b.Min.MulScalar(s)
	b.Max = b.Max.MulScalar(s)
	return b.Translate(t.Pos)
}

// Object is a renderable scene entity considered by the scheduler.
//
// It pairs a low-cost proxy mesh, used only for occlusion probes, with
// the high-cost detail mesh that probes gate. Objects are created at
// scene load and live for the scene's lifetime; per-frame query state
// is owned by the scheduler, not the object.
type Object struct {
	// ID identifies the object in traces, logs and scene files.
	ID string

	// Transform is the object's world-space placement.
	Transform Transform

	// Proxy is the cheap stand-in geometry drawn depth-only during a
	// probe. If nil, Detail is probed directly.
	Proxy *mesh.Mesh

	// Detail is the expensive geometry drawn when the object is
	// confirmed visible.
	Detail *mesh.Mesh

	// Visibility is the most recent resolved probe result. It is
	// maintained by the scheduler; callers should treat it as
	// read-only.
	Visibility Visibility
}

// ProxyMesh returns the geometry to probe: the proxy if one is set,
// otherwise the detail mesh itself.
func (o *Object) ProxyMesh() *mesh.Mesh {
	if o.Proxy != nil {
		return o.Proxy
	}
	return o.Detail
}

// Distance2 returns the squared distance from the viewer position to
// the object's origin. Squared distance is sufficient for ordering and
// avoids the square root per object per frame.
func (o *Object) Distance2(eye math32.Vector3) float32 {
	return o.Transform.Pos.Sub(eye).LengthSquared()
}
