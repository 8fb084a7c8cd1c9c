// Package scene loads object layouts from YAML files and turns them
// into the frame state the scheduler consumes.
//
// A scene file names a camera and a list of objects, each referencing
// a model file. The loader decodes models in parallel, caches them by
// path, and synthesizes a bounding-box proxy for any object that does
// not bring its own.
package scene

import (
	"cogentcore.org/core/math32"

	"github.com/gogpu/cull"
	"github.com/gogpu/cull/sched"
)

// Camera describes the viewpoint of a scene.
type Camera struct {
	Pos    math32.Vector3
	Target math32.Vector3
	Up     math32.Vector3

	// FOV is the vertical field of view in degrees.
	FOV  float32
	Near float32
	Far  float32
}

// DefaultCamera looks down the negative Z axis from z=10.
func DefaultCamera() Camera {
	return Camera{
		Pos:    math32.Vec3(0, 0, 10),
		Up:     math32.Vec3(0, 1, 0),
		FOV:    60,
		Near:   0.1,
		Far:    1000,
	}
}

// View returns the world-to-camera matrix.
func (c *Camera) View() math32.Matrix4 {
	return *math32.NewLookAt(c.Pos, c.Target, c.Up)
}

// Projection returns the perspective matrix for the given aspect
// ratio (width over height).
func (c *Camera) Projection(aspect float32) math32.Matrix4 {
	var m math32.Matrix4
	m.SetPerspective(c.FOV, aspect, c.Near, c.Far)
	return m
}

// Scene is a camera plus the objects it can see.
type Scene struct {
	Name    string
	Camera  Camera
	Objects []*cull.Object
}

// FrameState assembles the per-frame input for the scheduler at the
// given viewport size.
func (s *Scene) FrameState(width, height int) sched.FrameState {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return sched.FrameState{
		Eye:     s.Camera.Pos,
		View:    s.Camera.View(),
		Proj:    s.Camera.Projection(aspect),
		Width:   width,
		Height:  height,
		Objects: s.Objects,
	}
}

// Object returns the object with the given ID, or nil.
func (s *Scene) Object(id string) *cull.Object {
	for _, o := range s.Objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}
