package software

import (
	"image/color"

	"cogentcore.org/core/math32"

	"github.com/gogpu/cull"
	"github.com/gogpu/cull/mesh"
)

// nearEpsilon rejects vertices at or behind the camera plane. There is
// no near-plane clipping; a triangle with any rejected vertex is
// skipped entirely.
const nearEpsilon = 1e-6

// screenVert is a projected vertex: viewport coordinates plus a depth
// value mapped to [0, 1].
type screenVert struct {
	x, y, z float32
}

// clearDepth resets the depth buffer to the far plane.
func (b *Backend) clearDepth() {
	n := len(b.depth)
	if n == 0 {
		return
	}
	// Copy-doubling clear.
	b.depth[0] = 1
	for i := 1; i < n; i *= 2 {
		copy(b.depth[i:], b.depth[:i])
	}
}

// raster projects the mesh through the latched view-projection and
// rasterizes every front-facing-or-back-facing triangle with depth
// test and depth write. When count is set, it returns the number of
// samples that passed the depth test.
//
// No backface culling: proxy geometry must report samples regardless
// of winding so probes stay conservative.
func (b *Backend) raster(m *mesh.Mesh, model cull.Transform, count bool) uint32 {
	positions := m.Positions()
	verts := make([]screenVert, len(positions))
	behind := make([]bool, len(positions))

	halfW := float32(b.width) * 0.5
	halfH := float32(b.height) * 0.5
	for i, p := range positions {
		world := model.Apply(p)
		clip := math32.Vector4FromVector3(world, 1).MulMatrix4(&b.viewProj)
		if clip.W <= nearEpsilon {
			behind[i] = true
			continue
		}
		ndc := clip.PerspDiv()
		verts[i] = screenVert{
			x: (ndc.X + 1) * halfW,
			y: (1 - ndc.Y) * halfH,
			z: ndc.Z*0.5 + 0.5,
		}
	}

	indices := m.Indices()
	var samples uint32
	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		if behind[i0] || behind[i1] || behind[i2] {
			continue
		}
		samples += b.rasterTriangle(verts[i0], verts[i1], verts[i2], count)
	}
	return samples
}

// edge is the signed-area edge function: positive when p lies to the
// left of the directed edge a->b.
func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// rasterTriangle scan-converts one screen-space triangle against the
// depth buffer using a less-or-equal depth test. It returns the number
// of passing samples when count is set.
func (b *Backend) rasterTriangle(v0, v1, v2 screenVert, count bool) uint32 {
	area := edge(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return 0
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	minX := max(int(math32.Floor(math32.Min(v0.x, math32.Min(v1.x, v2.x)))), 0)
	minY := max(int(math32.Floor(math32.Min(v0.y, math32.Min(v1.y, v2.y)))), 0)
	maxX := min(int(math32.Ceil(math32.Max(v0.x, math32.Max(v1.x, v2.x)))), b.width-1)
	maxY := min(int(math32.Ceil(math32.Max(v0.y, math32.Max(v1.y, v2.y)))), b.height-1)

	var passed uint32
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5

			w0 := edge(v1.x, v1.y, v2.x, v2.y, px, py)
			w1 := edge(v2.x, v2.y, v0.x, v0.y, px, py)
			w2 := edge(v0.x, v0.y, v1.x, v1.y, px, py)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := (w0*v0.z + w1*v1.z + w2*v2.z) / area
			idx := y*b.width + x
			if z <= b.depth[idx] {
				if count {
					passed++
				}
				b.depth[idx] = z
			}
		}
	}
	return passed
}

// color16 maps a [0, 1] depth value to a 16-bit gray level.
func color16(z float32) color.Gray16 {
	switch {
	case z <= 0:
		return color.Gray16{Y: 0}
	case z >= 1:
		return color.Gray16{Y: 0xffff}
	default:
		return color.Gray16{Y: uint16(z * 0xffff)}
	}
}
