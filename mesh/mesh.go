// Package mesh provides indexed triangle mesh data shared by model
// decoders and rendering backends.
package mesh

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"
)

// Mesh errors.
var (
	// ErrNoTriangles is returned when a mesh has no complete triangle.
	ErrNoTriangles = errors.New("mesh: no triangles")

	// ErrIndexCount is returned when the index count is not a multiple
	// of three.
	ErrIndexCount = errors.New("mesh: index count not a multiple of 3")

	// ErrIndexRange is returned when an index references a vertex that
	// does not exist.
	ErrIndexRange = errors.New("mesh: index out of range")
)

// Mesh is an indexed triangle mesh in model space. Positions and
// indices are stored exactly as a GPU backend would consume them:
// a flat vertex array plus a uint32 index array, three indices per
// triangle.
//
// A Mesh is immutable after construction; bounds are computed once.
type Mesh struct {
	positions []math32.Vector3
	indices   []uint32
	bounds    math32.Box3
}

// New creates a mesh from vertex positions and triangle indices and
// precomputes its bounding box. The slices are retained, not copied.
func New(positions []math32.Vector3, indices []uint32) *Mesh {
	m := &Mesh{positions: positions, indices: indices}
	m.bounds.SetFromPoints(positions)
	return m
}

// Validate checks structural integrity: at least one triangle, index
// count divisible by three, and every index in range.
func (m *Mesh) Validate() error {
	if len(m.indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices", ErrIndexCount, len(m.indices))
	}
	if len(m.indices) == 0 {
		return ErrNoTriangles
	}
	n := uint32(len(m.positions))
	for _, i := range m.indices {
		if i >= n {
			return fmt.Errorf("%w: index %d, %d vertices", ErrIndexRange, i, n)
		}
	}
	return nil
}

// Positions returns the vertex position array. Callers must not
// modify it.
func (m *Mesh) Positions() []math32.Vector3 { return m.positions }

// Indices returns the triangle index array. Callers must not modify it.
func (m *Mesh) Indices() []uint32 { return m.indices }

// Bounds returns the model-space axis-aligned bounding box.
func (m *Mesh) Bounds() math32.Box3 { return m.bounds }

// TriangleCount returns the number of complete triangles.
func (m *Mesh) TriangleCount() int { return len(m.indices) / 3 }

// Triangle returns the three corner positions of triangle i.
// It panics if i is out of range, matching slice indexing semantics.
func (m *Mesh) Triangle(i int) (a, b, c math32.Vector3) {
	base := i * 3
	return m.positions[m.indices[base]],
		m.positions[m.indices[base+1]],
		m.positions[m.indices[base+2]]
}
