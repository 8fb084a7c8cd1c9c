package mesh

import "cogentcore.org/core/math32"

// boxIndices is the triangle index layout shared by every box mesh:
// twelve triangles over the eight corners produced by boxCorners.
var boxIndices = []uint32{
	0, 1, 2, 2, 1, 3, // -z face
	4, 6, 5, 5, 6, 7, // +z face
	0, 4, 1, 1, 4, 5, // -y face
	2, 3, 6, 6, 3, 7, // +y face
	0, 2, 4, 4, 2, 6, // -x face
	1, 5, 3, 3, 5, 7, // +x face
}

// boxCorners expands a bounding box into its eight corner points.
// Corner i has X from bit 0, Y from bit 1, Z from bit 2.
func boxCorners(b math32.Box3) []math32.Vector3 {
	return []math32.Vector3{
		math32.Vec3(b.Min.X, b.Min.Y, b.Min.Z),
		math32.Vec3(b.Max.X, b.Min.Y, b.Min.Z),
		math32.Vec3(b.Min.X, b.Max.Y, b.Min.Z),
		math32.Vec3(b.Max.X, b.Max.Y, b.Min.Z),
		math32.Vec3(b.Min.X, b.Min.Y, b.Max.Z),
		math32.Vec3(b.Max.X, b.Min.Y, b.Max.Z),
		math32.Vec3(b.Min.X, b.Max.Y, b.Max.Z),
		math32.Vec3(b.Max.X, b.Max.Y, b.Max.Z),
	}
}

// BoxMesh builds the 12-triangle proxy mesh for a bounding box.
// This is the default probe geometry: conservative (it encloses the
// detail mesh) and cheap to rasterize.
func BoxMesh(b math32.Box3) *Mesh {
	return New(boxCorners(b), boxIndices)
}
