package model

import (
	"errors"
	"io"

	"cogentcore.org/core/math32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gogpu/cull/mesh"
)

func init() {
	Register(Format{
		Name:       "gltf",
		Exts:       []string{".gltf", ".glb"},
		Decode:     decodeGLTF,
		DecodeFile: decodeGLTFFile,
	})
}

var errNoGeometry = errors.New("gltf: no triangle geometry")

// decodeGLTFFile opens path with the gltf loader so that external
// .bin buffers referenced relative to the file resolve.
func decodeGLTFFile(path string) (*mesh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}
	return meshFromDocument(doc)
}

// decodeGLTF decodes from a stream. Only self-contained files (.glb,
// or .gltf with data URIs) work here; external buffers need
// DecodeFile.
func decodeGLTF(r io.Reader) (*mesh.Mesh, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, err
	}
	return meshFromDocument(doc)
}

// meshFromDocument flattens every triangle primitive in the document
// into a single mesh. Node transforms are not applied; the scheduler
// positions objects with its own transform.
func meshFromDocument(doc *gltf.Document) (*mesh.Mesh, error) {
	var (
		positions []math32.Vector3
		indices   []uint32
	)

	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			pos, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, err
			}

			base := uint32(len(positions))
			for _, p := range pos {
				positions = append(positions, math32.Vec3(p[0], p[1], p[2]))
			}

			if prim.Indices != nil {
				idx, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return nil, err
				}
				for _, i := range idx {
					indices = append(indices, base+i)
				}
			} else {
				for i := range uint32(len(pos)) {
					indices = append(indices, base+i)
				}
			}
		}
	}
	if len(indices) == 0 {
		return nil, errNoGeometry
	}
	return mesh.New(positions, indices), nil
}
