package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"

	"github.com/gogpu/cull/mesh"
)

func init() {
	Register(Format{
		Name:   "obj",
		Exts:   []string{".obj"},
		Decode: decodeOBJ,
	})
}

// decodeOBJ reads a Wavefront OBJ stream. Only geometry is kept:
// vertex positions and faces. Texture coordinates, normals, material
// references and grouping directives are skipped. Faces with more
// than three corners are fan triangulated.
func decodeOBJ(r io.Reader) (*mesh.Mesh, error) {
	var (
		positions []math32.Vector3
		indices   []uint32
	)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, objError(line, "vertex line needs 3 coordinates")
			}
			var v math32.Vector3
			for i, dst := range []*float32{&v.X, &v.Y, &v.Z} {
				val, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, objError(line, "bad vertex coordinate %q", fields[i+1])
				}
				*dst = float32(val)
			}
			positions = append(positions, v)

		case "f":
			corners := fields[1:]
			if len(corners) < 3 {
				return nil, objError(line, "face needs at least 3 vertices")
			}
			idx := make([]uint32, len(corners))
			for i, c := range corners {
				vi, err := objIndex(c, len(positions))
				if err != nil {
					return nil, objError(line, "%v", err)
				}
				idx[i] = vi
			}
			for i := 2; i < len(idx); i++ {
				indices = append(indices, idx[0], idx[i-1], idx[i])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return mesh.New(positions, indices), nil
}

// objIndex resolves one corner of a face line. OBJ indices are
// 1-based; negative values count back from the last parsed vertex.
// Texture and normal references after the first slash are ignored.
func objIndex(field string, numVerts int) (uint32, error) {
	if i := strings.IndexByte(field, '/'); i >= 0 {
		field = field[:i]
	}
	val, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("bad vertex index %q", field)
	}
	switch {
	case val > 0:
		val--
	case val < 0:
		val += numVerts
	default:
		return 0, fmt.Errorf("vertex index 0")
	}
	if val < 0 || val >= numVerts {
		return 0, fmt.Errorf("vertex index %s out of range", field)
	}
	return uint32(val), nil
}

func objError(line int, format string, args ...any) error {
	return fmt.Errorf("obj: line %d: %s", line, fmt.Sprintf(format, args...))
}
