// Package model decodes mesh files into mesh.Mesh values.
//
// Formats register themselves by file extension, following the same
// pattern as the backend registry. The package ships with Wavefront
// OBJ and glTF decoders; importing the package is enough to have both
// available.
package model

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/cull/mesh"
)

// ErrUnknownFormat is returned when no decoder is registered for a
// file's extension.
var ErrUnknownFormat = errors.New("model: unknown format")

// Format describes a mesh file format.
type Format struct {
	// Name identifies the format in logs and errors.
	Name string

	// Exts lists the file extensions the format claims, with the
	// leading dot, lower case.
	Exts []string

	// Decode reads a mesh from a byte stream.
	Decode func(r io.Reader) (*mesh.Mesh, error)

	// DecodeFile, when set, decodes directly from a path. Formats
	// that resolve sibling files (glTF external buffers) need the
	// path; others leave it nil and Decode is used.
	DecodeFile func(path string) (*mesh.Mesh, error)
}

var (
	formatsMu sync.RWMutex
	formats   = make(map[string]Format)
)

// Register makes a format available to DecodeFile and Decode. It
// panics if another format already claims one of its extensions.
func Register(f Format) {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	for _, ext := range f.Exts {
		if prev, dup := formats[ext]; dup {
			panic(fmt.Sprintf("model: extension %s claimed by both %s and %s", ext, prev.Name, f.Name))
		}
		formats[ext] = f
	}
}

// Extensions returns the registered extensions in sorted order.
func Extensions() []string {
	formatsMu.RLock()
	defer formatsMu.RUnlock()
	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func lookup(ext string) (Format, bool) {
	formatsMu.RLock()
	defer formatsMu.RUnlock()
	f, ok := formats[strings.ToLower(ext)]
	return f, ok
}

// DecodeFile decodes the mesh file at path, choosing the decoder by
// extension. The result is validated before it is returned.
func DecodeFile(path string) (*mesh.Mesh, error) {
	ext := filepath.Ext(path)
	f, ok := lookup(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)", ErrUnknownFormat, ext, strings.Join(Extensions(), " "))
	}

	var (
		m   *mesh.Mesh
		err error
	)
	if f.DecodeFile != nil {
		m, err = f.DecodeFile(path)
	} else {
		var file *os.File
		file, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		m, err = f.Decode(file)
	}
	if err != nil {
		return nil, fmt.Errorf("model: decode %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("model: decode %s: %w", path, err)
	}
	return m, nil
}

// Decode decodes a mesh from r using the decoder registered for ext.
// Formats that require file access (glTF with external buffers)
// cannot resolve siblings through a plain reader.
func Decode(r io.Reader, ext string) (*mesh.Mesh, error) {
	f, ok := lookup(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	m, err := f.Decode(r)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
