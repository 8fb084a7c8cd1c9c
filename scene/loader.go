package scene

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gogpu/cull"
	"github.com/gogpu/cull/cache"
	"github.com/gogpu/cull/internal/parallel"
	"github.com/gogpu/cull/mesh"
	"github.com/gogpu/cull/model"
)

// Loader decodes scene files. Model files are decoded on a worker
// pool and cached by absolute path, so reloading a scene only pays
// for the models that changed on disk.
//
// Loader is safe for concurrent use. Close releases the worker pool.
type Loader struct {
	meshes *cache.Cache[string, *mesh.Mesh]
	pool   *parallel.Pool

	closeOnce sync.Once
}

// NewLoader returns a loader with the given number of decode workers.
// workers <= 0 uses GOMAXPROCS.
func NewLoader(workers int) *Loader {
	return &Loader{
		meshes: cache.New[string, *mesh.Mesh](0, cache.PathHasher),
		pool:   parallel.NewPool(workers),
	}
}

// Close stops the loader's workers. The mesh cache stays readable.
func (l *Loader) Close() {
	l.closeOnce.Do(l.pool.Close)
}

// CacheStats reports mesh cache effectiveness.
func (l *Loader) CacheStats() cache.Stats { return l.meshes.Stats() }

// Load reads and resolves the scene file at path. Model references
// are resolved relative to the scene file's directory.
func (l *Loader) Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l.resolve(cfg, filepath.Dir(path))
}

// resolve decodes every model the config references and assembles
// the scene. Objects keep config order.
func (l *Loader) resolve(cfg *Config, dir string) (*Scene, error) {
	sc := &Scene{
		Name:    cfg.Name,
		Camera:  cfg.camera(),
		Objects: make([]*cull.Object, len(cfg.Objects)),
	}

	err := l.pool.ForEach(len(cfg.Objects), func(i int) error {
		oc := cfg.Objects[i]

		detail, err := l.mesh(dir, oc.Model)
		if err != nil {
			return fmt.Errorf("object %q: %w", oc.ID, err)
		}

		var proxy *mesh.Mesh
		if oc.Proxy != "" {
			proxy, err = l.mesh(dir, oc.Proxy)
			if err != nil {
				return fmt.Errorf("object %q proxy: %w", oc.ID, err)
			}
		} else {
			proxy = mesh.BoxMesh(detail.Bounds())
		}

		obj := &cull.Object{
			ID:     oc.ID,
			Detail: detail,
			Proxy:  proxy,
		}
		obj.Transform.Scale = oc.Scale
		if oc.Pos != nil {
			obj.Transform.Pos = oc.Pos.abs()
		}
		sc.Objects[i] = obj
		return nil
	})
	if err != nil {
		return nil, err
	}

	cull.Logger().Info("scene loaded",
		slog.String("name", sc.Name),
		slog.Int("objects", len(sc.Objects)))
	return sc, nil
}

// mesh decodes one model file through the cache.
func (l *Loader) mesh(dir, ref string) (*mesh.Mesh, error) {
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return l.meshes.GetOrLoad(abs, func() (*mesh.Mesh, error) {
		cull.Logger().Debug("decoding model", slog.String("path", abs))
		return model.DecodeFile(abs)
	})
}
