// Package cull provides visibility-gated render scheduling.
//
// A scene typically contains far more geometry than is visible from any
// single viewpoint. Rather than paying the full cost of drawing every
// object, cull issues a cheap depth-only probe of each object's proxy
// geometry (usually its bounding box), collects asynchronous occlusion
// query results, and gates the expensive detail draw on the outcome:
// only objects whose probe produced visible samples are drawn.
//
// The package is organized as follows:
//
//   - cull (this package): core types shared by all sub-packages
//     ([Visibility], [Object], [Transform]) and library-wide logging.
//   - sched: the per-frame scheduler driving probe, resolve and draw.
//   - backend: the pluggable rendering backend abstraction with a
//     registry. backend/software is a CPU depth-buffer reference
//     implementation; backend/wgpu targets GPU occlusion query sets.
//   - mesh, model: triangle mesh data and format decoders (OBJ, glTF).
//   - scene: YAML scene descriptions, cached asset loading, hot reload.
//   - cache: the sharded LRU behind the scene loader's mesh cache.
//   - recording: per-frame command trace capture for diagnostics.
//
// # Probe latency
//
// Occlusion queries execute asynchronously on the device. Results for
// probes submitted in frame N are consumed in frame N+1; an object's
// gating decision therefore always trails its probe by one frame. This
// is a deliberate trade-off: it keeps the control thread from stalling
// on query completion inside the frame that issued the probe.
//
// # Quick start
//
//	loader := scene.NewLoader(0)
//	defer loader.Close()
//	sc, err := loader.Load("scene.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	b := backend.MustDefault()
//	if err := b.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	s := sched.New(b)
//	for running {
//		stats, err := s.Frame(sc.FrameState(width, height))
//		...
//	}
package cull
