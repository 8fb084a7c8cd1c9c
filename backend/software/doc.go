// Package software provides the CPU reference rendering backend.
//
// It rasterizes triangles against a float32 depth buffer and answers
// occlusion queries by counting the samples of a probe draw that pass
// the depth test. The backend has no color output: probes and detail
// draws both contribute depth only, which is all the scheduler needs.
//
// Probes write depth as well as test it. Probing nearest-first
// therefore lets near proxies occlude far ones within the same probe
// batch, which is the scheduler's sort rationale.
//
// Query results are withheld until EndFrame to model the asynchrony of
// a real device: PollQuery returns backend.ErrQueryPending for any
// query issued in the still-open frame. This makes the backend a
// faithful test double for the one-frame probe/resolve latency the
// scheduler is designed around.
//
// The rasterizer does not clip triangles against the near plane;
// triangles with any vertex behind the camera are skipped. Proxy
// geometry that straddles the near plane can therefore under-report
// samples. Callers that place the camera inside proxy bounds should
// treat those objects as visible without probing.
//
// The backend registers itself as "software" on import:
//
//	import _ "github.com/gogpu/cull/backend/software"
package software
