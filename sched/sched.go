package sched

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"cogentcore.org/core/math32"

	"github.com/gogpu/cull"
	"github.com/gogpu/cull/backend"
	"github.com/gogpu/cull/recording"
)

// Scheduler errors.
var (
	// ErrQueryNotReady is returned by Resolve while the device has not
	// completed the query. Recoverable: poll again next frame.
	ErrQueryNotReady = errors.New("sched: query not ready")

	// ErrQueryConsumed is returned when resolving a handle whose
	// result was already consumed.
	ErrQueryConsumed = errors.New("sched: query already consumed")

	// ErrQueryExpired is returned when the backend dropped an
	// abandoned query. The handle is retired; the object can be
	// probed again.
	ErrQueryExpired = errors.New("sched: query expired")

	// ErrQueryOutstanding is returned when probing an object whose
	// previous query has not been consumed.
	ErrQueryOutstanding = errors.New("sched: object has an outstanding query")

	// ErrNotVisible is returned by Draw in gated mode for an object
	// whose latest resolved visibility is not visible.
	ErrNotVisible = errors.New("sched: object not resolved visible")

	// ErrGatingDisabled is returned when probing with gating off.
	ErrGatingDisabled = errors.New("sched: gating disabled")

	// ErrNoFrame is returned for submissions outside a
	// BeginFrame/EndFrame pair.
	ErrNoFrame = errors.New("sched: no frame in progress")

	// ErrFrameOpen is returned by BeginFrame when the previous frame
	// was not ended.
	ErrFrameOpen = errors.New("sched: frame already in progress")
)

// FrameState is the per-frame input: the viewer and the candidate
// objects to consider.
type FrameState struct {
	// Eye is the viewer position, used for the nearest-first sort.
	Eye math32.Vector3

	// View is the world-to-camera matrix.
	View math32.Matrix4

	// Proj is the projection matrix.
	Proj math32.Matrix4

	// Width and Height are the render target dimensions in pixels.
	Width, Height int

	// Objects are the frame's candidates, in any order.
	Objects []*cull.Object
}

// QueryHandle is an opaque token for an in-flight occlusion probe.
// Each object has at most one outstanding handle; a handle must be
// consumed via Resolve before its object can be probed again.
type QueryHandle struct {
	id       backend.QueryID
	obj      *cull.Object
	frame    uint64
	consumed bool
}

// Object returns the object this handle probes.
func (h *QueryHandle) Object() *cull.Object { return h.obj }

// Scheduler drives per-frame visibility-gated rendering over a
// backend. Create one with New and drive it from a single thread.
type Scheduler struct {
	backend  backend.Backend
	gating   bool
	maxProbe int
	recorder *recording.Recorder

	outstanding map[*cull.Object]*QueryHandle
	order       []*cull.Object
	frame       uint64
	frameOpen   bool

	stats     FrameStats
	began     time.Time
	lastFrame time.Time
}

// New creates a scheduler over the given backend.
// The backend must already be initialized.
func New(b backend.Backend, opts ...Option) *Scheduler {
	s := &Scheduler{
		backend:     b,
		gating:      true,
		outstanding: make(map[*cull.Object]*QueryHandle),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Gated reports whether occlusion gating is enabled.
func (s *Scheduler) Gated() bool { return s.gating }

// BeginFrame starts a frame: it sorts the candidates nearest-first
// and opens the backend frame. The sorted order is the submission
// order for probes and draws.
func (s *Scheduler) BeginFrame(fs FrameState) error {
	if s.frameOpen {
		return ErrFrameOpen
	}

	err := s.backend.BeginFrame(backend.FrameConfig{
		Width:  fs.Width,
		Height: fs.Height,
		View:   fs.View,
		Proj:   fs.Proj,
	})
	if err != nil {
		return fmt.Errorf("sched: backend begin: %w", err)
	}

	s.order = slices.Clone(fs.Objects)
	slices.SortStableFunc(s.order, func(a, b *cull.Object) int {
		da, db := a.Distance2(fs.Eye), b.Distance2(fs.Eye)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		default:
			return 0
		}
	})

	s.frame++
	s.frameOpen = true
	s.began = time.Now()
	s.stats = FrameStats{Frame: s.frame, Objects: len(s.order)}
	s.recorder.BeginFrame(s.frame)

	cull.Logger().Debug("sched: frame began",
		"frame", s.frame, "objects", len(s.order), "gated", s.gating)
	return nil
}

// Order returns the frame's submission order (nearest first).
// Valid between BeginFrame and EndFrame.
func (s *Scheduler) Order() []*cull.Object { return s.order }

// Outstanding returns the object's unconsumed handle, or nil.
func (s *Scheduler) Outstanding(obj *cull.Object) *QueryHandle {
	return s.outstanding[obj]
}

// Probe issues a depth-only draw of the object's proxy geometry with
// an occlusion query attached. It does not block; the result is
// consumed via Resolve in a later frame.
func (s *Scheduler) Probe(obj *cull.Object) (*QueryHandle, error) {
	if !s.frameOpen {
		return nil, ErrNoFrame
	}
	if !s.gating {
		return nil, ErrGatingDisabled
	}
	if s.outstanding[obj] != nil {
		return nil, fmt.Errorf("%w: %s", ErrQueryOutstanding, obj.ID)
	}

	id, err := s.backend.DepthProbe(obj.ProxyMesh(), obj.Transform)
	if err != nil {
		return nil, fmt.Errorf("sched: probe %s: %w", obj.ID, err)
	}

	h := &QueryHandle{id: id, obj: obj, frame: s.frame}
	s.outstanding[obj] = h
	s.stats.ProbesIssued++
	s.recorder.Record(recording.OpProbe, obj.ID, cull.VisibilityUnknown)
	return h, nil
}

// Resolve consumes a query result. It returns ErrQueryNotReady while
// the device has not finished the test; the handle stays live and
// the caller retries next frame. On success the handle is retired and
// the object's visibility updated.
func (s *Scheduler) Resolve(h *QueryHandle) (cull.Visibility, error) {
	if h == nil || h.consumed {
		return cull.VisibilityUnknown, ErrQueryConsumed
	}

	res, err := s.backend.PollQuery(h.id)
	switch {
	case errors.Is(err, backend.ErrQueryPending):
		return cull.VisibilityUnknown, ErrQueryNotReady
	case errors.Is(err, backend.ErrUnknownQuery):
		// The backend pruned an abandoned query; free the object for
		// a fresh probe.
		s.retire(h)
		return cull.VisibilityUnknown, fmt.Errorf("%w: %s", ErrQueryExpired, h.obj.ID)
	case err != nil:
		return cull.VisibilityUnknown, fmt.Errorf("sched: resolve %s: %w", h.obj.ID, err)
	}

	s.retire(h)
	vis := cull.VisibilityOccluded
	if res.Passed {
		vis = cull.VisibilityVisible
	}
	h.obj.Visibility = vis
	s.stats.QueriesResolved++
	s.recorder.Record(recording.OpResolve, h.obj.ID, vis)
	return vis, nil
}

// retire marks a handle consumed and releases its object for future
// probes.
func (s *Scheduler) retire(h *QueryHandle) {
	h.consumed = true
	if s.outstanding[h.obj] == h {
		delete(s.outstanding, h.obj)
	}
}

// Draw submits the object's detail geometry. In gated mode the
// object's latest resolved visibility must be visible.
func (s *Scheduler) Draw(obj *cull.Object) error {
	if !s.frameOpen {
		return ErrNoFrame
	}
	if s.gating && obj.Visibility != cull.VisibilityVisible {
		return fmt.Errorf("%w: %s is %s", ErrNotVisible, obj.ID, obj.Visibility)
	}

	if err := s.backend.Draw(obj.Detail, obj.Transform); err != nil {
		return fmt.Errorf("sched: draw %s: %w", obj.ID, err)
	}
	s.stats.ObjectsDrawn++
	s.recorder.Record(recording.OpDraw, obj.ID, obj.Visibility)
	return nil
}

// EndFrame flushes the backend frame and finalizes the frame's stats.
func (s *Scheduler) EndFrame() (FrameStats, error) {
	if !s.frameOpen {
		return FrameStats{}, ErrNoFrame
	}
	s.frameOpen = false

	if err := s.backend.EndFrame(); err != nil {
		return FrameStats{}, fmt.Errorf("sched: backend end: %w", err)
	}

	now := time.Now()
	s.stats.QueriesOutstanding = len(s.outstanding)
	s.stats.TimeTotal = now.Sub(s.began)
	if !s.lastFrame.IsZero() {
		s.stats.FrameTime = now.Sub(s.lastFrame)
		if s.stats.FrameTime > 0 {
			s.stats.FPS = float64(time.Second) / float64(s.stats.FrameTime)
		}
	}
	s.lastFrame = now
	s.recorder.EndFrame()
	s.order = nil
	return s.stats, nil
}

// Frame runs one complete scheduler frame: resolve last frame's
// queries, submit this frame's probe batch, then draw confirmed
// visible objects. With gating disabled it draws every object exactly
// once instead.
func (s *Scheduler) Frame(fs FrameState) (FrameStats, error) {
	if err := s.BeginFrame(fs); err != nil {
		return FrameStats{}, err
	}

	if !s.gating {
		for _, obj := range s.order {
			if err := s.Draw(obj); err != nil {
				return FrameStats{}, err
			}
		}
		return s.EndFrame()
	}

	// Phase 1: consume results from the previous frame.
	for _, obj := range s.order {
		h := s.outstanding[obj]
		if h == nil {
			continue
		}
		if _, err := s.Resolve(h); err != nil {
			switch {
			case errors.Is(err, ErrQueryNotReady):
				s.stats.QueriesPending++
			case errors.Is(err, ErrQueryExpired):
				// Retired; the object is re-probed below.
			default:
				return FrameStats{}, err
			}
		}
	}

	// Phase 2: probe batch, nearest first. All probes precede all
	// draws so the device can overlap query execution with them.
	probed := 0
	for _, obj := range s.order {
		if s.outstanding[obj] != nil {
			continue
		}
		if s.maxProbe > 0 && probed >= s.maxProbe {
			s.stats.ProbesDeferred++
			continue
		}
		if _, err := s.Probe(obj); err != nil {
			return FrameStats{}, err
		}
		probed++
	}

	// Phase 3: detail draws gated on the latest resolved visibility.
	for _, obj := range s.order {
		switch obj.Visibility {
		case cull.VisibilityVisible:
			if err := s.Draw(obj); err != nil {
				return FrameStats{}, err
			}
		case cull.VisibilityOccluded:
			s.stats.ObjectsSkipped++
			s.recorder.Record(recording.OpSkip, obj.ID, obj.Visibility)
		default:
			s.stats.ObjectsUnknown++
			s.recorder.Record(recording.OpSkip, obj.ID, obj.Visibility)
		}
	}

	return s.EndFrame()
}
