package software

import (
	"errors"
	"testing"

	"cogentcore.org/core/math32"

	"github.com/gogpu/cull"
	"github.com/gogpu/cull/backend"
	"github.com/gogpu/cull/mesh"
)

// testFrame looks from +z toward the origin with a square viewport.
func testFrame() backend.FrameConfig {
	view := math32.NewLookAt(math32.Vec3(0, 0, 5), math32.Vec3(0, 0, 0), math32.Vec3(0, 1, 0))
	var proj math32.Matrix4
	proj.SetPerspective(60, 1, 0.1, 100)
	return backend.FrameConfig{Width: 64, Height: 64, View: *view, Proj: proj}
}

// unitBox is a unit cube centered at the origin.
func unitBox() *mesh.Mesh {
	return mesh.BoxMesh(math32.B3(-0.5, -0.5, -0.5, 0.5, 0.5, 0.5))
}

func at(x, y, z float32) cull.Transform {
	return cull.Transform{Pos: math32.Vec3(x, y, z), Scale: 1}
}

func initBackend(t *testing.T) *Backend {
	t.Helper()
	b := New()
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(b.Close)
	return b
}

func TestBackendRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendSoftware) {
		t.Fatal("software backend not registered on import")
	}
	if b := backend.Get(backend.BackendSoftware); b == nil {
		t.Fatal("Get(software) returned nil")
	}
}

func TestBeginFrameBeforeInit(t *testing.T) {
	b := New()
	if err := b.BeginFrame(testFrame()); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("BeginFrame() error = %v, want ErrNotInitialized", err)
	}
}

func TestProbeOutsideFrame(t *testing.T) {
	b := initBackend(t)
	if _, err := b.DepthProbe(unitBox(), at(0, 0, 0)); !errors.Is(err, backend.ErrNoFrame) {
		t.Errorf("DepthProbe() error = %v, want ErrNoFrame", err)
	}
	if err := b.Draw(unitBox(), at(0, 0, 0)); !errors.Is(err, backend.ErrNoFrame) {
		t.Errorf("Draw() error = %v, want ErrNoFrame", err)
	}
}

func TestProbeNilMesh(t *testing.T) {
	b := initBackend(t)
	if err := b.BeginFrame(testFrame()); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	if _, err := b.DepthProbe(nil, at(0, 0, 0)); !errors.Is(err, backend.ErrNilMesh) {
		t.Errorf("DepthProbe(nil) error = %v, want ErrNilMesh", err)
	}
}

func TestProbeVisibleAndOccluded(t *testing.T) {
	b := initBackend(t)
	if err := b.BeginFrame(testFrame()); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}

	// Near box first (the scheduler's nearest-first order), then a
	// same-sized box directly behind it on the view axis.
	near, err := b.DepthProbe(unitBox(), at(0, 0, 0))
	if err != nil {
		t.Fatalf("DepthProbe(near) error = %v", err)
	}
	far, err := b.DepthProbe(unitBox(), at(0, 0, -5))
	if err != nil {
		t.Fatalf("DepthProbe(far) error = %v", err)
	}

	// Results must be withheld until the frame is flushed.
	if _, err := b.PollQuery(near); !errors.Is(err, backend.ErrQueryPending) {
		t.Errorf("PollQuery(near) before EndFrame error = %v, want ErrQueryPending", err)
	}

	if err := b.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}

	nearRes, err := b.PollQuery(near)
	if err != nil {
		t.Fatalf("PollQuery(near) error = %v", err)
	}
	if !nearRes.Passed || nearRes.Samples == 0 {
		t.Errorf("near probe = %+v, want passing samples", nearRes)
	}

	farRes, err := b.PollQuery(far)
	if err != nil {
		t.Fatalf("PollQuery(far) error = %v", err)
	}
	if farRes.Passed {
		t.Errorf("far probe = %+v, want fully occluded", farRes)
	}

	// Results are consumed on read.
	if _, err := b.PollQuery(near); !errors.Is(err, backend.ErrUnknownQuery) {
		t.Errorf("second PollQuery(near) error = %v, want ErrUnknownQuery", err)
	}
}

func TestProbeBehindCamera(t *testing.T) {
	b := initBackend(t)
	if err := b.BeginFrame(testFrame()); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}

	// The camera sits at z=5 looking toward -z; z=20 is behind it.
	id, err := b.DepthProbe(unitBox(), at(0, 0, 20))
	if err != nil {
		t.Fatalf("DepthProbe() error = %v", err)
	}
	if err := b.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}

	res, err := b.PollQuery(id)
	if err != nil {
		t.Fatalf("PollQuery() error = %v", err)
	}
	if res.Passed {
		t.Errorf("probe behind camera = %+v, want no samples", res)
	}
}

func TestDrawOccludesLaterProbe(t *testing.T) {
	b := initBackend(t)
	if err := b.BeginFrame(testFrame()); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}

	// Detail geometry written before the probe acts as an occluder.
	if err := b.Draw(unitBox(), at(0, 0, 0)); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	id, err := b.DepthProbe(unitBox(), at(0, 0, -5))
	if err != nil {
		t.Fatalf("DepthProbe() error = %v", err)
	}
	if err := b.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}

	res, err := b.PollQuery(id)
	if err != nil {
		t.Fatalf("PollQuery() error = %v", err)
	}
	if res.Passed {
		t.Errorf("probe behind drawn geometry = %+v, want occluded", res)
	}
}

func TestQueryResultsSurviveOneFrame(t *testing.T) {
	b := initBackend(t)
	if err := b.BeginFrame(testFrame()); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	id, err := b.DepthProbe(unitBox(), at(0, 0, 0))
	if err != nil {
		t.Fatalf("DepthProbe() error = %v", err)
	}
	if err := b.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}

	// Next frame: the result is still consumable after BeginFrame,
	// which is where the scheduler resolves the previous frame.
	if err := b.BeginFrame(testFrame()); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	if _, err := b.PollQuery(id); err != nil {
		t.Errorf("PollQuery() one frame later error = %v, want result", err)
	}
	if err := b.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}
}

func TestAbandonedQueryPruned(t *testing.T) {
	b := initBackend(t)
	if err := b.BeginFrame(testFrame()); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	id, err := b.DepthProbe(unitBox(), at(0, 0, 0))
	if err != nil {
		t.Fatalf("DepthProbe() error = %v", err)
	}
	if err := b.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}

	// Two BeginFrames without consuming: the query is abandoned.
	for range 2 {
		if err := b.BeginFrame(testFrame()); err != nil {
			t.Fatalf("BeginFrame() error = %v", err)
		}
		if err := b.EndFrame(); err != nil {
			t.Fatalf("EndFrame() error = %v", err)
		}
	}

	if _, err := b.PollQuery(id); !errors.Is(err, backend.ErrUnknownQuery) {
		t.Errorf("PollQuery() after abandonment error = %v, want ErrUnknownQuery", err)
	}
}

func TestDepthImage(t *testing.T) {
	b := initBackend(t)
	if b.DepthImage() != nil {
		t.Error("DepthImage() before any frame should be nil")
	}

	if err := b.BeginFrame(testFrame()); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	if err := b.Draw(unitBox(), at(0, 0, 0)); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if err := b.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}

	img := b.DepthImage()
	if img == nil {
		t.Fatal("DepthImage() = nil after a frame")
	}
	center := img.Gray16At(32, 32).Y
	corner := img.Gray16At(0, 0).Y
	if center >= corner {
		t.Errorf("center depth %d should be nearer (darker) than corner %d", center, corner)
	}
}
