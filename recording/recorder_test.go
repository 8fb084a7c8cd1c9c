package recording

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/gogpu/cull"
)

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpBeginFrame, "begin"},
		{OpProbe, "probe"},
		{OpResolve, "resolve"},
		{OpDraw, "draw"},
		{OpSkip, "skip"},
		{OpEndFrame, "end"},
		{Op(99), "Op(99)"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", uint8(tt.op), got, tt.want)
		}
	}
}

func TestRecorderFrameStream(t *testing.T) {
	r := New(8)

	r.BeginFrame(1)
	r.Record(OpProbe, "a", cull.VisibilityUnknown)
	r.Record(OpResolve, "a", cull.VisibilityVisible)
	r.Record(OpDraw, "a", cull.VisibilityVisible)
	r.EndFrame()

	frames := r.Frames()
	if len(frames) != 1 {
		t.Fatalf("len(Frames()) = %d, want 1", len(frames))
	}
	f := frames[0]
	if f.Seq != 1 {
		t.Errorf("Seq = %d, want 1", f.Seq)
	}

	wantOps := []Op{OpBeginFrame, OpProbe, OpResolve, OpDraw, OpEndFrame}
	if len(f.Commands) != len(wantOps) {
		t.Fatalf("len(Commands) = %d, want %d", len(f.Commands), len(wantOps))
	}
	for i, want := range wantOps {
		if f.Commands[i].Op != want {
			t.Errorf("Commands[%d].Op = %v, want %v", i, f.Commands[i].Op, want)
		}
	}
}

func TestRecorderRetentionBound(t *testing.T) {
	r := New(2)
	for seq := uint64(1); seq <= 5; seq++ {
		r.BeginFrame(seq)
		r.EndFrame()
	}

	frames := r.Frames()
	if len(frames) != 2 {
		t.Fatalf("len(Frames()) = %d, want 2", len(frames))
	}
	if frames[0].Seq != 4 || frames[1].Seq != 5 {
		t.Errorf("retained seqs = %d, %d, want 4, 5", frames[0].Seq, frames[1].Seq)
	}
}

func TestRecorderRecordOutsideFrameDropped(t *testing.T) {
	r := New(4)
	r.Record(OpDraw, "a", cull.VisibilityVisible)
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestNilRecorderSafe(t *testing.T) {
	var r *Recorder
	r.BeginFrame(1)
	r.Record(OpProbe, "a", cull.VisibilityUnknown)
	r.EndFrame()
	if r.Len() != 0 {
		t.Errorf("nil recorder Len() = %d, want 0", r.Len())
	}
	if r.Frames() != nil {
		t.Error("nil recorder Frames() should be nil")
	}
}

func TestWriteJSON(t *testing.T) {
	r := New(4)
	r.BeginFrame(7)
	r.Record(OpResolve, "tower", cull.VisibilityOccluded)
	r.EndFrame()

	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	// Visibility and ops serialize by name.
	out := buf.String()
	for _, want := range []string{`"occluded"`, `"resolve"`, `"tower"`} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteJSON output missing %s:\n%s", want, out)
		}
	}

	var frames []Frame
	if err := json.Unmarshal(buf.Bytes(), &frames); err != nil {
		t.Fatalf("round-trip unmarshal error = %v", err)
	}
	if len(frames) != 1 || frames[0].Seq != 7 {
		t.Errorf("round-trip frames = %+v", frames)
	}
}
