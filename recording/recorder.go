// Package recording captures the scheduler's per-frame command stream
// for offline inspection.
//
// A Recorder attached to a scheduler (sched.WithRecorder) receives one
// command per probe, resolve, draw and skip decision. Retained frames
// can be snapshotted with Frames or exported as JSON with WriteJSON.
// All methods are nil-receiver safe, so callers never need to guard
// the disabled case.
package recording

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/gogpu/cull"
)

// Op identifies a recorded scheduler action.
type Op uint8

const (
	// OpBeginFrame opens a frame record.
	OpBeginFrame Op = iota
	// OpProbe is an occlusion probe submission.
	OpProbe
	// OpResolve is a consumed query result.
	OpResolve
	// OpDraw is a detail draw.
	OpDraw
	// OpSkip is a gated-out object (occluded or still unknown).
	OpSkip
	// OpEndFrame closes a frame record.
	OpEndFrame
)

var opNames = [...]string{"begin", "probe", "resolve", "draw", "skip", "end"}

// String returns the op name.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// MarshalText implements encoding.TextMarshaler.
func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Op) UnmarshalText(text []byte) error {
	for i, name := range opNames {
		if name == string(text) {
			*o = Op(i)
			return nil
		}
	}
	return fmt.Errorf("recording: unknown op %q", text)
}

// Command is one recorded scheduler action.
type Command struct {
	Op     Op              `json:"op"`
	Object string          `json:"object,omitempty"`
	Result cull.Visibility `json:"result,omitempty"`
}

// Frame is the command stream of one scheduler frame.
type Frame struct {
	Seq      uint64    `json:"seq"`
	Commands []Command `json:"commands"`
}

// DefaultMaxFrames is the retention bound when none is given.
const DefaultMaxFrames = 64

// Recorder accumulates frame command streams with bounded retention.
// When the bound is exceeded, the oldest frame is dropped.
//
// Recorder is safe for concurrent use, though the scheduler feeding it
// is single-threaded.
type Recorder struct {
	mu        sync.Mutex
	maxFrames int
	frames    []Frame
	current   *Frame
}

// New creates a recorder retaining up to maxFrames frames.
// If maxFrames <= 0, DefaultMaxFrames is used.
func New(maxFrames int) *Recorder {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	return &Recorder{maxFrames: maxFrames}
}

// BeginFrame opens a new frame record. An unfinished previous frame is
// closed implicitly.
func (r *Recorder) BeginFrame(seq uint64) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		r.pushLocked(*r.current)
	}
	r.current = &Frame{
		Seq:      seq,
		Commands: getCommands(),
	}
	r.current.Commands = append(r.current.Commands, Command{Op: OpBeginFrame})
}

// Record appends a command to the current frame. Records outside a
// frame are dropped.
func (r *Recorder) Record(op Op, object string, result cull.Visibility) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return
	}
	r.current.Commands = append(r.current.Commands, Command{
		Op:     op,
		Object: object,
		Result: result,
	})
}

// EndFrame closes the current frame record.
func (r *Recorder) EndFrame() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return
	}
	r.current.Commands = append(r.current.Commands, Command{Op: OpEndFrame})
	r.pushLocked(*r.current)
	r.current = nil
}

// pushLocked appends a finished frame, evicting the oldest past the
// retention bound. Evicted command slices return to the pool.
func (r *Recorder) pushLocked(f Frame) {
	r.frames = append(r.frames, f)
	for len(r.frames) > r.maxFrames {
		putCommands(r.frames[0].Commands)
		r.frames = r.frames[1:]
	}
}

// Len returns the number of retained finished frames.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Frames returns a snapshot of the retained frames, oldest first.
func (r *Recorder) Frames() []Frame {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Frame, len(r.frames))
	for i, f := range r.frames {
		out[i] = Frame{
			Seq:      f.Seq,
			Commands: append([]Command(nil), f.Commands...),
		}
	}
	return out
}

// WriteJSON writes the retained frames as a JSON array.
func (r *Recorder) WriteJSON(w io.Writer) error {
	frames := r.Frames()
	if frames == nil {
		frames = []Frame{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(frames)
}
