package sched

import "github.com/gogpu/cull/recording"

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithGating enables or disables occlusion gating. With gating off,
// Frame draws every candidate unconditionally and probes are rejected.
// Default is enabled.
func WithGating(enabled bool) Option {
	return func(s *Scheduler) {
		s.gating = enabled
	}
}

// WithMaxProbesPerFrame bounds the probe batch size. Objects beyond
// the budget keep their last-known visibility and are probed in a
// later frame. Zero (the default) means unlimited.
func WithMaxProbesPerFrame(n int) Option {
	return func(s *Scheduler) {
		if n < 0 {
			n = 0
		}
		s.maxProbe = n
	}
}

// WithRecorder attaches a command-stream recorder. A nil recorder
// disables recording (the default).
func WithRecorder(r *recording.Recorder) Option {
	return func(s *Scheduler) {
		s.recorder = r
	}
}
