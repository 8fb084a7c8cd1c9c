package sched

import "time"

// FrameStats contains the scheduler's counters for one frame.
type FrameStats struct {
	// Frame is the frame sequence number, starting at 1.
	Frame uint64

	// Objects is the number of candidates considered.
	Objects int

	// Probe statistics
	ProbesIssued   int
	ProbesDeferred int

	// Query statistics
	QueriesResolved    int
	QueriesPending     int
	QueriesOutstanding int

	// Draw statistics
	ObjectsDrawn   int
	ObjectsSkipped int // resolved occluded
	ObjectsUnknown int // no resolved probe yet

	// Timing (for the last frame)
	TimeTotal time.Duration
	FrameTime time.Duration
	FPS       float64
}

// Culled returns the fraction of candidates that were gated out this
// frame, in [0, 1]. Zero when there were no candidates.
func (st FrameStats) Culled() float64 {
	if st.Objects == 0 {
		return 0
	}
	return float64(st.ObjectsSkipped+st.ObjectsUnknown) / float64(st.Objects)
}
