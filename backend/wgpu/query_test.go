package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/cull/backend"
)

// Query bookkeeping is pure CPU state and testable without a device.

func TestQuerySetLifecycle(t *testing.T) {
	qs := newQuerySet(core.DeviceID{})
	qs.beginFrame()

	s, err := qs.allocate()
	if err != nil {
		t.Fatalf("allocate() error = %v", err)
	}

	if _, err := qs.poll(s.id); !errors.Is(err, backend.ErrQueryPending) {
		t.Errorf("poll() before resolve error = %v, want ErrQueryPending", err)
	}

	qs.resolve()
	res, err := qs.poll(s.id)
	if err != nil {
		t.Fatalf("poll() after resolve error = %v", err)
	}
	if !res.Passed {
		t.Error("staged resolve must report passed (conservative gating)")
	}

	if _, err := qs.poll(s.id); !errors.Is(err, backend.ErrUnknownQuery) {
		t.Errorf("second poll() error = %v, want ErrUnknownQuery", err)
	}
}

func TestQuerySetPrunesAbandonedSlots(t *testing.T) {
	qs := newQuerySet(core.DeviceID{})
	qs.beginFrame()
	s, _ := qs.allocate()
	qs.resolve()

	// One frame of grace, then the slot is abandoned.
	qs.beginFrame()
	qs.beginFrame()

	if _, err := qs.poll(s.id); !errors.Is(err, backend.ErrUnknownQuery) {
		t.Errorf("poll() after abandonment error = %v, want ErrUnknownQuery", err)
	}
}

func TestQueryIDsNeverReused(t *testing.T) {
	qs := newQuerySet(core.DeviceID{})
	seen := make(map[backend.QueryID]bool)
	for range 3 {
		qs.beginFrame()
		for range 4 {
			s, err := qs.allocate()
			if err != nil {
				t.Fatalf("allocate() error = %v", err)
			}
			if seen[s.id] {
				t.Fatalf("query ID %d reused", s.id)
			}
			seen[s.id] = true
		}
		qs.resolve()
	}
}
