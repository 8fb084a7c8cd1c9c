// Package sched implements the visibility-gated render scheduler.
//
// Each frame, the scheduler decides which objects are worth the cost
// of detailed rendering. It sorts candidates nearest-first, issues a
// cheap depth-only probe per object, consumes the previous frame's
// asynchronous query results, and draws detail geometry only for
// objects confirmed visible.
//
// # Frame structure
//
// The canonical loop is [Scheduler.Frame], which runs four phases in
// order:
//
//  1. BeginFrame: sort objects by distance to the viewer, nearest
//     first, so near proxies occlude far ones within the probe batch.
//  2. Resolve: consume query results from the previous frame. A query
//     that is still pending stays outstanding; its object keeps its
//     last-known visibility.
//  3. Probe: submit this frame's probe batch. All probes precede all
//     draws, maximizing device overlap.
//  4. Draw: detail draws for objects whose latest resolved visibility
//     is visible; occluded and unknown objects are skipped.
//
// Results therefore trail probes by one frame. That latency is the
// design point: the control thread never blocks on query completion.
//
// The phases are also exposed individually (BeginFrame, Probe,
// Resolve, Draw, EndFrame) for callers that interleave other work.
//
// # Gating modes
//
// With gating disabled (WithGating(false)), Frame draws every object
// exactly once and bypasses probes and resolves entirely.
//
// The scheduler is driven by a single control thread and is not safe
// for concurrent use; the underlying backend's query polling is.
package sched
