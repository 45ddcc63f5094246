// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/ui"
)

// Schedule groups a frame's paint-ordered instructions into the fewest
// GPU passes that preserve visual correctness. The scene-snapshot
// refresh demanded by a global barrier is the most expensive operation
// in the pipeline, so the scheduler's job is to make consecutive
// barriers share one refresh whenever order allows.
//
// The algorithm is a single greedy walk in paint order. Batches execute
// in the order they are opened; an instruction may be placed into any
// open batch as long as:
//
//   - its scissor does not overlap the footprint of any later batch:
//     neither paint of an instruction sitting there (painted earlier,
//     executing after) nor a region such an instruction samples (its
//     snapshot must not see pixels painted after it),
//   - a global-barrier instruction joins only the newest batch and only
//     when every instruction already there is itself global, so all
//     globals in a batch observe the same snapshot,
//   - a padded-local or absolute barrier's sampled region does not
//     overlap anything painted after the candidate batch's snapshot was
//     taken (members of that batch and of every later batch).
//
// Among compatible batches the one with the smallest scissor footprint
// wins, ties going to the most recently opened. Scheduling depends only
// on the input order: no clocks, no goroutines, no map iteration.
func Schedule(instrs []Instruction) []Batch {
	if len(instrs) == 0 {
		return nil
	}

	batches := make([]*Batch, 0, 4)
	for _, in := range instrs {
		j := pickBatch(batches, in)
		if j < 0 {
			batches = append(batches, &Batch{})
			j = len(batches) - 1
		}
		batches[j].add(in)
	}

	out := make([]Batch, len(batches))
	for i, b := range batches {
		out[i] = *b
	}
	return out
}

// pickBatch returns the index of the best compatible open batch, or -1
// when the instruction needs a new one. Ascending iteration with a
// non-strict comparison gives the recency tie-break.
func pickBatch(batches []*Batch, in Instruction) int {
	best := -1
	bestArea := 0
	for j := range batches {
		if !compatible(batches, j, in) {
			continue
		}
		area := batches[j].scissor.Area()
		if best < 0 || area <= bestArea {
			best = j
			bestArea = area
		}
	}
	return best
}

// compatible reports whether instruction in may join batches[j] without
// reordering overlapping paint or reading a stale snapshot.
func compatible(batches []*Batch, j int, in Instruction) bool {
	last := len(batches) - 1

	if in.class() == ui.BarrierGlobal {
		// A global barrier samples the whole scene: everything painted
		// before it must be committed by the time its snapshot is
		// taken. Only the newest batch qualifies, and only while it
		// holds nothing but globals sharing that same snapshot.
		if j != last {
			return false
		}
		for _, placed := range batches[j].Instructions {
			if placed.class() != ui.BarrierGlobal {
				return false
			}
		}
		return true
	}

	// Paint order: everything already placed was painted earlier. An
	// overlap with a later-executing batch's footprint would either flip
	// draw order (its paint) or leak this instruction into a snapshot
	// taken at an earlier paint position (its sampled regions).
	for _, b := range batches[j+1:] {
		if overlapsFootprint(b, in.Scissor) {
			return false
		}
	}

	if in.samplesScene() {
		// The candidate batch's snapshot predates its own members and
		// every later batch; none of that paint may intersect the
		// sampled region.
		for _, b := range batches[j:] {
			if overlapsPaint(b, in.Sample) {
				return false
			}
		}
	}
	return true
}

// overlapsPaint reports whether r overlaps any instruction's painted
// area in b.
func overlapsPaint(b *Batch, r ui.Rect) bool {
	if !b.scissor.Overlaps(r) {
		return false
	}
	for _, placed := range b.Instructions {
		if placed.Scissor.Overlaps(r) {
			return true
		}
	}
	return false
}

// overlapsFootprint reports whether r overlaps anything b paints or
// reads. A member with a global barrier reads the whole scene, so every
// rectangle collides.
func overlapsFootprint(b *Batch, r ui.Rect) bool {
	if b.hasGlobal {
		return true
	}
	if !b.extent.Overlaps(r) {
		return false
	}
	for _, placed := range b.Instructions {
		if placed.Scissor.Overlaps(r) || placed.Sample.Overlaps(r) {
			return true
		}
	}
	return false
}
