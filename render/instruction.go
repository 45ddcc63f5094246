// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/ui"
	"github.com/gogpu/ui/tree"
)

// Instruction is the scheduler's working unit: one command with its
// resolved scissor rectangle and its position in paint order.
// Instructions are immutable once collected.
type Instruction struct {
	// Cmd is the collected command.
	Cmd ui.Command

	// Node is the node that emitted the command, for diagnostics.
	Node tree.NodeID

	// Index is the command's position in paint order, unique per frame.
	Index int

	// Scissor is the rectangle the command draws into: the emitting
	// node's clipped bounds in physical pixels.
	Scissor ui.Rect

	// Sample is the scene region the command reads, when its barrier is
	// padded-local or absolute. Empty for none/global barriers (global
	// reads the whole scene).
	Sample ui.Rect
}

// NewInstruction resolves a collected command against its node's clipped
// bounds and paint position.
func NewInstruction(cmd ui.Command, node tree.NodeID, bounds ui.Rect, index int) Instruction {
	in := Instruction{
		Cmd:     cmd,
		Node:    node,
		Index:   index,
		Scissor: bounds,
	}
	switch b := cmd.Barrier(); b.Class {
	case ui.BarrierPaddedLocal:
		in.Sample = bounds.Expand(b.Padding)
	case ui.BarrierAbsolute:
		in.Sample = b.Region
	}
	return in
}

// class returns the command's barrier class.
func (in Instruction) class() ui.BarrierClass {
	return in.Cmd.Barrier().Class
}

// samplesScene reports whether the command reads previously rendered
// pixels.
func (in Instruction) samplesScene() bool {
	return in.Cmd.Barrier().SamplesScene()
}

// Batch is one GPU pass: an ordered group of instructions sharing a
// scene-snapshot state. Instructions keep their original paint order
// within the batch.
type Batch struct {
	// Instructions, in paint order.
	Instructions []Instruction

	// NeedsSnapshot marks that the scene snapshot must be refreshed
	// before the batch executes.
	NeedsSnapshot bool

	// SnapshotAll requests a full-scene copy. When false and
	// NeedsSnapshot is true, SnapshotRegion bounds the copy.
	SnapshotAll bool

	// SnapshotRegion is the union of the batch's sampled regions, for
	// the cheaper region-limited copy when no barrier is global.
	SnapshotRegion ui.Rect

	// scissor is the union of instruction scissors, cached as
	// instructions are added.
	scissor ui.Rect

	// extent is the union of instruction scissors and sampled regions:
	// the full screen footprint the batch paints or reads.
	extent ui.Rect

	// hasGlobal marks that a member samples the whole scene, making the
	// batch's read footprint unbounded.
	hasGlobal bool
}

// Scissor returns the union of the batch's instruction scissors: the
// pass-level scissor rectangle.
func (b *Batch) Scissor() ui.Rect {
	return b.scissor
}

// add appends an instruction, extending the batch's scissor, footprint
// and snapshot state.
func (b *Batch) add(in Instruction) {
	if len(b.Instructions) == 0 {
		b.scissor = in.Scissor
		b.extent = in.Scissor
	} else {
		b.scissor = b.scissor.Union(in.Scissor)
		b.extent = b.extent.Union(in.Scissor)
	}
	b.Instructions = append(b.Instructions, in)

	if !in.samplesScene() {
		return
	}
	b.NeedsSnapshot = true
	if in.class() == ui.BarrierGlobal {
		b.SnapshotAll = true
		b.hasGlobal = true
		return
	}
	b.extent = b.extent.Union(in.Sample)
	if b.SnapshotRegion.Empty() {
		b.SnapshotRegion = in.Sample
	} else {
		b.SnapshotRegion = b.SnapshotRegion.Union(in.Sample)
	}
}
