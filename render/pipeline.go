// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/ui"
)

// Pipeline executes the commands of one kind. Concrete pipelines (shape,
// text, image, blur) live outside this package; they are registered at
// startup and looked up by command kind every frame.
//
// Per batch, the executor first calls Prepare once with every like-kind
// instruction in the batch so the pipeline can upload per-instance data
// in one go, then calls Issue for each instruction in paint order.
type Pipeline interface {
	// Kind returns the command kind this pipeline executes.
	Kind() ui.CommandKind

	// Access returns the barrier class this pipeline's commands declare:
	// BarrierNone for plain draws, BarrierGlobal or BarrierPaddedLocal
	// for scene-sampling effects, BarrierAbsolute for explicit regions.
	// The per-command Barrier remains authoritative at schedule time.
	Access() ui.BarrierClass

	// Prepare uploads GPU-side data for a batch of like-kind
	// instructions. Called once per batch before any Issue.
	Prepare(instrs []Instruction) error

	// Issue encodes the draw or compute call for one instruction. scene
	// is the snapshot view for scene-sampling pipelines, nil otherwise;
	// it must not be retained past the call.
	Issue(p Pass, instr Instruction, scene TextureView) error
}
