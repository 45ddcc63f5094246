// Package tree provides the node arena underlying the frame pipeline:
// tree topology, per-node metadata, and the builder used during tree
// construction.
//
// The arena is index-based: a NodeID is a handle into a slice of slots,
// never a pointer. Parallel measurement of sibling subtrees writes to
// disjoint slots, so per-frame metadata needs no locking; the tree
// structure itself guarantees no two workers ever target the same node.
package tree

import (
	"github.com/gogpu/ui"
)

// NodeID is an opaque handle to a node in the arena.
// The zero value is invalid.
type NodeID uint32

// InvalidNode is the zero NodeID.
const InvalidNode NodeID = 0

// IsValid reports whether the handle refers to a node.
func (id NodeID) IsValid() bool {
	return id != InvalidNode
}

// InputHandler is a node's input-handling rule. The frame executor invokes
// it between layout and command collection with the node's placed bounds,
// so state mutated here can affect this frame's collected commands.
type InputHandler func(bounds ui.Rect)

// node is one arena slot. All fields are owned by the store; external
// code reads and writes them through Store accessors.
type node struct {
	id       NodeID
	parent   NodeID
	children []NodeID

	// alive is false once the owning scope stopped declaring this node;
	// dead slots stay in the arena but are skipped everywhere.
	alive bool

	// cursor counts children re-declared this frame; used by the builder
	// for positional identity reuse and end-of-scope pruning.
	cursor int

	// Rules installed by the component during its execution.
	policy ui.MeasurePolicy
	input  InputHandler

	// Per-frame layout results. size/pos are valid only when the
	// corresponding flag is set; BeginFrame clears them.
	size     ui.Size
	measured bool
	local    ui.Point
	pos      ui.Point
	placed   bool
	bounds   ui.Rect
	clip     ui.Rect

	// failed marks a subtree aborted by a measurement error; it is
	// zero-sized and excluded from collection for this frame.
	failed bool

	// Commands attached by the component, in attachment order.
	draws    []ui.Command
	computes []ui.Command
}
