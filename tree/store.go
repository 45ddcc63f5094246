package tree

import (
	"github.com/gogpu/ui"
)

// Store is the append-only arena holding tree topology and per-node
// metadata (size, position, attached commands). It carries no layout or
// scheduling logic.
//
// Concurrency: during the measure phase, workers measuring sibling
// subtrees write size metadata for disjoint NodeIDs. Slots live in a
// slice that never grows while measurement is running, so those writes
// need no locking. Everything else runs on the frame's coordinating
// goroutine.
type Store struct {
	// nodes[0] is a sentinel so that NodeID matches its index.
	nodes []node
	root  NodeID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nodes: make([]node, 1)}
}

// Root returns the root node, or InvalidNode before the first build.
func (s *Store) Root() NodeID {
	return s.root
}

// Len returns the number of live nodes.
func (s *Store) Len() int {
	n := 0
	for i := 1; i < len(s.nodes); i++ {
		if s.nodes[i].alive {
			n++
		}
	}
	return n
}

// BeginFrame clears stale per-frame fields (size, position, commands,
// rules, failure marks) on every live node while preserving identity.
// It must be called before tree construction for the new frame.
func (s *Store) BeginFrame() {
	for i := 1; i < len(s.nodes); i++ {
		n := &s.nodes[i]
		if !n.alive {
			continue
		}
		n.cursor = 0
		n.policy = nil
		n.input = nil
		n.size = ui.Size{}
		n.measured = false
		n.local = ui.Point{}
		n.pos = ui.Point{}
		n.placed = false
		n.bounds = ui.Rect{}
		n.clip = ui.Rect{}
		n.failed = false
		n.draws = n.draws[:0]
		n.computes = n.computes[:0]
	}
}

// alloc appends a fresh node under parent and returns its handle.
func (s *Store) alloc(parent NodeID) NodeID {
	id := NodeID(len(s.nodes))
	s.nodes = append(s.nodes, node{id: id, parent: parent, alive: true})
	return id
}

// get panics on an invalid handle; all public accessors funnel through
// it so misuse fails loudly rather than corrupting a neighbor slot.
func (s *Store) get(id NodeID) *node {
	if id == InvalidNode || int(id) >= len(s.nodes) {
		panic("tree: invalid NodeID")
	}
	return &s.nodes[id]
}

// Alive reports whether the node is part of the current tree.
func (s *Store) Alive(id NodeID) bool {
	return id.IsValid() && int(id) < len(s.nodes) && s.nodes[id].alive
}

// Parent returns the node's parent, or InvalidNode for the root.
func (s *Store) Parent(id NodeID) NodeID {
	return s.get(id).parent
}

// Children returns the node's children in paint order. The returned
// slice is owned by the store and must not be mutated.
func (s *Store) Children(id NodeID) []NodeID {
	return s.get(id).children
}

// SetPolicy installs a custom measurement rule for this frame.
func (s *Store) SetPolicy(id NodeID, p ui.MeasurePolicy) {
	s.get(id).policy = p
}

// Policy returns the node's measurement rule, or nil for the default.
func (s *Store) Policy(id NodeID) ui.MeasurePolicy {
	return s.get(id).policy
}

// SetInputHandler installs an input-handling rule for this frame.
func (s *Store) SetInputHandler(id NodeID, h InputHandler) {
	s.get(id).input = h
}

// InputHandlerFor returns the node's input rule, or nil.
func (s *Store) InputHandlerFor(id NodeID) InputHandler {
	return s.get(id).input
}

// AppendDraw attaches a draw command to the node.
func (s *Store) AppendDraw(id NodeID, cmd ui.Command) {
	n := s.get(id)
	n.draws = append(n.draws, cmd)
}

// AppendCompute attaches a compute command to the node.
func (s *Store) AppendCompute(id NodeID, cmd ui.Command) {
	n := s.get(id)
	n.computes = append(n.computes, cmd)
}

// Draws returns the node's draw commands in attachment order.
func (s *Store) Draws(id NodeID) []ui.Command {
	return s.get(id).draws
}

// Computes returns the node's compute commands in attachment order.
func (s *Store) Computes(id NodeID) []ui.Command {
	return s.get(id).computes
}

// SetSize records the node's measured size. Called concurrently from
// measure workers; each worker owns a disjoint set of NodeIDs.
func (s *Store) SetSize(id NodeID, size ui.Size) {
	n := s.get(id)
	n.size = size
	n.measured = true
}

// Size returns the measured size and whether measurement has run.
func (s *Store) Size(id NodeID) (ui.Size, bool) {
	n := s.get(id)
	return n.size, n.measured
}

// SetLocalOffset records the node's position relative to its parent's
// origin, as computed by the parent's measurement rule. Written by
// measure workers; each worker owns a disjoint set of NodeIDs.
func (s *Store) SetLocalOffset(id NodeID, off ui.Point) {
	s.get(id).local = off
}

// LocalOffset returns the node's position relative to its parent.
func (s *Store) LocalOffset(id NodeID) ui.Point {
	return s.get(id).local
}

// SetPlacement records the node's absolute position together with its
// derived pixel bounds and clip rectangle.
func (s *Store) SetPlacement(id NodeID, pos ui.Point, bounds, clip ui.Rect) {
	n := s.get(id)
	n.pos = pos
	n.placed = true
	n.bounds = bounds
	n.clip = clip
}

// Position returns the absolute position and whether placement has run.
func (s *Store) Position(id NodeID) (ui.Point, bool) {
	n := s.get(id)
	return n.pos, n.placed
}

// Bounds returns the node's placed bounds in physical pixels.
func (s *Store) Bounds(id NodeID) ui.Rect {
	return s.get(id).bounds
}

// Clip returns the node's clip rectangle: its bounds intersected with
// every ancestor's bounds.
func (s *Store) Clip(id NodeID) ui.Rect {
	return s.get(id).clip
}

// MarkFailed flags the node's subtree as aborted by a measurement error.
func (s *Store) MarkFailed(id NodeID) {
	s.get(id).failed = true
}

// Failed reports whether the node's subtree was aborted this frame.
func (s *Store) Failed(id NodeID) bool {
	return s.get(id).failed
}

// Walk visits id and its descendants in paint order (preorder). The
// visit function returns false to skip the node's subtree.
func (s *Store) Walk(id NodeID, visit func(NodeID) bool) {
	n := s.get(id)
	if !n.alive {
		return
	}
	if !visit(id) {
		return
	}
	for _, c := range n.children {
		s.Walk(c, visit)
	}
}

// prune marks the subtree rooted at id dead. Slots are not reclaimed;
// the arena is append-only.
func (s *Store) prune(id NodeID) {
	n := s.get(id)
	n.alive = false
	n.draws = nil
	n.computes = nil
	n.policy = nil
	n.input = nil
	for _, c := range n.children {
		s.prune(c)
	}
	n.children = nil
}
