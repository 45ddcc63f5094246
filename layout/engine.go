// Package layout drives the two-phase layout of a node tree: a bottom-up
// measure pass resolving constraints into sizes, then a top-down place
// pass assigning absolute positions and clip rectangles.
//
// Sibling subtrees have no data dependency on each other, so the measure
// pass dispatches them onto a shared work-stealing pool. The place pass
// is a cheap single traversal and runs serially unless the tree is wide
// enough to justify forking per subtree.
package layout

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/internal/parallel"
	"github.com/gogpu/ui/tree"
)

// defaultPlaceFanout is the minimum number of root children before the
// place pass forks per subtree.
const defaultPlaceFanout = 16

// Engine runs measure and place over a tree.Store.
//
// An Engine owns a worker pool sized to the machine; create one per
// window or application and reuse it across frames. Engine methods are
// not safe for concurrent use with each other, matching the one-frame-
// at-a-time execution model.
type Engine struct {
	pool        *parallel.Pool
	placeFanout int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the measure pool size. Zero or negative means
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if e.pool != nil {
			e.pool.Close()
		}
		e.pool = parallel.New(n)
	}
}

// WithPlaceFanout sets how many root subtrees it takes before the place
// pass runs them in parallel.
func WithPlaceFanout(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.placeFanout = n
		}
	}
}

// NewEngine creates an engine with a worker pool sized to the machine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		pool:        parallel.New(0),
		placeFanout: defaultPlaceFanout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Close shuts down the worker pool.
func (e *Engine) Close() {
	e.pool.Close()
}

// Measure resolves sizes for the subtree rooted at root under the given
// constraint and returns the root's size plus any per-node measurement
// diagnostics. Diagnostics are non-fatal: a failed subtree is zero-sized
// and the rest of the tree lays out normally.
//
// Measuring twice with an unchanged tree and constraint yields identical
// results.
func (e *Engine) Measure(s *tree.Store, root tree.NodeID, c ui.Constraint) (ui.Size, []*MeasurementError) {
	diags := &diagnostics{}

	// The window's constraint is the outermost budget. An unbounded root
	// axis has nothing to fill, so its budget resolves to zero.
	avail := ui.Size{W: rootAvail(c.Width), H: rootAvail(c.Height)}
	size := e.measureNode(s, root, c, avail, diags)

	errs := diags.take()
	if len(errs) > 0 {
		ui.Logger().Warn("layout: measurement errors", "count", len(errs))
	}
	return size, errs
}

// rootAvail derives the outermost available space for one axis: the
// exact length when fixed, the bound when capped, otherwise nothing.
func rootAvail(a ui.Axis) float64 {
	switch {
	case a.Tight():
		return a.Length
	case a.Bounded:
		return a.Max
	default:
		return 0
	}
}

// measureNode measures one node. avail is the space the parent offers;
// the incoming constraint resolves the node's content size against it.
// Runs on whichever goroutine owns this subtree.
func (e *Engine) measureNode(s *tree.Store, id tree.NodeID, c ui.Constraint, avail ui.Size, diags *diagnostics) ui.Size {
	children := s.Children(id)
	budget := c.Budget(avail)

	var content ui.Size
	var offsets []ui.Point

	if policy := s.Policy(id); policy != nil {
		m := &childMeasurer{
			engine: e,
			store:  s,
			ids:    children,
			avail:  budget,
			diags:  diags,
		}
		res, err := policy.MeasureNode(c, m)
		if err != nil {
			// Zero-size the subtree and keep going; the error is a
			// per-node diagnostic, not a frame failure.
			diags.add(id, err)
			s.MarkFailed(id)
			s.SetSize(id, ui.Size{})
			return ui.Size{}
		}
		content = res.Size
		offsets = res.Offsets
	} else {
		// Default rule: measure every child against the unmodified
		// constraint, size self as the union of children, children at
		// the local origin.
		sizes := e.measureChildren(s, children, c, budget, diags)
		for _, sz := range sizes {
			content = content.Union(sz)
		}
	}

	for i, child := range children {
		var off ui.Point
		if i < len(offsets) {
			off = offsets[i]
		}
		s.SetLocalOffset(child, off)
	}

	size := c.Resolve(content, avail)
	s.SetSize(id, size)
	return size
}

// measureChildren measures every child under the same constraint,
// forking independent subtrees onto the pool. Results are deterministic
// regardless of completion order: each task writes only its own index.
func (e *Engine) measureChildren(s *tree.Store, ids []tree.NodeID, c ui.Constraint, avail ui.Size, diags *diagnostics) []ui.Size {
	switch len(ids) {
	case 0:
		return nil
	case 1:
		return []ui.Size{e.measureNode(s, ids[0], c, avail, diags)}
	}

	sizes := make([]ui.Size, len(ids))
	tasks := make([]func(), len(ids))
	for i, id := range ids {
		tasks[i] = func() {
			sizes[i] = e.measureNode(s, id, c, avail, diags)
		}
	}
	e.pool.Fork(tasks)
	return sizes
}

// childMeasurer implements ui.Measurable for one policy invocation.
type childMeasurer struct {
	engine *Engine
	store  *tree.Store
	ids    []tree.NodeID
	avail  ui.Size
	diags  *diagnostics
}

// Count implements ui.Measurable.
func (m *childMeasurer) Count() int {
	return len(m.ids)
}

// MeasureChild implements ui.Measurable.
func (m *childMeasurer) MeasureChild(i int, c ui.Constraint) ui.Size {
	return m.engine.measureNode(m.store, m.ids[i], c, m.avail, m.diags)
}

// MeasureAll implements ui.Measurable.
func (m *childMeasurer) MeasureAll(c ui.Constraint) []ui.Size {
	return m.engine.measureChildren(m.store, m.ids, c, m.avail, m.diags)
}

// Place assigns absolute positions top-down for the subtree rooted at
// root: each node's position is its parent's position plus the local
// offset computed during measurement. Bounds and clip rectangles
// (intersection with ancestor bounds) are derived at the given scale
// factor. Failed subtrees are left unplaced.
func (e *Engine) Place(s *tree.Store, root tree.NodeID, origin ui.Point, scale float64) {
	if s.Failed(root) {
		return
	}

	size, ok := s.Size(root)
	if !ok {
		return
	}
	bounds := ui.BoundsRect(origin, size, scale)
	s.SetPlacement(root, origin, bounds, bounds)

	children := s.Children(root)
	if len(children) >= e.placeFanout {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for _, child := range children {
			g.Go(func() error {
				e.placeNode(s, child, origin, bounds, scale)
				return nil
			})
		}
		_ = g.Wait() // placement never fails
		return
	}
	for _, child := range children {
		e.placeNode(s, child, origin, bounds, scale)
	}
}

// placeNode recursively places one subtree.
func (e *Engine) placeNode(s *tree.Store, id tree.NodeID, parentPos ui.Point, parentClip ui.Rect, scale float64) {
	if s.Failed(id) {
		return
	}
	size, ok := s.Size(id)
	if !ok {
		return
	}

	pos := parentPos.Add(s.LocalOffset(id))
	bounds := ui.BoundsRect(pos, size, scale)
	clip := bounds.Intersect(parentClip)
	s.SetPlacement(id, pos, bounds, clip)

	for _, child := range s.Children(id) {
		e.placeNode(s, child, pos, clip, scale)
	}
}
