package ui

// Measurable is the engine-provided view of a node's children during
// measurement. Policies measure children through it; the engine decides
// whether a child runs inline or on the worker pool.
//
// A Measurable is only valid for the duration of one policy call and must
// not be retained.
type Measurable interface {
	// Count returns the number of children in paint order.
	Count() int

	// MeasureChild measures child i under the given constraint and blocks
	// until its size is known.
	MeasureChild(i int, c Constraint) Size

	// MeasureAll measures every child under the same constraint,
	// dispatching independent subtrees in parallel, and returns the sizes
	// in paint order.
	MeasureAll(c Constraint) []Size
}

// PolicyResult is a policy's output: the node's own size plus each
// child's position relative to the node's origin.
type PolicyResult struct {
	// Size is the node's resolved size.
	Size Size

	// Offsets holds one local position per child, in paint order.
	// A nil slice places every child at the local origin.
	Offsets []Point
}

// MeasurePolicy is a node's custom measurement rule. Given the incoming
// constraint and the node's children it produces the node's own size and
// each child's local position.
//
// Returning an error aborts layout for this node's subtree only: the node
// is treated as zero-sized, the error is recorded as a per-node
// diagnostic, and siblings are unaffected.
type MeasurePolicy interface {
	MeasureNode(c Constraint, children Measurable) (PolicyResult, error)
}

// PolicyFunc adapts a function to the MeasurePolicy interface.
type PolicyFunc func(c Constraint, children Measurable) (PolicyResult, error)

// MeasureNode implements MeasurePolicy.
func (f PolicyFunc) MeasureNode(c Constraint, children Measurable) (PolicyResult, error) {
	return f(c, children)
}
