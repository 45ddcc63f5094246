package tree

import (
	"errors"

	"github.com/gogpu/ui"
)

// Builder errors.
var (
	// ErrEndWithoutBegin is returned when End is called with no open scope.
	ErrEndWithoutBegin = errors.New("tree: End without matching Begin")

	// ErrUnclosedScope is returned by Finish while scopes are still open.
	ErrUnclosedScope = errors.New("tree: Finish with unclosed scope")

	// ErrSecondRoot is returned when a second top-level scope is opened
	// in the same frame.
	ErrSecondRoot = errors.New("tree: multiple root scopes in one frame")

	// ErrNoRoot is returned by Finish when no scope was ever opened.
	ErrNoRoot = errors.New("tree: no root declared")
)

// Builder is the explicit cursor used during tree construction. Each
// component invocation opens a scope with Begin, installs its rules and
// commands, recurses into children, and closes the scope with End.
//
// Identity is positional: the i-th scope opened under a parent this frame
// reuses the node that was the parent's i-th child last frame. Children a
// scope stops declaring are pruned when the scope ends.
//
// Builder is not safe for concurrent use; construction is single-threaded
// by design.
type Builder struct {
	store *Store
	stack []NodeID

	// rootDone guards against a second top-level scope in one frame.
	rootDone bool
	err      error
}

// NewBuilder creates a builder writing into store. Call store.BeginFrame
// before building a new frame.
func NewBuilder(store *Store) *Builder {
	return &Builder{store: store}
}

// Begin opens a scope: it creates or reuses the node at the current
// cursor position and makes it the parent of subsequent Begin calls.
// It returns the node's handle for attaching rules and commands.
func (b *Builder) Begin() NodeID {
	if len(b.stack) == 0 {
		if b.rootDone {
			b.fail(ErrSecondRoot)
			return InvalidNode
		}
		id := b.store.root
		if !b.store.Alive(id) {
			id = b.store.alloc(InvalidNode)
			b.store.root = id
		}
		b.stack = append(b.stack, id)
		return id
	}

	parent := b.stack[len(b.stack)-1]
	p := b.store.get(parent)

	var id NodeID
	if p.cursor < len(p.children) {
		id = p.children[p.cursor]
	} else {
		id = b.store.alloc(parent)
		p = b.store.get(parent) // alloc may have grown the arena
		p.children = append(p.children, id)
	}
	p.cursor++
	b.stack = append(b.stack, id)
	return id
}

// End closes the current scope. Children the scope did not re-declare
// this frame are pruned from the arena.
func (b *Builder) End() {
	if len(b.stack) == 0 {
		b.fail(ErrEndWithoutBegin)
		return
	}
	id := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	n := b.store.get(id)
	for _, stale := range n.children[n.cursor:] {
		b.store.prune(stale)
	}
	n.children = n.children[:n.cursor]

	if len(b.stack) == 0 {
		b.rootDone = true
	}
}

// Current returns the innermost open scope, or InvalidNode.
func (b *Builder) Current() NodeID {
	if len(b.stack) == 0 {
		return InvalidNode
	}
	return b.stack[len(b.stack)-1]
}

// Policy installs a custom measurement rule on the current scope.
func (b *Builder) Policy(p ui.MeasurePolicy) {
	if id := b.Current(); id.IsValid() {
		b.store.SetPolicy(id, p)
	}
}

// OnInput installs an input-handling rule on the current scope.
func (b *Builder) OnInput(h InputHandler) {
	if id := b.Current(); id.IsValid() {
		b.store.SetInputHandler(id, h)
	}
}

// Draw attaches a draw command to the current scope.
func (b *Builder) Draw(cmd ui.Command) {
	if id := b.Current(); id.IsValid() {
		b.store.AppendDraw(id, cmd)
	}
}

// Compute attaches a compute command to the current scope.
func (b *Builder) Compute(cmd ui.Command) {
	if id := b.Current(); id.IsValid() {
		b.store.AppendCompute(id, cmd)
	}
}

// Finish validates the build and returns the root node. All scopes must
// be closed and exactly one root declared.
func (b *Builder) Finish() (NodeID, error) {
	if b.err != nil {
		return InvalidNode, b.err
	}
	if len(b.stack) != 0 {
		return InvalidNode, ErrUnclosedScope
	}
	if !b.rootDone {
		return InvalidNode, ErrNoRoot
	}
	return b.store.root, nil
}

// fail records the first builder misuse; Finish reports it.
func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
