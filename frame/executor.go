// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package frame ties the per-frame pipeline together: rebuild the tree,
// run layout, fire input handlers, collect draw and compute commands in
// paint order, schedule them into batches and execute the batches
// against a render backend.
package frame

import (
	"fmt"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/layout"
	"github.com/gogpu/ui/render"
	"github.com/gogpu/ui/tree"
)

// BuildFunc declares one frame's tree through the builder. It runs
// every frame; nodes keep their identity across frames by position.
type BuildFunc func(b *tree.Builder)

// Executor drives frames against one backend. It owns the node store,
// the layout engine and the previous-scene snapshot state; everything
// after the measure pass runs on the calling goroutine, since GPU
// submission is serial per surface.
type Executor struct {
	backend render.Backend
	engine  *layout.Engine
	store   *tree.Store
	scale   float64

	// short-circuit state from the previous frame
	prevInstrs   int
	prevRootSize ui.Size

	instrs []render.Instruction
}

// Option configures an Executor.
type Option func(*Executor)

// WithScale sets the device scale factor mapping device-independent
// pixels to physical pixels. Zero or negative means 1.
func WithScale(scale float64) Option {
	return func(e *Executor) {
		if scale > 0 {
			e.scale = scale
		}
	}
}

// WithEngine replaces the default layout engine, for sharing one worker
// pool across windows.
func WithEngine(engine *layout.Engine) Option {
	return func(e *Executor) {
		if engine != nil {
			e.engine.Close()
			e.engine = engine
		}
	}
}

// New creates an executor over an initialized backend.
func New(backend render.Backend, opts ...Option) *Executor {
	e := &Executor{
		backend: backend,
		engine:  layout.NewEngine(),
		store:   tree.NewStore(),
		scale:   1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the node store, for inspection in tests and tooling.
func (e *Executor) Store() *tree.Store {
	return e.store
}

// Resize forwards the new physical-pixel size to the backend.
func (e *Executor) Resize(width, height int) error {
	return e.backend.Resize(width, height)
}

// Close releases the layout engine's worker pool. The backend is owned
// by the caller and is not closed.
func (e *Executor) Close() {
	e.engine.Close()
}

// Frame runs one complete frame: build, measure, place, input,
// collection, scheduling and execution under the window constraint.
//
// Measurement diagnostics are non-fatal; the affected subtrees render
// nothing this frame. A returned error aborts the frame's submission —
// on render.ErrSurfaceLost or render.ErrSurfaceOutdated the caller
// resizes if needed and retries on the next tick. The store is reset at
// the start of every frame regardless of the previous frame's outcome.
func (e *Executor) Frame(build BuildFunc, c ui.Constraint) ([]*layout.MeasurementError, error) {
	e.store.BeginFrame()
	b := tree.NewBuilder(e.store)
	build(b)
	root, err := b.Finish()
	if err != nil {
		return nil, fmt.Errorf("frame: build: %w", err)
	}

	size, diags := e.engine.Measure(e.store, root, c)
	e.engine.Place(e.store, root, ui.Point{}, e.scale)

	// Input runs between layout and collection so state mutated by a
	// handler affects this frame's commands.
	e.dispatchInput(root)

	instrs := e.collect(root)

	// Idle frames skip scheduling and submission entirely.
	if len(instrs) == 0 && e.prevInstrs == 0 && size == e.prevRootSize {
		return diags, nil
	}
	e.prevInstrs = len(instrs)
	e.prevRootSize = size

	batches := render.Schedule(instrs)
	if err := e.execute(batches); err != nil {
		// Drop whatever the aborted frame recorded so it cannot ride
		// along with the next frame's submission.
		e.backend.Discard()
		return diags, err
	}
	return diags, nil
}

// dispatchInput fires input handlers in paint order with each node's
// placed bounds. Failed subtrees have no valid bounds and are skipped.
func (e *Executor) dispatchInput(root tree.NodeID) {
	e.store.Walk(root, func(id tree.NodeID) bool {
		if e.store.Failed(id) {
			return false
		}
		if h := e.store.InputHandlerFor(id); h != nil {
			h(e.store.Bounds(id))
		}
		return true
	})
}

// collect gathers commands in paint order. Failed subtrees and nodes
// clipped to nothing contribute no instructions.
func (e *Executor) collect(root tree.NodeID) []render.Instruction {
	e.instrs = e.instrs[:0]
	index := 0
	e.store.Walk(root, func(id tree.NodeID) bool {
		if e.store.Failed(id) {
			return false
		}
		clip := e.store.Clip(id)
		if clip.Empty() {
			return true
		}
		for _, cmd := range e.store.Draws(id) {
			e.instrs = append(e.instrs, render.NewInstruction(cmd, id, clip, index))
			index++
		}
		for _, cmd := range e.store.Computes(id) {
			e.instrs = append(e.instrs, render.NewInstruction(cmd, id, clip, index))
			index++
		}
		return true
	})
	return e.instrs
}

// execute runs scheduled batches in order and submits the frame.
// Nothing is submitted for an empty schedule.
func (e *Executor) execute(batches []render.Batch) error {
	if len(batches) == 0 {
		return nil
	}
	for i := range batches {
		b := &batches[i]
		if b.NeedsSnapshot {
			var region ui.Rect
			if !b.SnapshotAll {
				region = b.SnapshotRegion
			}
			if err := e.backend.RefreshScene(region); err != nil {
				return fmt.Errorf("frame: scene snapshot: %w", err)
			}
		}
		if err := e.executeBatch(b); err != nil {
			return err
		}
	}
	return e.backend.Flush()
}

// executeBatch prepares each kind's instructions in one call, then
// issues every instruction in paint order, opening a fresh pass
// whenever the phase flips between draw and compute.
func (e *Executor) executeBatch(b *render.Batch) error {
	byKind := make(map[ui.CommandKind][]render.Instruction)
	kinds := make([]ui.CommandKind, 0, 4)
	for _, in := range b.Instructions {
		k := in.Cmd.Kind()
		if _, seen := byKind[k]; !seen {
			kinds = append(kinds, k)
		}
		byKind[k] = append(byKind[k], in)
	}

	pipes := make(map[ui.CommandKind]render.Pipeline, len(kinds))
	for _, k := range kinds {
		group := byKind[k]
		p, err := render.Dispatch(group[0].Cmd)
		if err != nil {
			// Unreachable when startup validation ran.
			return fmt.Errorf("frame: %w", err)
		}
		if err := p.Prepare(group); err != nil {
			return fmt.Errorf("frame: prepare %q: %w", k, err)
		}
		pipes[k] = p
	}

	var scene render.TextureView
	if b.NeedsSnapshot {
		if t := e.backend.Scene(); t != nil {
			scene = t.View()
		}
	}

	var pass render.Pass
	var phase ui.CommandPhase
	for _, in := range b.Instructions {
		if pass == nil || in.Cmd.Phase() != phase {
			if pass != nil {
				if err := e.backend.EndPass(pass); err != nil {
					return fmt.Errorf("frame: end pass: %w", err)
				}
			}
			phase = in.Cmd.Phase()
			var err error
			pass, err = e.backend.BeginPass(phase, b.Scissor())
			if err != nil {
				return fmt.Errorf("frame: begin pass: %w", err)
			}
		}

		var view render.TextureView
		if in.Cmd.Barrier().SamplesScene() {
			view = scene
		}
		if err := pipes[in.Cmd.Kind()].Issue(pass, in, view); err != nil {
			return fmt.Errorf("frame: issue %q: %w", in.Cmd.Kind(), err)
		}
	}
	if pass != nil {
		if err := e.backend.EndPass(pass); err != nil {
			return fmt.Errorf("frame: end pass: %w", err)
		}
	}
	return nil
}
