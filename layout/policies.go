package layout

import (
	"github.com/gogpu/ui"
)

// Sized returns a policy reporting a fixed content size. The incoming
// constraint still governs: a Fixed parent axis overrides the requested
// extent, a bounded wrap clamps it. Children, if any, are measured
// against a loose constraint and placed at the local origin.
func Sized(w, h float64) ui.MeasurePolicy {
	return ui.PolicyFunc(func(c ui.Constraint, children ui.Measurable) (ui.PolicyResult, error) {
		if children.Count() > 0 {
			children.MeasureAll(Loose())
		}
		return ui.PolicyResult{Size: ui.Size{W: w, H: h}}, nil
	})
}

// Row returns a policy laying children out left to right with the given
// gap between adjacent children. Content width is the sum of child
// widths plus gaps; content height is the tallest child.
func Row(gap float64) ui.MeasurePolicy {
	return ui.PolicyFunc(func(c ui.Constraint, children ui.Measurable) (ui.PolicyResult, error) {
		sizes := children.MeasureAll(Loose())
		offsets := make([]ui.Point, len(sizes))

		var x, maxH float64
		for i, sz := range sizes {
			if i > 0 {
				x += gap
			}
			offsets[i] = ui.Point{X: x}
			x += sz.W
			if sz.H > maxH {
				maxH = sz.H
			}
		}
		return ui.PolicyResult{Size: ui.Size{W: x, H: maxH}, Offsets: offsets}, nil
	})
}

// Column returns a policy laying children out top to bottom with the
// given gap between adjacent children.
func Column(gap float64) ui.MeasurePolicy {
	return ui.PolicyFunc(func(c ui.Constraint, children ui.Measurable) (ui.PolicyResult, error) {
		sizes := children.MeasureAll(Loose())
		offsets := make([]ui.Point, len(sizes))

		var y, maxW float64
		for i, sz := range sizes {
			if i > 0 {
				y += gap
			}
			offsets[i] = ui.Point{Y: y}
			y += sz.H
			if sz.W > maxW {
				maxW = sz.W
			}
		}
		return ui.PolicyResult{Size: ui.Size{W: maxW, H: y}, Offsets: offsets}, nil
	})
}

// Padded returns a policy that insets its children by the given padding
// on every side. Children are laid out as by the default rule, all
// shifted by the padding.
func Padded(pad float64) ui.MeasurePolicy {
	if pad < 0 {
		pad = 0
	}
	return ui.PolicyFunc(func(c ui.Constraint, children ui.Measurable) (ui.PolicyResult, error) {
		sizes := children.MeasureAll(Loose())

		var content ui.Size
		offsets := make([]ui.Point, len(sizes))
		for i, sz := range sizes {
			content = content.Union(sz)
			offsets[i] = ui.Point{X: pad, Y: pad}
		}
		content.W += 2 * pad
		content.H += 2 * pad
		return ui.PolicyResult{Size: content, Offsets: offsets}, nil
	})
}

// Loose returns the unbounded shrink-to-fit constraint container
// policies hand to their children.
func Loose() ui.Constraint {
	return ui.Constraint{Width: ui.Wrap(), Height: ui.Wrap()}
}
