package ui

// AxisMode selects how a single axis of a constraint resolves.
type AxisMode uint8

const (
	// AxisFixed resolves to an exact length regardless of content or
	// available space.
	AxisFixed AxisMode = iota

	// AxisWrapContent resolves to the measured content size, clamped to
	// an optional upper bound inherited from the parent.
	AxisWrapContent

	// AxisFill resolves to the parent's available space (or the optional
	// upper bound) regardless of content size.
	AxisFill
)

// axisModeNames maps AxisMode values to their string representation.
var axisModeNames = [...]string{
	AxisFixed:       "Fixed",
	AxisWrapContent: "WrapContent",
	AxisFill:        "Fill",
}

// String returns the string representation of an AxisMode.
func (m AxisMode) String() string {
	if int(m) < len(axisModeNames) {
		return axisModeNames[m]
	}
	return "Unknown"
}

// Axis is a sizing instruction for one dimension, passed from parent to
// child during measurement.
type Axis struct {
	// Mode selects the resolution rule.
	Mode AxisMode

	// Length is the exact extent for AxisFixed, in device-independent
	// pixels.
	Length float64

	// Max caps the resolved extent for AxisWrapContent and AxisFill.
	// Only meaningful when Bounded is true.
	Max float64

	// Bounded reports whether Max applies.
	Bounded bool
}

// Fixed returns an axis that always resolves to n. Negative lengths are
// clamped to zero.
func Fixed(n float64) Axis {
	if n < 0 {
		n = 0
	}
	return Axis{Mode: AxisFixed, Length: n}
}

// Wrap returns an unbounded shrink-to-fit axis.
func Wrap() Axis {
	return Axis{Mode: AxisWrapContent}
}

// WrapMax returns a shrink-to-fit axis capped at max.
func WrapMax(max float64) Axis {
	if max < 0 {
		max = 0
	}
	return Axis{Mode: AxisWrapContent, Max: max, Bounded: true}
}

// Fill returns an axis that consumes all available space.
func Fill() Axis {
	return Axis{Mode: AxisFill}
}

// FillMax returns a fill axis capped at max.
func FillMax(max float64) Axis {
	if max < 0 {
		max = 0
	}
	return Axis{Mode: AxisFill, Max: max, Bounded: true}
}

// Resolve computes the concrete extent for this axis given the measured
// content extent and the space the parent has available. The result is
// never negative.
//
// For AxisFill the result ignores content entirely: a Fill child inside a
// wrap-content parent resolves against the parent's available-space
// budget at measurement time, not the parent's final size.
func (a Axis) Resolve(content, available float64) float64 {
	var out float64
	switch a.Mode {
	case AxisFixed:
		out = a.Length
	case AxisWrapContent:
		out = content
		if a.Bounded && out > a.Max {
			out = a.Max
		}
	case AxisFill:
		out = available
		if a.Bounded && out > a.Max {
			out = a.Max
		}
	}
	if out < 0 {
		out = 0
	}
	return out
}

// Budget returns the space this axis offers to children: the exact length
// for AxisFixed, otherwise the smaller of the inherited available space
// and the axis bound.
func (a Axis) Budget(available float64) float64 {
	switch a.Mode {
	case AxisFixed:
		return a.Length
	default:
		if a.Bounded && a.Max < available {
			return a.Max
		}
		return available
	}
}

// Tight reports whether the axis carries one concrete length.
func (a Axis) Tight() bool {
	return a.Mode == AxisFixed
}

// Constraint is a per-node sizing instruction: one Axis per dimension.
type Constraint struct {
	Width, Height Axis
}

// Exact returns a constraint fixing both dimensions. This is the
// constraint a window hands to the tree root.
func Exact(w, h float64) Constraint {
	return Constraint{Width: Fixed(w), Height: Fixed(h)}
}

// Tight reports whether both axes carry concrete lengths.
func (c Constraint) Tight() bool {
	return c.Width.Tight() && c.Height.Tight()
}

// Resolve computes the node's concrete size from its measured content
// size and the available space budget.
func (c Constraint) Resolve(content, available Size) Size {
	return Size{
		W: c.Width.Resolve(content.W, available.W),
		H: c.Height.Resolve(content.H, available.H),
	}
}

// Budget returns the space this constraint offers to children.
func (c Constraint) Budget(available Size) Size {
	return Size{
		W: c.Width.Budget(available.W),
		H: c.Height.Budget(available.H),
	}
}
