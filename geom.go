package ui

import "math"

// Point is a position in device-independent pixels.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Size is a width/height pair in device-independent pixels.
// A Size is never negative; constructors and layout clamp at zero.
type Size struct {
	W, H float64
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool {
	return s.W == 0 && s.H == 0
}

// Union returns the smallest size covering both s and t.
func (s Size) Union(t Size) Size {
	return Size{W: math.Max(s.W, t.W), H: math.Max(s.H, t.H)}
}

// Clamp limits both dimensions to at most max. Dimensions of max that are
// negative are treated as unbounded.
func (s Size) Clamp(max Size) Size {
	out := s
	if max.W >= 0 && out.W > max.W {
		out.W = max.W
	}
	if max.H >= 0 && out.H > max.H {
		out.H = max.H
	}
	return out
}

// Rect is an axis-aligned rectangle in integer physical pixels.
// It is the unit of scissor and snapshot-region arithmetic.
//
// A Rect with non-positive width or height is empty. The zero value is the
// empty rectangle at the origin.
type Rect struct {
	X, Y, W, H int
}

// MakeRect builds a Rect from origin and size, clamping negative dimensions
// to zero.
func MakeRect(x, y, w, h int) Rect {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// MaxX returns the exclusive right edge.
func (r Rect) MaxX() int { return r.X + r.W }

// MaxY returns the exclusive bottom edge.
func (r Rect) MaxY() int { return r.Y + r.H }

// Overlaps reports whether r and s share at least one pixel.
// Empty rectangles overlap nothing.
func (r Rect) Overlaps(s Rect) bool {
	if r.Empty() || s.Empty() {
		return false
	}
	return r.X < s.MaxX() && s.X < r.MaxX() && r.Y < s.MaxY() && s.Y < r.MaxY()
}

// Intersect returns the overlapping region of r and s.
// Returns the empty Rect when they do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	x0 := max(r.X, s.X)
	y0 := max(r.Y, s.Y)
	x1 := min(r.MaxX(), s.MaxX())
	y1 := min(r.MaxY(), s.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the smallest rectangle covering both r and s.
// The union with an empty rectangle is the other rectangle.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	x0 := min(r.X, s.X)
	y0 := min(r.Y, s.Y)
	x1 := max(r.MaxX(), s.MaxX())
	y1 := max(r.MaxY(), s.MaxY())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Expand grows the rectangle by pad pixels on every side.
// Expanding an empty rectangle yields an empty rectangle.
func (r Rect) Expand(pad int) Rect {
	if r.Empty() {
		return r
	}
	if pad < 0 {
		pad = 0
	}
	return Rect{X: r.X - pad, Y: r.Y - pad, W: r.W + 2*pad, H: r.H + 2*pad}
}

// Area returns the number of pixels covered.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// BoundsRect converts a measured box (absolute position and size in
// device-independent pixels) to an integer pixel rectangle at the given
// scale factor, rounding outward so content is never clipped.
func BoundsRect(pos Point, size Size, scale float64) Rect {
	if scale <= 0 {
		scale = 1
	}
	x0 := int(math.Floor(pos.X * scale))
	y0 := int(math.Floor(pos.Y * scale))
	x1 := int(math.Ceil((pos.X + size.W) * scale))
	y1 := int(math.Ceil((pos.Y + size.H) * scale))
	return MakeRect(x0, y0, x1-x0, y1-y0)
}
