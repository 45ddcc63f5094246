package layout

import (
	"errors"
	"testing"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/tree"
)

// buildTree runs one build callback against a fresh store.
func buildTree(t *testing.T, declare func(b *tree.Builder)) (*tree.Store, tree.NodeID) {
	t.Helper()

	s := tree.NewStore()
	b := tree.NewBuilder(s)
	declare(b)
	root, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	return s, root
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine()
	t.Cleanup(e.Close)
	return e
}

func TestDefaultRuleUnionOfChildren(t *testing.T) {
	s, root := buildTree(t, func(b *tree.Builder) {
		b.Begin()
		b.Begin()
		b.Policy(Sized(30, 80))
		b.End()
		b.Begin()
		b.Policy(Sized(60, 20))
		b.End()
		b.End()
	})

	e := newTestEngine(t)
	size, diags := e.Measure(s, root, Loose())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	// Union bounding box of children placed at the origin.
	if size != (ui.Size{W: 60, H: 80}) {
		t.Errorf("root size = %v, want {60 80}", size)
	}
	for _, child := range s.Children(root) {
		if off := s.LocalOffset(child); off != (ui.Point{}) {
			t.Errorf("default rule child offset = %v, want origin", off)
		}
	}
}

func TestFixedResolvesRegardlessOfSpace(t *testing.T) {
	s, root := buildTree(t, func(b *tree.Builder) {
		b.Begin()
		b.End()
	})

	e := newTestEngine(t)
	size, _ := e.Measure(s, root, ui.Exact(123, 45))
	if size != (ui.Size{W: 123, H: 45}) {
		t.Errorf("size = %v, want {123 45}", size)
	}
}

func TestFillResolvesToAvailable(t *testing.T) {
	s, root := buildTree(t, func(b *tree.Builder) {
		b.Begin()
		b.Begin() // fill child
		b.End()
		b.End()
	})

	// Child inherits the parent's Fill constraint via the default rule;
	// the root budget is the window size.
	e := newTestEngine(t)
	child := s.Children(root)[0]

	_, _ = e.Measure(s, root, ui.Constraint{Width: ui.Fill(), Height: ui.Fill()})
	// Unbounded fill at the root has no budget.
	if sz, _ := s.Size(child); sz != (ui.Size{}) {
		t.Errorf("unbounded fill child size = %v, want zero", sz)
	}

	s2, root2 := buildTree(t, func(b *tree.Builder) {
		b.Begin()
		b.Begin()
		b.End()
		b.End()
	})
	child2 := s2.Children(root2)[0]
	_, _ = e.Measure(s2, root2, ui.Constraint{Width: ui.FillMax(200), Height: ui.FillMax(100)})
	if sz, _ := s2.Size(child2); sz != (ui.Size{W: 200, H: 100}) {
		t.Errorf("bounded fill child size = %v, want {200 100}", sz)
	}
}

func TestRowScenario(t *testing.T) {
	// Three 50x50 leaves in a wrap-content row: parent is 150x50 and
	// children sit at x offsets 0, 50, 100.
	s, root := buildTree(t, func(b *tree.Builder) {
		b.Begin()
		b.Policy(Row(0))
		for range 3 {
			b.Begin()
			b.Policy(Sized(50, 50))
			b.End()
		}
		b.End()
	})

	e := newTestEngine(t)
	size, diags := e.Measure(s, root, Loose())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if size != (ui.Size{W: 150, H: 50}) {
		t.Fatalf("row size = %v, want {150 50}", size)
	}

	wantX := []float64{0, 50, 100}
	for i, child := range s.Children(root) {
		off := s.LocalOffset(child)
		if off.X != wantX[i] || off.Y != 0 {
			t.Errorf("child %d offset = %v, want {%v 0}", i, off, wantX[i])
		}
	}
}

func TestColumnWithGap(t *testing.T) {
	s, root := buildTree(t, func(b *tree.Builder) {
		b.Begin()
		b.Policy(Column(10))
		b.Begin()
		b.Policy(Sized(20, 30))
		b.End()
		b.Begin()
		b.Policy(Sized(40, 30))
		b.End()
		b.End()
	})

	e := newTestEngine(t)
	size, _ := e.Measure(s, root, Loose())
	if size != (ui.Size{W: 40, H: 70}) {
		t.Errorf("column size = %v, want {40 70}", size)
	}
	kids := s.Children(root)
	if off := s.LocalOffset(kids[1]); off.Y != 40 {
		t.Errorf("second child y = %v, want 40", off.Y)
	}
}

func TestMeasureIdempotent(t *testing.T) {
	s, root := buildTree(t, func(b *tree.Builder) {
		b.Begin()
		b.Policy(Row(5))
		for i := range 8 {
			b.Begin()
			b.Policy(Sized(float64(10+i), 20))
			b.End()
		}
		b.End()
	})

	e := newTestEngine(t)
	c := ui.Constraint{Width: ui.Wrap(), Height: ui.WrapMax(15)}

	first, _ := e.Measure(s, root, c)
	e.Place(s, root, ui.Point{}, 1)
	firstPos := make(map[tree.NodeID]ui.Point)
	s.Walk(root, func(id tree.NodeID) bool {
		pos, _ := s.Position(id)
		firstPos[id] = pos
		return true
	})

	second, _ := e.Measure(s, root, c)
	e.Place(s, root, ui.Point{}, 1)

	if first != second {
		t.Errorf("sizes differ across runs: %v vs %v", first, second)
	}
	s.Walk(root, func(id tree.NodeID) bool {
		pos, _ := s.Position(id)
		if pos != firstPos[id] {
			t.Errorf("node %d position differs across runs: %v vs %v", id, firstPos[id], pos)
		}
		return true
	})
}

func TestMeasurementErrorZeroSizesSubtree(t *testing.T) {
	boom := errors.New("conflicting fixed constraints")

	s, root := buildTree(t, func(b *tree.Builder) {
		b.Begin()
		b.Policy(Row(0))
		b.Begin() // failing child with its own subtree
		b.Policy(ui.PolicyFunc(func(ui.Constraint, ui.Measurable) (ui.PolicyResult, error) {
			return ui.PolicyResult{}, boom
		}))
		b.Begin()
		b.End()
		b.End()
		b.Begin() // healthy sibling
		b.Policy(Sized(50, 50))
		b.End()
		b.End()
	})

	e := newTestEngine(t)
	size, diags := e.Measure(s, root, Loose())

	kids := s.Children(root)
	if sz, _ := s.Size(kids[0]); sz != (ui.Size{}) {
		t.Errorf("failed child size = %v, want zero", sz)
	}
	if !s.Failed(kids[0]) {
		t.Error("failed child not marked")
	}
	if sz, _ := s.Size(kids[1]); sz != (ui.Size{W: 50, H: 50}) {
		t.Errorf("sibling size = %v, want {50 50}; siblings must be unaffected", sz)
	}
	if size != (ui.Size{W: 50, H: 50}) {
		t.Errorf("root size = %v, want {50 50}", size)
	}

	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if diags[0].Node != kids[0] {
		t.Errorf("diagnostic node = %v, want %v", diags[0].Node, kids[0])
	}
	if !errors.Is(diags[0], boom) {
		t.Errorf("diagnostic does not wrap policy error: %v", diags[0])
	}
}

func TestPlaceDerivesAbsolutePositionsAndClips(t *testing.T) {
	s, root := buildTree(t, func(b *tree.Builder) {
		b.Begin()
		b.Policy(Sized(100, 100))
		b.Begin()
		b.Policy(ui.PolicyFunc(func(c ui.Constraint, ch ui.Measurable) (ui.PolicyResult, error) {
			ch.MeasureAll(Loose())
			return ui.PolicyResult{
				Size:    ui.Size{W: 80, H: 80},
				Offsets: []ui.Point{{X: 60, Y: 60}},
			}, nil
		}))
		b.Begin()
		b.Policy(Sized(50, 50))
		b.End()
		b.End()
		b.End()
	})

	e := newTestEngine(t)
	if _, diags := e.Measure(s, root, Loose()); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	e.Place(s, root, ui.Point{X: 10, Y: 10}, 1)

	mid := s.Children(root)[0]
	leaf := s.Children(mid)[0]

	// mid offset defaults to origin; grandchild offset is (60,60).
	pos, ok := s.Position(leaf)
	if !ok {
		t.Fatal("leaf not placed")
	}
	if pos != (ui.Point{X: 70, Y: 70}) {
		t.Errorf("leaf position = %v, want {70 70}", pos)
	}

	// The leaf extends to 120 but mid's bounds end at 90 (10+80): the
	// clip is the intersection with ancestor bounds.
	wantClip := ui.Rect{X: 70, Y: 70, W: 20, H: 20}
	if got := s.Clip(leaf); got != wantClip {
		t.Errorf("leaf clip = %v, want %v", got, wantClip)
	}
}

func TestPlaceHiDPIBounds(t *testing.T) {
	s, root := buildTree(t, func(b *tree.Builder) {
		b.Begin()
		b.Policy(Sized(100, 50))
		b.End()
	})

	e := newTestEngine(t)
	e.Measure(s, root, Loose())
	e.Place(s, root, ui.Point{}, 2)

	if got := s.Bounds(root); got != (ui.Rect{X: 0, Y: 0, W: 200, H: 100}) {
		t.Errorf("bounds at 2x = %v, want {0 0 200 100}", got)
	}
}

func TestWideTreeParallelMeasure(t *testing.T) {
	// Enough siblings to exercise the pool; verifies deterministic
	// per-child results regardless of completion order.
	const n = 200

	s, root := buildTree(t, func(b *tree.Builder) {
		b.Begin()
		b.Policy(Row(0))
		for i := range n {
			b.Begin()
			b.Policy(Sized(float64(i%17+1), 10))
			b.End()
		}
		b.End()
	})

	e := newTestEngine(t)
	var want float64
	for i := range n {
		want += float64(i%17 + 1)
	}

	size, diags := e.Measure(s, root, Loose())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if size.W != want || size.H != 10 {
		t.Errorf("size = %v, want {%v 10}", size, want)
	}
}

func BenchmarkMeasureWideTree(b *testing.B) {
	s := tree.NewStore()
	bl := tree.NewBuilder(s)
	bl.Begin()
	bl.Policy(Row(0))
	for range 512 {
		bl.Begin()
		bl.Policy(Sized(10, 10))
		bl.End()
	}
	bl.End()
	root, err := bl.Finish()
	if err != nil {
		b.Fatal(err)
	}

	e := NewEngine()
	defer e.Close()

	b.ResetTimer()
	for range b.N {
		e.Measure(s, root, Loose())
	}
}
