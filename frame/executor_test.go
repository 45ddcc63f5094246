package frame

import (
	"errors"
	"testing"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/layout"
	"github.com/gogpu/ui/render"
	"github.com/gogpu/ui/tree"
)

// testCommand is a minimal command for executor tests.
type testCommand struct {
	kind    ui.CommandKind
	phase   ui.CommandPhase
	barrier ui.Barrier
}

func (c testCommand) Kind() ui.CommandKind   { return c.kind }
func (c testCommand) Phase() ui.CommandPhase { return c.phase }
func (c testCommand) Barrier() ui.Barrier    { return c.barrier }

// mockPipeline records Prepare/Issue calls.
type mockPipeline struct {
	kind     ui.CommandKind
	prepared [][]render.Instruction
	issued   []render.Instruction
	scenes   []render.TextureView
}

func (p *mockPipeline) Kind() ui.CommandKind    { return p.kind }
func (p *mockPipeline) Access() ui.BarrierClass { return ui.BarrierNone }

func (p *mockPipeline) Prepare(instrs []render.Instruction) error {
	p.prepared = append(p.prepared, instrs)
	return nil
}

func (p *mockPipeline) Issue(pass render.Pass, in render.Instruction, scene render.TextureView) error {
	p.issued = append(p.issued, in)
	p.scenes = append(p.scenes, scene)
	return nil
}

func registerPipeline(t *testing.T, kind ui.CommandKind) *mockPipeline {
	t.Helper()
	p := &mockPipeline{kind: kind}
	render.Register(p)
	t.Cleanup(func() { render.Unregister(kind) })
	return p
}

// mockPass implements render.Pass.
type mockPass struct {
	phase   ui.CommandPhase
	scissor ui.Rect
}

func (p *mockPass) Phase() ui.CommandPhase { return p.phase }
func (p *mockPass) SetScissor(r ui.Rect)   { p.scissor = r }

// mockBackend implements render.Backend and records the frame's GPU
// traffic.
type mockBackend struct {
	refreshes  []ui.Rect
	passes     []*mockPass
	ended      int
	flushes    int
	discards   int
	refreshErr error
}

func (b *mockBackend) Name() string                   { return "mock" }
func (b *mockBackend) Init(render.DeviceHandle) error { return nil }
func (b *mockBackend) Close()                         {}
func (b *mockBackend) Resize(int, int) error          { return nil }
func (b *mockBackend) Target() render.RenderTarget    { return nil }
func (b *mockBackend) Scene() render.RenderTarget     { return nil }
func (b *mockBackend) EndPass(render.Pass) error      { b.ended++; return nil }
func (b *mockBackend) Flush() error                   { b.flushes++; return nil }
func (b *mockBackend) Discard()                       { b.discards++ }

func (b *mockBackend) RefreshScene(region ui.Rect) error {
	if b.refreshErr != nil {
		return b.refreshErr
	}
	b.refreshes = append(b.refreshes, region)
	return nil
}

func (b *mockBackend) BeginPass(phase ui.CommandPhase, scissor ui.Rect) (render.Pass, error) {
	p := &mockPass{phase: phase, scissor: scissor}
	b.passes = append(b.passes, p)
	return p, nil
}

func TestFrameIssuesInPaintOrder(t *testing.T) {
	pipe := registerPipeline(t, "frame-fill")
	backend := &mockBackend{}
	e := New(backend)
	defer e.Close()

	_, err := e.Frame(func(b *tree.Builder) {
		b.Begin()
		b.Policy(layout.Row(0))
		for range 3 {
			b.Begin()
			b.Policy(layout.Sized(50, 50))
			b.Draw(testCommand{kind: "frame-fill", barrier: ui.NoBarrier()})
			b.End()
		}
		b.End()
	}, ui.Exact(200, 100))
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	if len(pipe.prepared) != 1 || len(pipe.prepared[0]) != 3 {
		t.Errorf("Prepare calls = %v, want one call with 3 instructions", len(pipe.prepared))
	}
	if len(pipe.issued) != 3 {
		t.Fatalf("issued %d instructions, want 3", len(pipe.issued))
	}
	for i, in := range pipe.issued {
		if in.Index != i {
			t.Errorf("issue %d has paint index %d", i, in.Index)
		}
	}
	if backend.flushes != 1 {
		t.Errorf("flushes = %d, want 1", backend.flushes)
	}
	if len(backend.passes) != 1 {
		t.Errorf("passes = %d, want 1", len(backend.passes))
	}
}

func TestIdleFramesSkipSubmission(t *testing.T) {
	backend := &mockBackend{}
	e := New(backend)
	defer e.Close()

	empty := func(b *tree.Builder) {
		b.Begin()
		b.Policy(layout.Sized(100, 100))
		b.End()
	}

	if _, err := e.Frame(empty, ui.Exact(100, 100)); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if _, err := e.Frame(empty, ui.Exact(100, 100)); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if backend.flushes != 0 {
		t.Errorf("flushes = %d, want 0 for command-free unchanged frames", backend.flushes)
	}
}

func TestGlobalBarrierRefreshesScene(t *testing.T) {
	registerPipeline(t, "frame-blur")
	backend := &mockBackend{}
	e := New(backend)
	defer e.Close()

	_, err := e.Frame(func(b *tree.Builder) {
		b.Begin()
		b.Policy(layout.Sized(100, 100))
		b.Draw(testCommand{kind: "frame-blur", barrier: ui.GlobalBarrier()})
		b.End()
	}, ui.Exact(100, 100))
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	if len(backend.refreshes) != 1 {
		t.Fatalf("refreshes = %d, want 1", len(backend.refreshes))
	}
	if !backend.refreshes[0].Empty() {
		t.Errorf("global refresh region = %v, want full scene", backend.refreshes[0])
	}
}

func TestSurfaceLostAbortsFrame(t *testing.T) {
	registerPipeline(t, "frame-blur2")
	backend := &mockBackend{refreshErr: render.ErrSurfaceLost}
	e := New(backend)
	defer e.Close()

	_, err := e.Frame(func(b *tree.Builder) {
		b.Begin()
		b.Policy(layout.Sized(100, 100))
		b.Draw(testCommand{kind: "frame-blur2", barrier: ui.GlobalBarrier()})
		b.End()
	}, ui.Exact(100, 100))
	if !errors.Is(err, render.ErrSurfaceLost) {
		t.Fatalf("err = %v, want ErrSurfaceLost", err)
	}
	if backend.flushes != 0 {
		t.Errorf("aborted frame must not flush, got %d", backend.flushes)
	}
	if backend.discards != 1 {
		t.Errorf("aborted frame must discard its recorded work, discards = %d", backend.discards)
	}

	// The store is reset next frame regardless; a healthy backend
	// renders the retried frame.
	backend.refreshErr = nil
	if _, err := e.Frame(func(b *tree.Builder) {
		b.Begin()
		b.Policy(layout.Sized(100, 100))
		b.Draw(testCommand{kind: "frame-blur2", barrier: ui.GlobalBarrier()})
		b.End()
	}, ui.Exact(100, 100)); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if backend.flushes != 1 {
		t.Errorf("flushes after retry = %d, want 1", backend.flushes)
	}
}

func TestFailedSubtreeEmitsNothing(t *testing.T) {
	pipe := registerPipeline(t, "frame-fill2")
	backend := &mockBackend{}
	e := New(backend)
	defer e.Close()

	boom := errors.New("conflicting fixed constraints")
	diags, err := e.Frame(func(b *tree.Builder) {
		b.Begin()
		b.Policy(layout.Row(0))
		b.Begin()
		b.Policy(ui.PolicyFunc(func(ui.Constraint, ui.Measurable) (ui.PolicyResult, error) {
			return ui.PolicyResult{}, boom
		}))
		b.Draw(testCommand{kind: "frame-fill2", barrier: ui.NoBarrier()})
		b.End()
		b.Begin()
		b.Policy(layout.Sized(50, 50))
		b.Draw(testCommand{kind: "frame-fill2", barrier: ui.NoBarrier()})
		b.End()
		b.End()
	}, ui.Exact(200, 100))
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	if len(diags) != 1 || !errors.Is(diags[0], boom) {
		t.Fatalf("diags = %v, want one wrapping the policy error", diags)
	}
	if len(pipe.issued) != 1 {
		t.Errorf("issued %d instructions, want 1 (failed subtree excluded)", len(pipe.issued))
	}
}

func TestInputRunsBeforeCollection(t *testing.T) {
	pipe := registerPipeline(t, "frame-hover")
	backend := &mockBackend{}
	e := New(backend)
	defer e.Close()

	store := e.Store()
	_, err := e.Frame(func(b *tree.Builder) {
		b.Begin()
		b.Policy(layout.Sized(100, 100))
		id := b.Current()
		b.OnInput(func(bounds ui.Rect) {
			// State mutated by input affects this frame's commands.
			store.AppendDraw(id, testCommand{kind: "frame-hover", barrier: ui.NoBarrier()})
		})
		b.End()
	}, ui.Exact(100, 100))
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	if len(pipe.issued) != 1 {
		t.Errorf("issued %d instructions, want the input-appended draw", len(pipe.issued))
	}
}

func TestBuildErrorFailsFrame(t *testing.T) {
	backend := &mockBackend{}
	e := New(backend)
	defer e.Close()

	_, err := e.Frame(func(b *tree.Builder) {
		b.Begin() // never closed
	}, ui.Exact(100, 100))
	if !errors.Is(err, tree.ErrUnclosedScope) {
		t.Errorf("err = %v, want ErrUnclosedScope", err)
	}
}
