package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/render"
)

func TestRegisteredByName(t *testing.T) {
	b, err := render.NewBackend(BackendName)
	if err != nil {
		t.Fatalf("NewBackend(%q) failed: %v", BackendName, err)
	}
	if b.Name() != BackendName {
		t.Errorf("Name() = %q, want %q", b.Name(), BackendName)
	}
}

func TestInitRejectsHandleWithoutHAL(t *testing.T) {
	b := New()
	err := b.Init(render.NullDeviceHandle{})
	if !errors.Is(err, ErrNoHALDevice) {
		t.Errorf("Init with null handle: got %v, want ErrNoHALDevice", err)
	}
}

func TestUsedBeforeInit(t *testing.T) {
	b := New()
	if err := b.Resize(100, 100); !errors.Is(err, render.ErrNotInitialized) {
		t.Errorf("Resize before Init: got %v, want ErrNotInitialized", err)
	}
	if err := b.RefreshScene(ui.Rect{}); !errors.Is(err, render.ErrNotInitialized) {
		t.Errorf("RefreshScene before Init: got %v, want ErrNotInitialized", err)
	}
	if _, err := b.BeginPass(ui.PhaseDraw, ui.Rect{}); !errors.Is(err, render.ErrNotInitialized) {
		t.Errorf("BeginPass before Init: got %v, want ErrNotInitialized", err)
	}
	if b.Target() != nil {
		t.Error("Target before Init should be nil")
	}
	if b.Scene() != nil {
		t.Error("Scene before Init should be nil")
	}
}

func TestFlushWithoutEncodingIsNoOp(t *testing.T) {
	b := New()
	if err := b.Flush(); err != nil {
		t.Errorf("Flush with no recorded work: %v", err)
	}
}

func TestDiscardResetsFrameState(t *testing.T) {
	b := New()
	b.frameCleared = true
	b.Discard()
	if b.frameCleared {
		t.Error("Discard should reset frameCleared")
	}
	if b.encoding || b.encoder != nil {
		t.Error("Discard should leave no open encoder")
	}
	// The next frame must be free to record from scratch.
	if err := b.Flush(); err != nil {
		t.Errorf("Flush after Discard: %v", err)
	}
}

func TestPassAccessors(t *testing.T) {
	p := &Pass{phase: ui.PhaseDraw, scissor: ui.Rect{X: 0, Y: 0, W: 10, H: 10}}
	if p.Phase() != ui.PhaseDraw {
		t.Errorf("Phase() = %v, want PhaseDraw", p.Phase())
	}
	p.SetScissor(ui.Rect{X: 2, Y: 2, W: 4, H: 4})
	if got := p.Scissor(); got != (ui.Rect{X: 2, Y: 2, W: 4, H: 4}) {
		t.Errorf("Scissor() = %v after SetScissor", got)
	}
	if p.RenderPass() != nil || p.ComputePass() != nil {
		t.Error("encoders on a bare pass should be nil")
	}
}
