// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides a CPU render backend over image.RGBA.
//
// It exists for headless rendering and tests: no GPU device is needed,
// pipelines draw straight into pixel memory. Importing the package
// registers it under the name "software":
//
//	import _ "github.com/gogpu/ui/backend/software"
//
//	b, err := render.NewBackend("software")
package software

import (
	"image"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/render"
)

// BackendName is the registry name of this backend.
const BackendName = "software"

func init() {
	render.RegisterBackend(BackendName, func() render.Backend {
		return New()
	})
}

// Backend is a CPU implementation of render.Backend. The render target
// and the scene snapshot are plain RGBA images; RefreshScene is a pixel
// copy between them.
type Backend struct {
	initialized  bool
	target       *pixmap
	scene        *pixmap
	frameStarted bool
}

// New creates an uninitialized software backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return BackendName
}

// Init prepares the backend. The device handle is ignored; CPU
// rendering needs no GPU device.
func (b *Backend) Init(render.DeviceHandle) error {
	b.initialized = true
	return nil
}

// Close releases the backend's images.
func (b *Backend) Close() {
	b.target = nil
	b.scene = nil
	b.initialized = false
	b.frameStarted = false
}

// Resize allocates the target and snapshot images at the given
// physical-pixel size.
func (b *Backend) Resize(width, height int) error {
	if !b.initialized {
		return render.ErrNotInitialized
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	b.target = newPixmap(width, height)
	b.scene = newPixmap(width, height)
	return nil
}

// Target returns the render target.
func (b *Backend) Target() render.RenderTarget {
	if b.target == nil {
		return nil
	}
	return b.target
}

// Scene returns the snapshot target.
func (b *Backend) Scene() render.RenderTarget {
	if b.scene == nil {
		return nil
	}
	return b.scene
}

// RefreshScene copies region from the target into the snapshot. An
// empty region copies the full target.
func (b *Backend) RefreshScene(region ui.Rect) error {
	if b.target == nil || b.scene == nil {
		return render.ErrNotInitialized
	}
	r := b.target.img.Bounds()
	if !region.Empty() {
		r = r.Intersect(image.Rect(region.X, region.Y, region.MaxX(), region.MaxY()))
	}
	xdraw.Copy(b.scene.img, r.Min, b.target.img, r, xdraw.Src, nil)
	return nil
}

// BeginPass opens a CPU pass. Compute-phase commands are legal but a
// CPU "dispatch" is just a function call, so both phases share the same
// pass type. The first pass of a frame clears the target so no pixels
// from the previous frame survive.
func (b *Backend) BeginPass(phase ui.CommandPhase, scissor ui.Rect) (render.Pass, error) {
	if b.target == nil {
		return nil, render.ErrNotInitialized
	}
	if !b.frameStarted {
		clear(b.target.img.Pix)
		b.frameStarted = true
	}
	if scissor.Empty() {
		scissor = ui.Rect{X: 0, Y: 0, W: b.target.Width(), H: b.target.Height()}
	}
	return &Pass{phase: phase, scissor: scissor, canvas: b.target.img, scene: b.scene.img}, nil
}

// EndPass closes a pass. CPU work is synchronous, there is nothing to
// finalize.
func (b *Backend) EndPass(p render.Pass) error {
	if _, ok := p.(*Pass); !ok {
		return render.ErrNotInitialized
	}
	return nil
}

// Flush ends the frame. Every pass already wrote its pixels; only the
// per-frame clear state needs resetting.
func (b *Backend) Flush() error {
	b.frameStarted = false
	return nil
}

// Discard aborts the frame. Pixels written by the aborted frame's
// passes stay in the target until the next frame's first pass clears
// them.
func (b *Backend) Discard() {
	b.frameStarted = false
}

// Image exposes the rendered frame for tests and image output.
func (b *Backend) Image() *image.RGBA {
	if b.target == nil {
		return nil
	}
	return b.target.img
}

// Pass is the CPU pass handle. Pipelines type-assert render.Pass to
// *software.Pass and draw into Canvas, honoring Scissor.
type Pass struct {
	phase   ui.CommandPhase
	scissor ui.Rect
	canvas  *image.RGBA
	scene   *image.RGBA
}

// Phase reports the pass phase.
func (p *Pass) Phase() ui.CommandPhase {
	return p.phase
}

// SetScissor narrows the pass scissor.
func (p *Pass) SetScissor(r ui.Rect) {
	p.scissor = r
}

// Scissor returns the active scissor rectangle.
func (p *Pass) Scissor() ui.Rect {
	return p.scissor
}

// Canvas returns the writable frame pixels.
func (p *Pass) Canvas() *image.RGBA {
	return p.canvas
}

// Scene returns the snapshot pixels for scene-sampling pipelines. The
// snapshot has no GPU texture view, so CPU pipelines read it here.
func (p *Pass) Scene() *image.RGBA {
	return p.scene
}

// pixmap is a CPU render target.
type pixmap struct {
	img *image.RGBA
}

func newPixmap(width, height int) *pixmap {
	return &pixmap{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Width returns the target width in pixels.
func (p *pixmap) Width() int {
	return p.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (p *pixmap) Height() int {
	return p.img.Bounds().Dy()
}

// Format returns the pixel format.
func (p *pixmap) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// View returns nil; the software target has no GPU texture.
func (p *pixmap) View() render.TextureView {
	return nil
}

// Pixels returns the raw RGBA pixel data.
func (p *pixmap) Pixels() []byte {
	return p.img.Pix
}

var _ render.Backend = (*Backend)(nil)
var _ render.RenderTarget = (*pixmap)(nil)
