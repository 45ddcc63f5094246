package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ui/render"
)

// textureView wraps a HAL texture view behind render.TextureView.
// Pipelines reach the raw handle through the Raw method.
type textureView struct {
	device hal.Device
	raw    hal.TextureView
}

// Raw returns the underlying HAL view for bind group creation.
func (v *textureView) Raw() hal.TextureView {
	return v.raw
}

// Destroy releases the view.
func (v *textureView) Destroy() {
	if v.raw != nil {
		v.device.DestroyTextureView(v.raw)
		v.raw = nil
	}
}

// Target is a GPU render target: one HAL texture with its default view.
// It backs both the frame target and the scene snapshot.
type Target struct {
	device hal.Device
	tex    hal.Texture
	view   *textureView
	width  int
	height int
	format gputypes.TextureFormat
}

// newTarget creates a texture and its default view.
func newTarget(device hal.Device, label string, width, height int, format gputypes.TextureFormat, usage gputypes.TextureUsage) (*Target, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s texture: %w", label, err)
	}

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: label + "_view",
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create %s view: %w", label, err)
	}

	return &Target{
		device: device,
		tex:    tex,
		view:   &textureView{device: device, raw: view},
		width:  width,
		height: height,
		format: format,
	}, nil
}

// Width returns the target width in pixels.
func (t *Target) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *Target) Height() int { return t.height }

// Format returns the pixel format.
func (t *Target) Format() gputypes.TextureFormat { return t.format }

// View returns the default texture view.
func (t *Target) View() render.TextureView { return t.view }

// Pixels returns nil; GPU targets have no CPU-side pixel access.
func (t *Target) Pixels() []byte { return nil }

// Raw returns the underlying HAL texture for copies and barriers.
func (t *Target) Raw() hal.Texture { return t.tex }

// destroy releases the view and texture.
func (t *Target) destroy() {
	if t.view != nil {
		t.view.Destroy()
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

var _ render.RenderTarget = (*Target)(nil)
var _ render.TextureView = (*textureView)(nil)
