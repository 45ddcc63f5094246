package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/render"
)

// BackendName is the registry name of this backend.
const BackendName = "wgpu"

func init() {
	render.RegisterBackend(BackendName, func() render.Backend {
		return New()
	})
}

// Backend-specific errors.
var (
	// ErrNoHALDevice is returned by Init when the device handle does not
	// expose a shared HAL device and queue.
	ErrNoHALDevice = errors.New("wgpu: device handle does not expose a HAL device")
)

// Backend is the GPU implementation of render.Backend. It records the
// whole frame into one HAL command encoder: snapshot copies, render
// passes and compute passes, submitted together by Flush.
type Backend struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	width, height int
	target        *Target
	snapshot      *Target

	encoder      hal.CommandEncoder
	encoding     bool
	frameCleared bool
}

// New creates an uninitialized wgpu backend.
func New() *Backend {
	return &Backend{format: gputypes.TextureFormatBGRA8Unorm}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return BackendName
}

// Init adopts the host's shared HAL device and queue. The handle must
// expose HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue, as gogpu device providers do.
func (b *Backend) Init(handle render.DeviceHandle) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := handle.(halProvider)
	if !ok {
		return ErrNoHALDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: HalDevice is %T", ErrNoHALDevice, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("%w: HalQueue is %T", ErrNoHALDevice, hp.HalQueue())
	}

	if f := handle.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		b.format = f
	}
	b.device = device
	b.queue = queue

	info := handle.AdapterInfo()
	ui.Logger().Info("wgpu: backend initialized",
		"adapter", info.Name,
		"adapter_type", info.Type.String(),
		"format", b.format)
	return nil
}

// Close releases textures and any open encoder.
func (b *Backend) Close() {
	b.Discard()
	b.destroyTargets()
	b.device = nil
	b.queue = nil
}

func (b *Backend) destroyTargets() {
	if b.target != nil {
		b.target.destroy()
		b.target = nil
	}
	if b.snapshot != nil {
		b.snapshot.destroy()
		b.snapshot = nil
	}
	b.width, b.height = 0, 0
}

// Resize recreates the target and snapshot textures at the given
// physical-pixel size. A no-op when the size is unchanged.
func (b *Backend) Resize(width, height int) error {
	if b.device == nil {
		return render.ErrNotInitialized
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width == b.width && height == b.height && b.target != nil {
		return nil
	}
	b.destroyTargets()

	target, err := newTarget(b.device, "ui_target", width, height, b.format,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc)
	if err != nil {
		return err
	}
	snapshot, err := newTarget(b.device, "ui_snapshot", width, height, b.format,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		target.destroy()
		return err
	}

	b.target = target
	b.snapshot = snapshot
	b.width, b.height = width, height
	return nil
}

// Target returns the frame render target.
func (b *Backend) Target() render.RenderTarget {
	if b.target == nil {
		return nil
	}
	return b.target
}

// Scene returns the snapshot target sampled by barrier pipelines.
func (b *Backend) Scene() render.RenderTarget {
	if b.snapshot == nil {
		return nil
	}
	return b.snapshot
}

// ensureEncoder lazily opens the frame's command encoder.
func (b *Backend) ensureEncoder() (hal.CommandEncoder, error) {
	if b.encoding {
		return b.encoder, nil
	}
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "ui_frame",
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("ui_frame"); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	b.encoder = encoder
	b.encoding = true
	return encoder, nil
}

// RefreshScene copies region from the render target into the snapshot
// texture. An empty region copies the full target. The copy is recorded
// into the frame encoder and executes in submission order, after every
// pass recorded before it.
func (b *Backend) RefreshScene(region ui.Rect) error {
	if b.device == nil || b.target == nil {
		return render.ErrNotInitialized
	}

	full := ui.Rect{X: 0, Y: 0, W: b.width, H: b.height}
	if region.Empty() {
		region = full
	} else {
		region = region.Intersect(full)
		if region.Empty() {
			return nil
		}
	}

	encoder, err := b.ensureEncoder()
	if err != nil {
		return err
	}

	// The target was last written as a render attachment; the snapshot
	// was last sampled. Move both into copy layouts.
	encoder.TransitionTextures([]hal.TextureBarrier{
		{
			Texture: b.target.Raw(),
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageRenderAttachment,
				NewUsage: gputypes.TextureUsageCopySrc,
			},
		},
		{
			Texture: b.snapshot.Raw(),
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageTextureBinding,
				NewUsage: gputypes.TextureUsageCopyDst,
			},
		},
	})

	origin := hal.Origin3D{X: uint32(region.X), Y: uint32(region.Y), Z: 0}
	encoder.CopyTextureToTexture(b.target.Raw(), b.snapshot.Raw(), []hal.TextureCopy{{
		SrcBase: hal.ImageCopyTexture{Texture: b.target.Raw(), MipLevel: 0, Origin: origin},
		DstBase: hal.ImageCopyTexture{Texture: b.snapshot.Raw(), MipLevel: 0, Origin: origin},
		Size: hal.Extent3D{
			Width:              uint32(region.W),
			Height:             uint32(region.H),
			DepthOrArrayLayers: 1,
		},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{
		{
			Texture: b.target.Raw(),
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageCopySrc,
				NewUsage: gputypes.TextureUsageRenderAttachment,
			},
		},
		{
			Texture: b.snapshot.Raw(),
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageCopyDst,
				NewUsage: gputypes.TextureUsageTextureBinding,
			},
		},
	})
	return nil
}

// BeginPass opens a scissored pass over the render target. The first
// draw pass of a frame clears the target; later ones load it.
func (b *Backend) BeginPass(phase ui.CommandPhase, scissor ui.Rect) (render.Pass, error) {
	if b.device == nil || b.target == nil {
		return nil, render.ErrNotInitialized
	}
	encoder, err := b.ensureEncoder()
	if err != nil {
		return nil, err
	}
	full := ui.Rect{X: 0, Y: 0, W: b.width, H: b.height}
	if scissor.Empty() {
		scissor = full
	} else {
		scissor = scissor.Intersect(full)
	}

	if phase == ui.PhaseCompute {
		cp := encoder.BeginComputePass(&hal.ComputePassDescriptor{
			Label: "ui_compute_batch",
		})
		return &Pass{phase: phase, scissor: scissor, compute: cp}, nil
	}

	loadOp := gputypes.LoadOpLoad
	if !b.frameCleared {
		loadOp = gputypes.LoadOpClear
		b.frameCleared = true
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "ui_draw_batch",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       b.target.view.Raw(),
			LoadOp:     loadOp,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	p := &Pass{phase: phase, render: rp}
	p.SetScissor(scissor)
	return p, nil
}

// EndPass closes a pass opened by BeginPass.
func (b *Backend) EndPass(p render.Pass) error {
	gp, ok := p.(*Pass)
	if !ok {
		return fmt.Errorf("wgpu: foreign pass %T", p)
	}
	if gp.render != nil {
		gp.render.End()
		gp.render = nil
	}
	if gp.compute != nil {
		gp.compute.End()
		gp.compute = nil
	}
	return nil
}

// Flush submits the frame's command buffer and waits for the GPU.
func (b *Backend) Flush() error {
	b.frameCleared = false
	if !b.encoding {
		return nil
	}
	encoder := b.encoder
	b.encoder = nil
	b.encoding = false

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}

	if _, err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	// The command buffer can only be recycled once the GPU is done with
	// it, and the executor reads back no fences, so drain the queue here.
	if err := b.device.WaitIdle(); err != nil {
		return fmt.Errorf("wgpu: wait for GPU: %w", err)
	}
	b.device.FreeCommandBuffer(cmdBuf)
	return nil
}

// Discard drops the frame's recorded work without submitting it.
func (b *Backend) Discard() {
	b.frameCleared = false
	if !b.encoding {
		return
	}
	b.encoder.DiscardEncoding()
	b.encoder = nil
	b.encoding = false
}

// Pass is the GPU pass handle. Pipelines assert render.Pass to
// *wgpu.Pass and record onto the HAL pass encoders directly.
type Pass struct {
	phase   ui.CommandPhase
	scissor ui.Rect

	render  hal.RenderPassEncoder
	compute hal.ComputePassEncoder
}

// Phase reports the pass phase.
func (p *Pass) Phase() ui.CommandPhase {
	return p.phase
}

// SetScissor narrows the pass scissor. Render passes record it as a
// scissor rect; compute passes carry it as data for pipelines to clamp
// their dispatch regions.
func (p *Pass) SetScissor(r ui.Rect) {
	p.scissor = r
	if p.render != nil && !r.Empty() {
		p.render.SetScissorRect(uint32(r.X), uint32(r.Y), uint32(r.W), uint32(r.H))
	}
}

// Scissor returns the active scissor rectangle.
func (p *Pass) Scissor() ui.Rect {
	return p.scissor
}

// RenderPass returns the HAL render pass encoder, nil for compute
// passes.
func (p *Pass) RenderPass() hal.RenderPassEncoder {
	return p.render
}

// ComputePass returns the HAL compute pass encoder, nil for draw
// passes.
func (p *Pass) ComputePass() hal.ComputePassEncoder {
	return p.compute
}

var _ render.Backend = (*Backend)(nil)
var _ render.Pass = (*Pass)(nil)
