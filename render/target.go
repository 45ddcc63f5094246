// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ui"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("render: backend not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("render: backend not initialized")

	// ErrSurfaceLost is returned when the render target has been lost and
	// must be recreated. The frame is aborted and retried on the next tick.
	ErrSurfaceLost = errors.New("render: surface lost")

	// ErrSurfaceOutdated is returned when the render target no longer
	// matches the window (resize in flight). The frame is aborted and
	// retried on the next tick.
	ErrSurfaceOutdated = errors.New("render: surface outdated")
)

// RenderTarget is where a frame's output goes: the window surface or an
// offscreen texture. Targets may be GPU-backed (View), CPU-backed
// (Pixels), or both.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// View returns the GPU texture view for this target.
	// Returns nil for CPU-only targets.
	View() TextureView

	// Pixels returns direct access to pixel data.
	// Returns nil for GPU-only targets.
	Pixels() []byte
}

// Pass is one open GPU pass executing a batch. A Pass is created by
// Backend.BeginPass, handed to each pipeline's Issue call, and closed by
// Backend.EndPass. Pipelines may type-assert the concrete backend pass
// for direct encoder access.
type Pass interface {
	// Phase reports whether this is a draw or a compute pass.
	Phase() ui.CommandPhase

	// SetScissor restricts subsequent work to r. Backends without
	// sub-pass scissoring ignore calls after the first.
	SetScissor(r ui.Rect)
}

// Backend abstracts the GPU capabilities the frame executor needs:
// create and resize a render target, copy a region of the rendered scene
// into a snapshot texture, open scissored draw/compute passes, and
// report surface-lost conditions.
//
// A Backend is owned by a single frame executor and is not safe for
// concurrent use; GPU submission is serial per surface.
type Backend interface {
	// Name returns the backend identifier (e.g. "software", "wgpu").
	Name() string

	// Init prepares the backend using the host-provided device.
	Init(handle DeviceHandle) error

	// Close releases all backend resources. The backend must not be
	// used after Close.
	Close()

	// Resize sets the render target size in physical pixels, recreating
	// the target and snapshot textures as needed.
	Resize(width, height int) error

	// Target returns the current render target.
	Target() RenderTarget

	// Scene returns the scene-snapshot target sampled by barrier
	// pipelines. Its contents are defined only after RefreshScene.
	Scene() RenderTarget

	// RefreshScene copies region from the render target into the scene
	// snapshot. An empty region means the full target. Returns
	// ErrSurfaceLost or ErrSurfaceOutdated when the target is gone.
	RefreshScene(region ui.Rect) error

	// BeginPass opens a pass of the given phase clipped to scissor.
	// An empty scissor means the full target.
	BeginPass(phase ui.CommandPhase, scissor ui.Rect) (Pass, error)

	// EndPass closes a pass opened by BeginPass.
	EndPass(p Pass) error

	// Flush submits all encoded work for the frame.
	Flush() error

	// Discard drops all work recorded since the last Flush without
	// submitting it. Called when a frame is aborted mid-encoding so the
	// aborted frame's passes never reach the GPU.
	Discard()
}
