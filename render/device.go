// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (the windowing layer, or a framework like gogpu.App)
// implements DeviceHandle and passes it to a Backend at Init time. The
// backend RECEIVES the device from the host, it does not create one, so
// GPU resources are shared with whatever else the host renders.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, keeping full
// compatibility with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// TextureView is a bindable view into a texture. Pipelines receive the
// scene-snapshot view through it during Issue and must not retain it
// past the call.
type TextureView interface {
	// Destroy releases resources associated with this view.
	Destroy()
}

// NullDeviceHandle is a DeviceHandle with nil implementations, for
// CPU-only backends where no GPU device exists.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo returns unknown adapter metadata for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
