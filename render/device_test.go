// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

func TestNullDeviceHandleIsADeviceProvider(t *testing.T) {
	var h DeviceHandle = NullDeviceHandle{}

	if h.Device() != nil {
		t.Error("Device() should be nil")
	}
	if h.Queue() != nil {
		t.Error("Queue() should be nil")
	}
	if h.Adapter() != nil {
		t.Error("Adapter() should be nil")
	}
	if got := h.SurfaceFormat(); got != gputypes.TextureFormatUndefined {
		t.Errorf("SurfaceFormat() = %v, want Undefined", got)
	}
	if got := h.AdapterInfo().Type; got != gpucontext.AdapterTypeUnknown {
		t.Errorf("AdapterInfo().Type = %v, want Unknown", got)
	}
}
