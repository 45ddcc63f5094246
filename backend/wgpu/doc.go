// Package wgpu provides the GPU render backend over gogpu/wgpu.
//
// The backend implements render.Backend on top of the wgpu HAL: the
// render target and the scene snapshot are HAL textures, batches become
// scissored render or compute passes recorded into one command encoder
// per frame, and Flush submits the encoded frame and drains the queue.
//
// The GPU device is not created here. The host passes a
// render.DeviceHandle to Init; when the handle also exposes the shared
// HAL device and queue (HalDevice()/HalQueue(), as gogpu providers do),
// the backend renders on them. A handle without HAL access fails Init.
//
// Importing the package registers it under the name "wgpu":
//
//	import _ "github.com/gogpu/ui/backend/wgpu"
//
//	b, err := render.NewBackend("wgpu")
package wgpu
