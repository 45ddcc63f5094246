// Package ui provides the per-frame core of a retained-tree UI framework
// for the GoGPU ecosystem.
//
// # Overview
//
// ui turns a tree of component nodes into concrete sizes and positions for
// every node, and compiles the nodes' draw/compute commands into a minimal
// sequence of GPU passes. It contains no widgets and no shaders; those live
// in higher layers that consume this package.
//
// # Architecture
//
// The module is organized into:
//   - tree: node arena and tree builder (identity, topology, per-frame metadata)
//   - layout: constraint model and the two-phase measure/place engine
//   - render: pipeline registry, barrier-aware batch scheduler, GPU seam
//   - frame: the per-frame executor tying the above together
//   - backend/software, backend/wgpu: backend implementations of the GPU seam
//
// The root package holds the shared vocabulary: geometry (Point, Size, Rect),
// the Command/Barrier types exchanged between tree and render, and the
// module-wide logger.
//
// # Quick Start
//
//	backend, _ := render.NewBackend("software")
//	_ = backend.Init(render.NullDeviceHandle{})
//	_ = backend.Resize(800, 600)
//
//	ex := frame.New(backend)
//	defer ex.Close()
//
//	diags, err := ex.Frame(func(b *tree.Builder) {
//		b.Begin()
//		// ... declare children, attach commands ...
//		b.End()
//	}, ui.Exact(800, 600))
//
// # Coordinate System
//
// Measurement works in device-independent pixels (float64). Placement
// resolves to integer physical pixels using the frame's scale factor.
// Origin (0,0) is top-left; X increases right, Y increases down.
package ui

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"
)
