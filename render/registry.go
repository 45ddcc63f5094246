// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/ui"
)

// BackendFactory is a function that creates a new backend instance.
// Factories are registered via RegisterBackend() and called by NewBackend().
type BackendFactory func() Backend

// Registry state - protected by mutexes for thread-safe access.
var (
	pipelineMu sync.RWMutex
	pipelines  = make(map[ui.CommandKind]Pipeline)

	backendMu sync.RWMutex
	backends  = make(map[string]BackendFactory)
)

// Register associates a pipeline with its command kind. This is
// typically called from init() in pipeline packages, following the
// database/sql driver pattern:
//
//	func init() {
//	    render.Register(NewBlurPipeline())
//	}
//
// Register panics if:
//   - pipeline is nil
//   - a pipeline for the same kind is already registered
//
// This ensures duplicate registrations are caught during program
// initialization rather than silently overwriting pipelines.
func Register(p Pipeline) {
	pipelineMu.Lock()
	defer pipelineMu.Unlock()

	if p == nil {
		panic("render: Register pipeline is nil")
	}
	kind := p.Kind()
	if _, dup := pipelines[kind]; dup {
		panic("render: Register called twice for kind " + string(kind))
	}
	pipelines[kind] = p
}

// Unregister removes a pipeline from the registry.
// This is primarily useful for testing to clean up between tests.
// If the kind is not registered, this is a no-op.
func Unregister(kind ui.CommandKind) {
	pipelineMu.Lock()
	defer pipelineMu.Unlock()
	delete(pipelines, kind)
}

// Dispatch resolves the pipeline for a command's kind. O(1); the kind is
// the key, there is no type scan.
//
// A miss here is a configuration error: call Validate at startup so
// every kind collected at frame time is guaranteed to resolve.
func Dispatch(cmd ui.Command) (Pipeline, error) {
	pipelineMu.RLock()
	p, ok := pipelines[cmd.Kind()]
	pipelineMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("render: no pipeline registered for kind %q (forgotten import?)", cmd.Kind())
	}
	return p, nil
}

// Validate checks that every given command kind has a registered
// pipeline. Call it once at startup with the kinds the application
// emits; an error here is fatal configuration, not a frame-time
// condition.
func Validate(kinds ...ui.CommandKind) error {
	pipelineMu.RLock()
	defer pipelineMu.RUnlock()

	for _, kind := range kinds {
		if _, ok := pipelines[kind]; !ok {
			return fmt.Errorf("render: no pipeline registered for kind %q (forgotten import?)", kind)
		}
	}
	return nil
}

// Kinds returns a sorted list of registered command kinds.
func Kinds() []ui.CommandKind {
	pipelineMu.RLock()
	defer pipelineMu.RUnlock()

	out := make([]ui.CommandKind, 0, len(pipelines))
	for kind := range pipelines {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RegisterBackend registers a backend factory with the given name.
// Backend packages call this from init().
//
// RegisterBackend panics if factory is nil or the name is already taken.
func RegisterBackend(name string, factory BackendFactory) {
	backendMu.Lock()
	defer backendMu.Unlock()

	if factory == nil {
		panic("render: RegisterBackend factory is nil")
	}
	if _, dup := backends[name]; dup {
		panic("render: RegisterBackend called twice for " + name)
	}
	backends[name] = factory
}

// NewBackend creates a backend instance by name. The name must match a
// previously registered backend:
//
//	import _ "github.com/gogpu/ui/backend/wgpu" // register wgpu backend
//
//	b, err := render.NewBackend("wgpu")
func NewBackend(name string) (Backend, error) {
	backendMu.RLock()
	factory, ok := backends[name]
	backendMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("render: unknown backend %q (forgotten import?): %w", name, ErrBackendNotAvailable)
	}
	return factory(), nil
}

// Backends returns a sorted list of registered backend names.
func Backends() []string {
	backendMu.RLock()
	defer backendMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
