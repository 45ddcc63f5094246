// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render turns a frame's paint-ordered instruction list into the
// fewest GPU passes that draw it correctly.
//
// The package has three parts:
//
//   - A pipeline registry mapping each command kind to the Pipeline that
//     draws or computes it. Registration happens once at startup; frame
//     dispatch is a map lookup.
//   - A barrier-aware scheduler that groups instructions into batches.
//     A batch is one GPU pass; a new batch is opened only when a command
//     needs a fresh copy of the scene rendered so far (blur and similar
//     backdrop effects) or when merging would reorder overlapping
//     elements.
//   - The Backend interface abstracting the GPU capabilities the frame
//     executor needs: targets, scene-snapshot copies, scissored passes
//     and surface-loss reporting. Concrete backends live under backend/
//     and register themselves by name.
//
// Scheduling is deterministic: the same instruction sequence always
// produces the same batches.
package render
