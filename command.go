package ui

// CommandKind is the stable identifier routing a command to its pipeline.
// Kinds are registered once at startup (see render.Registry) following the
// database/sql driver pattern; dispatch at frame time is a single map probe.
type CommandKind string

// CommandPhase distinguishes draw work from compute work.
type CommandPhase uint8

const (
	// PhaseDraw commands are issued inside a render pass.
	PhaseDraw CommandPhase = iota

	// PhaseCompute commands are issued as compute dispatches.
	PhaseCompute
)

// String returns the string representation of a CommandPhase.
func (p CommandPhase) String() string {
	switch p {
	case PhaseDraw:
		return "Draw"
	case PhaseCompute:
		return "Compute"
	}
	return "Unknown"
}

// BarrierClass classifies a command's need to read already-rendered pixels.
type BarrierClass uint8

const (
	// BarrierNone means the command never samples the rendered scene.
	BarrierNone BarrierClass = iota

	// BarrierGlobal means the command samples the full previously-rendered
	// scene and requires a fresh scene snapshot.
	BarrierGlobal

	// BarrierPaddedLocal means the command samples only its own bounding
	// box expanded by a padding margin.
	BarrierPaddedLocal

	// BarrierAbsolute means the command samples an explicit screen region
	// independent of its own bounds.
	BarrierAbsolute
)

// barrierClassNames maps BarrierClass values to their string representation.
var barrierClassNames = [...]string{
	BarrierNone:        "None",
	BarrierGlobal:      "Global",
	BarrierPaddedLocal: "PaddedLocal",
	BarrierAbsolute:    "Absolute",
}

// String returns the string representation of a BarrierClass.
func (c BarrierClass) String() string {
	if int(c) < len(barrierClassNames) {
		return barrierClassNames[c]
	}
	return "Unknown"
}

// Barrier is a command's declared scene-sampling requirement. The zero
// value is BarrierNone.
type Barrier struct {
	// Class selects the barrier variant.
	Class BarrierClass

	// Padding expands the command's bounding box, in physical pixels.
	// Only meaningful for BarrierPaddedLocal.
	Padding int

	// Region is the sampled screen region in physical pixels.
	// Only meaningful for BarrierAbsolute.
	Region Rect
}

// NoBarrier returns a Barrier that requires no scene access.
func NoBarrier() Barrier { return Barrier{} }

// GlobalBarrier returns a Barrier requiring the full rendered scene.
func GlobalBarrier() Barrier { return Barrier{Class: BarrierGlobal} }

// PaddedBarrier returns a Barrier sampling the command's own bounds
// expanded by pad pixels.
func PaddedBarrier(pad int) Barrier {
	if pad < 0 {
		pad = 0
	}
	return Barrier{Class: BarrierPaddedLocal, Padding: pad}
}

// RegionBarrier returns a Barrier sampling an explicit screen region.
func RegionBarrier(region Rect) Barrier {
	return Barrier{Class: BarrierAbsolute, Region: region}
}

// SamplesScene reports whether the barrier reads previously-rendered pixels.
func (b Barrier) SamplesScene() bool {
	return b.Class != BarrierNone
}

// Command is a single unit of visual or compute work attached to a node.
// Commands are produced fresh each frame during tree construction and are
// immutable once collected.
//
// Concrete command types live with their pipelines; this package only
// needs the routing and scheduling facets.
type Command interface {
	// Kind returns the registry key routing this command to its pipeline.
	Kind() CommandKind

	// Phase reports whether the command draws or computes.
	Phase() CommandPhase

	// Barrier returns the command's scene-sampling requirement.
	Barrier() Barrier
}
